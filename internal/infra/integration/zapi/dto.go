package zapi

type phoneExistsResponse struct {
	Exists bool `json:"exists"`
}

type profilePictureResponse struct {
	Link string `json:"link"`
}
