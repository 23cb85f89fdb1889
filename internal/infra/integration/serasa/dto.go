package serasa

// scoreResponse é o corpo da consulta. Score ausente no JSON fica nil,
// e nil nunca pontua.
type scoreResponse struct {
	Score *int `json:"score"`
}
