package mail

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type LeadAlertData struct {
	LeadName  string
	LeadPhone string
	Score     int
	PanelURL  string
}
