package entity

// Webhook é um endpoint inscrito pelo tenant para receber eventos de lead.
type Webhook struct {
	ID       string `json:"id"`
	TenantID string `json:"client_id"`
	URL      string `json:"url"`
	Active   bool   `json:"active"`
}

// Tipos de evento entregues aos assinantes.
const (
	EventLeadCreated   = "created"
	EventLeadUpdated   = "updated"
	EventStatusChanged = "status-changed"
)
