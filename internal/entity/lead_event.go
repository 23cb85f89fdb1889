package entity

import "time"

// LeadEvent é o registro de auditoria de uma ação do pipeline
// (ex: "submitted"). Efêmero para os assinantes, durável para o painel.
type LeadEvent struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"client_id"`
	LeadID    string    `json:"lead_id"`
	Kind      string    `json:"kind"`
	Score     int       `json:"score"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
