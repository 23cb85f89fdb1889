package usecase

// UTMData são as tags de atribuição capturadas no clique.
type UTMData struct {
	Source   string `json:"utm_source,omitempty"`
	Medium   string `json:"utm_medium,omitempty"`
	Campaign string `json:"utm_campaign,omitempty"`
	Content  string `json:"utm_content,omitempty"`
	Term     string `json:"utm_term,omitempty"`
}

type SavePartialInput struct {
	TenantID  string `json:"client_id"`
	LinkID    string `json:"link_id,omitempty"`
	LeadID    string `json:"lead_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"cpf,omitempty"`
	StepLabel string `json:"last_step,omitempty"` // ex: "step_2"
	UTM       UTMData `json:"utm_data"`
}

type SavePartialOutput struct {
	LeadID string `json:"lead_id"`
}

type SubmitLeadInput struct {
	TenantID     string         `json:"client_id"`
	LinkID       string         `json:"link_id,omitempty"`
	LeadID       string         `json:"lead_id,omitempty"`
	FormData     map[string]any `json:"form_data"`
	UTM          UTMData        `json:"utm_data"`
	ConsentGiven bool           `json:"consent_given"`
}

type SubmitLeadOutput struct {
	Status       string `json:"status"`
	Score        int    `json:"score"`
	LeadID       string `json:"lead_id"`
	WhatsAppLink string `json:"whatsapp_link"`
}

type UpdateLeadStatusInput struct {
	TenantID string `json:"client_id"`
	LeadID   string `json:"lead_id"`
	Status   string `json:"status"`
}
