package entity

import "errors"

var ErrTenantNotFound = errors.New("cliente não encontrado")

// Plan é o tier de assinatura do tenant. Só pro/agency destravam
// a consulta de score pago.
type Plan string

const (
	PlanSolo   Plan = "solo"
	PlanPro    Plan = "pro"
	PlanAgency Plan = "agency"
)

func (p Plan) Paid() bool {
	return p == PlanPro || p == PlanAgency
}

// Tenant é o dono da conta: quem recebe os leads, os alertas e os webhooks.
type Tenant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Plan     Plan   `json:"plan"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`

	// Credenciais Z-API próprias do tenant. Vazias = usa a instância global.
	ZAPIInstanceID string `json:"-"`
	ZAPIToken      string `json:"-"`

	Active bool `json:"active"`
}
