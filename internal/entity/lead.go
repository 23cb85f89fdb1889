package entity

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrLeadNotFound = errors.New("lead não encontrado")

// Status do funil. cold/warm/hot são derivados do score no submit;
// converted só entra por ação explícita no kanban, nunca pelo pipeline.
const (
	StatusStarted   = "started"
	StatusCold      = "cold"
	StatusWarm      = "warm"
	StatusHot       = "hot"
	StatusConverted = "converted"
)

// StepCompleted é o sentinela de "formulário completo" em step_reached.
const StepCompleted = 99

func IsValidStatus(s string) bool {
	switch s {
	case StatusCold, StatusWarm, StatusHot, StatusConverted:
		return true
	}
	return false
}

// WhatsAppMeta é preenchido pela camada assíncrona de validação de telefone.
// Pode chegar muito depois da resposta HTTP ter sido enviada.
type WhatsAppMeta struct {
	Valid      bool      `json:"valid"`
	ProfilePic string    `json:"profile_pic,omitempty"`
	VerifiedAt time.Time `json:"verified_at"`
	Provider   string    `json:"provider"`
}

type Lead struct {
	ID       string `json:"id"`
	TenantID string `json:"client_id"`
	LinkID   string `json:"link_id,omitempty"`

	Name         string `json:"name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	CPFEncrypted string `json:"-"` // nunca sai em JSON, nunca em claro no banco

	UTMSource   string `json:"utm_source,omitempty"`
	UTMMedium   string `json:"utm_medium,omitempty"`
	UTMCampaign string `json:"utm_campaign,omitempty"`
	UTMContent  string `json:"utm_content,omitempty"`
	UTMTerm     string `json:"utm_term,omitempty"`

	StepReached  int  `json:"step_reached"`
	ConsentGiven bool `json:"consent_given"`

	InternalScore int    `json:"internal_score"`
	ExternalScore int    `json:"external_score"`
	SerasaScore   *int   `json:"serasa_score,omitempty"`
	Status        string `json:"status"`

	PublicAPIData json.RawMessage `json:"public_api_data,omitempty"`
	WhatsAppMeta  *WhatsAppMeta   `json:"whatsapp_meta,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLead cria um lead recém iniciado (captura parcial ou submit sem id prévio).
func NewLead(tenantID, linkID string) *Lead {
	now := time.Now()
	return &Lead{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		LinkID:    linkID,
		Status:    StatusStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// LeadPatch é uma atualização parcial: campo nil = não tocar.
// É assim que enriquecimento e captura parcial convivem sem se atropelar.
type LeadPatch struct {
	Name         *string
	Phone        *string
	CPFEncrypted *string
	LinkID       *string

	UTMSource   *string
	UTMMedium   *string
	UTMCampaign *string
	UTMContent  *string
	UTMTerm     *string

	StepReached  *int // aplicado com GREATEST: nunca regride
	ConsentGiven *bool

	InternalScore *int
	ExternalScore *int
	SerasaScore   *int
	Status        *string

	PublicAPIData json.RawMessage
	WhatsAppMeta  *WhatsAppMeta
}

func (p LeadPatch) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.CPFEncrypted == nil && p.LinkID == nil &&
		p.UTMSource == nil && p.UTMMedium == nil && p.UTMCampaign == nil &&
		p.UTMContent == nil && p.UTMTerm == nil &&
		p.StepReached == nil && p.ConsentGiven == nil &&
		p.InternalScore == nil && p.ExternalScore == nil && p.SerasaScore == nil &&
		p.Status == nil && p.PublicAPIData == nil && p.WhatsAppMeta == nil
}

type LeadRepositoryInterface interface {
	Insert(ctx context.Context, lead *Lead) error
	// Patch aplica só os campos presentes e devolve se alguma linha foi afetada.
	Patch(ctx context.Context, tenantID, leadID string, patch LeadPatch) (bool, error)
	FindByID(ctx context.Context, tenantID, leadID string) (*Lead, error)
	UpdateStatus(ctx context.Context, tenantID, leadID, status string) error
}
