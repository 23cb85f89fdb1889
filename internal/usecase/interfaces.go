package usecase

import (
	"context"

	"github.com/MarceloRDPJ/funila-app/internal/entity"
)

type TenantRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*entity.Tenant, error)
}

type FunnelMetricsRepositoryInterface interface {
	IncrementStep(ctx context.Context, tenantID, creative string, step int) error
	IncrementCompleted(ctx context.Context, tenantID, creative string) error
	IncrementConversion(ctx context.Context, tenantID, creative string) error
}

type ResponseRepositoryInterface interface {
	// SaveResponses grava só as chaves reconhecidas no catálogo de campos
	// e devolve quantas entraram.
	SaveResponses(ctx context.Context, leadID string, answers map[string]string) (int, error)
}

type EventRepositoryInterface interface {
	Record(ctx context.Context, ev *entity.LeadEvent) error
}

// RegistryClient é a consulta gratuita de existência de CPF (BrasilAPI).
type RegistryClient interface {
	Exists(ctx context.Context, taxID string) bool
}

// CreditScoreClient é o provedor pago de score. Configured() falso
// significa "pula a camada em silêncio".
type CreditScoreClient interface {
	Configured() bool
	Score(ctx context.Context, taxID string) (*int, error)
}

// EnrichmentService dispara a cascata de enriquecimento. Nunca retorna
// erro ao agendador: toda falha de camada morre logada lá dentro.
type EnrichmentService interface {
	Enrich(ctx context.Context, leadID, taxID, tenantID string)
}

// NotifierInterface entrega o evento aos webhooks do tenant.
type NotifierInterface interface {
	Notify(ctx context.Context, kind string, lead *entity.Lead)
}

type AlertSender interface {
	SendLeadAlert(to, leadName, leadPhone string, score int) error
}

// TaxIDCipher criptografa o CPF antes de qualquer escrita no banco.
type TaxIDCipher interface {
	EncryptTaxID(raw string) (string, error)
}

// TaskRunner agenda trabalho fire-and-forget depois da resposta.
// Contrato: erro/panic dentro da tarefa é capturado e logado, jamais
// devolvido a quem agendou.
type TaskRunner interface {
	Go(name string, fn func(ctx context.Context) error)
}
