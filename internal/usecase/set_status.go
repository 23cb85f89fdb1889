package usecase

import (
	"context"
	"errors"

	"github.com/MarceloRDPJ/funila-app/internal/entity"
)

// UpdateLeadStatusUseCase move o lead no kanban. Transição para
// converted é a única que o pipeline nunca faz sozinho.
type UpdateLeadStatusUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
	Metrics  FunnelMetricsRepositoryInterface
	Notifier NotifierInterface
	Tasks    TaskRunner
}

func NewUpdateLeadStatusUseCase(
	leadRepo entity.LeadRepositoryInterface,
	metrics FunnelMetricsRepositoryInterface,
	notifier NotifierInterface,
	tasks TaskRunner,
) *UpdateLeadStatusUseCase {
	return &UpdateLeadStatusUseCase{
		LeadRepo: leadRepo,
		Metrics:  metrics,
		Notifier: notifier,
		Tasks:    tasks,
	}
}

func (uc *UpdateLeadStatusUseCase) Execute(ctx context.Context, input UpdateLeadStatusInput) (*entity.Lead, error) {
	if !entity.IsValidStatus(input.Status) {
		return nil, &DomainError{Code: "INVALID_STATUS", Message: "status inválido: " + input.Status}
	}

	lead, err := uc.LeadRepo.FindByID(ctx, input.TenantID, input.LeadID)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "falha ao carregar lead: " + err.Error()}
	}

	if err := uc.LeadRepo.UpdateStatus(ctx, input.TenantID, input.LeadID, input.Status); err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "falha ao atualizar status: " + err.Error()}
	}
	lead.Status = input.Status

	if input.Status == entity.StatusConverted && lead.UTMContent != "" {
		tenantID, creative := input.TenantID, lead.UTMContent
		uc.Tasks.Go("funnel-conversion", func(ctx context.Context) error {
			return uc.Metrics.IncrementConversion(ctx, tenantID, creative)
		})
	}

	uc.Tasks.Go("notify-webhooks", func(ctx context.Context) error {
		uc.Notifier.Notify(ctx, entity.EventStatusChanged, lead)
		return nil
	})

	return lead, nil
}
