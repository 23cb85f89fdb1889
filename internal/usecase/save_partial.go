package usecase

import (
	"context"
	"fmt"

	"github.com/MarceloRDPJ/funila-app/internal/entity"
)

// SavePartialLeadUseCase captura o lead no meio do funil: o visitante
// ainda não terminou o formulário, mas nome + telefone já valem ouro.
type SavePartialLeadUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
	Cipher   TaxIDCipher
	Enricher EnrichmentService
	Metrics  FunnelMetricsRepositoryInterface
	Tasks    TaskRunner
}

func NewSavePartialLeadUseCase(
	leadRepo entity.LeadRepositoryInterface,
	cipher TaxIDCipher,
	enricher EnrichmentService,
	metrics FunnelMetricsRepositoryInterface,
	tasks TaskRunner,
) *SavePartialLeadUseCase {
	return &SavePartialLeadUseCase{
		LeadRepo: leadRepo,
		Cipher:   cipher,
		Enricher: enricher,
		Metrics:  metrics,
		Tasks:    tasks,
	}
}

func (uc *SavePartialLeadUseCase) Execute(ctx context.Context, input SavePartialInput) (*SavePartialOutput, error) {
	if errs := ValidateSavePartialInput(input); len(errs) > 0 {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: joinValidationErrors(errs)}
	}

	var cpfEncrypted string
	if input.TaxID != "" {
		enc, err := uc.Cipher.EncryptTaxID(input.TaxID)
		if err != nil {
			return nil, &TechnicalError{Code: "ENCRYPTION_ERROR", Message: "falha ao criptografar CPF: " + err.Error()}
		}
		cpfEncrypted = enc
	}

	step := parseStepLabel(input.StepLabel)

	leadID := input.LeadID
	if leadID == "" {
		lead := entity.NewLead(input.TenantID, input.LinkID)
		lead.Name = input.Name
		lead.Phone = input.Phone
		lead.CPFEncrypted = cpfEncrypted
		lead.UTMSource = input.UTM.Source
		lead.UTMMedium = input.UTM.Medium
		lead.UTMCampaign = input.UTM.Campaign
		lead.UTMContent = input.UTM.Content
		lead.UTMTerm = input.UTM.Term
		lead.StepReached = step

		if err := uc.LeadRepo.Insert(ctx, lead); err != nil {
			return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "falha ao salvar lead parcial: " + err.Error()}
		}
		leadID = lead.ID
	} else {
		// Upsert por campo: só o que veio no payload é tocado. Uma replay
		// com campos disjuntos resulta na união, nunca em perda.
		patch := entity.LeadPatch{}
		if input.Name != "" {
			patch.Name = &input.Name
		}
		if input.Phone != "" {
			patch.Phone = &input.Phone
		}
		if cpfEncrypted != "" {
			patch.CPFEncrypted = &cpfEncrypted
		}
		if input.LinkID != "" {
			patch.LinkID = &input.LinkID
		}
		if input.UTM.Source != "" {
			patch.UTMSource = &input.UTM.Source
		}
		if input.UTM.Medium != "" {
			patch.UTMMedium = &input.UTM.Medium
		}
		if input.UTM.Campaign != "" {
			patch.UTMCampaign = &input.UTM.Campaign
		}
		if input.UTM.Content != "" {
			patch.UTMContent = &input.UTM.Content
		}
		if input.UTM.Term != "" {
			patch.UTMTerm = &input.UTM.Term
		}
		if step > 0 {
			patch.StepReached = &step
		}

		affected, err := uc.LeadRepo.Patch(ctx, input.TenantID, leadID, patch)
		if err != nil {
			return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "falha ao atualizar lead parcial: " + err.Error()}
		}
		if !affected {
			return nil, &DomainError{Code: "LEAD_NOT_FOUND", Message: "lead_id desconhecido para este cliente"}
		}
	}

	// Tudo daqui pra baixo roda depois da resposta. A escrita síncrona
	// acima é a única garantia de durabilidade do endpoint.
	if input.TaxID != "" {
		taxID, tenantID, id := input.TaxID, input.TenantID, leadID
		uc.Tasks.Go("enrichment", func(ctx context.Context) error {
			uc.Enricher.Enrich(ctx, id, taxID, tenantID)
			return nil
		})
	}

	if step > 0 && input.UTM.Content != "" {
		tenantID, creative, s := input.TenantID, input.UTM.Content, step
		uc.Tasks.Go("funnel-step", func(ctx context.Context) error {
			if err := uc.Metrics.IncrementStep(ctx, tenantID, creative, s); err != nil {
				return fmt.Errorf("incremento de step por criativo: %w", err)
			}
			return nil
		})
	}

	return &SavePartialOutput{LeadID: leadID}, nil
}
