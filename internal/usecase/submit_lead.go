package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/MarceloRDPJ/funila-app/internal/entity"
	"github.com/MarceloRDPJ/funila-app/internal/scoring"
)

// SubmitLeadUseCase processa o envio final do formulário: pontua,
// classifica, persiste e dispara todo o fan-out. A resposta HTTP só
// espera a escrita do lead; o resto é agendado.
type SubmitLeadUseCase struct {
	LeadRepo     entity.LeadRepositoryInterface
	TenantRepo   TenantRepositoryInterface
	ResponseRepo ResponseRepositoryInterface
	EventRepo    EventRepositoryInterface
	Metrics      FunnelMetricsRepositoryInterface
	Cipher       TaxIDCipher
	Registry     RegistryClient
	Credit       CreditScoreClient
	Enricher     EnrichmentService
	Notifier     NotifierInterface
	Alerts       AlertSender
	Tasks        TaskRunner
}

func NewSubmitLeadUseCase(
	leadRepo entity.LeadRepositoryInterface,
	tenantRepo TenantRepositoryInterface,
	responseRepo ResponseRepositoryInterface,
	eventRepo EventRepositoryInterface,
	metrics FunnelMetricsRepositoryInterface,
	cipher TaxIDCipher,
	registry RegistryClient,
	credit CreditScoreClient,
	enricher EnrichmentService,
	notifier NotifierInterface,
	alerts AlertSender,
	tasks TaskRunner,
) *SubmitLeadUseCase {
	return &SubmitLeadUseCase{
		LeadRepo:     leadRepo,
		TenantRepo:   tenantRepo,
		ResponseRepo: responseRepo,
		EventRepo:    eventRepo,
		Metrics:      metrics,
		Cipher:       cipher,
		Registry:     registry,
		Credit:       credit,
		Enricher:     enricher,
		Notifier:     notifier,
		Alerts:       alerts,
		Tasks:        tasks,
	}
}

func (uc *SubmitLeadUseCase) Execute(ctx context.Context, input SubmitLeadInput) (*SubmitLeadOutput, error) {
	if !input.ConsentGiven {
		return nil, &DomainError{Code: "CONSENT_REQUIRED", Message: "consentimento LGPD é obrigatório para enviar o formulário"}
	}
	if errs := ValidateSubmitLeadInput(input); len(errs) > 0 {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: joinValidationErrors(errs)}
	}

	tenant, err := uc.TenantRepo.FindByID(ctx, input.TenantID)
	if err != nil {
		if errors.Is(err, entity.ErrTenantNotFound) {
			return nil, entity.ErrTenantNotFound
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "falha ao carregar cliente: " + err.Error()}
	}

	answers := flattenAnswers(input.FormData)
	taxID := answers[scoring.AnswerTaxID]

	var cpfEncrypted string
	if taxID != "" {
		enc, err := uc.Cipher.EncryptTaxID(taxID)
		if err != nil {
			return nil, &TechnicalError{Code: "ENCRYPTION_ERROR", Message: "falha ao criptografar CPF: " + err.Error()}
		}
		cpfEncrypted = enc
	}

	// Contexto de enriquecimento síncrono: o que o score externo precisa
	// agora, dentro dos timeouts dos provedores (5s registro, 8s serasa).
	sctx := uc.gatherScoringContext(ctx, taxID, tenant.Plan)

	result := scoring.Score(answers, sctx, tenant.Plan)
	total := result.Total()
	status := scoring.Classify(total)

	contactLink := BuildContactLink(tenant.WhatsApp, answers)

	lead, eventKind, err := uc.upsertLead(ctx, input, answers, cpfEncrypted, result, status)
	if err != nil {
		return nil, err
	}

	uc.scheduleFanOut(input, tenant, lead, answers, taxID, total, status, eventKind)

	return &SubmitLeadOutput{
		Status:       "success",
		Score:        total,
		LeadID:       lead.ID,
		WhatsAppLink: contactLink,
	}, nil
}

func (uc *SubmitLeadUseCase) gatherScoringContext(ctx context.Context, taxID string, plan entity.Plan) scoring.Context {
	sctx := scoring.Context{}
	if taxID == "" {
		return sctx
	}

	sctx.TaxIDValid = uc.Registry.Exists(ctx, taxID)

	if sctx.TaxIDValid && plan.Paid() && uc.Credit.Configured() {
		score, err := uc.Credit.Score(ctx, taxID)
		if err != nil {
			log.Printf("⚠️ Serasa indisponível no submit, seguindo sem score pago: %v", err)
		} else {
			sctx.CreditScore = score
		}
	}

	return sctx
}

func (uc *SubmitLeadUseCase) upsertLead(
	ctx context.Context,
	input SubmitLeadInput,
	answers map[string]string,
	cpfEncrypted string,
	result scoring.Result,
	status string,
) (*entity.Lead, string, error) {
	name := strings.TrimSpace(answers[scoring.AnswerName])
	phone := strings.TrimSpace(answers[scoring.AnswerPhone])
	consent := true
	stepDone := entity.StepCompleted

	if input.LeadID != "" {
		patch := entity.LeadPatch{
			ConsentGiven:  &consent,
			StepReached:   &stepDone,
			InternalScore: &result.Internal,
			ExternalScore: &result.External,
			SerasaScore:   result.Raw,
			Status:        &status,
		}
		if name != "" {
			patch.Name = &name
		}
		if phone != "" {
			patch.Phone = &phone
		}
		if cpfEncrypted != "" {
			patch.CPFEncrypted = &cpfEncrypted
		}
		if input.UTM.Content != "" {
			patch.UTMContent = &input.UTM.Content
		}
		if input.UTM.Term != "" {
			patch.UTMTerm = &input.UTM.Term
		}

		affected, err := uc.LeadRepo.Patch(ctx, input.TenantID, input.LeadID, patch)
		if err != nil {
			return nil, "", &TechnicalError{Code: "DATABASE_ERROR", Message: "falha ao atualizar lead: " + err.Error()}
		}
		if affected {
			// O fan-out carrega o registro gravado, não o payload da
			// requisição: um envio final sem nome/telefone herda o que a
			// captura parcial já salvou.
			stored, err := uc.LeadRepo.FindByID(ctx, input.TenantID, input.LeadID)
			if err != nil {
				log.Printf("⚠️ Lead %s atualizado mas releitura falhou, fan-out com dados da requisição: %v", input.LeadID, err)
				lead := uc.snapshotLead(input, answers, result, status)
				lead.ID = input.LeadID
				return lead, entity.EventLeadUpdated, nil
			}
			return stored, entity.EventLeadUpdated, nil
		}
		// lead_id veio mas não bateu: trata como criação nova.
	}

	lead := uc.snapshotLead(input, answers, result, status)
	lead.CPFEncrypted = cpfEncrypted
	if err := uc.LeadRepo.Insert(ctx, lead); err != nil {
		return nil, "", &TechnicalError{Code: "DATABASE_ERROR", Message: "falha ao salvar lead: " + err.Error()}
	}
	return lead, entity.EventLeadCreated, nil
}

func (uc *SubmitLeadUseCase) snapshotLead(
	input SubmitLeadInput,
	answers map[string]string,
	result scoring.Result,
	status string,
) *entity.Lead {
	lead := entity.NewLead(input.TenantID, input.LinkID)
	lead.Name = strings.TrimSpace(answers[scoring.AnswerName])
	lead.Phone = strings.TrimSpace(answers[scoring.AnswerPhone])
	lead.UTMSource = input.UTM.Source
	lead.UTMMedium = input.UTM.Medium
	lead.UTMCampaign = input.UTM.Campaign
	lead.UTMContent = input.UTM.Content
	lead.UTMTerm = input.UTM.Term
	lead.StepReached = entity.StepCompleted
	lead.ConsentGiven = true
	lead.InternalScore = result.Internal
	lead.ExternalScore = result.External
	lead.SerasaScore = result.Raw
	lead.Status = status
	return lead
}

func (uc *SubmitLeadUseCase) scheduleFanOut(
	input SubmitLeadInput,
	tenant *entity.Tenant,
	lead *entity.Lead,
	answers map[string]string,
	taxID string,
	total int,
	status, eventKind string,
) {
	leadID, tenantID := lead.ID, input.TenantID

	uc.Tasks.Go("save-responses", func(ctx context.Context) error {
		if _, err := uc.ResponseRepo.SaveResponses(ctx, leadID, answers); err != nil {
			return fmt.Errorf("respostas do formulário: %w", err)
		}
		return nil
	})

	uc.Tasks.Go("record-event", func(ctx context.Context) error {
		return uc.EventRepo.Record(ctx, &entity.LeadEvent{
			TenantID: tenantID,
			LeadID:   leadID,
			Kind:     "submitted",
			Score:    total,
			Status:   status,
		})
	})

	if input.UTM.Content != "" {
		creative := input.UTM.Content
		uc.Tasks.Go("funnel-completed", func(ctx context.Context) error {
			return uc.Metrics.IncrementCompleted(ctx, tenantID, creative)
		})
	}

	if taxID != "" {
		tid := taxID
		uc.Tasks.Go("enrichment", func(ctx context.Context) error {
			uc.Enricher.Enrich(ctx, leadID, tid, tenantID)
			return nil
		})
	}

	uc.Tasks.Go("notify-webhooks", func(ctx context.Context) error {
		uc.Notifier.Notify(ctx, eventKind, lead)
		return nil
	})

	if status == entity.StatusHot && tenant.Email != "" {
		to, name, phone := tenant.Email, lead.Name, lead.Phone
		uc.Tasks.Go("hot-lead-alert", func(ctx context.Context) error {
			return uc.Alerts.SendLeadAlert(to, name, phone, total)
		})
	}
}

// flattenAnswers achata o form_data do JSON para string/string.
// Checkbox vira "true"/"false", número vira texto, nil some.
func flattenAnswers(formData map[string]any) map[string]string {
	answers := make(map[string]string, len(formData))
	for key, value := range formData {
		if value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			answers[key] = v
		default:
			answers[key] = fmt.Sprint(v)
		}
	}
	return answers
}
