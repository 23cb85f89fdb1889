package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/MarceloRDPJ/funila-app/internal/entity"
	"github.com/MarceloRDPJ/funila-app/internal/infra/tasks"
	"github.com/MarceloRDPJ/funila-app/internal/usecase"
)

func newSubmitFixture() (*usecase.SubmitLeadUseCase, *MockLeadRepository, *MockTenantRepository, *MockResponseRepository, *MockEventRepository, *MockFunnelMetrics, *MockCipher, *MockRegistry, *MockCredit, *MockEnricher, *MockNotifier, *MockAlertSender) {
	leadRepo := new(MockLeadRepository)
	tenantRepo := new(MockTenantRepository)
	responseRepo := new(MockResponseRepository)
	eventRepo := new(MockEventRepository)
	metrics := new(MockFunnelMetrics)
	cipher := new(MockCipher)
	registry := new(MockRegistry)
	credit := new(MockCredit)
	enricher := new(MockEnricher)
	notifier := new(MockNotifier)
	alerts := new(MockAlertSender)

	uc := usecase.NewSubmitLeadUseCase(
		leadRepo, tenantRepo, responseRepo, eventRepo, metrics,
		cipher, registry, credit, enricher, notifier, alerts,
		tasks.InlineRunner{},
	)
	return uc, leadRepo, tenantRepo, responseRepo, eventRepo, metrics, cipher, registry, credit, enricher, notifier, alerts
}

// Formulário que fecha 85 pontos internos: >3 anos de CLT (+30), renda
// alta (+25), nunca tentou financiamento (+20), telefone (+10).
func hotFormData() map[string]any {
	return map[string]any{
		"full_name":         "Maria Souza",
		"phone":             "11988887777",
		"employment_status": "CLT",
		"clt_years":         "Mais de 3 anos",
		"income_range":      "Acima de R$ 5.000",
		"tried_financing":   "Não",
	}
}

func TestSubmitLead_ConsentRequired(t *testing.T) {
	uc, leadRepo, _, _, _, _, _, _, _, _, _, _ := newSubmitFixture()

	output, err := uc.Execute(context.Background(), usecase.SubmitLeadInput{
		TenantID:     "client-1",
		FormData:     hotFormData(),
		ConsentGiven: false,
	})

	assert.Nil(t, output)
	assert.True(t, usecase.IsDomainError(err))
	// Nada pode ter sido persistido sem consentimento LGPD.
	leadRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	leadRepo.AssertNotCalled(t, "Patch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitLead_TenantNotFound(t *testing.T) {
	uc, _, tenantRepo, _, _, _, _, _, _, _, _, _ := newSubmitFixture()

	tenantRepo.On("FindByID", mock.Anything, "ghost").Return(nil, entity.ErrTenantNotFound)

	output, err := uc.Execute(context.Background(), usecase.SubmitLeadInput{
		TenantID:     "ghost",
		FormData:     hotFormData(),
		ConsentGiven: true,
	})

	assert.Nil(t, output)
	assert.ErrorIs(t, err, entity.ErrTenantNotFound)
}

func TestSubmitLead_NewLeadHotPath(t *testing.T) {
	uc, leadRepo, tenantRepo, responseRepo, eventRepo, metrics, _, _, _, _, notifier, alerts := newSubmitFixture()

	tenant := &entity.Tenant{
		ID:       "client-1",
		Plan:     entity.PlanSolo,
		Email:    "dono@exemplo.com.br",
		WhatsApp: "5511999990000",
		Active:   true,
	}
	tenantRepo.On("FindByID", mock.Anything, "client-1").Return(tenant, nil)

	var savedLead *entity.Lead
	leadRepo.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		savedLead = args.Get(1).(*entity.Lead)
	}).Return(nil)

	responseRepo.On("SaveResponses", mock.Anything, mock.Anything, mock.Anything).Return(6, nil)
	eventRepo.On("Record", mock.Anything, mock.Anything).Return(nil)
	metrics.On("IncrementCompleted", mock.Anything, "client-1", "criativo-a").Return(nil)
	notifier.On("Notify", mock.Anything, entity.EventLeadCreated, mock.Anything).Return()
	alerts.On("SendLeadAlert", "dono@exemplo.com.br", "Maria Souza", "11988887777", mock.Anything).Return(nil)

	output, err := uc.Execute(context.Background(), usecase.SubmitLeadInput{
		TenantID:     "client-1",
		LinkID:       "link-1",
		FormData:     hotFormData(),
		UTM:          usecase.UTMData{Content: "criativo-a"},
		ConsentGiven: true,
	})

	assert.NoError(t, err)
	assert.Equal(t, "success", output.Status)
	assert.Equal(t, entity.StatusHot, savedLead.Status)
	assert.Equal(t, 85, savedLead.InternalScore)
	assert.Equal(t, entity.StepCompleted, savedLead.StepReached)
	assert.True(t, savedLead.ConsentGiven)
	assert.Contains(t, output.WhatsAppLink, "wa.me/5511999990000")
	assert.NotEmpty(t, output.LeadID)

	// Fan-out completo de lead quente: respostas, evento, funil, webhook, e-mail.
	responseRepo.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
	metrics.AssertExpectations(t)
	notifier.AssertExpectations(t)
	alerts.AssertExpectations(t)
}

func TestSubmitLead_ColdLeadNoAlert(t *testing.T) {
	uc, leadRepo, tenantRepo, responseRepo, eventRepo, _, _, _, _, _, notifier, alerts := newSubmitFixture()

	tenant := &entity.Tenant{ID: "client-1", Plan: entity.PlanSolo, Email: "dono@exemplo.com.br", WhatsApp: "5511999990000"}
	tenantRepo.On("FindByID", mock.Anything, "client-1").Return(tenant, nil)
	leadRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	responseRepo.On("SaveResponses", mock.Anything, mock.Anything, mock.Anything).Return(2, nil)
	eventRepo.On("Record", mock.Anything, mock.Anything).Return(nil)
	notifier.On("Notify", mock.Anything, entity.EventLeadCreated, mock.Anything).Return()

	output, err := uc.Execute(context.Background(), usecase.SubmitLeadInput{
		TenantID: "client-1",
		FormData: map[string]any{
			"full_name": "João Frio",
			"phone":     "11977776666",
		},
		ConsentGiven: true,
	})

	assert.NoError(t, err)
	// Só telefone pontua: 10 pontos = cold, e cold não manda e-mail.
	assert.Equal(t, 10, output.Score)
	alerts.AssertNotCalled(t, "SendLeadAlert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitLead_TaxIDNeverStoredPlaintext(t *testing.T) {
	uc, leadRepo, tenantRepo, responseRepo, eventRepo, _, cipher, registry, credit, enricher, notifier, _ := newSubmitFixture()

	tenant := &entity.Tenant{ID: "client-1", Plan: entity.PlanPro, WhatsApp: "5511999990000"}
	tenantRepo.On("FindByID", mock.Anything, "client-1").Return(tenant, nil)
	cipher.On("EncryptTaxID", "529.982.247-25").Return("enc:blob", nil)
	registry.On("Exists", mock.Anything, "529.982.247-25").Return(true)
	credit.On("Configured").Return(false)

	var savedLead *entity.Lead
	leadRepo.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		savedLead = args.Get(1).(*entity.Lead)
	}).Return(nil)
	responseRepo.On("SaveResponses", mock.Anything, mock.Anything, mock.Anything).Return(3, nil)
	eventRepo.On("Record", mock.Anything, mock.Anything).Return(nil)
	enricher.On("Enrich", mock.Anything, mock.Anything, "529.982.247-25", "client-1").Return()
	notifier.On("Notify", mock.Anything, entity.EventLeadCreated, mock.Anything).Return()

	form := map[string]any{
		"full_name": "Maria Souza",
		"phone":     "11988887777",
		"cpf":       "529.982.247-25",
	}

	output, err := uc.Execute(context.Background(), usecase.SubmitLeadInput{
		TenantID:     "client-1",
		FormData:     form,
		ConsentGiven: true,
	})

	assert.NoError(t, err)
	// O lead persistido carrega só o blob cifrado, nunca o CPF digitado.
	assert.Equal(t, "enc:blob", savedLead.CPFEncrypted)
	assert.NotContains(t, savedLead.CPFEncrypted, "529")
	// CPF válido soma +10 externos.
	assert.Equal(t, 10, savedLead.ExternalScore)
	assert.Equal(t, output.LeadID, savedLead.ID)
	enricher.AssertExpectations(t)
}

func TestSubmitLead_PaidPlanUsesCreditScore(t *testing.T) {
	uc, leadRepo, tenantRepo, responseRepo, eventRepo, metrics, cipher, registry, credit, enricher, notifier, alerts := newSubmitFixture()
	_ = metrics

	tenant := &entity.Tenant{ID: "client-1", Plan: entity.PlanAgency, Email: "dono@exemplo.com.br", WhatsApp: "5511999990000"}
	tenantRepo.On("FindByID", mock.Anything, "client-1").Return(tenant, nil)
	cipher.On("EncryptTaxID", "52998224725").Return("enc:blob", nil)
	registry.On("Exists", mock.Anything, "52998224725").Return(true)
	credit.On("Configured").Return(true)
	serasaScore := 750
	credit.On("Score", mock.Anything, "52998224725").Return(&serasaScore, nil)

	var savedLead *entity.Lead
	leadRepo.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		savedLead = args.Get(1).(*entity.Lead)
	}).Return(nil)
	responseRepo.On("SaveResponses", mock.Anything, mock.Anything, mock.Anything).Return(3, nil)
	eventRepo.On("Record", mock.Anything, mock.Anything).Return(nil)
	enricher.On("Enrich", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	notifier.On("Notify", mock.Anything, entity.EventLeadCreated, mock.Anything).Return()
	alerts.On("SendLeadAlert", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	output, err := uc.Execute(context.Background(), usecase.SubmitLeadInput{
		TenantID: "client-1",
		FormData: map[string]any{
			"full_name": "Maria Souza",
			"phone":     "11988887777",
			"cpf":       "52998224725",
		},
		ConsentGiven: true,
	})

	assert.NoError(t, err)
	// 10 (telefone) + 10 (CPF válido) + 50 (serasa >= 700) = 70 → hot.
	assert.Equal(t, 70, output.Score)
	assert.Equal(t, entity.StatusHot, savedLead.Status)
	assert.Equal(t, &serasaScore, savedLead.SerasaScore)
}

func TestSubmitLead_ExistingLeadIsPatched(t *testing.T) {
	uc, leadRepo, tenantRepo, responseRepo, eventRepo, _, _, _, _, _, notifier, _ := newSubmitFixture()

	tenant := &entity.Tenant{ID: "client-1", Plan: entity.PlanSolo, WhatsApp: "5511999990000"}
	tenantRepo.On("FindByID", mock.Anything, "client-1").Return(tenant, nil)

	var appliedPatch entity.LeadPatch
	leadRepo.On("Patch", mock.Anything, "client-1", "lead-42", mock.Anything).Run(func(args mock.Arguments) {
		appliedPatch = args.Get(3).(entity.LeadPatch)
	}).Return(true, nil)
	leadRepo.On("FindByID", mock.Anything, "client-1", "lead-42").Return(&entity.Lead{
		ID: "lead-42", TenantID: "client-1", Name: "João Frio", Phone: "11977776666",
	}, nil)
	responseRepo.On("SaveResponses", mock.Anything, "lead-42", mock.Anything).Return(2, nil)
	eventRepo.On("Record", mock.Anything, mock.Anything).Return(nil)
	notifier.On("Notify", mock.Anything, entity.EventLeadUpdated, mock.Anything).Return()

	output, err := uc.Execute(context.Background(), usecase.SubmitLeadInput{
		TenantID: "client-1",
		LeadID:   "lead-42",
		FormData: map[string]any{
			"full_name": "João Frio",
			"phone":     "11977776666",
		},
		ConsentGiven: true,
	})

	assert.NoError(t, err)
	assert.Equal(t, "lead-42", output.LeadID)
	// Captura parcial vira final: consentimento e step de conclusão no patch.
	assert.True(t, *appliedPatch.ConsentGiven)
	assert.Equal(t, entity.StepCompleted, *appliedPatch.StepReached)
	leadRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSubmitLead_UpdateFanOutCarriesStoredFields(t *testing.T) {
	uc, leadRepo, tenantRepo, responseRepo, eventRepo, _, _, _, _, _, notifier, alerts := newSubmitFixture()

	tenant := &entity.Tenant{ID: "client-1", Plan: entity.PlanSolo, Email: "dono@exemplo.com.br", WhatsApp: "5511999990000"}
	tenantRepo.On("FindByID", mock.Anything, "client-1").Return(tenant, nil)
	leadRepo.On("Patch", mock.Anything, "client-1", "lead-42", mock.Anything).Return(true, nil)

	// Nome e telefone vieram só na captura parcial; o envio final traz
	// apenas as respostas de pontuação.
	stored := &entity.Lead{
		ID:       "lead-42",
		TenantID: "client-1",
		Name:     "Maria Souza",
		Phone:    "11988887777",
		Status:   entity.StatusHot,
	}
	leadRepo.On("FindByID", mock.Anything, "client-1", "lead-42").Return(stored, nil)

	responseRepo.On("SaveResponses", mock.Anything, "lead-42", mock.Anything).Return(4, nil)
	eventRepo.On("Record", mock.Anything, mock.Anything).Return(nil)

	var notified *entity.Lead
	notifier.On("Notify", mock.Anything, entity.EventLeadUpdated, mock.Anything).Run(func(args mock.Arguments) {
		notified = args.Get(2).(*entity.Lead)
	}).Return()
	alerts.On("SendLeadAlert", "dono@exemplo.com.br", "Maria Souza", "11988887777", mock.Anything).Return(nil)

	_, err := uc.Execute(context.Background(), usecase.SubmitLeadInput{
		TenantID: "client-1",
		LeadID:   "lead-42",
		FormData: map[string]any{
			"employment_status": "CLT",
			"clt_years":         "Mais de 3 anos",
			"income_range":      "Acima de R$ 5.000",
			"tried_financing":   "Não",
		},
		ConsentGiven: true,
	})

	assert.NoError(t, err)
	// O webhook carrega o que está gravado, não o payload da requisição.
	assert.Equal(t, "Maria Souza", notified.Name)
	assert.Equal(t, "11988887777", notified.Phone)
	alerts.AssertExpectations(t)
}

func TestSubmitLead_StaleLeadIDFallsBackToInsert(t *testing.T) {
	uc, leadRepo, tenantRepo, responseRepo, eventRepo, _, _, _, _, _, notifier, _ := newSubmitFixture()

	tenant := &entity.Tenant{ID: "client-1", Plan: entity.PlanSolo, WhatsApp: "5511999990000"}
	tenantRepo.On("FindByID", mock.Anything, "client-1").Return(tenant, nil)
	// lead_id de outro tenant (ou inexistente): patch não afeta linha nenhuma.
	leadRepo.On("Patch", mock.Anything, "client-1", "lead-alheio", mock.Anything).Return(false, nil)
	leadRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	responseRepo.On("SaveResponses", mock.Anything, mock.Anything, mock.Anything).Return(2, nil)
	eventRepo.On("Record", mock.Anything, mock.Anything).Return(nil)
	notifier.On("Notify", mock.Anything, entity.EventLeadCreated, mock.Anything).Return()

	output, err := uc.Execute(context.Background(), usecase.SubmitLeadInput{
		TenantID: "client-1",
		LeadID:   "lead-alheio",
		FormData: map[string]any{
			"full_name": "João Frio",
			"phone":     "11977776666",
		},
		ConsentGiven: true,
	})

	assert.NoError(t, err)
	assert.NotEqual(t, "lead-alheio", output.LeadID)
	leadRepo.AssertCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSubmitLead_InsertFailureIsTechnical(t *testing.T) {
	uc, leadRepo, tenantRepo, _, _, _, _, _, _, _, _, _ := newSubmitFixture()

	tenant := &entity.Tenant{ID: "client-1", Plan: entity.PlanSolo, WhatsApp: "5511999990000"}
	tenantRepo.On("FindByID", mock.Anything, "client-1").Return(tenant, nil)
	leadRepo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	output, err := uc.Execute(context.Background(), usecase.SubmitLeadInput{
		TenantID:     "client-1",
		FormData:     hotFormData(),
		ConsentGiven: true,
	})

	assert.Nil(t, output)
	assert.True(t, usecase.IsTechnicalError(err))
}
