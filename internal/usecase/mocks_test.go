package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/MarceloRDPJ/funila-app/internal/entity"
)

// MockLeadRepository - Mock para LeadRepositoryInterface
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) Patch(ctx context.Context, tenantID, leadID string, patch entity.LeadPatch) (bool, error) {
	args := m.Called(ctx, tenantID, leadID, patch)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, tenantID, leadID string) (*entity.Lead, error) {
	args := m.Called(ctx, tenantID, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, tenantID, leadID, status string) error {
	args := m.Called(ctx, tenantID, leadID, status)
	return args.Error(0)
}

// MockTenantRepository - Mock para TenantRepositoryInterface
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id string) (*entity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Tenant), args.Error(1)
}

// MockResponseRepository - Mock para ResponseRepositoryInterface
type MockResponseRepository struct {
	mock.Mock
}

func (m *MockResponseRepository) SaveResponses(ctx context.Context, leadID string, answers map[string]string) (int, error) {
	args := m.Called(ctx, leadID, answers)
	return args.Int(0), args.Error(1)
}

// MockEventRepository - Mock para EventRepositoryInterface
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Record(ctx context.Context, ev *entity.LeadEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// MockFunnelMetrics - Mock para FunnelMetricsRepositoryInterface
type MockFunnelMetrics struct {
	mock.Mock
}

func (m *MockFunnelMetrics) IncrementStep(ctx context.Context, tenantID, creative string, step int) error {
	args := m.Called(ctx, tenantID, creative, step)
	return args.Error(0)
}

func (m *MockFunnelMetrics) IncrementCompleted(ctx context.Context, tenantID, creative string) error {
	args := m.Called(ctx, tenantID, creative)
	return args.Error(0)
}

func (m *MockFunnelMetrics) IncrementConversion(ctx context.Context, tenantID, creative string) error {
	args := m.Called(ctx, tenantID, creative)
	return args.Error(0)
}

// MockCipher - criptografia determinística para inspecionar o que foi salvo
type MockCipher struct {
	mock.Mock
}

func (m *MockCipher) EncryptTaxID(raw string) (string, error) {
	args := m.Called(raw)
	return args.String(0), args.Error(1)
}

// MockRegistry - Mock para RegistryClient
type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) Exists(ctx context.Context, taxID string) bool {
	args := m.Called(ctx, taxID)
	return args.Bool(0)
}

// MockCredit - Mock para CreditScoreClient
type MockCredit struct {
	mock.Mock
}

func (m *MockCredit) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockCredit) Score(ctx context.Context, taxID string) (*int, error) {
	args := m.Called(ctx, taxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int), args.Error(1)
}

// MockEnricher - registra o disparo da cascata
type MockEnricher struct {
	mock.Mock
}

func (m *MockEnricher) Enrich(ctx context.Context, leadID, taxID, tenantID string) {
	m.Called(ctx, leadID, taxID, tenantID)
}

// MockNotifier - Mock para NotifierInterface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, kind string, lead *entity.Lead) {
	m.Called(ctx, kind, lead)
}

// MockAlertSender - Mock para AlertSender
type MockAlertSender struct {
	mock.Mock
}

func (m *MockAlertSender) SendLeadAlert(to, leadName, leadPhone string, score int) error {
	args := m.Called(to, leadName, leadPhone, score)
	return args.Error(0)
}
