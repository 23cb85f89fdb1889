// Package enrichment sequencia as três camadas de dados externos:
// registro público (rápido, grátis), score de crédito (pago, por plano)
// e validade de WhatsApp (lenta, via fila). As camadas são independentes:
// cada falha degrada para "sem dado" e a cascata segue.
package enrichment

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/MarceloRDPJ/funila-app/internal/entity"
	"github.com/MarceloRDPJ/funila-app/internal/infra/http/middleware"
	"github.com/MarceloRDPJ/funila-app/internal/infra/integration/brasilapi"
	"github.com/MarceloRDPJ/funila-app/internal/infra/queue"
)

type tenantStore interface {
	FindByID(ctx context.Context, id string) (*entity.Tenant, error)
}

type registryClient interface {
	Fetch(ctx context.Context, taxID string) (json.RawMessage, error)
}

type creditClient interface {
	Configured() bool
	Score(ctx context.Context, taxID string) (*int, error)
}

type Enricher struct {
	Leads    entity.LeadRepositoryInterface
	Tenants  tenantStore
	Registry registryClient
	Credit   creditClient
	Producer queue.ProducerInterface
}

func NewEnricher(
	leads entity.LeadRepositoryInterface,
	tenants tenantStore,
	registry registryClient,
	credit creditClient,
	producer queue.ProducerInterface,
) *Enricher {
	return &Enricher{
		Leads:    leads,
		Tenants:  tenants,
		Registry: registry,
		Credit:   credit,
		Producer: producer,
	}
}

// Enrich roda a cascata para um lead. Nunca retorna erro: o chamador já
// respondeu o HTTP e não há ninguém para tratar.
func (e *Enricher) Enrich(ctx context.Context, leadID, taxID, tenantID string) {
	lead, err := e.Leads.FindByID(ctx, tenantID, leadID)
	if err != nil {
		log.Printf("⚠️ [ENRICH] lead %s não carregou, abortando cascata: %v", leadID, err)
		return
	}

	patch := entity.LeadPatch{}

	// Camada 1: registro público. Guarda o payload bruto e, se o usuário
	// não informou nome, adota o do registro. Nome digitado é sagrado.
	if taxID != "" {
		raw, err := e.Registry.Fetch(ctx, taxID)
		if err != nil {
			log.Printf("⚠️ [ENRICH] registro público indisponível para lead %s: %v", leadID, err)
			middleware.RecordEnrichmentError("registry")
		} else {
			patch.PublicAPIData = raw
			if strings.TrimSpace(lead.Name) == "" {
				if name := brasilapi.PersonName(raw); name != "" {
					patch.Name = &name
				}
			}
		}
	}

	// Camada 2: score pago, gated por plano. Tenant sem cadastro legível
	// cai no tier mais baixo e pula. Score já guardado não re-consome
	// crédito pago.
	plan := entity.PlanSolo
	if tenant, err := e.Tenants.FindByID(ctx, tenantID); err == nil {
		plan = tenant.Plan
	}

	if taxID != "" && plan.Paid() && e.Credit.Configured() && lead.SerasaScore == nil {
		score, err := e.Credit.Score(ctx, taxID)
		if err != nil {
			log.Printf("⚠️ [ENRICH] serasa indisponível para lead %s: %v", leadID, err)
			middleware.RecordEnrichmentError("serasa")
		} else if score != nil {
			patch.SerasaScore = score
		}
	}

	// Um patch só com o que foi obtido. Campo não obtido não é tocado.
	if !patch.Empty() {
		if _, err := e.Leads.Patch(ctx, tenantID, leadID, patch); err != nil {
			log.Printf("❌ [ENRICH] falha ao persistir enriquecimento do lead %s: %v", leadID, err)
		}
	}

	// Camada 3: validação de WhatsApp, empurrada ainda mais para trás.
	if strings.TrimSpace(lead.Phone) != "" {
		payload := queue.WhatsAppValidationPayload{
			LeadID:   leadID,
			TenantID: tenantID,
			Phone:    lead.Phone,
		}
		if err := e.Producer.PublishWhatsAppValidation(ctx, payload); err != nil {
			log.Printf("⚠️ [ENRICH] fila indisponível, validação de WhatsApp do lead %s perdida: %v", leadID, err)
			middleware.RecordEnrichmentError("whatsapp")
		}
	}
}
