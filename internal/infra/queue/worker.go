package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/MarceloRDPJ/funila-app/internal/entity"
	"github.com/MarceloRDPJ/funila-app/internal/infra/integration/zapi"
)

type tenantStore interface {
	FindByID(ctx context.Context, id string) (*entity.Tenant, error)
}

// PhoneValidator abstrai a consulta Z-API para o worker ser testável
// sem rede.
type PhoneValidator interface {
	PhoneExists(ctx context.Context, phone string) (bool, error)
	ProfilePicture(ctx context.Context, phone string) (string, error)
}

// ValidatorFactory monta um cliente por mensagem, já que cada tenant
// pode ter instância Z-API própria.
type ValidatorFactory func(creds zapi.Credentials) PhoneValidator

// Worker consome a fila de validação de WhatsApp. Última camada do
// enriquecimento: totalmente best-effort, falha vai pra DLQ e acabou.
type Worker struct {
	Channel      *amqp.Channel
	Leads        entity.LeadRepositoryInterface
	Tenants      tenantStore
	DefaultCreds zapi.Credentials
	NewValidator ValidatorFactory
}

func NewWorker(ch *amqp.Channel, leads entity.LeadRepositoryInterface, tenants tenantStore, defaultCreds zapi.Credentials, factory ValidatorFactory) *Worker {
	return &Worker{
		Channel:      ch,
		Leads:        leads,
		Tenants:      tenants,
		DefaultCreds: defaultCreds,
		NewValidator: factory,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload WhatsAppValidationPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON Inválido: %s", err)
				// Mensagem podre. Rejeita sem requeue para não travar a fila.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] Validando WhatsApp do lead %s", payload.LeadID)

			if err := w.processMessage(context.Background(), payload); err != nil {
				log.Printf("❌ [WORKER] Validação falhou para lead %s: %s", payload.LeadID, err)
				d.Nack(false, false)
			} else {
				log.Printf("✅ [WORKER] Lead %s validado", payload.LeadID)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	<-forever
}

func (w *Worker) processMessage(ctx context.Context, payload WhatsAppValidationPayload) error {
	validator := w.NewValidator(w.resolveCredentials(ctx, payload.TenantID))

	valid, err := validator.PhoneExists(ctx, payload.Phone)
	if err != nil {
		return err
	}

	meta := &entity.WhatsAppMeta{
		Valid:      valid,
		VerifiedAt: time.Now(),
		Provider:   zapi.Provider,
	}

	if valid {
		// Foto de perfil é bônus: falha aqui não invalida o resultado.
		if pic, err := validator.ProfilePicture(ctx, payload.Phone); err != nil {
			log.Printf("⚠️ [WORKER] Sem foto de perfil para lead %s: %v", payload.LeadID, err)
		} else {
			meta.ProfilePic = pic
		}
	}

	_, err = w.Leads.Patch(ctx, payload.TenantID, payload.LeadID, entity.LeadPatch{WhatsAppMeta: meta})
	return err
}

// resolveCredentials prefere a instância Z-API do próprio tenant e cai
// na global quando não há override.
func (w *Worker) resolveCredentials(ctx context.Context, tenantID string) zapi.Credentials {
	tenant, err := w.Tenants.FindByID(ctx, tenantID)
	if err != nil {
		return w.DefaultCreds
	}

	creds := zapi.Credentials{InstanceID: tenant.ZAPIInstanceID, Token: tenant.ZAPIToken}
	if creds.Configured() {
		return creds
	}
	return w.DefaultCreds
}
