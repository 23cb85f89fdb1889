package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// WhatsAppValidationPayload é a unidade de trabalho da camada mais
// lenta do enriquecimento, chaveada por (lead, phone, tenant).
type WhatsAppValidationPayload struct {
	LeadID   string `json:"lead_id"`
	TenantID string `json:"client_id"`
	Phone    string `json:"phone"`
}

type ProducerInterface interface {
	PublishWhatsAppValidation(ctx context.Context, payload WhatsAppValidationPayload) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishWhatsAppValidation(ctx context.Context, payload WhatsAppValidationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName, // ex.leads
		RoutingKey,   // k.whatsapp
		false,        // Mandatory
		false,        // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // sobrevive a restart do broker
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %v", err)
	}

	return nil
}
