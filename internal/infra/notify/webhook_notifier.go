// Package notify entrega eventos de lead aos webhooks do tenant.
// Entrega concorrente, melhor esforço: cada endpoint tem seu próprio
// desfecho e nenhum atrasa ou derruba os demais.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MarceloRDPJ/funila-app/internal/entity"
	"github.com/MarceloRDPJ/funila-app/internal/infra/http/middleware"
)

type webhookStore interface {
	ListActive(ctx context.Context, tenantID string) ([]entity.Webhook, error)
}

// EventPayload é o contrato com os assinantes. Mexer aqui quebra
// integração de cliente.
type EventPayload struct {
	Event         string `json:"event"`
	LeadID        string `json:"lead_id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Status        string `json:"status"`
	InternalScore int    `json:"internal_score"`
	SerasaScore   *int   `json:"serasa_score"`
}

type WebhookNotifier struct {
	Webhooks webhookStore
	http     *http.Client
}

func NewWebhookNotifier(webhooks webhookStore) *WebhookNotifier {
	return &WebhookNotifier{
		Webhooks: webhooks,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify monta o payload uma vez e dispara para todos os assinantes em
// paralelo. Sem retry: entrega é at-most-once por gatilho.
func (n *WebhookNotifier) Notify(ctx context.Context, kind string, lead *entity.Lead) {
	hooks, err := n.Webhooks.ListActive(ctx, lead.TenantID)
	if err != nil {
		log.Printf("⚠️ [WEBHOOK] falha ao listar assinantes do tenant %s: %v", lead.TenantID, err)
		return
	}
	if len(hooks) == 0 {
		return
	}

	body, err := json.Marshal(EventPayload{
		Event:         kind,
		LeadID:        lead.ID,
		Name:          lead.Name,
		Phone:         lead.Phone,
		Status:        lead.Status,
		InternalScore: lead.InternalScore,
		SerasaScore:   lead.SerasaScore,
	})
	if err != nil {
		log.Printf("❌ [WEBHOOK] payload não serializou: %v", err)
		return
	}

	g := new(errgroup.Group)
	for _, hook := range hooks {
		url := hook.URL
		g.Go(func() error {
			start := time.Now()
			status, err := n.deliver(ctx, url, body)
			elapsed := time.Since(start).Round(time.Millisecond)

			if err != nil {
				log.Printf("⚠️ [WEBHOOK] %s falhou em %s: %v", url, elapsed, err)
				middleware.RecordWebhookDelivery("error")
			} else {
				log.Printf("✅ [WEBHOOK] %s respondeu %d em %s", url, status, elapsed)
				middleware.RecordWebhookDelivery("ok")
			}
			// Falha de um assinante jamais cancela os outros.
			return nil
		})
	}
	g.Wait()
}

func (n *WebhookNotifier) deliver(ctx context.Context, url string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Funila-Webhooks/1.0")

	resp, err := n.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}
