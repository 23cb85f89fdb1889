package database

import (
	"context"
	"database/sql"

	"github.com/MarceloRDPJ/funila-app/internal/entity"
)

type WebhookRepository struct {
	DB *sql.DB
}

func NewWebhookRepository(db *sql.DB) *WebhookRepository {
	return &WebhookRepository{DB: db}
}

func (r *WebhookRepository) ListActive(ctx context.Context, tenantID string) ([]entity.Webhook, error) {
	query := `SELECT id, client_id, url FROM webhooks WHERE client_id = $1 AND active = TRUE`

	rows, err := r.DB.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hooks []entity.Webhook
	for rows.Next() {
		hook := entity.Webhook{Active: true}
		if err := rows.Scan(&hook.ID, &hook.TenantID, &hook.URL); err != nil {
			return nil, err
		}
		hooks = append(hooks, hook)
	}

	return hooks, rows.Err()
}
