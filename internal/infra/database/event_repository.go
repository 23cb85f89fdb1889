package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/MarceloRDPJ/funila-app/internal/entity"
)

type EventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) Record(ctx context.Context, ev *entity.LeadEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}

	query := `
		INSERT INTO lead_events (id, client_id, lead_id, kind, score, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`

	_, err := r.DB.ExecContext(ctx, query, ev.ID, ev.TenantID, ev.LeadID, ev.Kind, ev.Score, ev.Status)
	return err
}
