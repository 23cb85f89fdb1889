package database

import (
	"context"
	"database/sql"
	"fmt"
)

// FunnelMetricRepository agrega contadores por (tenant, criativo).
// Incremento atômico via upsert: sem read-modify-write, sem corrida.
type FunnelMetricRepository struct {
	DB *sql.DB
}

func NewFunnelMetricRepository(db *sql.DB) *FunnelMetricRepository {
	return &FunnelMetricRepository{DB: db}
}

func (r *FunnelMetricRepository) IncrementStep(ctx context.Context, tenantID, creative string, step int) error {
	var column string
	switch step {
	case 1:
		column = "step_1"
	case 2:
		column = "step_2"
	case 3:
		column = "step_3"
	default:
		// Funil tem 3 etapas; rótulo estranho não derruba nada.
		return fmt.Errorf("step %d fora do funil", step)
	}
	return r.increment(ctx, tenantID, creative, column)
}

func (r *FunnelMetricRepository) IncrementCompleted(ctx context.Context, tenantID, creative string) error {
	return r.increment(ctx, tenantID, creative, "completed")
}

func (r *FunnelMetricRepository) IncrementConversion(ctx context.Context, tenantID, creative string) error {
	return r.increment(ctx, tenantID, creative, "conversions")
}

func (r *FunnelMetricRepository) increment(ctx context.Context, tenantID, creative, column string) error {
	// column vem de whitelist interna, nunca de input do usuário.
	query := fmt.Sprintf(`
		INSERT INTO funnel_metrics (client_id, utm_content, %s, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (client_id, utm_content)
		DO UPDATE SET %s = funnel_metrics.%s + 1, updated_at = NOW()
	`, column, column, column)

	_, err := r.DB.ExecContext(ctx, query, tenantID, creative)
	return err
}
