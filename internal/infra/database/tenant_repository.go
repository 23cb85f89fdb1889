package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/MarceloRDPJ/funila-app/internal/entity"
)

type TenantRepository struct {
	DB *sql.DB
}

func NewTenantRepository(db *sql.DB) *TenantRepository {
	return &TenantRepository{DB: db}
}

func (r *TenantRepository) FindByID(ctx context.Context, id string) (*entity.Tenant, error) {
	query := `
		SELECT id, name, plan, email, whatsapp, zapi_instance_id, zapi_token, active
		FROM clients
		WHERE id = $1 AND active = TRUE
	`

	var tenant entity.Tenant
	var plan string
	var whatsapp, zapiInstance, zapiToken sql.NullString

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&tenant.ID,
		&tenant.Name,
		&plan,
		&tenant.Email,
		&whatsapp,
		&zapiInstance,
		&zapiToken,
		&tenant.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrTenantNotFound
		}
		return nil, err
	}

	tenant.Plan = entity.Plan(plan)
	tenant.WhatsApp = whatsapp.String
	tenant.ZAPIInstanceID = zapiInstance.String
	tenant.ZAPIToken = zapiToken.String

	return &tenant, nil
}
