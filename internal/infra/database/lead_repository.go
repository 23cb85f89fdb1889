package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MarceloRDPJ/funila-app/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (
			id, client_id, link_id, name, phone, cpf_encrypted,
			utm_source, utm_medium, utm_campaign, utm_content, utm_term,
			step_reached, consent_given,
			internal_score, external_score, serasa_score, status,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.TenantID,
		nullString(lead.LinkID),
		nullString(lead.Name),
		nullString(lead.Phone),
		nullString(lead.CPFEncrypted),
		nullString(lead.UTMSource),
		nullString(lead.UTMMedium),
		nullString(lead.UTMCampaign),
		nullString(lead.UTMContent),
		nullString(lead.UTMTerm),
		lead.StepReached,
		lead.ConsentGiven,
		lead.InternalScore,
		lead.ExternalScore,
		lead.SerasaScore,
		lead.Status,
		lead.CreatedAt,
		lead.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Replay do mesmo id: idempotente por construção, não é erro.
			return nil
		}

		log.Printf("Erro crítico no banco: %v", err)
		return err
	}

	return nil
}

// Patch monta o UPDATE só com os campos presentes. Campo omitido não
// entra no SET, então nunca sobrescreve valor com vazio.
func (r *LeadRepository) Patch(ctx context.Context, tenantID, leadID string, patch entity.LeadPatch) (bool, error) {
	sets := []string{"updated_at = NOW()"}
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.CPFEncrypted != nil {
		add("cpf_encrypted", *patch.CPFEncrypted)
	}
	if patch.LinkID != nil {
		add("link_id", *patch.LinkID)
	}
	if patch.UTMSource != nil {
		add("utm_source", *patch.UTMSource)
	}
	if patch.UTMMedium != nil {
		add("utm_medium", *patch.UTMMedium)
	}
	if patch.UTMCampaign != nil {
		add("utm_campaign", *patch.UTMCampaign)
	}
	if patch.UTMContent != nil {
		add("utm_content", *patch.UTMContent)
	}
	if patch.UTMTerm != nil {
		add("utm_term", *patch.UTMTerm)
	}
	if patch.StepReached != nil {
		// Monotônico: replay fora de ordem não regride o funil.
		args = append(args, *patch.StepReached)
		sets = append(sets, fmt.Sprintf("step_reached = GREATEST(step_reached, $%d)", len(args)))
	}
	if patch.ConsentGiven != nil {
		add("consent_given", *patch.ConsentGiven)
	}
	if patch.InternalScore != nil {
		add("internal_score", *patch.InternalScore)
	}
	if patch.ExternalScore != nil {
		add("external_score", *patch.ExternalScore)
	}
	if patch.SerasaScore != nil {
		add("serasa_score", *patch.SerasaScore)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.PublicAPIData != nil {
		add("public_api_data", []byte(patch.PublicAPIData))
	}
	if patch.WhatsAppMeta != nil {
		meta, err := json.Marshal(patch.WhatsAppMeta)
		if err != nil {
			return false, fmt.Errorf("erro ao serializar whatsapp_meta: %w", err)
		}
		add("whatsapp_meta", meta)
	}

	args = append(args, leadID, tenantID)
	query := fmt.Sprintf(
		"UPDATE leads SET %s WHERE id = $%d AND client_id = $%d",
		strings.Join(sets, ", "), len(args)-1, len(args),
	)

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Printf("Erro crítico no banco: %v", err)
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, tenantID, leadID string) (*entity.Lead, error) {
	query := `
		SELECT id, client_id, link_id, name, phone, cpf_encrypted,
		       utm_source, utm_medium, utm_campaign, utm_content, utm_term,
		       step_reached, consent_given,
		       internal_score, external_score, serasa_score, status,
		       public_api_data, whatsapp_meta,
		       created_at, updated_at
		FROM leads
		WHERE id = $1 AND client_id = $2
	`

	var lead entity.Lead
	var linkID, name, phone, cpf, source, medium, campaign, content, term sql.NullString
	var serasa sql.NullInt64
	var publicData, whatsappMeta []byte

	err := r.DB.QueryRowContext(ctx, query, leadID, tenantID).Scan(
		&lead.ID,
		&lead.TenantID,
		&linkID,
		&name,
		&phone,
		&cpf,
		&source,
		&medium,
		&campaign,
		&content,
		&term,
		&lead.StepReached,
		&lead.ConsentGiven,
		&lead.InternalScore,
		&lead.ExternalScore,
		&serasa,
		&lead.Status,
		&publicData,
		&whatsappMeta,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, err
	}

	lead.LinkID = linkID.String
	lead.Name = name.String
	lead.Phone = phone.String
	lead.CPFEncrypted = cpf.String
	lead.UTMSource = source.String
	lead.UTMMedium = medium.String
	lead.UTMCampaign = campaign.String
	lead.UTMContent = content.String
	lead.UTMTerm = term.String

	if serasa.Valid {
		value := int(serasa.Int64)
		lead.SerasaScore = &value
	}
	if len(publicData) > 0 {
		lead.PublicAPIData = json.RawMessage(publicData)
	}
	if len(whatsappMeta) > 0 {
		var meta entity.WhatsAppMeta
		if err := json.Unmarshal(whatsappMeta, &meta); err == nil {
			lead.WhatsAppMeta = &meta
		}
	}

	return &lead, nil
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, tenantID, leadID, status string) error {
	query := `UPDATE leads SET status = $1, updated_at = NOW() WHERE id = $2 AND client_id = $3`

	result, err := r.DB.ExecContext(ctx, query, status, leadID, tenantID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
