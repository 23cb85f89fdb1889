package database

import (
	"context"
	"database/sql"
	"fmt"
)

// ResponseRepository guarda as respostas do formulário por campo
// reconhecido. Chave que não existe no catálogo form_fields é
// descartada em silêncio: formulário é configurável por tenant.
type ResponseRepository struct {
	DB *sql.DB
}

func NewResponseRepository(db *sql.DB) *ResponseRepository {
	return &ResponseRepository{DB: db}
}

func (r *ResponseRepository) SaveResponses(ctx context.Context, leadID string, answers map[string]string) (int, error) {
	fieldMap, err := r.fieldMap(ctx)
	if err != nil {
		return 0, fmt.Errorf("erro ao carregar catálogo de campos: %w", err)
	}

	query := `INSERT INTO lead_responses (lead_id, field_id, response_value) VALUES ($1, $2, $3)`

	saved := 0
	for key, value := range answers {
		fieldID, ok := fieldMap[key]
		if !ok {
			continue
		}
		if _, err := r.DB.ExecContext(ctx, query, leadID, fieldID, value); err != nil {
			return saved, err
		}
		saved++
	}

	return saved, nil
}

func (r *ResponseRepository) fieldMap(ctx context.Context) (map[string]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, field_key FROM form_fields`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := make(map[string]string)
	for rows.Next() {
		var id, key string
		if err := rows.Scan(&id, &key); err != nil {
			return nil, err
		}
		fields[key] = id
	}

	return fields, rows.Err()
}
