package brasilapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/MarceloRDPJ/funila-app/internal/infra/security"
)

const DefaultBaseURL = "https://brasilapi.com.br/api/cpf/v1"

// Client consulta o registro público de CPF. Camada gratuita e rápida:
// orçamento de 5 segundos, qualquer falha vira "sem dado".
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Exists confirma se o CPF consta no registro. Erro de rede ou status
// fora de 2xx contam como "não confirmado", nunca sobe erro.
func (c *Client) Exists(ctx context.Context, taxID string) bool {
	_, err := c.Fetch(ctx, taxID)
	return err == nil
}

// Fetch devolve o payload bruto do registro para guardar no lead.
func (c *Client) Fetch(ctx context.Context, taxID string) (json.RawMessage, error) {
	clean := security.OnlyDigits(taxID)
	if len(clean) != 11 {
		return nil, fmt.Errorf("cpf inválido para consulta: %d dígitos", len(clean))
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, clean)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Funila/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro request brasilapi: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("⚠️ BrasilAPI retornou status %d", resp.StatusCode)
		return nil, fmt.Errorf("brasilapi status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta brasilapi: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("brasilapi devolveu payload não-JSON")
	}

	return json.RawMessage(body), nil
}
