package serasa

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

const DefaultBaseURL = "https://api.soawebservices.com.br/serasa"

// Client consulta o score de crédito via SOA Webservices. Camada paga:
// só roda para plano pro/agency e com token configurado. Orçamento de
// 8 segundos.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 8 * time.Second},
	}
}

// Configured indica se há credencial. Sem token a camada é pulada em
// silêncio: consulta paga não roda por acidente.
func (c *Client) Configured() bool {
	return c.token != ""
}

// Score devolve o score bruto (0–1000) ou nil quando a consulta não
// retornou valor.
func (c *Client) Score(ctx context.Context, taxID string) (*int, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("serasa não configurado")
	}

	clean := security.OnlyDigits(taxID)
	url := fmt.Sprintf("%s/%s", c.baseURL, clean)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro request serasa: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		log.Printf("⚠️ Serasa retornou %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("serasa status %d", resp.StatusCode)
	}

	var response scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("erro decode serasa: %w", err)
	}

	return response.Score, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Funila/1.0")
}
