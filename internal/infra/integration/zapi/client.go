package zapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MarceloRDPJ/funila-app/internal/infra/security"
)

const DefaultBaseURL = "https://api.z-api.io"

const Provider = "z-api"

// Credentials identifica uma instância Z-API. Tenant pode ter a sua;
// senão cai na instância global do processo.
type Credentials struct {
	InstanceID string
	Token      string
}

func (c Credentials) Configured() bool {
	return c.InstanceID != "" && c.Token != ""
}

// Client valida existência de telefone no WhatsApp e busca a foto de
// perfil. Camada lenta e best-effort: 10 segundos de orçamento, roda
// só atrás da fila.
type Client struct {
	baseURL string
	creds   Credentials
	http    *http.Client
}

func NewClient(baseURL string, creds Credentials) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		creds:   creds,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// PhoneExists consulta se o número tem conta no WhatsApp.
func (c *Client) PhoneExists(ctx context.Context, phone string) (bool, error) {
	url := fmt.Sprintf("%s/instances/%s/token/%s/phone-exists/%s",
		c.baseURL, c.creds.InstanceID, c.creds.Token, NormalizePhone(phone))

	var response phoneExistsResponse
	if err := c.getJSON(ctx, url, &response); err != nil {
		return false, err
	}
	return response.Exists, nil
}

// ProfilePicture devolve a URL do avatar, vazia quando o perfil não
// expõe foto.
func (c *Client) ProfilePicture(ctx context.Context, phone string) (string, error) {
	url := fmt.Sprintf("%s/instances/%s/token/%s/profile-picture?phone=%s",
		c.baseURL, c.creds.InstanceID, c.creds.Token, NormalizePhone(phone))

	var response profilePictureResponse
	if err := c.getJSON(ctx, url, &response); err != nil {
		return "", err
	}
	return response.Link, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("erro request z-api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("z-api status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("erro decode z-api: %w", err)
	}
	return nil
}

// NormalizePhone deixa só dígitos e garante o DDI 55 na frente.
// Números já internacionais passam intactos.
func NormalizePhone(phone string) string {
	digits := security.OnlyDigits(phone)
	if digits == "" {
		return ""
	}
	if !strings.HasPrefix(digits, "55") {
		digits = "55" + digits
	}
	return digits
}
