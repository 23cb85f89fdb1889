package usecase

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/MarceloRDPJ/funila-app/internal/scoring"
)

// BuildContactLink monta o link wa.me que o visitante usa para abrir
// conversa com o tenant, com a mensagem pré-preenchida a partir das
// respostas do formulário. Determinístico: mesmas respostas, mesmo link.
func BuildContactLink(tenantPhone string, answers map[string]string) string {
	digits := onlyDigits(tenantPhone)
	if digits == "" {
		return ""
	}
	if !strings.HasPrefix(digits, "55") {
		digits = "55" + digits
	}

	msg := buildContactMessage(answers)
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(msg))
}

func buildContactMessage(answers map[string]string) string {
	var b strings.Builder
	b.WriteString("Olá! Acabei de preencher o formulário.")

	if v := strings.TrimSpace(answers[scoring.AnswerEmployment]); v != "" {
		b.WriteString(" Trabalho como " + v)
		if t := strings.TrimSpace(answers[scoring.AnswerTenure]); t != "" {
			b.WriteString(" há " + strings.ToLower(t))
		}
		b.WriteString(".")
	}

	if v := strings.TrimSpace(answers[scoring.AnswerIncome]); v != "" {
		b.WriteString(" Minha renda é " + strings.ToLower(v) + ".")
	}

	switch scoring.Normalize(answers[scoring.AnswerTriedFinancing]) {
	case "nao", "não", "nunca":
		b.WriteString(" Nunca tentei financiamento.")
	case "":
	default:
		b.WriteString(" Já tentei financiamento antes.")
	}

	return b.String()
}

// onlyDigits existe também em infra/security; a cópia é proposital para
// o usecase não importar infra.
func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
