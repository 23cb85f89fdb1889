package mail

import (
	"bytes"
	"fmt"
	"log"
	"text/template"

	"gopkg.in/gomail.v2"
)

const leadAlertTemplate = `
<h1>Novo Lead Quente!</h1>
<p><strong>Nome:</strong> {{.LeadName}}</p>
<p><strong>WhatsApp:</strong> {{.LeadPhone}}</p>
<p><strong>Score:</strong> {{.Score}}</p>
<a href="{{.PanelURL}}">Ver no Painel</a>
`

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     "nao-responda@funila.com.br",
	}
}

// SendLeadAlert avisa o tenant que caiu lead quente. Sem SMTP
// configurado, só loga. Ambiente de dev não manda email de verdade.
func (s *EmailSender) SendLeadAlert(to, leadName, leadPhone string, score int) error {
	if s.Host == "" {
		log.Printf("📧 [MOCK] Alerta para %s: lead %s (score %d)", to, leadName, score)
		return nil
	}

	data := LeadAlertData{
		LeadName:  leadName,
		LeadPhone: leadPhone,
		Score:     score,
		PanelURL:  "https://app.funila.com.br/admin",
	}

	t, err := template.New("lead_alert").Parse(leadAlertTemplate)
	if err != nil {
		return fmt.Errorf("erro ao ler template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("🔥 Lead Quente: %s (Score %d)", leadName, score))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
