package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

var summaryTemplate = template.Must(template.ParseFS(templatesFS, "templates/import_summary.html"))

// Dialer é o pedaço do gomail que o sender usa.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type Sender struct {
	EmailSender
	dialer Dialer
}

func NewEmailSender(host string, port int, user, password, from string) *Sender {
	cfg := EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
	return &Sender{
		EmailSender: cfg,
		dialer:      gomail.NewDialer(host, port, user, password),
	}
}

// NewSenderWithDialer troca o transporte SMTP (usado nos testes).
func NewSenderWithDialer(from string, d Dialer) *Sender {
	return &Sender{EmailSender: EmailSender{From: from}, dialer: d}
}

func RenderImportSummary(data ImportSummaryData) (string, error) {
	var body bytes.Buffer
	if err := summaryTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}

func (s *Sender) SendImportSummary(to string, data ImportSummaryData) error {
	body, err := RenderImportSummary(data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Importação de %s concluída: %d novos, %d atualizados", data.Filename, data.Inserted, data.Updated))
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}
