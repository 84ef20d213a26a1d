package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"datetime": func(t time.Time) string { return t.Format("02/01/2006 15:04") },
}).ParseFS(templateFS, "templates/*.html"))

// Dialer é satisfeito por *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// WithDialer troca o transporte SMTP (usado nos testes).
func (s *EmailSender) WithDialer(d Dialer) *EmailSender {
	s.dialer = d
	return s
}

func (s *EmailSender) SendLeadWon(to, ownerName, leadName string, value float64) error {
	data := LeadWonData{
		OwnerName: ownerName,
		LeadName:  leadName,
		Value:     formatBRL(value),
	}
	return s.send(to, fmt.Sprintf("🎉 Negócio fechado: %s", leadName), "lead_won.html", data)
}

func (s *EmailSender) SendProposalSent(to, ownerName, leadName, proposalTitle string, total float64) error {
	data := ProposalSentData{
		OwnerName:     ownerName,
		LeadName:      leadName,
		ProposalTitle: proposalTitle,
		Total:         formatBRL(total),
	}
	return s.send(to, fmt.Sprintf("Proposta enviada para %s", leadName), "proposal_sent.html", data)
}

func (s *EmailSender) SendFollowUpDue(to, ownerName, leadName, followUpType string, scheduledAt time.Time) error {
	data := FollowUpDueData{
		OwnerName:    ownerName,
		LeadName:     leadName,
		FollowUpType: followUpType,
		ScheduledAt:  scheduledAt,
	}
	return s.send(to, fmt.Sprintf("⏰ Follow-up com %s", leadName), "follow_up_due.html", data)
}

func (s *EmailSender) send(to, subject, tmpl string, data any) error {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}

// formatBRL formata 1234.5 como "R$ 1.234,50".
func formatBRL(v float64) string {
	fixed := decimal.NewFromFloat(v).StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, frac, _ := strings.Cut(fixed, ".")
	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	out := "R$ " + grouped.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}
