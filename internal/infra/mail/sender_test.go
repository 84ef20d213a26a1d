package mail

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *captureDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func newTestSender(d Dialer) *EmailSender {
	return NewEmailSender("smtp.test", 587, "user", "pass", "nao-responda@ligue.com.br").WithDialer(d)
}

func rendered(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestEmailSender_SendLeadWon(t *testing.T) {
	d := &captureDialer{}

	err := newTestSender(d).SendLeadWon("ana@ligue.com.br", "Ana", "Padaria Central", 1234.5)

	require.NoError(t, err)
	require.Len(t, d.sent, 1)
	m := d.sent[0]
	assert.Equal(t, []string{"ana@ligue.com.br"}, m.GetHeader("To"))
	assert.Equal(t, []string{"nao-responda@ligue.com.br"}, m.GetHeader("From"))
	assert.Equal(t, []string{"🎉 Negócio fechado: Padaria Central"}, m.GetHeader("Subject"))
	assert.Contains(t, rendered(t, m), "R$ 1.234,50")
}

func TestEmailSender_SendProposalSent(t *testing.T) {
	d := &captureDialer{}

	err := newTestSender(d).SendProposalSent("ana@ligue.com.br", "Ana", "Padaria Central", "Site", 220)

	require.NoError(t, err)
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"Proposta enviada para Padaria Central"}, d.sent[0].GetHeader("Subject"))
	assert.Contains(t, rendered(t, d.sent[0]), "R$ 220,00")
}

func TestEmailSender_SendFollowUpDue(t *testing.T) {
	d := &captureDialer{}
	at := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

	err := newTestSender(d).SendFollowUpDue("ana@ligue.com.br", "Ana", "Padaria Central", "Phone", at)

	require.NoError(t, err)
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"⏰ Follow-up com Padaria Central"}, d.sent[0].GetHeader("Subject"))

	var body bytes.Buffer
	require.NoError(t, templates.ExecuteTemplate(&body, "follow_up_due.html", FollowUpDueData{
		OwnerName: "Ana", LeadName: "Padaria Central", FollowUpType: "Phone", ScheduledAt: at,
	}))
	assert.Contains(t, body.String(), "agendado para 10/03/2025 14:30")
}

func TestEmailSender_DialError(t *testing.T) {
	d := &captureDialer{err: errors.New("connection refused")}

	err := newTestSender(d).SendLeadWon("ana@ligue.com.br", "Ana", "Padaria Central", 10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "erro ao enviar email SMTP")
	assert.ErrorIs(t, err, d.err)
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "R$ 0,00"},
		{9.9, "R$ 9,90"},
		{999, "R$ 999,00"},
		{1000, "R$ 1.000,00"},
		{1234.5, "R$ 1.234,50"},
		{1234567.891, "R$ 1.234.567,89"},
		{-1500, "-R$ 1.500,00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatBRL(tt.in))
		})
	}
}
