package entity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type FollowUpType string

const (
	FollowUpEmail    FollowUpType = "Email"
	FollowUpPhone    FollowUpType = "Phone"
	FollowUpMeeting  FollowUpType = "Meeting"
	FollowUpWhatsApp FollowUpType = "WhatsApp"
)

func (t FollowUpType) IsValid() bool {
	switch t {
	case FollowUpEmail, FollowUpPhone, FollowUpMeeting, FollowUpWhatsApp:
		return true
	}
	return false
}

type Outcome string

const (
	OutcomePositive    Outcome = "Positivo"
	OutcomeNegative    Outcome = "Negativo"
	OutcomeNeutral     Outcome = "Neutro"
	OutcomeRescheduled Outcome = "Reagendado"
	OutcomeNoAnswer    Outcome = "Sem Resposta"
)

func (o Outcome) IsValid() bool {
	switch o {
	case OutcomePositive, OutcomeNegative, OutcomeNeutral, OutcomeRescheduled, OutcomeNoAnswer:
		return true
	}
	return false
}

// FollowUp é uma interação registrada com o lead. Depois de criado só pode ser apagado.
type FollowUp struct {
	ID          string       `json:"id"`
	LeadID      string       `json:"lead_id"`
	Type        FollowUpType `json:"type"`
	Notes       string       `json:"notes"`
	ScheduledAt *time.Time   `json:"scheduled_at,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Duration    *int         `json:"duration,omitempty"` // minutos
	Outcome     *Outcome     `json:"outcome,omitempty"`
	Rating      *int         `json:"rating,omitempty"` // 1..5
	CreatedBy   string       `json:"created_by,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

type FollowUpDraft struct {
	LeadID      string       `json:"lead_id"`
	Type        FollowUpType `json:"type"`
	Notes       string       `json:"notes"`
	ScheduledAt *time.Time   `json:"scheduled_at"`
	CompletedAt *time.Time   `json:"completed_at"`
	Duration    *int         `json:"duration"`
	Outcome     *Outcome     `json:"outcome"`
	Rating      *int         `json:"rating"`
	CreatedBy   string       `json:"created_by"`
}

// NewFollowUp valida o draft e monta o registro imutável.
func NewFollowUp(draft FollowUpDraft, now time.Time) (*FollowUp, error) {
	var errs ValidationErrors

	if strings.TrimSpace(draft.LeadID) == "" {
		errs = append(errs, ValidationError{"lead_id", "is required"})
	}
	if !draft.Type.IsValid() {
		errs = append(errs, ValidationError{"type", "must be Email, Phone, Meeting or WhatsApp"})
	}
	if draft.Duration != nil && *draft.Duration < 0 {
		errs = append(errs, ValidationError{"duration", "must not be negative"})
	}
	if draft.Outcome != nil && !draft.Outcome.IsValid() {
		errs = append(errs, ValidationError{"outcome", "is not a known outcome"})
	}
	if draft.Rating != nil && (*draft.Rating < 1 || *draft.Rating > 5) {
		errs = append(errs, ValidationError{"rating", "must be between 1 and 5"})
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	return &FollowUp{
		ID:          uuid.New().String(),
		LeadID:      draft.LeadID,
		Type:        draft.Type,
		Notes:       strings.TrimSpace(draft.Notes),
		ScheduledAt: draft.ScheduledAt,
		CompletedAt: draft.CompletedAt,
		Duration:    draft.Duration,
		Outcome:     draft.Outcome,
		Rating:      draft.Rating,
		CreatedBy:   draft.CreatedBy,
		CreatedAt:   now,
	}, nil
}

// SortKey é o instante usado na ordenação de exibição.
func (f *FollowUp) SortKey() time.Time {
	if f.ScheduledAt != nil {
		return *f.ScheduledAt
	}
	return f.CreatedAt
}

type FollowUpRepositoryInterface interface {
	Create(ctx context.Context, f *FollowUp) error
	FindByID(ctx context.Context, id string) (*FollowUp, error)
	ListByLead(ctx context.Context, leadID string) ([]*FollowUp, error)
	// ListDue retorna follow-ups agendados em (from, to] e ainda não concluídos.
	ListDue(ctx context.Context, from, to time.Time) ([]*FollowUp, error)
	Delete(ctx context.Context, id string) error
}
