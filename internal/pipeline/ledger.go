package pipeline

import (
	"fmt"
	"sort"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
)

// NoOutcomeRecorded é o balde dos follow-ups sem resultado.
const NoOutcomeRecorded = "No outcome recorded"

type FollowUpMetrics struct {
	Count                int            `json:"count"`
	TotalDurationMinutes int            `json:"total_duration_minutes"`
	AverageRating        float64        `json:"average_rating"`
	RatedCount           int            `json:"rated_count"`
	OutcomeDistribution  map[string]int `json:"outcome_distribution"`
}

// Metrics agrega o histórico. Duração e nota ausentes ficam fora das contas;
// a média usa só os registros avaliados como denominador.
func Metrics(followUps []*entity.FollowUp) FollowUpMetrics {
	m := FollowUpMetrics{
		Count:               len(followUps),
		OutcomeDistribution: make(map[string]int),
	}

	ratingSum := 0
	for _, f := range followUps {
		if f.Duration != nil {
			m.TotalDurationMinutes += *f.Duration
		}
		if f.Rating != nil {
			ratingSum += *f.Rating
			m.RatedCount++
		}
		if f.Outcome != nil {
			m.OutcomeDistribution[string(*f.Outcome)]++
		} else {
			m.OutcomeDistribution[NoOutcomeRecorded]++
		}
	}
	if m.RatedCount > 0 {
		m.AverageRating = float64(ratingSum) / float64(m.RatedCount)
	}
	return m
}

// SortForDisplay devolve uma cópia ordenada por scheduled_at desc, caindo
// para created_at quando não há agendamento.
func SortForDisplay(followUps []*entity.FollowUp) []*entity.FollowUp {
	out := append([]*entity.FollowUp(nil), followUps...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortKey().After(out[j].SortKey())
	})
	return out
}

// Ledger é o histórico de interações de um único lead.
type Ledger struct {
	leadID  string
	entries []*entity.FollowUp
}

func NewLedger(leadID string, followUps []*entity.FollowUp) (*Ledger, error) {
	l := &Ledger{leadID: leadID}
	for _, f := range followUps {
		if err := l.Append(f); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (l *Ledger) LeadID() string {
	return l.leadID
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

// Append só acrescenta; entradas existentes nunca são alteradas.
func (l *Ledger) Append(f *entity.FollowUp) error {
	if f == nil {
		return entity.ValidationErrors{{Field: "follow_up", Message: "is required"}}
	}
	if f.LeadID != l.leadID {
		return entity.ValidationErrors{{
			Field:   "lead_id",
			Message: fmt.Sprintf("follow-up belongs to lead %s, not %s", f.LeadID, l.leadID),
		}}
	}
	for _, e := range l.entries {
		if e.ID == f.ID {
			return entity.ValidationErrors{{Field: "id", Message: "follow-up already recorded"}}
		}
	}
	l.entries = append(l.entries, f)
	return nil
}

func (l *Ledger) Remove(id string) error {
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return nil
		}
	}
	return entity.NewNotFound("follow-up", id)
}

func (l *Ledger) Entries() []*entity.FollowUp {
	return SortForDisplay(l.entries)
}

func (l *Ledger) Metrics() FollowUpMetrics {
	return Metrics(l.entries)
}
