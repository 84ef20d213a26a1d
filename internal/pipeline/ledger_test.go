package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
)

func ptr[T any](v T) *T { return &v }

func followUp(id, leadID string, created time.Time) *entity.FollowUp {
	return &entity.FollowUp{ID: id, LeadID: leadID, Type: entity.FollowUpPhone, CreatedAt: created}
}

func TestMetrics_AverageUsesRatedEntriesOnly(t *testing.T) {
	a := followUp("a", "lead-1", now)
	a.Rating = ptr(5)
	b := followUp("b", "lead-1", now)
	b.Rating = ptr(5)
	c := followUp("c", "lead-1", now)

	m := Metrics([]*entity.FollowUp{a, b, c})

	assert.Equal(t, 3, m.Count)
	assert.Equal(t, 2, m.RatedCount)
	assert.Equal(t, 5.0, m.AverageRating)
}

func TestMetrics_DurationAndOutcomes(t *testing.T) {
	a := followUp("a", "lead-1", now)
	a.Duration = ptr(30)
	a.Outcome = ptr(entity.OutcomePositive)
	b := followUp("b", "lead-1", now)
	b.Duration = ptr(15)
	b.Outcome = ptr(entity.OutcomePositive)
	c := followUp("c", "lead-1", now)

	m := Metrics([]*entity.FollowUp{a, b, c})

	assert.Equal(t, 45, m.TotalDurationMinutes)
	assert.Equal(t, 0.0, m.AverageRating)
	assert.Equal(t, map[string]int{
		string(entity.OutcomePositive): 2,
		NoOutcomeRecorded:              1,
	}, m.OutcomeDistribution)
}

func TestMetrics_Empty(t *testing.T) {
	m := Metrics(nil)

	assert.Equal(t, 0, m.Count)
	assert.Equal(t, 0.0, m.AverageRating)
	assert.NotNil(t, m.OutcomeDistribution)
	assert.Empty(t, m.OutcomeDistribution)
}

func TestSortForDisplay(t *testing.T) {
	old := followUp("old", "lead-1", now.Add(-48*time.Hour))
	recent := followUp("recent", "lead-1", now)
	scheduled := followUp("scheduled", "lead-1", now.Add(-72*time.Hour))
	scheduled.ScheduledAt = ptr(now.Add(24 * time.Hour))

	input := []*entity.FollowUp{old, recent, scheduled}
	sorted := SortForDisplay(input)

	ids := []string{sorted[0].ID, sorted[1].ID, sorted[2].ID}
	assert.Equal(t, []string{"scheduled", "recent", "old"}, ids)
	assert.Equal(t, "old", input[0].ID, "input must not be reordered")
}

func TestLedger_AppendAndRemove(t *testing.T) {
	ledger, err := NewLedger("lead-1", []*entity.FollowUp{followUp("a", "lead-1", now)})
	require.NoError(t, err)

	require.NoError(t, ledger.Append(followUp("b", "lead-1", now.Add(time.Hour))))
	assert.Equal(t, 2, ledger.Len())
	assert.Equal(t, "b", ledger.Entries()[0].ID)

	require.NoError(t, ledger.Remove("a"))
	assert.Equal(t, 1, ledger.Len())

	err = ledger.Remove("a")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestLedger_AppendRejects(t *testing.T) {
	ledger, err := NewLedger("lead-1", nil)
	require.NoError(t, err)
	require.NoError(t, ledger.Append(followUp("a", "lead-1", now)))

	assert.True(t, entity.IsValidationError(ledger.Append(nil)))
	assert.True(t, entity.IsValidationError(ledger.Append(followUp("x", "lead-2", now))))
	assert.True(t, entity.IsValidationError(ledger.Append(followUp("a", "lead-1", now))))
	assert.Equal(t, 1, ledger.Len())
}

func TestNewLedger_RejectsForeignEntries(t *testing.T) {
	_, err := NewLedger("lead-1", []*entity.FollowUp{followUp("a", "lead-2", now)})
	assert.True(t, entity.IsValidationError(err))
}
