package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
)

type FollowUpRepository struct {
	DB *sql.DB
}

func NewFollowUpRepository(db *sql.DB) *FollowUpRepository {
	return &FollowUpRepository{DB: db}
}

const followUpColumns = `
	id, lead_id, type, notes, scheduled_at, completed_at, duration, outcome, rating, created_by, created_at`

func (r *FollowUpRepository) Create(ctx context.Context, f *entity.FollowUp) error {
	var outcome *string
	if f.Outcome != nil {
		o := string(*f.Outcome)
		outcome = &o
	}

	query := `
		INSERT INTO follow_ups (` + followUpColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.DB.ExecContext(ctx, query,
		f.ID,
		f.LeadID,
		f.Type,
		nullString(f.Notes),
		f.ScheduledAt,
		f.CompletedAt,
		f.Duration,
		outcome,
		f.Rating,
		nullString(f.CreatedBy),
		f.CreatedAt,
	)
	return translateError(err)
}

func (r *FollowUpRepository) FindByID(ctx context.Context, id string) (*entity.FollowUp, error) {
	if !isUUID(id) {
		return nil, entity.NewNotFound("follow-up", id)
	}
	query := `SELECT ` + followUpColumns + ` FROM follow_ups WHERE id = $1`

	f, err := scanFollowUp(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.NewNotFound("follow-up", id)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *FollowUpRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.FollowUp, error) {
	if !isUUID(leadID) {
		return []*entity.FollowUp{}, nil
	}
	query := `SELECT ` + followUpColumns + ` FROM follow_ups WHERE lead_id = $1 ORDER BY created_at`
	return r.query(ctx, query, leadID)
}

func (r *FollowUpRepository) ListDue(ctx context.Context, from, to time.Time) ([]*entity.FollowUp, error) {
	query := `
		SELECT ` + followUpColumns + ` FROM follow_ups
		WHERE completed_at IS NULL
		  AND scheduled_at > $1
		  AND scheduled_at <= $2
		ORDER BY scheduled_at
	`
	return r.query(ctx, query, from, to)
}

func (r *FollowUpRepository) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return entity.NewNotFound("follow-up", id)
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM follow_ups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, "follow-up", id)
}

func (r *FollowUpRepository) query(ctx context.Context, query string, args ...any) ([]*entity.FollowUp, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.FollowUp, 0)
	for rows.Next() {
		f, err := scanFollowUp(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func scanFollowUp(row rowScanner) (*entity.FollowUp, error) {
	var (
		f                       entity.FollowUp
		notes, outcome, creator sql.NullString
		scheduled, completed    sql.NullTime
		duration, rating        sql.NullInt64
	)

	err := row.Scan(
		&f.ID,
		&f.LeadID,
		&f.Type,
		&notes,
		&scheduled,
		&completed,
		&duration,
		&outcome,
		&rating,
		&creator,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	f.Notes = fromNullString(notes)
	f.CreatedBy = fromNullString(creator)
	f.ScheduledAt = fromNullTime(scheduled)
	f.CompletedAt = fromNullTime(completed)
	f.CreatedAt = f.CreatedAt.UTC()
	if duration.Valid {
		d := int(duration.Int64)
		f.Duration = &d
	}
	if rating.Valid {
		v := int(rating.Int64)
		f.Rating = &v
	}
	if outcome.Valid {
		o := entity.Outcome(outcome.String)
		f.Outcome = &o
	}
	return &f, nil
}
