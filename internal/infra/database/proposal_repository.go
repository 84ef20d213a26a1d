package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
)

type ProposalRepository struct {
	DB *sql.DB
}

func NewProposalRepository(db *sql.DB) *ProposalRepository {
	return &ProposalRepository{DB: db}
}

const proposalColumns = `
	id, lead_id, title, items, discount, status, sent_at, decided_at, created_at, updated_at`

func (r *ProposalRepository) Create(ctx context.Context, p *entity.Proposal) error {
	items, err := marshalJSONColumn(p.Items)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO proposals (` + proposalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.DB.ExecContext(ctx, query,
		p.ID,
		p.LeadID,
		p.Title,
		items,
		p.Discount,
		p.Status,
		p.SentAt,
		p.DecidedAt,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return translateError(err)
}

func (r *ProposalRepository) Update(ctx context.Context, p *entity.Proposal) error {
	items, err := marshalJSONColumn(p.Items)
	if err != nil {
		return err
	}

	query := `
		UPDATE proposals SET
			title = $2, items = $3, discount = $4, status = $5,
			sent_at = $6, decided_at = $7, updated_at = $8
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query,
		p.ID,
		p.Title,
		items,
		p.Discount,
		p.Status,
		p.SentAt,
		p.DecidedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return translateError(err)
	}
	return affectedOrNotFound(res, "proposal", p.ID)
}

func (r *ProposalRepository) FindByID(ctx context.Context, id string) (*entity.Proposal, error) {
	if !isUUID(id) {
		return nil, entity.NewNotFound("proposal", id)
	}
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = $1`

	p, err := scanProposal(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.NewNotFound("proposal", id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProposalRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.Proposal, error) {
	if !isUUID(leadID) {
		return []*entity.Proposal{}, nil
	}
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE lead_id = $1 ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Proposal, 0)
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProposal(row rowScanner) (*entity.Proposal, error) {
	var (
		p              entity.Proposal
		items          []byte
		sent, decided  sql.NullTime
	)

	err := row.Scan(
		&p.ID,
		&p.LeadID,
		&p.Title,
		&items,
		&p.Discount,
		&p.Status,
		&sent,
		&decided,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.SentAt = fromNullTime(sent)
	p.DecidedAt = fromNullTime(decided)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	p.Items = []entity.ProposalItem{}
	if err := unmarshalJSONColumn(items, &p.Items); err != nil {
		return nil, fmt.Errorf("proposal %s items: %w", p.ID, err)
	}
	return &p, nil
}
