package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
)

// índice único em clients.lead_id (schema.sql)
const clientLeadUnique = "clients_lead_id_key"

type ClientRepository struct {
	DB *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{DB: db}
}

func (r *ClientRepository) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (id, lead_id, name, company, email, phone, document, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query,
		c.ID,
		c.LeadID,
		c.Name,
		nullString(c.Company),
		nullString(c.Email),
		nullString(c.Phone),
		nullString(c.Document),
		c.CreatedAt,
	)
	return translateError(err)
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*entity.Client, error) {
	if !isUUID(id) {
		return nil, entity.NewNotFound("client", id)
	}

	var (
		c                               entity.Client
		company, email, phone, document sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, lead_id, name, company, email, phone, document, created_at
		FROM clients WHERE id = $1
	`, id).Scan(&c.ID, &c.LeadID, &c.Name, &company, &email, &phone, &document, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.NewNotFound("client", id)
	}
	if err != nil {
		return nil, err
	}

	c.Company = fromNullString(company)
	c.Email = fromNullString(email)
	c.Phone = fromNullString(phone)
	c.Document = fromNullString(document)
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return entity.NewNotFound("client", id)
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, "client", id)
}
