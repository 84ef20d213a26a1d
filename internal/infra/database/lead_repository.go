package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/xavierca1/ligue-pipeline/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `
	id, name, company, email, phone, source, priority, status, owner_id, project_type,
	value, probability, expected_close_date, converted_to_client_id, converted_at,
	notes, tasks, attachments, created_at, updated_at`

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	notes, tasks, attachments, err := marshalLeadCollections(lead)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	_, err = r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.Name,
		nullString(lead.Company),
		nullString(lead.Email),
		nullString(lead.Phone),
		nullString(lead.Source),
		lead.Priority,
		lead.Status,
		nullString(lead.OwnerID),
		nullString(lead.ProjectType),
		lead.Value,
		lead.Probability,
		lead.ExpectedCloseDate,
		nullString(lead.ConvertedToClientID),
		lead.ConvertedAt,
		notes,
		tasks,
		attachments,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	return translateError(err)
}

func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	notes, tasks, attachments, err := marshalLeadCollections(lead)
	if err != nil {
		return err
	}

	query := `
		UPDATE leads SET
			name = $2, company = $3, email = $4, phone = $5, source = $6,
			priority = $7, status = $8, owner_id = $9, project_type = $10,
			value = $11, probability = $12, expected_close_date = $13,
			converted_to_client_id = $14, converted_at = $15,
			notes = $16, tasks = $17, attachments = $18, updated_at = $19
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.Name,
		nullString(lead.Company),
		nullString(lead.Email),
		nullString(lead.Phone),
		nullString(lead.Source),
		lead.Priority,
		lead.Status,
		nullString(lead.OwnerID),
		nullString(lead.ProjectType),
		lead.Value,
		lead.Probability,
		lead.ExpectedCloseDate,
		nullString(lead.ConvertedToClientID),
		lead.ConvertedAt,
		notes,
		tasks,
		attachments,
		lead.UpdatedAt,
	)
	if err != nil {
		return translateError(err)
	}
	return affectedOrNotFound(res, "lead", lead.ID)
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	if !isUUID(id) {
		return nil, entity.NewNotFound("lead", id)
	}
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.NewNotFound("lead", id)
	}
	if err != nil {
		return nil, translateError(err)
	}
	return lead, nil
}

// List empurra para o SQL os filtros de igualdade e a busca textual.
func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	where, args := leadFilterClause(filter)
	query := `SELECT ` + leadColumns + ` FROM leads` + where + ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	leads := make([]*entity.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// Delete apaga follow-ups, propostas e o lead numa única transação: ou sai
// tudo ou nada muda.
func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return entity.NewNotFound("lead", id)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM follow_ups WHERE lead_id = $1`, id); err != nil {
		return fmt.Errorf("delete follow-ups: %w", translateError(err))
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM proposals WHERE lead_id = $1`, id); err != nil {
		return fmt.Errorf("delete proposals: %w", translateError(err))
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	if err := affectedOrNotFound(res, "lead", id); err != nil {
		return err
	}
	return tx.Commit()
}

func leadFilterClause(f entity.LeadFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.OwnerID != "" {
		add("owner_id = $%d", f.OwnerID)
	}
	if f.Priority != "" {
		add("priority = $%d", string(f.Priority))
	}
	if f.ProjectType != "" {
		add("LOWER(project_type) = LOWER($%d)", f.ProjectType)
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		args = append(args, "%"+escapeLike(term)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR company ILIKE $%d OR email ILIKE $%d)", n, n, n))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		lead                                  entity.Lead
		company, email, phone, source         sql.NullString
		ownerID, projectType, convertedClient sql.NullString
		expectedClose, convertedAt            sql.NullTime
		notes, tasks, attachments             []byte
	)

	err := row.Scan(
		&lead.ID,
		&lead.Name,
		&company,
		&email,
		&phone,
		&source,
		&lead.Priority,
		&lead.Status,
		&ownerID,
		&projectType,
		&lead.Value,
		&lead.Probability,
		&expectedClose,
		&convertedClient,
		&convertedAt,
		&notes,
		&tasks,
		&attachments,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Company = fromNullString(company)
	lead.Email = fromNullString(email)
	lead.Phone = fromNullString(phone)
	lead.Source = fromNullString(source)
	lead.OwnerID = fromNullString(ownerID)
	lead.ProjectType = fromNullString(projectType)
	lead.ConvertedToClientID = fromNullString(convertedClient)
	lead.ExpectedCloseDate = fromNullTime(expectedClose)
	lead.ConvertedAt = fromNullTime(convertedAt)
	lead.CreatedAt = lead.CreatedAt.UTC()
	lead.UpdatedAt = lead.UpdatedAt.UTC()

	lead.Notes = []entity.Note{}
	lead.Tasks = []entity.Task{}
	lead.Attachments = []entity.Attachment{}
	if err := unmarshalJSONColumn(notes, &lead.Notes); err != nil {
		return nil, fmt.Errorf("lead %s notes: %w", lead.ID, err)
	}
	if err := unmarshalJSONColumn(tasks, &lead.Tasks); err != nil {
		return nil, fmt.Errorf("lead %s tasks: %w", lead.ID, err)
	}
	if err := unmarshalJSONColumn(attachments, &lead.Attachments); err != nil {
		return nil, fmt.Errorf("lead %s attachments: %w", lead.ID, err)
	}

	return &lead, nil
}

func marshalLeadCollections(lead *entity.Lead) (notes, tasks, attachments string, err error) {
	if notes, err = marshalJSONColumn(lead.Notes); err != nil {
		return
	}
	if tasks, err = marshalJSONColumn(lead.Tasks); err != nil {
		return
	}
	attachments, err = marshalJSONColumn(lead.Attachments)
	return
}

// marshalJSONColumn grava slice nil como '[]' para respeitar o NOT NULL.
// Vai como string: o lib/pq mandaria []byte como bytea.
func marshalJSONColumn[T any](v []T) (string, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}

func unmarshalJSONColumn(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// translateError converte violações conhecidas do Postgres em erros de domínio.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			if pqErr.Constraint == clientLeadUnique {
				return entity.ErrAlreadyConverted
			}
			return entity.ValidationErrors{{Field: "id", Message: "already exists"}}
		case "foreign_key_violation":
			return entity.ValidationErrors{{Field: "lead_id", Message: "references a lead that does not exist"}}
		case "check_violation":
			return entity.ValidationErrors{{Field: pqErr.Constraint, Message: "violates " + pqErr.Table + " constraint"}}
		}
	}
	return err
}
