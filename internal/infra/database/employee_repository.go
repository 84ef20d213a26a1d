package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
)

// EmployeeRepository é só leitura; o cadastro de funcionários é de outro sistema.
type EmployeeRepository struct {
	DB *sql.DB
}

func NewEmployeeRepository(db *sql.DB) *EmployeeRepository {
	return &EmployeeRepository{DB: db}
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*entity.Employee, error) {
	var e entity.Employee
	err := r.DB.QueryRowContext(ctx, `SELECT id, name, email FROM employees WHERE id = $1`, id).
		Scan(&e.ID, &e.Name, &e.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.NewNotFound("employee", id)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
