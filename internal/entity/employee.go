package entity

import "context"

// Employee é só leitura: o núcleo usa para resolver nome/e-mail do dono do lead.
type Employee struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type EmployeeDirectory interface {
	FindByID(ctx context.Context, id string) (*Employee, error)
}
