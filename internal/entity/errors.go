package entity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrAlreadyConverted      = errors.New("lead already converted to client")
	ErrInvalidTransition     = errors.New("invalid stage transition")
	ErrProposalLocked        = errors.New("proposal is locked after being sent")
	ErrInvalidProposalStatus = errors.New("invalid proposal status change")
)

// NotFoundError identifica o recurso que não existe no store.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors agrupa todos os problemas de um input de uma vez,
// para o front mostrar tudo no mesmo submit.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// OrNil evita o clássico nil-interface-com-tipo.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func invalid(field, message string) error {
	return ValidationErrors{{Field: field, Message: message}}
}

func IsValidationError(err error) bool {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return true
	}
	var verr ValidationError
	return errors.As(err, &verr)
}
