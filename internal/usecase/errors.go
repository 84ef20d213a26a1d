package usecase

import (
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
)

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeAlreadyConverted  = "ALREADY_CONVERTED"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeProposalLocked    = "PROPOSAL_LOCKED"
	CodeInvalidStatus     = "INVALID_STATUS"
	CodeStoreFailure      = "STORE_FAILURE"
)

// DomainError é um erro de regra de negócio: o caller não deve tentar de novo.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError é falha de colaborador externo (banco, rede). Pode ser retentada pelo caller.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ErrorCode devolve o código do erro classificado, ou "" se não for nosso.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

// fail classifica err: erros de domínio conhecidos viram DomainError, o resto
// é tratado como falha do store.
func fail(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) || IsTechnicalError(err) {
		return err
	}

	switch {
	case entity.IsValidationError(err):
		return &DomainError{Code: CodeValidation, Message: err.Error(), Err: err}
	case errors.Is(err, entity.ErrNotFound):
		return &DomainError{Code: CodeNotFound, Message: err.Error(), Err: err}
	case errors.Is(err, entity.ErrAlreadyConverted):
		return &DomainError{Code: CodeAlreadyConverted, Message: err.Error(), Err: err}
	case errors.Is(err, entity.ErrInvalidTransition):
		return &DomainError{Code: CodeInvalidTransition, Message: err.Error(), Err: err}
	case errors.Is(err, entity.ErrProposalLocked):
		return &DomainError{Code: CodeProposalLocked, Message: err.Error(), Err: err}
	case errors.Is(err, entity.ErrInvalidProposalStatus):
		return &DomainError{Code: CodeInvalidStatus, Message: err.Error(), Err: err}
	}

	return &TechnicalError{
		Code:    CodeStoreFailure,
		Message: fmt.Sprintf("%s failed", op),
		Err:     err,
	}
}
