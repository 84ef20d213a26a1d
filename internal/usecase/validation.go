package usecase

import (
	"regexp"
	"strings"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
)

var nonDigit = regexp.MustCompile(`\D`)

// ValidateLeadDraft cobre regras de formato que a entidade não conhece.
func ValidateLeadDraft(draft entity.LeadDraft) []entity.ValidationError {
	var errors []entity.ValidationError

	if strings.TrimSpace(draft.Phone) != "" && !isValidPhoneNumber(draft.Phone) {
		errors = append(errors, entity.ValidationError{Field: "phone", Message: "must be a valid phone number"})
	}

	return errors
}

func ValidateConvertLeadInput(input ConvertLeadInput) []entity.ValidationError {
	var errors []entity.ValidationError

	if strings.TrimSpace(input.LeadID) == "" {
		errors = append(errors, entity.ValidationError{Field: "lead_id", Message: "is required"})
	}
	if input.Client.Document != "" && !isValidDocument(input.Client.Document) {
		errors = append(errors, entity.ValidationError{Field: "client.document", Message: "must be a valid CPF or CNPJ"})
	}
	if strings.TrimSpace(input.Client.Phone) != "" && !isValidPhoneNumber(input.Client.Phone) {
		errors = append(errors, entity.ValidationError{Field: "client.phone", Message: "must be a valid phone number"})
	}

	return errors
}

// isValidDocument aceita CPF (11 dígitos) ou CNPJ (14), rejeitando sequências repetidas.
func isValidDocument(doc string) bool {
	cleaned := nonDigit.ReplaceAllString(doc, "")

	if len(cleaned) != 11 && len(cleaned) != 14 {
		return false
	}

	firstDigit := cleaned[0]
	for i := 1; i < len(cleaned); i++ {
		if cleaned[i] != firstDigit {
			return true
		}
	}
	return false
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigit.ReplaceAllString(phone, "")

	return len(cleaned) >= 10 && len(cleaned) <= 11
}

func validationFailure(errs []entity.ValidationError) error {
	return fail("validate", entity.ValidationErrors(errs).OrNil())
}
