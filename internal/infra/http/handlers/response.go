package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
	"github.com/xavierca1/ligue-pipeline/internal/usecase"
)

type ErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Fields  []entity.ValidationError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("⚠️ [HTTP] erro ao escrever resposta: %v", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// writeUseCaseError traduz o erro classificado do use case em status HTTP.
// Falha técnica não vaza detalhe do banco para o cliente.
func writeUseCaseError(w http.ResponseWriter, err error) {
	code := usecase.ErrorCode(err)
	resp := ErrorResponse{Code: code, Message: err.Error()}

	var verrs entity.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Fields = verrs
	}

	status := http.StatusInternalServerError
	switch code {
	case usecase.CodeValidation:
		status = http.StatusUnprocessableEntity
	case usecase.CodeNotFound:
		status = http.StatusNotFound
	case usecase.CodeAlreadyConverted, usecase.CodeInvalidTransition, usecase.CodeProposalLocked, usecase.CodeInvalidStatus:
		status = http.StatusConflict
	case usecase.CodeStoreFailure:
		status = http.StatusServiceUnavailable
		log.Printf("❌ [HTTP] falha técnica: %v", err)
		resp.Message = "Serviço temporariamente indisponível"
	default:
		log.Printf("❌ [HTTP] erro não classificado: %v", err)
		resp.Code = "INTERNAL_ERROR"
		resp.Message = "Erro interno"
	}

	writeJSON(w, status, resp)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return false
	}
	return true
}

// leadFilterFromQuery lê ?owner=&priority=&project_type=&status=&q=
func leadFilterFromQuery(r *http.Request) entity.LeadFilter {
	q := r.URL.Query()
	return entity.LeadFilter{
		OwnerID:     strings.TrimSpace(q.Get("owner")),
		Priority:    entity.Priority(strings.ToUpper(strings.TrimSpace(q.Get("priority")))),
		ProjectType: strings.TrimSpace(q.Get("project_type")),
		Status:      entity.Stage(strings.ToUpper(strings.TrimSpace(q.Get("status")))),
		Search:      strings.TrimSpace(q.Get("q")),
	}
}
