package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-pipeline/internal/entity"
	"github.com/xavierca1/ligue-pipeline/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-pipeline/internal/usecase"
)

type FollowUpHandler struct {
	AppendUC *usecase.AppendFollowUpUseCase
	RemoveUC *usecase.RemoveFollowUpUseCase
	LedgerUC *usecase.GetLeadLedgerUseCase
}

func NewFollowUpHandler(
	appendUC *usecase.AppendFollowUpUseCase,
	removeUC *usecase.RemoveFollowUpUseCase,
	ledgerUC *usecase.GetLeadLedgerUseCase,
) *FollowUpHandler {
	return &FollowUpHandler{
		AppendUC: appendUC,
		RemoveUC: removeUC,
		LedgerUC: ledgerUC,
	}
}

// Ledger (GET /leads/{id}/follow-ups): histórico ordenado + métricas
func (h *FollowUpHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	out, err := h.LedgerUC.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *FollowUpHandler) Append(w http.ResponseWriter, r *http.Request) {
	var draft entity.FollowUpDraft
	if !decodeJSON(w, r, &draft) {
		return
	}
	draft.LeadID = chi.URLParam(r, "id")

	f, err := h.AppendUC.Execute(r.Context(), draft)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	middleware.RecordFollowUpLogged(string(f.Type))
	writeJSON(w, http.StatusCreated, f)
}

func (h *FollowUpHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.RemoveUC.Execute(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
