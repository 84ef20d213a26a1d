package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-pipeline/internal/entity"
	"github.com/xavierca1/ligue-pipeline/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-pipeline/internal/usecase"
)

type LeadHandler struct {
	CreateUC     *usecase.CreateLeadUseCase
	GetUC        *usecase.GetLeadUseCase
	ListUC       *usecase.ListLeadsUseCase
	UpdateUC     *usecase.UpdateLeadUseCase
	DeleteUC     *usecase.DeleteLeadUseCase
	TransitionUC *usecase.TransitionLeadUseCase
	ConvertUC    *usecase.ConvertLeadUseCase
	ActivityUC   *usecase.LeadActivityUseCase
	RateLimiter  *RateLimiter
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.RateLimiter != nil && !h.RateLimiter.Allow(getClientIP(r)) {
		writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
		return
	}

	var draft entity.LeadDraft
	if !decodeJSON(w, r, &draft) {
		return
	}

	lead, err := h.CreateUC.Execute(r.Context(), draft)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.ListUC.Execute(r.Context(), leadFilterFromQuery(r))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.GetUC.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var draft entity.LeadDraft
	if !decodeJSON(w, r, &draft) {
		return
	}

	lead, err := h.UpdateUC.Execute(r.Context(), chi.URLParam(r, "id"), draft)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.DeleteUC.Execute(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Transition (POST /leads/{id}/transition) {"status": "NEGOTIATION"}
func (h *LeadHandler) Transition(w http.ResponseWriter, r *http.Request) {
	var input usecase.TransitionLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.LeadID = chi.URLParam(r, "id")

	out, err := h.TransitionUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	if out.Change.Changed() {
		middleware.RecordStageTransition(string(out.Change.From), string(out.Change.To))
	}
	writeJSON(w, http.StatusOK, out.Lead)
}

// Convert (POST /leads/{id}/convert). Corpo opcional com campos do cliente.
func (h *LeadHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var input usecase.ConvertLeadInput
	if r.ContentLength != 0 && !decodeJSON(w, r, &input) {
		return
	}
	input.LeadID = chi.URLParam(r, "id")

	out, err := h.ConvertUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	middleware.RecordLeadConverted()
	writeJSON(w, http.StatusCreated, out)
}

func (h *LeadHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	var input usecase.AddNoteInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.LeadID = chi.URLParam(r, "id")

	note, err := h.ActivityUC.AddNote(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (h *LeadHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	var input usecase.AddTaskInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.LeadID = chi.URLParam(r, "id")

	task, err := h.ActivityUC.AddTask(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *LeadHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	lead, err := h.ActivityUC.CompleteTask(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "taskId"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) AddAttachment(w http.ResponseWriter, r *http.Request) {
	var input entity.Attachment
	if !decodeJSON(w, r, &input) {
		return
	}

	att, err := h.ActivityUC.AddAttachment(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, att)
}
