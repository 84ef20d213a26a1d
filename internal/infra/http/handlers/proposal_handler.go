package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-pipeline/internal/entity"
	"github.com/xavierca1/ligue-pipeline/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-pipeline/internal/usecase"
)

// ProposalRenderer gera o documento da proposta (ver infra/pdf).
type ProposalRenderer interface {
	Render(w io.Writer, p *entity.Proposal, lead *entity.Lead) error
}

type ProposalHandler struct {
	CreateUC *usecase.CreateProposalUseCase
	GetUC    *usecase.GetProposalUseCase
	ListUC   *usecase.ListProposalsUseCase
	EditUC   *usecase.EditProposalUseCase
	SendUC   *usecase.SendProposalUseCase
	DecideUC *usecase.DecideProposalUseCase
	LeadUC   *usecase.GetLeadUseCase
	Renderer ProposalRenderer
}

func (h *ProposalHandler) List(w http.ResponseWriter, r *http.Request) {
	proposals, err := h.ListUC.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	out := make([]usecase.ProposalOutput, 0, len(proposals))
	for _, p := range proposals {
		out = append(out, usecase.NewProposalOutput(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ProposalHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.GetUC.Execute(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, http.StatusOK, p, err)
}

func (h *ProposalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft entity.ProposalDraft
	if !decodeJSON(w, r, &draft) {
		return
	}
	draft.LeadID = chi.URLParam(r, "id")

	p, err := h.CreateUC.Execute(r.Context(), draft)
	h.respond(w, http.StatusCreated, p, err)
}

func (h *ProposalHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var item entity.ProposalItem
	if !decodeJSON(w, r, &item) {
		return
	}

	p, err := h.EditUC.AddItem(r.Context(), chi.URLParam(r, "id"), item)
	h.respond(w, http.StatusOK, p, err)
}

func (h *ProposalHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	index, ok := itemIndex(w, r)
	if !ok {
		return
	}
	var input usecase.UpdateItemInput
	if !decodeJSON(w, r, &input) {
		return
	}

	p, err := h.EditUC.UpdateItem(r.Context(), chi.URLParam(r, "id"), index, input)
	h.respond(w, http.StatusOK, p, err)
}

func (h *ProposalHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	index, ok := itemIndex(w, r)
	if !ok {
		return
	}

	p, err := h.EditUC.RemoveItem(r.Context(), chi.URLParam(r, "id"), index)
	h.respond(w, http.StatusOK, p, err)
}

func (h *ProposalHandler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Discount float64 `json:"discount"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	p, err := h.EditUC.SetDiscount(r.Context(), chi.URLParam(r, "id"), input.Discount)
	h.respond(w, http.StatusOK, p, err)
}

func (h *ProposalHandler) Send(w http.ResponseWriter, r *http.Request) {
	p, err := h.SendUC.Execute(r.Context(), chi.URLParam(r, "id"))
	if err == nil {
		middleware.RecordProposalSent()
	}
	h.respond(w, http.StatusOK, p, err)
}

func (h *ProposalHandler) Accept(w http.ResponseWriter, r *http.Request) {
	p, err := h.DecideUC.Accept(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, http.StatusOK, p, err)
}

func (h *ProposalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	p, err := h.DecideUC.Reject(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, http.StatusOK, p, err)
}

// PDF (GET /proposals/{id}/pdf)
func (h *ProposalHandler) PDF(w http.ResponseWriter, r *http.Request) {
	p, err := h.GetUC.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	lead, err := h.LeadUC.Execute(r.Context(), p.LeadID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	// renderiza em memória: se falhar no meio, ainda dá para responder 500
	var buf bytes.Buffer
	if err := h.Renderer.Render(&buf, p, lead); err != nil {
		log.Printf("❌ [PDF] erro ao gerar proposta %s: %v", p.ID, err)
		writeErrorResponse(w, http.StatusInternalServerError, "PDF_ERROR", "Erro ao gerar PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="proposta-%s.pdf"`, p.ID))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (h *ProposalHandler) respond(w http.ResponseWriter, status int, p *entity.Proposal, err error) {
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, status, usecase.NewProposalOutput(p))
}

func itemIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_INDEX", "index must be an integer")
		return 0, false
	}
	return index, true
}
