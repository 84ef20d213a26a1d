package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-pipeline/internal/pipeline"
	"github.com/xavierca1/ligue-pipeline/internal/usecase"
)

type PipelineHandler struct {
	OverviewUC *usecase.PipelineOverviewUseCase
	ReportUC   *usecase.PipelineReportUseCase
}

func NewPipelineHandler(overviewUC *usecase.PipelineOverviewUseCase, reportUC *usecase.PipelineReportUseCase) *PipelineHandler {
	return &PipelineHandler{
		OverviewUC: overviewUC,
		ReportUC:   reportUC,
	}
}

// Overview (GET /pipeline): quadro por estágio + KPIs com os filtros da query
func (h *PipelineHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.OverviewUC.Execute(r.Context(), leadFilterFromQuery(r))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// Report (GET /pipeline/report?role=sales&owner=...)
func (h *PipelineHandler) Report(w http.ResponseWriter, r *http.Request) {
	filter := leadFilterFromQuery(r)
	input := usecase.ReportInput{
		Role:    pipeline.Role(r.URL.Query().Get("role")),
		OwnerID: filter.OwnerID,
		Filter:  filter,
	}
	// owner é o sujeito do relatório de vendas, não um filtro extra
	input.Filter.OwnerID = ""

	report, err := h.ReportUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
