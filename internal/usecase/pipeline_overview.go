package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
	"github.com/xavierca1/ligue-pipeline/internal/pipeline"
)

type PipelineOverviewUseCase struct {
	Leads entity.LeadRepositoryInterface
}

func NewPipelineOverviewUseCase(leads entity.LeadRepositoryInterface) *PipelineOverviewUseCase {
	return &PipelineOverviewUseCase{Leads: leads}
}

func (uc *PipelineOverviewUseCase) Execute(ctx context.Context, filter entity.LeadFilter) (*pipeline.Overview, error) {
	leads, err := uc.Leads.List(ctx, filter)
	if err != nil {
		return nil, fail("list leads", err)
	}
	overview := pipeline.BuildOverview(leads, filter)
	return &overview, nil
}

type PipelineReportUseCase struct {
	Leads     entity.LeadRepositoryInterface
	Employees entity.EmployeeDirectory
}

func NewPipelineReportUseCase(leads entity.LeadRepositoryInterface, employees entity.EmployeeDirectory) *PipelineReportUseCase {
	return &PipelineReportUseCase{
		Leads:     leads,
		Employees: employees,
	}
}

func (uc *PipelineReportUseCase) Execute(ctx context.Context, input ReportInput) (pipeline.Report, error) {
	role := pipeline.Role(strings.ToLower(strings.TrimSpace(string(input.Role))))
	if !role.IsValid() {
		return nil, validationFailure([]entity.ValidationError{{Field: "role", Message: "must be sales or manager"}})
	}

	switch role {
	case pipeline.RoleSales:
		if strings.TrimSpace(input.OwnerID) == "" {
			return nil, validationFailure([]entity.ValidationError{{Field: "owner_id", Message: "is required for the sales report"}})
		}
		filter := input.Filter
		filter.OwnerID = input.OwnerID
		leads, err := uc.Leads.List(ctx, filter)
		if err != nil {
			return nil, fail("list leads", err)
		}
		return pipeline.NewSalesRepReport(leads, input.OwnerID, uc.ownerName(ctx, input.OwnerID), input.Filter), nil

	default:
		leads, err := uc.Leads.List(ctx, input.Filter)
		if err != nil {
			return nil, fail("list leads", err)
		}
		names := make(map[string]string)
		for _, l := range pipeline.Filter(leads, input.Filter) {
			if _, seen := names[l.OwnerID]; seen || l.OwnerID == "" {
				continue
			}
			names[l.OwnerID] = uc.ownerName(ctx, l.OwnerID)
		}
		return pipeline.NewManagerReport(leads, names, input.Filter), nil
	}
}

// ownerName devolve "" quando o funcionário não existe; o relatório cai para o id.
func (uc *PipelineReportUseCase) ownerName(ctx context.Context, id string) string {
	if uc.Employees == nil || id == "" {
		return ""
	}
	emp, err := uc.Employees.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			log.Printf("⚠️ [REPORT] erro ao buscar funcionário %s: %v", id, err)
		}
		return ""
	}
	return emp.Name
}
