package usecase

import (
	"context"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
)

type GetLeadUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewGetLeadUseCase(repo entity.LeadRepositoryInterface) *GetLeadUseCase {
	return &GetLeadUseCase{Repo: repo}
}

func (uc *GetLeadUseCase) Execute(ctx context.Context, id string) (*entity.Lead, error) {
	lead, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, fail("find lead", err)
	}
	return lead, nil
}

type ListLeadsUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewListLeadsUseCase(repo entity.LeadRepositoryInterface) *ListLeadsUseCase {
	return &ListLeadsUseCase{Repo: repo}
}

// Execute reaplica o filtro em memória: o store pode filtrar só parte dos campos.
func (uc *ListLeadsUseCase) Execute(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	leads, err := uc.Repo.List(ctx, filter)
	if err != nil {
		return nil, fail("list leads", err)
	}

	out := make([]*entity.Lead, 0, len(leads))
	for _, l := range leads {
		if filter.Match(l) {
			out = append(out, l)
		}
	}
	return out, nil
}
