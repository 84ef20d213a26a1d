package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
)

type UpdateLeadUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewUpdateLeadUseCase(repo entity.LeadRepositoryInterface) *UpdateLeadUseCase {
	return &UpdateLeadUseCase{Repo: repo}
}

// Execute troca os campos editáveis. Estágio e conversão só mudam pelos
// use cases de transição e conversão.
func (uc *UpdateLeadUseCase) Execute(ctx context.Context, id string, draft entity.LeadDraft) (*entity.Lead, error) {
	if errs := ValidateLeadDraft(draft); len(errs) > 0 {
		return nil, validationFailure(errs)
	}

	current, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, fail("find lead", err)
	}

	updated := current.Clone()
	updated.Apply(draft)
	if err := updated.Validate(); err != nil {
		return nil, fail("update lead", err)
	}
	updated.UpdatedAt = now()

	if err := uc.Repo.Update(ctx, updated); err != nil {
		log.Printf("❌ [LEAD] erro ao atualizar lead %s: %v", id, err)
		return nil, fail("update lead", err)
	}

	return updated, nil
}
