package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
	"github.com/xavierca1/ligue-pipeline/internal/infra/queue"
)

type CreateLeadUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Events EventPublisher
}

func NewCreateLeadUseCase(repo entity.LeadRepositoryInterface, events EventPublisher) *CreateLeadUseCase {
	return &CreateLeadUseCase{
		Repo:   repo,
		Events: events,
	}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, draft entity.LeadDraft) (*entity.Lead, error) {
	if errs := ValidateLeadDraft(draft); len(errs) > 0 {
		return nil, validationFailure(errs)
	}

	lead, err := entity.NewLead(draft, now())
	if err != nil {
		return nil, fail("create lead", err)
	}

	if err := uc.Repo.Create(ctx, lead); err != nil {
		log.Printf("❌ [LEAD] erro ao salvar lead %s: %v", lead.Name, err)
		return nil, fail("create lead", err)
	}

	log.Printf("✅ [LEAD] lead criado: %s (%s)", lead.ID, lead.Name)

	publish(ctx, uc.Events, queue.PipelineEvent{
		Type:     queue.EventLeadCreated,
		LeadID:   lead.ID,
		LeadName: lead.Name,
		OwnerID:  lead.OwnerID,
		Value:    lead.Value,
		ToStage:  string(lead.Status),
	})

	return lead, nil
}
