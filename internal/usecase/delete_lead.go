package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
	"github.com/xavierca1/ligue-pipeline/internal/infra/queue"
)

type DeleteLeadUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Events EventPublisher
}

func NewDeleteLeadUseCase(leads entity.LeadRepositoryInterface, events EventPublisher) *DeleteLeadUseCase {
	return &DeleteLeadUseCase{
		Leads:  leads,
		Events: events,
	}
}

// Execute apaga o lead com follow-ups e propostas. A cascata é uma única
// chamada ao store; se falhar, nada foi removido.
func (uc *DeleteLeadUseCase) Execute(ctx context.Context, id string) error {
	lead, err := uc.Leads.FindByID(ctx, id)
	if err != nil {
		return fail("find lead", err)
	}

	if err := uc.Leads.Delete(ctx, id); err != nil {
		log.Printf("❌ [LEAD] erro ao apagar lead %s: %v", id, err)
		return fail("delete lead", err)
	}

	log.Printf("🗑️ [LEAD] lead %s removido", id)

	publish(ctx, uc.Events, queue.PipelineEvent{
		Type:      queue.EventLeadDeleted,
		LeadID:    lead.ID,
		LeadName:  lead.Name,
		OwnerID:   lead.OwnerID,
		FromStage: string(lead.Status),
	})
	return nil
}
