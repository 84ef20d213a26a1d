package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
	"github.com/xavierca1/ligue-pipeline/internal/infra/queue"
	"github.com/xavierca1/ligue-pipeline/internal/pipeline"
)

type TransitionLeadUseCase struct {
	Repo    entity.LeadRepositoryInterface
	Machine *pipeline.StateMachine
	Events  EventPublisher
}

func NewTransitionLeadUseCase(repo entity.LeadRepositoryInterface, machine *pipeline.StateMachine, events EventPublisher) *TransitionLeadUseCase {
	return &TransitionLeadUseCase{
		Repo:    repo,
		Machine: machine,
		Events:  events,
	}
}

// Execute aplica a mudança numa cópia do lead; se o store falhar, o lead
// lido continua intacto e nenhum evento sai.
func (uc *TransitionLeadUseCase) Execute(ctx context.Context, input TransitionLeadInput) (*TransitionLeadOutput, error) {
	current, err := uc.Repo.FindByID(ctx, input.LeadID)
	if err != nil {
		return nil, fail("find lead", err)
	}

	updated := current.Clone()
	change, err := uc.Machine.Transition(updated, input.Status, now())
	if err != nil {
		return nil, fail("transition lead", err)
	}

	if err := uc.Repo.Update(ctx, updated); err != nil {
		log.Printf("❌ [PIPELINE] erro ao mover lead %s para %s: %v", updated.ID, change.To, err)
		return nil, fail("transition lead", err)
	}

	if change.Changed() {
		log.Printf("🔀 [PIPELINE] lead %s: %s → %s", updated.ID, change.From, change.To)
		publish(ctx, uc.Events, queue.PipelineEvent{
			Type:      queue.EventLeadStageChanged,
			LeadID:    updated.ID,
			LeadName:  updated.Name,
			OwnerID:   updated.OwnerID,
			Value:     updated.Value,
			FromStage: string(change.From),
			ToStage:   string(change.To),
		})
	}

	return &TransitionLeadOutput{Lead: updated, Change: change}, nil
}
