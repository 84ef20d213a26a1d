package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
	"github.com/xavierca1/ligue-pipeline/internal/infra/queue"
)

// DispatchDueFollowUpsUseCase publica um followup.due para cada follow-up
// agendado na janela (from, to] que ainda não foi concluído. Só a listagem
// pode falhar a execução; erro ao buscar um lead pula aquele follow-up.
type DispatchDueFollowUpsUseCase struct {
	FollowUps entity.FollowUpRepositoryInterface
	Leads     entity.LeadRepositoryInterface
	Events    EventPublisher
}

func NewDispatchDueFollowUpsUseCase(
	followUps entity.FollowUpRepositoryInterface,
	leads entity.LeadRepositoryInterface,
	events EventPublisher,
) *DispatchDueFollowUpsUseCase {
	return &DispatchDueFollowUpsUseCase{
		FollowUps: followUps,
		Leads:     leads,
		Events:    events,
	}
}

func (uc *DispatchDueFollowUpsUseCase) Execute(ctx context.Context, from, to time.Time) (int, error) {
	due, err := uc.FollowUps.ListDue(ctx, from, to)
	if err != nil {
		return 0, fail("list due follow-ups", err)
	}

	dispatched := 0
	for _, f := range due {
		lead, err := uc.Leads.FindByID(ctx, f.LeadID)
		if err != nil {
			// abortar aqui faria o worker repetir a janela e reenviar os que já saíram
			if !errors.Is(err, entity.ErrNotFound) {
				log.Printf("❌ [REMINDER] follow-up %s ignorado, erro ao buscar lead %s: %v", f.ID, f.LeadID, err)
			}
			continue
		}
		// lead fechado não precisa mais de lembrete
		if lead.Status.IsClosed() {
			continue
		}

		publish(ctx, uc.Events, queue.PipelineEvent{
			Type:         queue.EventFollowUpDue,
			LeadID:       lead.ID,
			LeadName:     lead.Name,
			OwnerID:      lead.OwnerID,
			FollowUpID:   f.ID,
			FollowUpType: string(f.Type),
			ScheduledAt:  f.ScheduledAt,
		})
		dispatched++
	}

	if dispatched > 0 {
		log.Printf("⏰ [REMINDER] %d follow-ups vencendo entre %s e %s", dispatched, from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	return dispatched, nil
}
