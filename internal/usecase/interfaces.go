package usecase

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/ligue-pipeline/internal/infra/queue"
)

type EventPublisher interface {
	PublishPipelineEvent(ctx context.Context, event queue.PipelineEvent) error
}

type EmailService interface {
	SendLeadWon(to, ownerName, leadName string, value float64) error
	SendProposalSent(to, ownerName, leadName, proposalTitle string, total float64) error
	SendFollowUpDue(to, ownerName, leadName, followUpType string, scheduledAt time.Time) error
}

var now = func() time.Time {
	return time.Now().UTC()
}

// publish nunca derruba a mutação: o dado já foi gravado, o evento é best-effort.
func publish(ctx context.Context, events EventPublisher, event queue.PipelineEvent) {
	if events == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = now()
	}
	if err := events.PublishPipelineEvent(ctx, event); err != nil {
		log.Printf("⚠️ [EVENTS] gravado no banco, mas falha ao publicar %s (lead %s): %v", event.Type, event.LeadID, err)
	}
}
