package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
	"github.com/xavierca1/ligue-pipeline/internal/infra/queue"
	"github.com/xavierca1/ligue-pipeline/internal/pipeline"
)

type AppendFollowUpUseCase struct {
	Leads     entity.LeadRepositoryInterface
	FollowUps entity.FollowUpRepositoryInterface
	Events    EventPublisher
}

func NewAppendFollowUpUseCase(
	leads entity.LeadRepositoryInterface,
	followUps entity.FollowUpRepositoryInterface,
	events EventPublisher,
) *AppendFollowUpUseCase {
	return &AppendFollowUpUseCase{
		Leads:     leads,
		FollowUps: followUps,
		Events:    events,
	}
}

func (uc *AppendFollowUpUseCase) Execute(ctx context.Context, draft entity.FollowUpDraft) (*entity.FollowUp, error) {
	followUp, err := entity.NewFollowUp(draft, now())
	if err != nil {
		return nil, fail("append follow-up", err)
	}

	lead, err := uc.Leads.FindByID(ctx, draft.LeadID)
	if err != nil {
		return nil, fail("find lead", err)
	}

	if err := uc.FollowUps.Create(ctx, followUp); err != nil {
		log.Printf("❌ [FOLLOW-UP] erro ao registrar follow-up do lead %s: %v", lead.ID, err)
		return nil, fail("append follow-up", err)
	}

	event := queue.PipelineEvent{
		Type:         queue.EventFollowUpLogged,
		LeadID:       lead.ID,
		LeadName:     lead.Name,
		OwnerID:      lead.OwnerID,
		FollowUpID:   followUp.ID,
		FollowUpType: string(followUp.Type),
		ScheduledAt:  followUp.ScheduledAt,
	}
	publish(ctx, uc.Events, event)

	return followUp, nil
}

type RemoveFollowUpUseCase struct {
	FollowUps entity.FollowUpRepositoryInterface
}

func NewRemoveFollowUpUseCase(followUps entity.FollowUpRepositoryInterface) *RemoveFollowUpUseCase {
	return &RemoveFollowUpUseCase{FollowUps: followUps}
}

func (uc *RemoveFollowUpUseCase) Execute(ctx context.Context, id string) error {
	if _, err := uc.FollowUps.FindByID(ctx, id); err != nil {
		return fail("find follow-up", err)
	}
	if err := uc.FollowUps.Delete(ctx, id); err != nil {
		return fail("remove follow-up", err)
	}
	return nil
}

// GetLeadLedgerUseCase monta o histórico ordenado e as métricas de um lead.
type GetLeadLedgerUseCase struct {
	Leads     entity.LeadRepositoryInterface
	FollowUps entity.FollowUpRepositoryInterface
}

func NewGetLeadLedgerUseCase(leads entity.LeadRepositoryInterface, followUps entity.FollowUpRepositoryInterface) *GetLeadLedgerUseCase {
	return &GetLeadLedgerUseCase{
		Leads:     leads,
		FollowUps: followUps,
	}
}

func (uc *GetLeadLedgerUseCase) Execute(ctx context.Context, leadID string) (*LedgerOutput, error) {
	if _, err := uc.Leads.FindByID(ctx, leadID); err != nil {
		return nil, fail("find lead", err)
	}

	followUps, err := uc.FollowUps.ListByLead(ctx, leadID)
	if err != nil {
		return nil, fail("list follow-ups", err)
	}

	ledger, err := pipeline.NewLedger(leadID, followUps)
	if err != nil {
		return nil, fail("build ledger", err)
	}

	return &LedgerOutput{
		LeadID:  leadID,
		Entries: ledger.Entries(),
		Metrics: ledger.Metrics(),
	}, nil
}
