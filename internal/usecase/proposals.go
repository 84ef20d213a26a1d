package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
	"github.com/xavierca1/ligue-pipeline/internal/infra/queue"
)

type CreateProposalUseCase struct {
	Leads     entity.LeadRepositoryInterface
	Proposals entity.ProposalRepositoryInterface
}

func NewCreateProposalUseCase(leads entity.LeadRepositoryInterface, proposals entity.ProposalRepositoryInterface) *CreateProposalUseCase {
	return &CreateProposalUseCase{
		Leads:     leads,
		Proposals: proposals,
	}
}

func (uc *CreateProposalUseCase) Execute(ctx context.Context, draft entity.ProposalDraft) (*entity.Proposal, error) {
	proposal, err := entity.NewProposal(draft, now())
	if err != nil {
		return nil, fail("create proposal", err)
	}

	if _, err := uc.Leads.FindByID(ctx, draft.LeadID); err != nil {
		return nil, fail("find lead", err)
	}

	if err := uc.Proposals.Create(ctx, proposal); err != nil {
		log.Printf("❌ [PROPOSAL] erro ao criar proposta para o lead %s: %v", draft.LeadID, err)
		return nil, fail("create proposal", err)
	}

	return proposal, nil
}

type GetProposalUseCase struct {
	Proposals entity.ProposalRepositoryInterface
}

func NewGetProposalUseCase(proposals entity.ProposalRepositoryInterface) *GetProposalUseCase {
	return &GetProposalUseCase{Proposals: proposals}
}

func (uc *GetProposalUseCase) Execute(ctx context.Context, id string) (*entity.Proposal, error) {
	p, err := uc.Proposals.FindByID(ctx, id)
	if err != nil {
		return nil, fail("find proposal", err)
	}
	return p, nil
}

type ListProposalsUseCase struct {
	Leads     entity.LeadRepositoryInterface
	Proposals entity.ProposalRepositoryInterface
}

func NewListProposalsUseCase(leads entity.LeadRepositoryInterface, proposals entity.ProposalRepositoryInterface) *ListProposalsUseCase {
	return &ListProposalsUseCase{
		Leads:     leads,
		Proposals: proposals,
	}
}

func (uc *ListProposalsUseCase) Execute(ctx context.Context, leadID string) ([]*entity.Proposal, error) {
	if _, err := uc.Leads.FindByID(ctx, leadID); err != nil {
		return nil, fail("find lead", err)
	}
	proposals, err := uc.Proposals.ListByLead(ctx, leadID)
	if err != nil {
		return nil, fail("list proposals", err)
	}
	return proposals, nil
}

// EditProposalUseCase concentra as edições de rascunho. Toda edição trabalha
// numa cópia; proposta enviada volta ErrProposalLocked sem tocar o store.
type EditProposalUseCase struct {
	Proposals entity.ProposalRepositoryInterface
}

func NewEditProposalUseCase(proposals entity.ProposalRepositoryInterface) *EditProposalUseCase {
	return &EditProposalUseCase{Proposals: proposals}
}

func (uc *EditProposalUseCase) AddItem(ctx context.Context, id string, item entity.ProposalItem) (*entity.Proposal, error) {
	return uc.edit(ctx, id, "add item", func(p *entity.Proposal) error {
		return p.AddItem(item, now())
	})
}

func (uc *EditProposalUseCase) RemoveItem(ctx context.Context, id string, index int) (*entity.Proposal, error) {
	return uc.edit(ctx, id, "remove item", func(p *entity.Proposal) error {
		return p.RemoveItem(index, now())
	})
}

func (uc *EditProposalUseCase) UpdateItem(ctx context.Context, id string, index int, input UpdateItemInput) (*entity.Proposal, error) {
	return uc.edit(ctx, id, "update item", func(p *entity.Proposal) error {
		return p.UpdateItem(index, input.Quantity, input.UnitPrice, now())
	})
}

func (uc *EditProposalUseCase) SetDiscount(ctx context.Context, id string, discount float64) (*entity.Proposal, error) {
	return uc.edit(ctx, id, "set discount", func(p *entity.Proposal) error {
		return p.SetDiscount(discount, now())
	})
}

func (uc *EditProposalUseCase) edit(ctx context.Context, id, op string, fn func(*entity.Proposal) error) (*entity.Proposal, error) {
	return mutateProposal(ctx, uc.Proposals, id, op, fn)
}

type SendProposalUseCase struct {
	Leads     entity.LeadRepositoryInterface
	Proposals entity.ProposalRepositoryInterface
	Events    EventPublisher
}

func NewSendProposalUseCase(
	leads entity.LeadRepositoryInterface,
	proposals entity.ProposalRepositoryInterface,
	events EventPublisher,
) *SendProposalUseCase {
	return &SendProposalUseCase{
		Leads:     leads,
		Proposals: proposals,
		Events:    events,
	}
}

func (uc *SendProposalUseCase) Execute(ctx context.Context, id string) (*entity.Proposal, error) {
	sent, err := mutateProposal(ctx, uc.Proposals, id, "send proposal", func(p *entity.Proposal) error {
		return p.Send(now())
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📨 [PROPOSAL] proposta %s enviada (total %.2f)", sent.ID, sent.GrandTotal())

	event := queue.PipelineEvent{
		Type:          queue.EventProposalSent,
		LeadID:        sent.LeadID,
		ProposalID:    sent.ID,
		ProposalTitle: sent.Title,
		ProposalTotal: sent.GrandTotal(),
	}
	// o lead só enriquece a notificação; se sumiu, o evento sai sem dono
	if lead, err := uc.Leads.FindByID(ctx, sent.LeadID); err == nil {
		event.LeadName = lead.Name
		event.OwnerID = lead.OwnerID
	} else {
		log.Printf("⚠️ [PROPOSAL] lead %s não encontrado para notificar: %v", sent.LeadID, err)
	}
	publish(ctx, uc.Events, event)

	return sent, nil
}

type DecideProposalUseCase struct {
	Proposals entity.ProposalRepositoryInterface
}

func NewDecideProposalUseCase(proposals entity.ProposalRepositoryInterface) *DecideProposalUseCase {
	return &DecideProposalUseCase{Proposals: proposals}
}

func (uc *DecideProposalUseCase) Accept(ctx context.Context, id string) (*entity.Proposal, error) {
	return mutateProposal(ctx, uc.Proposals, id, "accept proposal", func(p *entity.Proposal) error {
		return p.Accept(now())
	})
}

func (uc *DecideProposalUseCase) Reject(ctx context.Context, id string) (*entity.Proposal, error) {
	return mutateProposal(ctx, uc.Proposals, id, "reject proposal", func(p *entity.Proposal) error {
		return p.Reject(now())
	})
}

func mutateProposal(ctx context.Context, repo entity.ProposalRepositoryInterface, id, op string, fn func(*entity.Proposal) error) (*entity.Proposal, error) {
	current, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, fail("find proposal", err)
	}

	updated := current.Clone()
	if err := fn(updated); err != nil {
		return nil, fail(op, err)
	}

	if err := repo.Update(ctx, updated); err != nil {
		log.Printf("❌ [PROPOSAL] erro ao gravar proposta %s (%s): %v", id, op, err)
		return nil, fail(op, err)
	}
	return updated, nil
}
