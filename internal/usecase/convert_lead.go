package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
	"github.com/xavierca1/ligue-pipeline/internal/infra/queue"
	"github.com/xavierca1/ligue-pipeline/internal/pipeline"
)

type ConvertLeadUseCase struct {
	Leads   entity.LeadRepositoryInterface
	Clients entity.ClientRepositoryInterface
	Machine *pipeline.StateMachine
	Events  EventPublisher
}

func NewConvertLeadUseCase(
	leads entity.LeadRepositoryInterface,
	clients entity.ClientRepositoryInterface,
	machine *pipeline.StateMachine,
	events EventPublisher,
) *ConvertLeadUseCase {
	return &ConvertLeadUseCase{
		Leads:   leads,
		Clients: clients,
		Machine: machine,
		Events:  events,
	}
}

// Execute cria o cliente e marca o lead como convertido. Se a gravação do lead
// falhar, o cliente recém-criado é apagado.
func (uc *ConvertLeadUseCase) Execute(ctx context.Context, input ConvertLeadInput) (*ConvertLeadOutput, error) {
	if errs := ValidateConvertLeadInput(input); len(errs) > 0 {
		return nil, validationFailure(errs)
	}

	current, err := uc.Leads.FindByID(ctx, input.LeadID)
	if err != nil {
		return nil, fail("find lead", err)
	}

	ts := now()
	client, err := entity.NewClientFromLead(current, input.Client, ts)
	if err != nil {
		return nil, fail("convert lead", err)
	}

	// valida a conversão antes de criar qualquer coisa no store
	updated := current.Clone()
	change, err := uc.Machine.Convert(updated, client.ID, ts)
	if err != nil {
		log.Printf("⚠️ [CONVERT] lead %s recusado: %v", current.ID, err)
		return nil, fail("convert lead", err)
	}

	tx := NewTransaction()
	tx.AddOperation("create_client",
		func(ctx context.Context) error {
			return uc.Clients.Create(ctx, client)
		},
		func(ctx context.Context) error {
			log.Printf("🔄 [SAGA] removendo cliente %s (lead %s)", client.ID, current.ID)
			return uc.Clients.Delete(ctx, client.ID)
		},
	)
	tx.AddOperation("update_lead",
		func(ctx context.Context) error {
			return uc.Leads.Update(ctx, updated)
		},
		nil,
	)

	if err := tx.Execute(ctx); err != nil {
		log.Printf("❌ [CONVERT] falha ao converter lead %s: %v", current.ID, err)
		return nil, fail("convert lead", err)
	}

	log.Printf("🎉 [CONVERT] lead %s convertido no cliente %s", updated.ID, client.ID)

	publish(ctx, uc.Events, queue.PipelineEvent{
		Type:      queue.EventLeadConverted,
		LeadID:    updated.ID,
		LeadName:  updated.Name,
		OwnerID:   updated.OwnerID,
		Value:     updated.Value,
		FromStage: string(change.From),
		ToStage:   string(change.To),
		ClientID:  client.ID,
	})
	if change.Changed() {
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

	return &ConvertLeadOutput{Lead: updated, Client: client}, nil
}
