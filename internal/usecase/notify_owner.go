package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
	"github.com/xavierca1/ligue-pipeline/internal/infra/queue"
)

// NotifyOwnerUseCase é o consumidor dos eventos do pipeline: manda e-mail
// para o vendedor dono do lead. Eventos sem dono ou sem interesse são ignorados.
type NotifyOwnerUseCase struct {
	Employees entity.EmployeeDirectory
	Email     EmailService
}

func NewNotifyOwnerUseCase(employees entity.EmployeeDirectory, email EmailService) *NotifyOwnerUseCase {
	return &NotifyOwnerUseCase{
		Employees: employees,
		Email:     email,
	}
}

func (uc *NotifyOwnerUseCase) Execute(ctx context.Context, event queue.PipelineEvent) error {
	if !wantsNotification(event) {
		return nil
	}
	if event.OwnerID == "" {
		log.Printf("⚠️ [NOTIFY] evento %s do lead %s sem dono, ignorando", event.Type, event.LeadID)
		return nil
	}

	owner, err := uc.Employees.FindByID(ctx, event.OwnerID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			log.Printf("⚠️ [NOTIFY] dono %s não existe mais, ignorando %s", event.OwnerID, event.Type)
			return nil
		}
		return fmt.Errorf("find employee %s: %w", event.OwnerID, err)
	}
	if owner.Email == "" {
		return nil
	}

	switch event.Type {
	case queue.EventLeadStageChanged:
		err = uc.Email.SendLeadWon(owner.Email, owner.Name, event.LeadName, event.Value)
	case queue.EventProposalSent:
		err = uc.Email.SendProposalSent(owner.Email, owner.Name, event.LeadName, event.ProposalTitle, event.ProposalTotal)
	case queue.EventFollowUpDue:
		err = uc.Email.SendFollowUpDue(owner.Email, owner.Name, event.LeadName, event.FollowUpType, *event.ScheduledAt)
	}
	if err != nil {
		log.Printf("❌ [NOTIFY] falha ao enviar e-mail (%s) para %s: %v", event.Type, owner.Email, err)
		return err
	}

	log.Printf("📧 [NOTIFY] %s enviado para %s", event.Type, owner.Email)
	return nil
}

func wantsNotification(event queue.PipelineEvent) bool {
	switch event.Type {
	case queue.EventLeadStageChanged:
		return event.ToStage == string(entity.StageWon)
	case queue.EventProposalSent:
		return true
	case queue.EventFollowUpDue:
		return event.ScheduledAt != nil
	}
	return false
}
