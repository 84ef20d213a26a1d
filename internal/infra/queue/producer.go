package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type EventType string

const (
	EventLeadCreated      EventType = "lead.created"
	EventLeadStageChanged EventType = "lead.stage_changed"
	EventLeadConverted    EventType = "lead.converted"
	EventLeadDeleted      EventType = "lead.deleted"
	EventFollowUpLogged   EventType = "followup.logged"
	EventFollowUpDue      EventType = "followup.due"
	EventProposalSent     EventType = "proposal.sent"
)

// PipelineEvent é o payload publicado no exchange do pipeline. O tipo também
// é a routing key.
type PipelineEvent struct {
	Type     EventType `json:"type"`
	LeadID   string    `json:"lead_id"`
	LeadName string    `json:"lead_name,omitempty"`
	OwnerID  string    `json:"owner_id,omitempty"`
	Value    float64   `json:"value,omitempty"`

	FromStage string `json:"from_stage,omitempty"`
	ToStage   string `json:"to_stage,omitempty"`
	ClientID  string `json:"client_id,omitempty"`

	ProposalID    string  `json:"proposal_id,omitempty"`
	ProposalTitle string  `json:"proposal_title,omitempty"`
	ProposalTotal float64 `json:"proposal_total,omitempty"`

	FollowUpID   string     `json:"follow_up_id,omitempty"`
	FollowUpType string     `json:"follow_up_type,omitempty"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishPipelineEvent(ctx context.Context, event PipelineEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("erro ao converter evento: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,       // ex.pipeline
		string(event.Type), // routing key = tipo do evento
		false,              // Mandatory
		false,              // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Type:         string(event.Type),
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}

	return nil
}
