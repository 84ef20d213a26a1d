package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EventHandler processa um evento consumido da fila (ex: NotifyOwnerUseCase).
type EventHandler interface {
	Execute(ctx context.Context, event PipelineEvent) error
}

type Worker struct {
	Channel *amqp.Channel
	Handler EventHandler
}

func NewWorker(ch *amqp.Channel, handler EventHandler) *Worker {
	return &Worker{
		Channel: ch,
		Handler: handler,
	}
}

// Start consome até o ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log.Printf(" [*] [WORKER] aguardando eventos na fila '%s'", queueName)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ [WORKER] encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("canal de consumo fechado")
			}
			w.handleDelivery(ctx, d)
		}
	}
}

func (w *Worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var event PipelineEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		log.Printf("❌ [WORKER] JSON inválido: %s", err)
		// mensagem podre vai pra DLQ, sem requeue
		d.Nack(false, false)
		return
	}

	if err := w.Handler.Execute(ctx, event); err != nil {
		log.Printf("❌ [WORKER] erro ao processar %s (lead %s): %s", event.Type, event.LeadID, err)
		d.Nack(false, false)
		return
	}

	d.Ack(false)
}
