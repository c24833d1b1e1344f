package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// LeadRescorer define o contrato com o motor de pontuação. O worker fica
// desacoplado do usecase: só conhece esta interface.
type LeadRescorer interface {
	RescoreLead(ctx context.Context, organizationID, leadID, reason string) error
}

type Worker struct {
	Channel  *amqp.Channel
	Rescorer LeadRescorer
}

func NewWorker(ch *amqp.Channel, rescorer LeadRescorer) *Worker {
	return &Worker{
		Channel:  ch,
		Rescorer: rescorer,
	}
}

func (w *Worker) Start(queueName string) {
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
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload LeadUpdatedPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON Inválido: %s", err)
				// Mensagem podre (malformada). Rejeita sem requeue para não travar a fila.
				d.Nack(false, false)
				continue
			}

			log.Printf("⚙️ [WORKER] Repontuando lead %s (org %s, motivo %s)", payload.LeadID, payload.OrganizationID, payload.Reason)

			if err := w.processMessage(context.Background(), payload); err != nil {
				log.Printf("❌ [WORKER] Erro ao repontuar: %s", err)
				d.Nack(false, false)
			} else {
				log.Printf("✅ [WORKER] Lead %s repontuado", payload.LeadID)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	<-forever
}

func (w *Worker) processMessage(ctx context.Context, payload LeadUpdatedPayload) error {
	reason := payload.Reason
	if reason == "" {
		reason = "lead_updated"
	}
	return w.Rescorer.RescoreLead(ctx, payload.OrganizationID, payload.LeadID, reason)
}
