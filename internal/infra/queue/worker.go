package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/infra/mail"
)

// SummaryMailer envia o resumo da importação pro dono dos leads.
type SummaryMailer interface {
	SendImportSummary(to string, data mail.ImportSummaryData) error
}

type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel Consumer
	Mailer  SummaryMailer
	Log     *logrus.Logger
}

func NewWorker(ch Consumer, mailer SummaryMailer, log *logrus.Logger) *Worker {
	return &Worker{
		Channel: ch,
		Mailer:  mailer,
		Log:     log,
	}
}

// Start consome a fila até o ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.Log.Infof(" [*] Worker rodando e aguardando na fila '%s'", queueName)

	for {
		select {
		case <-ctx.Done():
			w.Log.Info("⚠️ [WORKER] encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				w.Log.Warn("⚠️ [WORKER] canal de mensagens fechado")
				return nil
			}
			w.Handle(ctx, d)
		}
	}
}

// Handle processa uma entrega e faz ack/nack. Mensagem malformada vai pra DLQ.
func (w *Worker) Handle(ctx context.Context, d amqp.Delivery) {
	entry := w.Log.WithField("routing_key", d.RoutingKey)
	entry.Debug("📥 [WORKER] Mensagem recebida do RabbitMQ")

	var err error
	switch d.RoutingKey {
	case RoutingKeyImportCompleted:
		var payload ImportCompletedPayload
		if err = json.Unmarshal(d.Body, &payload); err == nil {
			err = w.handleImportCompleted(payload)
		}
	case RoutingKeyStatusChanged:
		var payload StatusChangedPayload
		if err = json.Unmarshal(d.Body, &payload); err == nil {
			entry.WithFields(logrus.Fields{
				"lead_id": payload.LeadID,
				"user_id": payload.UserID,
				"from":    payload.From,
				"to":      payload.To,
			}).Info("🔄 [WORKER] lead mudou de coluna")
		}
	default:
		entry.Warn("⚠️ [WORKER] evento desconhecido, apenas logando")
	}

	if err != nil {
		entry.WithError(err).Error("❌ [WORKER] falha ao processar mensagem")
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}

func (w *Worker) handleImportCompleted(p ImportCompletedPayload) error {
	entry := w.Log.WithFields(logrus.Fields{
		"user_id":  p.UserID,
		"filename": p.Filename,
	})
	if p.UserEmail == "" || w.Mailer == nil {
		entry.Info("📊 [WORKER] importação concluída, sem email para resumo")
		return nil
	}

	data := mail.ImportSummaryData{
		Filename: p.Filename,
		Inserted: p.Inserted,
		Updated:  p.Updated,
		Skipped:  p.Skipped,
		Rejected: p.Rejected,
	}
	if err := w.Mailer.SendImportSummary(p.UserEmail, data); err != nil {
		return err
	}
	entry.Info("✅ [WORKER] resumo da importação enviado")
	return nil
}
