package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type ImportCompletedPayload struct {
	UserID    string `json:"user_id"`
	UserEmail string `json:"user_email,omitempty"`
	Filename  string `json:"filename"`
	Inserted  int    `json:"inserted"`
	Updated   int    `json:"updated"`
	Skipped   int    `json:"skipped"`
	Rejected  int    `json:"rejected"`
}

type StatusChangedPayload struct {
	LeadID string `json:"lead_id"`
	UserID string `json:"user_id"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// Publisher é o pedaço do canal AMQP que o producer usa.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
	// OnError é chamado com a routing key quando a publicação falha (métricas).
	OnError func(event string)
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishImportCompleted(ctx context.Context, payload ImportCompletedPayload) error {
	return p.publish(ctx, RoutingKeyImportCompleted, payload)
}

func (p *RabbitMQProducer) PublishStatusChanged(ctx context.Context, payload StatusChangedPayload) error {
	return p.publish(ctx, RoutingKeyStatusChanged, payload)
}

func (p *RabbitMQProducer) publish(ctx context.Context, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		key,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         key,
			Timestamp:    time.Now().UTC(),
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		if p.OnError != nil {
			p.OnError(key)
		}
		return fmt.Errorf("falha ao publicar %s no RabbitMQ: %w", key, err)
	}
	return nil
}
