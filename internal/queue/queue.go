package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gestion-entretiens/backend/internal/config"
	"github.com/gestion-entretiens/backend/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel est la partie d'*amqp.Channel utilisée pour publier.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Publisher struct {
	ch      Channel
	queue   string
	timeout time.Duration
}

func NewPublisher(cfg *config.Config, ch Channel) *Publisher {
	return &Publisher{
		ch:      ch,
		queue:   cfg.RabbitMQ.Queue,
		timeout: time.Duration(cfg.RabbitMQ.PublishTimeout) * time.Second,
	}
}

// DeclareQueue déclare la file durable partagée par l'API et le worker mail.
func DeclareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,
		true,
		false,
		false,
		false,
		nil,
	)
	return err
}

func (p *Publisher) Publish(ctx context.Context, msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encodage du message %s: %w", msg.Type, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("publication du message %s: %w", msg.Type, err)
	}

	return nil
}
