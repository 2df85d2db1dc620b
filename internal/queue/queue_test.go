package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gestion-entretiens/backend/internal/config"
	"github.com/gestion-entretiens/backend/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	key       string
	published []amqp.Publishing
	err       error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _ string, key string, _ bool, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.key = key
	f.published = append(f.published, msg)
	return nil
}

func newConfig() *config.Config {
	cfg := &config.Config{}
	cfg.RabbitMQ.Queue = "email_queue"
	cfg.RabbitMQ.PublishTimeout = 1
	return cfg
}

func TestPublish(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(newConfig(), ch)

	err := p.Publish(context.Background(), domain.MailMessage{
		Type: domain.MailTypeVerificationCode,
		To:   "alice@example.com",
		Data: domain.VerificationCodeMailData{Code: "123456", Expiration: 10},
	})
	require.NoError(t, err)
	require.Len(t, ch.published, 1)

	assert.Equal(t, "email_queue", ch.key)
	assert.Equal(t, "application/json", ch.published[0].ContentType)
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)

	var decoded struct {
		Type string          `json:"type"`
		To   string          `json:"to"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &decoded))
	assert.Equal(t, "verification_code", decoded.Type)
	assert.Equal(t, "alice@example.com", decoded.To)
	assert.JSONEq(t, `{"code":"123456","expiration":10}`, string(decoded.Data))
}

func TestPublishError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := NewPublisher(newConfig(), ch)

	err := p.Publish(context.Background(), domain.MailMessage{Type: domain.MailTypeWelcome, To: "bob@example.com"})
	assert.ErrorContains(t, err, "channel closed")
}
