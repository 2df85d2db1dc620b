package mail

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/gestion-entretiens/backend/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	gomail "github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	ErrUnsupportedType  = errors.New("type de mail non pris en charge")
	ErrDeliveriesClosed = errors.New("canal de livraison RabbitMQ fermé")
)

type kind struct {
	template string
	subject  string
	data     func() any
}

var kinds = map[domain.MailType]kind{
	domain.MailTypeVerificationCode: {
		template: "verification_code.html",
		subject:  "Code de vérification - Gestion Entretiens",
		data:     func() any { return &domain.VerificationCodeMailData{} },
	},
	domain.MailTypeWelcome: {
		template: "welcome.html",
		subject:  "Bienvenue sur Gestion Entretiens !",
		data:     func() any { return &domain.WelcomeMailData{} },
	},
	domain.MailTypeInterviewReminder: {
		template: "interview_reminder.html",
		subject:  "Rappel d'entretien - Gestion Entretiens",
		data:     func() any { return &domain.InterviewReminderMailData{} },
	},
}

type Builder struct {
	from      string
	templates *template.Template
}

func NewBuilder(from string) (*Builder, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Builder{
		from:      from,
		templates: tmpl,
	}, nil
}

// Build décode un message de la file et produit le mail HTML correspondant.
func (b *Builder) Build(body []byte) (*gomail.Msg, error) {
	var envelope struct {
		Type domain.MailType `json:"type"`
		To   string          `json:"to"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("message illisible: %w", err)
	}

	k, ok := kinds[envelope.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, envelope.Type)
	}

	data := k.data()
	if err := json.Unmarshal(envelope.Data, data); err != nil {
		return nil, fmt.Errorf("données du mail %s illisibles: %w", envelope.Type, err)
	}

	msg := gomail.NewMsg()
	if err := msg.From(b.from); err != nil {
		return nil, err
	}
	if err := msg.To(envelope.To); err != nil {
		return nil, err
	}
	msg.Subject(k.subject)

	if err := msg.SetBodyHTMLTemplate(b.templates.Lookup(k.template), data); err != nil {
		return nil, err
	}

	return msg, nil
}

type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple bool, requeue bool) error
}

type Worker struct {
	builder     *Builder
	sender      Sender
	log         *logrus.Logger
	sendTimeout time.Duration
}

func NewWorker(builder *Builder, sender Sender, log *logrus.Logger, sendTimeout time.Duration) *Worker {
	return &Worker{
		builder:     builder,
		sender:      sender,
		log:         log,
		sendTimeout: sendTimeout,
	}
}

// Handle envoie un message. Un échec SMTP remet le message en file une seule fois,
// un message illisible ou déjà redélivré est abandonné.
func (w *Worker) Handle(ctx context.Context, body []byte, redelivered bool, ack Acknowledger) {
	msg, err := w.builder.Build(body)
	if err != nil {
		w.log.WithError(err).Error("Message abandonné")
		_ = ack.Nack(false, false)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	defer cancel()

	if err := w.sender.DialAndSendWithContext(ctx, msg); err != nil {
		entry := w.log.WithError(err).WithField("redelivered", redelivered)
		if redelivered {
			entry.Error("Échec d'envoi du mail, message abandonné")
			_ = ack.Nack(false, false)
			return
		}
		entry.Warn("Échec d'envoi du mail, message remis en file")
		_ = ack.Nack(false, true)
		return
	}

	_ = ack.Ack(false)
}

// Consume traite les livraisons jusqu'à l'annulation du contexte.
// La fermeture du canal par RabbitMQ renvoie ErrDeliveriesClosed.
func (w *Worker) Consume(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			w.log.WithFields(logrus.Fields{
				"delivery_tag": d.DeliveryTag,
				"redelivered":  d.Redelivered,
			}).Debug("Message reçu")
			w.Handle(ctx, d.Body, d.Redelivered, d)
		}
	}
}
