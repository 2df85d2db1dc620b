package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gestion-entretiens/backend/internal/config"
	"github.com/gestion-entretiens/backend/internal/logger"
	"github.com/gestion-entretiens/backend/internal/mail"
	"github.com/gestion-entretiens/backend/internal/queue"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	gomail "github.com/wneessen/go-mail"
)

func main() {
	/**********************************************
	 * Configuration et logger
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Impossible de lire la configuration")
	}

	log := logger.New(cfg)

	/**********************************************
	 * Client SMTP
	 **********************************************/
	opts := []gomail.Option{
		gomail.WithPort(cfg.Email.SMTP.Port),
		gomail.WithTimeout(time.Duration(cfg.Email.SMTP.DialTimeout) * time.Second),
	}
	if cfg.Email.SMTP.SSL {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if cfg.Email.SMTP.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Email.SMTP.Username),
			gomail.WithPassword(cfg.Email.SMTP.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Email.SMTP.Host, opts...)
	if err != nil {
		log.WithError(err).Fatal("Impossible de créer le client SMTP")
	}

	// vérifie que le serveur SMTP répond avant de consommer la file
	dialCtx, dialCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	if err := client.DialWithContext(dialCtx); err != nil {
		dialCancel()
		log.WithError(err).Fatal("Impossible de joindre le serveur SMTP")
	}
	dialCancel()
	_ = client.Close()

	builder, err := mail.NewBuilder(cfg.Email.From)
	if err != nil {
		log.WithError(err).Fatal("Impossible de charger les modèles de mail")
	}

	worker := mail.NewWorker(builder, client, log, time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second*3)

	/**********************************************
	 * RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		log.WithError(err).Fatal("Impossible de se connecter à RabbitMQ")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.WithError(err).Fatal("Impossible d'ouvrir un canal RabbitMQ")
	}
	defer ch.Close()

	if err := queue.DeclareQueue(ch, cfg.RabbitMQ.Queue); err != nil {
		log.WithError(err).Fatal("Impossible de déclarer la file")
	}

	// un message à la fois, l'envoi SMTP est le goulot
	if err := ch.Qos(1, 0, false); err != nil {
		log.WithError(err).Fatal("Impossible de régler la QoS")
	}

	msgs, err := ch.Consume(
		cfg.RabbitMQ.Queue,
		"",
		false, // acquittement manuel
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.WithError(err).Fatal("Impossible de consommer la file")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}
	consumeErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		consumeErr <- worker.Consume(ctx, msgs)
	}()

	log.WithField("queue", cfg.RabbitMQ.Queue).Info("Worker mail en attente de messages (CTRL+C pour quitter)")

	exitCode := 0
	select {
	case <-sigChan:
		log.Info("Arrêt du worker mail...")
	case err := <-consumeErr:
		// connexion perdue, le superviseur relance le worker
		log.WithError(err).Error("Consommation interrompue, arrêt du worker mail")
		exitCode = 1
	}

	cancel()
	wg.Wait()
	log.Info("Worker mail arrêté")

	if exitCode != 0 {
		_ = ch.Close()
		_ = conn.Close()
		os.Exit(exitCode)
	}
}
