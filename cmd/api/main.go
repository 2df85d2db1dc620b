package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gestion-entretiens/backend/internal/config"
	"github.com/gestion-entretiens/backend/internal/handler"
	"github.com/gestion-entretiens/backend/internal/limiter"
	"github.com/gestion-entretiens/backend/internal/logger"
	"github.com/gestion-entretiens/backend/internal/queue"
	"github.com/gestion-entretiens/backend/internal/repository"
	"github.com/gestion-entretiens/backend/internal/scheduler"
	"github.com/gestion-entretiens/backend/internal/seed"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * Configuration et logger
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Impossible de charger la configuration")
	}

	log := logger.New(cfg)

	/**********************************************
	 * Base de données
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		log.WithError(err).Fatal("Impossible de créer le pool de connexions")
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open ne se connecte pas, le ping force la connexion
	if err := dbpool.PingContext(ctx); err != nil {
		log.WithError(err).Fatal("Impossible de se connecter à la base de données")
	}
	log.Info("Base de données PostgreSQL connectée")

	repo := repository.NewRepository(cfg, dbpool)

	if err := repo.Migrate(context.Background()); err != nil {
		log.WithError(err).Fatal("Échec des migrations")
	}

	/**********************************************
	 * Données de démonstration
	 **********************************************/
	if cfg.SeedSampleData {
		seeded, err := seed.SeedSampleData(context.Background(), repo, log)
		if err != nil {
			// l'API reste utilisable sans les données de démonstration
			log.WithError(err).Error("Impossible de créer les données de démonstration")
		} else if seeded {
			log.WithField("password", seed.SamplePassword).Info("Comptes de démonstration disponibles")
		}
	}

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

	publisher := queue.NewPublisher(cfg, ch)

	/**********************************************
	 * Redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer rdb.Close()

	attemptLimiter := limiter.New(cfg, rdb)

	/**********************************************
	 * Handler
	 **********************************************/
	h, err := handler.NewHandler(cfg, repo, publisher, attemptLimiter, log)
	if err != nil {
		log.WithError(err).Fatal("Impossible de créer le handler")
	}
	h.RegisterRoutes()

	/**********************************************
	 * Tâches planifiées
	 **********************************************/
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(cfg, repo, publisher, log)
		if err := sched.Start(); err != nil {
			log.WithError(err).Fatal("Impossible de démarrer le planificateur")
		}
	}

	/**********************************************
	 * Serveur HTTP
	 **********************************************/
	errorLog := log.WriterLevel(logrus.ErrorLevel)
	defer errorLog.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      h.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     stdlog.New(errorLog, "", 0),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.WithField("port", cfg.Server.Port).Info("Démarrage du serveur")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Impossible de démarrer le serveur")
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	log.Info("Arrêt du serveur...")

	if sched != nil {
		sched.Stop()
	}

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Échec de l'arrêt du serveur")
	}
	log.Info("Serveur arrêté")
}
