package main

import (
	"context"
	"database/sql"
	"flag"
	"time"

	"github.com/gestion-entretiens/backend/internal/config"
	"github.com/gestion-entretiens/backend/internal/logger"
	"github.com/gestion-entretiens/backend/internal/repository"
	"github.com/gestion-entretiens/backend/internal/seed"
	"github.com/sirupsen/logrus"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var managerID int64
	var emailDomain string

	flag.IntVar(&op, "op", 0, "opération à exécuter (1: employés aléatoires, 2: données de démonstration)")
	flag.IntVar(&n, "n", 5, "nombre d'enregistrements à insérer")
	flag.Int64Var(&managerID, "manager-id", 0, "manager auquel rattacher les employés aléatoires")
	flag.StringVar(&emailDomain, "email-domain", "entreprise.com", "domaine des emails générés")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Impossible de lire la configuration")
	}

	log := logger.New(cfg)

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

	repo := repository.NewRepository(cfg, dbpool)
	if err := repo.Migrate(context.Background()); err != nil {
		log.WithError(err).Fatal("Échec des migrations")
	}

	switch op {
	case 0:
		log.Error("Aucune opération indiquée")
	case 1:
		if n <= 0 || managerID <= 0 {
			log.Error("Indiquez un nombre d'employés et un -manager-id valides")
			return
		}
		if _, err := repo.GetManagerByID(context.Background(), managerID); err != nil {
			log.WithError(err).WithField("manager_id", managerID).Error("Manager introuvable")
			return
		}

		inserted := seed.SeedRandomEmployees(context.Background(), repo, managerID, n, emailDomain, log)
		log.WithField("count", inserted).Info("Employés insérés")
	case 2:
		seeded, err := seed.SeedSampleData(context.Background(), repo, log)
		if err != nil {
			log.WithError(err).Error("Impossible de créer les données de démonstration")
			return
		}
		if !seeded {
			log.Info("La base contient déjà des managers, rien à faire")
		}
	default:
		log.Error("Opération inconnue")
	}
}
