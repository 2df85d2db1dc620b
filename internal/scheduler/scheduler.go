package scheduler

import (
	"context"
	"time"

	"github.com/gestion-entretiens/backend/internal/config"
	"github.com/gestion-entretiens/backend/internal/domain"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const reminderHorizon = 24 * time.Hour

type Store interface {
	PurgeExpiredPendingVerifications(ctx context.Context, before time.Time) (int64, error)
	GetInterviewReminders(ctx context.Context, from, to time.Time) ([]*domain.InterviewReminder, error)
}

type MailQueue interface {
	Publish(ctx context.Context, msg domain.MailMessage) error
}

// Scheduler exécute les tâches périodiques : purge des codes expirés et rappels d'entretien.
type Scheduler struct {
	cron        *cron.Cron
	store       Store
	mailQueue   MailQueue
	log         *logrus.Logger
	now         func() time.Time
	purgeSpec   string
	remindSpec  string
	jobTimeout  time.Duration
	frontendURL string
}

func New(cfg *config.Config, store Store, mq MailQueue, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithLocation(time.Local)),
		store:       store,
		mailQueue:   mq,
		log:         log,
		now:         time.Now,
		purgeSpec:   cfg.Scheduler.PurgeSpec,
		remindSpec:  cfg.Scheduler.ReminderSpec,
		jobTimeout:  time.Duration(cfg.Database.TransactionTimeout) * time.Second * 3,
		frontendURL: cfg.Email.FrontendURL,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.purgeSpec, s.run("purge_codes", s.PurgeExpiredCodes)); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.remindSpec, s.run("rappels_entretiens", s.SendInterviewReminders)); err != nil {
		return err
	}

	s.cron.Start()
	s.log.WithFields(logrus.Fields{
		"purge":   s.purgeSpec,
		"rappels": s.remindSpec,
	}).Info("Planificateur démarré")
	return nil
}

// Stop attend la fin des tâches en cours.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Planificateur arrêté")
}

func (s *Scheduler) run(name string, job func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()

		start := time.Now()
		entry := s.log.WithField("job", name)
		if err := job(ctx); err != nil {
			entry.WithError(err).Error("Échec de la tâche planifiée")
			return
		}
		entry.WithField("duration", time.Since(start).String()).Debug("Tâche planifiée terminée")
	}
}

func (s *Scheduler) PurgeExpiredCodes(ctx context.Context) error {
	n, err := s.store.PurgeExpiredPendingVerifications(ctx, s.now())
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.WithField("count", n).Info("Codes de vérification expirés supprimés")
	}
	return nil
}

// SendInterviewReminders prévient chaque manager des entretiens prévus dans les prochaines 24 heures.
func (s *Scheduler) SendInterviewReminders(ctx context.Context) error {
	now := s.now()
	reminders, err := s.store.GetInterviewReminders(ctx, now, now.Add(reminderHorizon))
	if err != nil {
		return err
	}

	sent := 0
	for _, r := range reminders {
		msg := domain.MailMessage{
			Type: domain.MailTypeInterviewReminder,
			To:   r.ManagerEmail,
			Data: domain.InterviewReminderMailData{
				ManagerName:  r.ManagerName,
				EmployeeName: r.EmployeeName,
				Title:        r.Title,
				ScheduledAt:  r.ScheduledAt.In(time.Local).Format("02/01/2006 15:04"),
				FrontendURL:  s.frontendURL,
			},
		}
		if err := s.mailQueue.Publish(ctx, msg); err != nil {
			s.log.WithError(err).WithField("interview_id", r.InterviewID).Warn("Impossible de publier le rappel")
			continue
		}
		sent++
	}

	s.log.WithFields(logrus.Fields{
		"found": len(reminders),
		"sent":  sent,
	}).Info("Rappels d'entretien publiés")
	return nil
}
