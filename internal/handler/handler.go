package handler

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/gestion-entretiens/backend/internal/config"
	"github.com/gestion-entretiens/backend/internal/domain"
	"github.com/gestion-entretiens/backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	fr_translations "github.com/go-playground/validator/v10/translations/fr"
	"github.com/sirupsen/logrus"
)

// Store regroupe les accès aux données utilisés par les handlers, *repository.Repository le satisfait.
type Store interface {
	Ping(ctx context.Context) error

	GetManagerByID(ctx context.Context, id int64) (*domain.Manager, error)
	GetManagerByEmail(ctx context.Context, email string) (*domain.Manager, error)
	CheckEmailIfExists(ctx context.Context, email string) (bool, error)

	ReplacePendingVerification(ctx context.Context, pv *domain.PendingVerification) error
	GetPendingVerification(ctx context.Context, email string, code string) (*domain.PendingVerification, error)
	DeletePendingVerification(ctx context.Context, id int64) error
	CompleteSignup(ctx context.Context, pv *domain.PendingVerification) (*domain.Manager, error)

	GetEmployees(ctx context.Context, managerID int64) ([]*domain.Employee, error)
	GetEmployee(ctx context.Context, managerID int64, id int64) (*domain.Employee, error)
	CreateEmployee(ctx context.Context, employee *domain.Employee) error
	UpdateEmployee(ctx context.Context, employee *domain.Employee) error
	DeleteEmployee(ctx context.Context, managerID int64, id int64) error

	GetInterviews(ctx context.Context, managerID int64) ([]*domain.Interview, error)
	GetInterview(ctx context.Context, managerID int64, id int64) (*domain.Interview, error)
	CreateInterview(ctx context.Context, interview *domain.Interview) error
	UpdateInterview(ctx context.Context, interview *domain.Interview) error
	DeleteInterview(ctx context.Context, managerID int64, id int64) error

	GetNotes(ctx context.Context, interviewID int64) ([]*domain.Note, error)
	GetNote(ctx context.Context, managerID int64, id int64) (*domain.Note, error)
	CreateNote(ctx context.Context, note *domain.Note) error
	UpdateNote(ctx context.Context, note *domain.Note) error
	DeleteNote(ctx context.Context, id int64) error

	GetInterviewTemplates(ctx context.Context) ([]*domain.InterviewTemplate, error)
	GetInterviewTemplate(ctx context.Context, id int64) (*domain.InterviewTemplate, error)

	GetActiveGoalTemplates(ctx context.Context) ([]*domain.GoalTemplate, error)
	GetGoalTemplate(ctx context.Context, id int64) (*domain.GoalTemplate, error)
	CreateGoalTemplate(ctx context.Context, template *domain.GoalTemplate) error
	UpdateGoalTemplate(ctx context.Context, template *domain.GoalTemplate) error
	DeactivateGoalTemplate(ctx context.Context, id int64) error

	GetGoalAssignments(ctx context.Context, managerID int64) ([]*domain.GoalAssignment, error)
	GetGoalAssignmentsByEmployee(ctx context.Context, managerID int64, employeeID int64) ([]*domain.GoalAssignment, error)
	GetGoalAssignmentsByInterview(ctx context.Context, managerID int64, interviewID int64) ([]*domain.GoalAssignment, error)
	GetGoalAssignment(ctx context.Context, managerID int64, id int64) (*domain.GoalAssignment, error)
	CreateGoalAssignment(ctx context.Context, assignment *domain.GoalAssignment) error
	UpdateGoalAssignment(ctx context.Context, assignment *domain.GoalAssignment) error
	DeleteGoalAssignment(ctx context.Context, id int64) error

	GetDashboardStats(ctx context.Context, managerID int64, now time.Time) (*domain.DashboardStats, error)
}

type MailQueue interface {
	Publish(ctx context.Context, msg domain.MailMessage) error
}

type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Hit(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	store      Store
	translator ut.Translator
	mailQueue  MailQueue
	limiter    AttemptLimiter
	log        *logrus.Logger
	now        func() time.Time

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, store Store, mq MailQueue, limiter AttemptLimiter, log *logrus.Logger) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// les messages d'erreur reprennent les noms des champs JSON
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	fr := fr.New()
	uni := ut.New(fr, fr)
	trans, _ := uni.GetTranslator("fr")
	if err := fr_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}
	if err := utils.RegisterValidations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		store:      store,
		translator: trans,
		mailQueue:  mq,
		limiter:    limiter,
		log:        log,
		now:        time.Now,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.requestID)
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/", h.Root)
	h.Mux.Get("/healthz", h.Healthz)

	h.Mux.Route("/api", func(r chi.Router) {
		// authentification et inscription
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/request-code", h.RequestCode)
			r.Post("/verify-code", h.VerifyCode)
			r.With(h.auth).Get("/me", h.GetMe)
		})

		// tout le reste exige un token valide
		r.Group(func(r chi.Router) {
			r.Use(h.auth)

			r.Get("/dashboard", h.GetDashboard)
			r.Get("/templates", h.GetInterviewTemplates)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.GetEmployees)
				r.Post("/", h.CreateEmployee)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.employee)
					r.Get("/", h.GetEmployee)
					r.Put("/", h.UpdateEmployee)
					r.Delete("/", h.DeleteEmployee)
					r.Get("/objectifs", h.GetEmployeeGoalAssignments)
				})
			})

			r.Route("/entretiens", func(r chi.Router) {
				r.Get("/", h.GetInterviews)
				r.Post("/", h.CreateInterview)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.interview)
					r.Get("/", h.GetInterview)
					r.Put("/", h.UpdateInterview)
					r.Delete("/", h.DeleteInterview)
					r.Get("/notes", h.GetNotes)
					r.Post("/notes", h.CreateNote)
					r.Get("/objectifs-assignes", h.GetInterviewGoalAssignments)
				})
			})

			r.Route("/notes/{id}", func(r chi.Router) {
				r.Use(h.note)
				r.Put("/", h.UpdateNote)
				r.Delete("/", h.DeleteNote)
			})

			r.Route("/objectifs-templates", func(r chi.Router) {
				r.Get("/", h.GetGoalTemplates)
				r.Post("/", h.CreateGoalTemplate)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.goalTemplate)
					r.Get("/", h.GetGoalTemplate)
					r.Put("/", h.UpdateGoalTemplate)
					r.Delete("/", h.DeleteGoalTemplate)
				})
			})

			r.Route("/objectifs-assignes", func(r chi.Router) {
				r.Get("/", h.GetGoalAssignments)
				r.Post("/", h.CreateGoalAssignment)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.goalAssignment)
					r.Get("/", h.GetGoalAssignment)
					r.Put("/", h.UpdateGoalAssignment)
					r.Delete("/", h.DeleteGoalAssignment)
				})
			})
		})
	})
}
