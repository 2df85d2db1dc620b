package seed

import (
	"context"
	"time"

	"github.com/gestion-entretiens/backend/internal/domain"
	"github.com/gestion-entretiens/backend/internal/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// SamplePassword est le mot de passe commun des managers de démonstration.
const SamplePassword = "password123"

type Store interface {
	CountManagers(ctx context.Context) (int, error)
	CreateManager(ctx context.Context, manager *domain.Manager) error
	CreateEmployee(ctx context.Context, employee *domain.Employee) error
	CreateInterviewTemplate(ctx context.Context, template *domain.InterviewTemplate) error
	CreateGoalTemplate(ctx context.Context, template *domain.GoalTemplate) error
}

type sampleEmployee struct {
	name     string
	email    string
	position string
	hireDate string
	manager  int
}

var sampleManagers = []struct {
	name       string
	email      string
	department string
}{
	{"Marie Dubois", "marie.dubois@entreprise.com", "Développement"},
	{"Pierre Martin", "pierre.martin@entreprise.com", "Marketing"},
	{"Sophie Bernard", "sophie.bernard@entreprise.com", "RH"},
}

var sampleEmployees = []sampleEmployee{
	{"Jean Dupont", "jean.dupont@entreprise.com", "Développeur Senior", "2020-03-15", 0},
	{"Alice Johnson", "alice.johnson@entreprise.com", "Développeur Junior", "2022-01-10", 0},
	{"Bob Wilson", "bob.wilson@entreprise.com", "Chef de projet Marketing", "2019-06-20", 1},
	{"Emma Davis", "emma.davis@entreprise.com", "Assistante Marketing", "2021-11-05", 1},
	{"Lucas Brown", "lucas.brown@entreprise.com", "Chargé de recrutement", "2020-09-12", 2},
}

var sampleInterviewTemplates = []domain.InterviewTemplate{
	{
		Name: "Entretien Annuel Standard",
		Type: domain.InterviewTypeAnnual,
		Structure: domain.TemplateStructure{Sections: []domain.TemplateSection{
			{Name: "Bilan de l'année", Questions: []string{"Quels sont vos principaux accomplissements ?", "Quelles difficultés avez-vous rencontrées ?"}},
			{Name: "Objectifs futurs", Questions: []string{"Quels sont vos objectifs pour l'année prochaine ?", "Quelles formations souhaitez-vous suivre ?"}},
			{Name: "Évaluation", Questions: []string{"Auto-évaluation", "Points forts", "Axes d'amélioration"}},
		}},
	},
	{
		Name: "Entretien Bimestriel",
		Type: domain.InterviewTypeBimonthly,
		Structure: domain.TemplateStructure{Sections: []domain.TemplateSection{
			{Name: "Suivi des objectifs", Questions: []string{"Avancement des projets en cours", "Difficultés rencontrées"}},
			{Name: "Besoins et support", Questions: []string{"De quoi avez-vous besoin ?", "Comment puis-je vous aider ?"}},
		}},
	},
}

var sampleGoalTemplates = []struct {
	title       string
	description string
	category    domain.GoalCategory
}{
	{"Améliorer les compétences techniques", "Développer et renforcer les compétences techniques dans son domaine", domain.CategorySkills},
	{"Augmenter la productivité", "Optimiser l'organisation et augmenter l'efficacité au travail", domain.CategoryPerformance},
	{"Suivre une formation certifiante", "Obtenir une certification professionnelle reconnue", domain.CategoryDevelopment},
	{"Mener un projet stratégique", "Prendre en charge et finaliser un projet important", domain.CategoryProjects},
	{"Améliorer la communication", "Renforcer les compétences de communication interpersonnelle", domain.CategoryBehavioral},
	{"Mentorat d'un junior", "Accompagner et former un collaborateur junior", domain.CategoryDevelopment},
	{"Optimiser les processus", "Identifier et améliorer les processus de travail", domain.CategoryPerformance},
	{"Développer l'autonomie", "Gagner en autonomie dans la prise de décision", domain.CategoryBehavioral},
}

// SeedSampleData insère les données de démonstration si aucun manager n'existe encore.
// Le booléen indique si des données ont été insérées.
func SeedSampleData(ctx context.Context, store Store, log *logrus.Logger) (bool, error) {
	count, err := store.CountManagers(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		log.WithField("managers", count).Debug("Données existantes, pas de données de démonstration")
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SamplePassword), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	managerIDs := make([]int64, 0, len(sampleManagers))
	for _, m := range sampleManagers {
		department := m.department
		manager := &domain.Manager{
			Name:         m.name,
			Email:        m.email,
			PasswordHash: string(hash),
			Department:   &department,
		}
		if err := store.CreateManager(ctx, manager); err != nil {
			return false, err
		}
		managerIDs = append(managerIDs, manager.ID)
	}

	for _, e := range sampleEmployees {
		hireDate, err := time.Parse(utils.DateLayout, e.hireDate)
		if err != nil {
			return false, err
		}
		if err := store.CreateEmployee(ctx, &domain.Employee{
			Name:      e.name,
			Email:     e.email,
			Position:  e.position,
			HireDate:  hireDate,
			ManagerID: managerIDs[e.manager],
		}); err != nil {
			return false, err
		}
	}

	for _, t := range sampleInterviewTemplates {
		template := t
		if err := store.CreateInterviewTemplate(ctx, &template); err != nil {
			return false, err
		}
	}

	for _, g := range sampleGoalTemplates {
		description := g.description
		if err := store.CreateGoalTemplate(ctx, &domain.GoalTemplate{
			Title:       g.title,
			Description: &description,
			Category:    g.category,
			Active:      true,
		}); err != nil {
			return false, err
		}
	}

	log.WithFields(logrus.Fields{
		"managers":            len(sampleManagers),
		"employees":           len(sampleEmployees),
		"interview_templates": len(sampleInterviewTemplates),
		"goal_templates":      len(sampleGoalTemplates),
	}).Info("Données de démonstration créées")

	return true, nil
}

// SeedRandomEmployees rattache n employés aléatoires au manager donné et renvoie le nombre inséré.
func SeedRandomEmployees(ctx context.Context, store Store, managerID int64, n int, emailDomain string, log *logrus.Logger) int {
	inserted := 0
	for i := 0; i < n; i++ {
		employee := utils.GenerateRandomEmployee(managerID, emailDomain)
		if err := store.CreateEmployee(ctx, employee); err != nil {
			log.WithError(err).WithField("email", employee.Email).Error("Impossible d'insérer l'employé")
			continue
		}
		inserted++
	}

	return inserted
}
