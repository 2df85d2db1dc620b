package domain

import "time"

type GoalCategory string

const (
	CategorySkills      GoalCategory = "competences"
	CategoryPerformance GoalCategory = "performance"
	CategoryDevelopment GoalCategory = "developpement"
	CategoryProjects    GoalCategory = "projets"
	CategoryBehavioral  GoalCategory = "comportemental"
	CategoryOther       GoalCategory = "autre"
)

func (c GoalCategory) Valid() bool {
	switch c {
	case CategorySkills, CategoryPerformance, CategoryDevelopment, CategoryProjects, CategoryBehavioral, CategoryOther:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityLow    Priority = "basse"
	PriorityMedium Priority = "moyenne"
	PriorityHigh   Priority = "haute"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

type GoalStatus string

const (
	GoalStatusInProgress  GoalStatus = "en_cours"
	GoalStatusAchieved    GoalStatus = "atteint"
	GoalStatusNotAchieved GoalStatus = "non_atteint"
	GoalStatusPostponed   GoalStatus = "reporte"
	GoalStatusAbandoned   GoalStatus = "abandonne"
)

func (s GoalStatus) Valid() bool {
	switch s {
	case GoalStatusInProgress, GoalStatusAchieved, GoalStatusNotAchieved, GoalStatusPostponed, GoalStatusAbandoned:
		return true
	default:
		return false
	}
}

var GoalStatuses = []GoalStatus{
	GoalStatusInProgress,
	GoalStatusAchieved,
	GoalStatusNotAchieved,
	GoalStatusPostponed,
	GoalStatusAbandoned,
}

type GoalTemplate struct {
	ID          int64        `json:"id"`
	Title       string       `json:"titre"`
	Description *string      `json:"description"`
	Category    GoalCategory `json:"categorie"`
	Active      bool         `json:"est_actif"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Version     int32        `json:"-"`
}

type GoalAssignment struct {
	ID             int64             `json:"id"`
	GoalTemplateID int64             `json:"objectif_template_id"`
	EmployeeID     int64             `json:"employee_id"`
	InterviewID    *int64            `json:"entretien_id"`
	Priority       Priority          `json:"priorite"`
	AssignedAt     time.Time         `json:"date_assignation"`
	DueDate        *time.Time        `json:"date_echeance"`
	Status         GoalStatus        `json:"statut"`
	Progress       int               `json:"progres"`
	Notes          *string           `json:"notes"`
	GoalTemplate   *GoalTemplate     `json:"objectifTemplate,omitempty"`
	Employee       *EmployeeSummary  `json:"employee,omitempty"`
	Interview      *InterviewSummary `json:"entretien,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
	Version        int32             `json:"-"`
}

// ClampProgress ramène une progression dans l'intervalle [0, 100].
func ClampProgress(progress int) int {
	return min(100, max(0, progress))
}
