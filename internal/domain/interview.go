package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type InterviewType string

const (
	InterviewTypeAnnual    InterviewType = "annuel"
	InterviewTypeBimonthly InterviewType = "bimestriel"
)

func (t InterviewType) Valid() bool {
	switch t {
	case InterviewTypeAnnual, InterviewTypeBimonthly:
		return true
	default:
		return false
	}
}

type InterviewStatus string

const (
	InterviewStatusPlanned       InterviewStatus = "planifie"
	InterviewStatusInPreparation InterviewStatus = "en_preparation"
	InterviewStatusCompleted     InterviewStatus = "realise"
	InterviewStatusPostponed     InterviewStatus = "reporte"
)

func (s InterviewStatus) Valid() bool {
	switch s {
	case InterviewStatusPlanned, InterviewStatusInPreparation, InterviewStatusCompleted, InterviewStatusPostponed:
		return true
	default:
		return false
	}
}

// IsUpcoming indique si l'entretien reste à mener.
func (s InterviewStatus) IsUpcoming() bool {
	switch s {
	case InterviewStatusPlanned, InterviewStatusInPreparation:
		return true
	case InterviewStatusCompleted, InterviewStatusPostponed:
		return false
	default:
		return false
	}
}

type TemplateSection struct {
	Name      string   `json:"nom"`
	Questions []string `json:"questions"`
}

type TemplateStructure struct {
	Sections []TemplateSection `json:"sections"`
}

func (s TemplateStructure) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *TemplateStructure) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = TemplateStructure{}
		return nil
	default:
		return errors.New("structure de template illisible")
	}
}

type InterviewTemplate struct {
	ID        int64             `json:"id"`
	Name      string            `json:"nom"`
	Type      InterviewType     `json:"type"`
	Structure TemplateStructure `json:"structure"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type InterviewTemplateSummary struct {
	ID        int64             `json:"id"`
	Name      string            `json:"nom"`
	Type      InterviewType     `json:"type"`
	Structure TemplateStructure `json:"structure"`
}

type Interview struct {
	ID          int64                     `json:"id"`
	EmployeeID  int64                     `json:"employee_id"`
	ManagerID   int64                     `json:"manager_id"`
	TemplateID  *int64                    `json:"template_id"`
	Type        InterviewType             `json:"type"`
	ScheduledAt time.Time                 `json:"date_prevue"`
	CompletedAt *time.Time                `json:"date_realise"`
	Status      InterviewStatus           `json:"statut"`
	Title       string                    `json:"titre"`
	Objectives  *string                   `json:"objectifs"`
	Employee    *EmployeeSummary          `json:"employee,omitempty"`
	Template    *InterviewTemplateSummary `json:"template,omitempty"`
	CreatedAt   time.Time                 `json:"createdAt"`
	UpdatedAt   time.Time                 `json:"updatedAt"`
	Version     int32                     `json:"-"`
}

type InterviewSummary struct {
	ID          int64         `json:"id"`
	Title       string        `json:"titre"`
	ScheduledAt time.Time     `json:"date_prevue"`
	Type        InterviewType `json:"type"`
}

// InterviewReminder réunit ce qu'il faut pour prévenir un manager d'un entretien imminent.
type InterviewReminder struct {
	InterviewID  int64
	Title        string
	ScheduledAt  time.Time
	ManagerName  string
	ManagerEmail string
	EmployeeName string
}
