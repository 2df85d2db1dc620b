package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/gestion-entretiens/backend/internal/domain"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("format de date invalide, attendu AAAA-MM-JJ ou RFC3339")

// NormalizeEmail ramène un email à sa forme de comparaison, sans espaces et en minuscules.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ParseDate accepte une date simple ou un horodatage RFC3339.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	return time.Time{}, ErrInvalidDate
}

// ParseOptionalDate renvoie nil pour une valeur absente ou vide.
func ParseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}

	t, err := ParseDate(*value)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func validDate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

type enumRule struct {
	tag     string
	message string
	valid   func(string) bool
}

var enumRules = []enumRule{
	{"interview_type", "{0} doit valoir annuel ou bimestriel", func(s string) bool { return domain.InterviewType(s).Valid() }},
	{"interview_status", "{0} doit valoir planifie, en_preparation, realise ou reporte", func(s string) bool { return domain.InterviewStatus(s).Valid() }},
	{"note_phase", "{0} doit valoir preparation, temps_reel ou conclusion", func(s string) bool { return domain.NotePhase(s).Valid() }},
	{"goal_category", "{0} n'est pas une catégorie d'objectif valide", func(s string) bool { return domain.GoalCategory(s).Valid() }},
	{"priority", "{0} doit valoir basse, moyenne ou haute", func(s string) bool { return domain.Priority(s).Valid() }},
	{"goal_status", "{0} n'est pas un statut d'objectif valide", func(s string) bool { return domain.GoalStatus(s).Valid() }},
	{"date", "{0} doit être une date valide (AAAA-MM-JJ)", nil},
}

// RegisterValidations enregistre les règles métier et leurs messages en français.
func RegisterValidations(validate *validator.Validate, trans ut.Translator) error {
	for _, rule := range enumRules {
		fn := validDate
		if rule.valid != nil {
			valid := rule.valid
			fn = func(fl validator.FieldLevel) bool {
				return valid(fl.Field().String())
			}
		}

		if err := validate.RegisterValidation(rule.tag, fn); err != nil {
			return err
		}

		message := rule.message
		tag := rule.tag
		err := validate.RegisterTranslation(tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(tag, message, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T(tag, fe.Field())
				return t
			},
		)
		if err != nil {
			return err
		}
	}

	return nil
}
