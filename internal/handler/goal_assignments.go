package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gestion-entretiens/backend/internal/apperror"
	"github.com/gestion-entretiens/backend/internal/domain"
	"github.com/gestion-entretiens/backend/internal/utils"
)

func (h *Handler) GetGoalAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.store.GetGoalAssignments(r.Context(), managerID(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, assignments)
}

func (h *Handler) GetEmployeeGoalAssignments(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	assignments, err := h.store.GetGoalAssignmentsByEmployee(r.Context(), managerID(r), employee.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, assignments)
}

func (h *Handler) GetInterviewGoalAssignments(w http.ResponseWriter, r *http.Request) {
	interview := r.Context().Value(InterviewCtx).(*domain.Interview)

	assignments, err := h.store.GetGoalAssignmentsByInterview(r.Context(), managerID(r), interview.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, assignments)
}

func (h *Handler) CreateGoalAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GoalTemplateID int64   `json:"objectif_template_id" validate:"required,gt=0"`
		EmployeeID     int64   `json:"employee_id" validate:"required,gt=0"`
		InterviewID    *int64  `json:"entretien_id" validate:"omitempty,gt=0"`
		Priority       *string `json:"priorite" validate:"omitempty,priority"`
		DueDate        *string `json:"date_echeance" validate:"omitempty,date"`
		Notes          *string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	dueDate, err := utils.ParseOptionalDate(req.DueDate)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	// seul un template actif peut être assigné
	template, err := h.store.GetGoalTemplate(r.Context(), req.GoalTemplateID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Template d'objectif non trouvé")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if !template.Active {
		h.notFound(w, r, "Template d'objectif non trouvé")
		return
	}

	employee, err := h.store.GetEmployee(r.Context(), managerID(r), req.EmployeeID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Employé non trouvé")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	assignment := &domain.GoalAssignment{
		GoalTemplateID: template.ID,
		EmployeeID:     employee.ID,
		InterviewID:    req.InterviewID,
		Priority:       domain.PriorityMedium,
		AssignedAt:     h.now(),
		DueDate:        dueDate,
		Status:         domain.GoalStatusInProgress,
		Progress:       0,
		Notes:          req.Notes,
		GoalTemplate:   template,
		Employee: &domain.EmployeeSummary{
			ID:       employee.ID,
			Name:     employee.Name,
			Email:    employee.Email,
			Position: employee.Position,
		},
	}
	if req.Priority != nil {
		assignment.Priority = domain.Priority(*req.Priority)
	}

	if req.InterviewID != nil {
		interview, err := h.store.GetInterview(r.Context(), managerID(r), *req.InterviewID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "Entretien non trouvé")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		if interview.EmployeeID != employee.ID {
			h.errorResponse(w, r, apperror.New(apperror.CodeValidation, "L'entretien ne concerne pas cet employé"))
			return
		}
		assignment.Interview = &domain.InterviewSummary{
			ID:          interview.ID,
			Title:       interview.Title,
			ScheduledAt: interview.ScheduledAt,
			Type:        interview.Type,
		}
	}

	if err := h.store.CreateGoalAssignment(r.Context(), assignment); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, assignment)
}

func (h *Handler) GetGoalAssignment(w http.ResponseWriter, r *http.Request) {
	assignment := r.Context().Value(GoalAssignmentCtx).(*domain.GoalAssignment)
	h.writeJSON(w, r, http.StatusOK, assignment)
}

func (h *Handler) UpdateGoalAssignment(w http.ResponseWriter, r *http.Request) {
	assignment := r.Context().Value(GoalAssignmentCtx).(*domain.GoalAssignment)

	var req struct {
		Priority *string `json:"priorite" validate:"omitempty,priority"`
		DueDate  *string `json:"date_echeance" validate:"omitempty,date"`
		Status   *string `json:"statut" validate:"omitempty,goal_status"`
		Progress *int    `json:"progres"`
		Notes    *string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Priority != nil {
		assignment.Priority = domain.Priority(*req.Priority)
	}
	if req.DueDate != nil {
		dueDate, err := utils.ParseOptionalDate(req.DueDate)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		assignment.DueDate = dueDate
	}
	if req.Status != nil {
		assignment.Status = domain.GoalStatus(*req.Status)
	}
	if req.Progress != nil {
		// une progression hors bornes est ramenée dans [0, 100] plutôt que rejetée
		assignment.Progress = domain.ClampProgress(*req.Progress)
	}
	if req.Notes != nil {
		assignment.Notes = req.Notes
	}

	if err := h.store.UpdateGoalAssignment(r.Context(), assignment); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.conflict(w, r, "L'objectif a été modifié entre-temps, veuillez réessayer")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.writeJSON(w, r, http.StatusOK, assignment)
}

func (h *Handler) DeleteGoalAssignment(w http.ResponseWriter, r *http.Request) {
	assignment := r.Context().Value(GoalAssignmentCtx).(*domain.GoalAssignment)

	if err := h.store.DeleteGoalAssignment(r.Context(), assignment.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Objectif assigné non trouvé")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.messageResponse(w, r, "Objectif supprimé avec succès")
}
