package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gestion-entretiens/backend/internal/domain"
	"github.com/gestion-entretiens/backend/internal/utils"
)

func (h *Handler) GetInterviews(w http.ResponseWriter, r *http.Request) {
	interviews, err := h.store.GetInterviews(r.Context(), managerID(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, interviews)
}

func (h *Handler) CreateInterview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID  int64   `json:"employee_id" validate:"required,gt=0"`
		TemplateID  *int64  `json:"template_id" validate:"omitempty,gt=0"`
		Type        string  `json:"type" validate:"required,interview_type"`
		ScheduledAt string  `json:"date_prevue" validate:"required,date"`
		Title       string  `json:"titre" validate:"required,max=200"`
		Objectives  *string `json:"objectifs"`
		Status      *string `json:"statut" validate:"omitempty,interview_status"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	scheduledAt, err := utils.ParseDate(req.ScheduledAt)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	// l'employé doit appartenir au manager connecté
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

	interview := &domain.Interview{
		EmployeeID:  employee.ID,
		ManagerID:   managerID(r),
		TemplateID:  req.TemplateID,
		Type:        domain.InterviewType(req.Type),
		ScheduledAt: scheduledAt,
		Status:      domain.InterviewStatusPlanned,
		Title:       req.Title,
		Objectives:  req.Objectives,
		Employee: &domain.EmployeeSummary{
			ID:       employee.ID,
			Name:     employee.Name,
			Email:    employee.Email,
			Position: employee.Position,
		},
	}
	if req.Status != nil {
		interview.Status = domain.InterviewStatus(*req.Status)
	}

	if req.TemplateID != nil {
		template, err := h.store.GetInterviewTemplate(r.Context(), *req.TemplateID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "Template d'entretien non trouvé")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		interview.Template = &domain.InterviewTemplateSummary{
			ID:        template.ID,
			Name:      template.Name,
			Type:      template.Type,
			Structure: template.Structure,
		}
	}

	if err := h.store.CreateInterview(r.Context(), interview); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, interview)
}

func (h *Handler) GetInterview(w http.ResponseWriter, r *http.Request) {
	interview := r.Context().Value(InterviewCtx).(*domain.Interview)
	h.writeJSON(w, r, http.StatusOK, interview)
}

func (h *Handler) UpdateInterview(w http.ResponseWriter, r *http.Request) {
	interview := r.Context().Value(InterviewCtx).(*domain.Interview)

	var req struct {
		Status      *string `json:"statut" validate:"omitempty,interview_status"`
		Title       *string `json:"titre" validate:"omitempty,min=1,max=200"`
		Objectives  *string `json:"objectifs"`
		ScheduledAt *string `json:"date_prevue" validate:"omitempty,date"`
		CompletedAt *string `json:"date_realise" validate:"omitempty,date"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Status != nil {
		interview.Status = domain.InterviewStatus(*req.Status)
	}
	if req.Title != nil {
		interview.Title = *req.Title
	}
	if req.Objectives != nil {
		interview.Objectives = req.Objectives
	}
	if req.ScheduledAt != nil {
		scheduledAt, err := utils.ParseDate(*req.ScheduledAt)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		interview.ScheduledAt = scheduledAt
	}
	if req.CompletedAt != nil {
		completedAt, err := utils.ParseOptionalDate(req.CompletedAt)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		interview.CompletedAt = completedAt
	}

	if err := h.store.UpdateInterview(r.Context(), interview); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.conflict(w, r, "L'entretien a été modifié entre-temps, veuillez réessayer")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.writeJSON(w, r, http.StatusOK, interview)
}

func (h *Handler) DeleteInterview(w http.ResponseWriter, r *http.Request) {
	interview := r.Context().Value(InterviewCtx).(*domain.Interview)

	if err := h.store.DeleteInterview(r.Context(), managerID(r), interview.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Entretien non trouvé")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.messageResponse(w, r, "Entretien supprimé avec succès")
}
