package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gestion-entretiens/backend/internal/domain"
)

func (h *Handler) GetGoalTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.store.GetActiveGoalTemplates(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, templates)
}

func (h *Handler) CreateGoalTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string  `json:"titre" validate:"required,max=200"`
		Description *string `json:"description"`
		Category    string  `json:"categorie" validate:"required,goal_category"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	template := &domain.GoalTemplate{
		Title:       req.Title,
		Description: req.Description,
		Category:    domain.GoalCategory(req.Category),
	}

	if err := h.store.CreateGoalTemplate(r.Context(), template); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, template)
}

func (h *Handler) GetGoalTemplate(w http.ResponseWriter, r *http.Request) {
	template := r.Context().Value(GoalTemplateCtx).(*domain.GoalTemplate)
	h.writeJSON(w, r, http.StatusOK, template)
}

func (h *Handler) UpdateGoalTemplate(w http.ResponseWriter, r *http.Request) {
	template := r.Context().Value(GoalTemplateCtx).(*domain.GoalTemplate)

	var req struct {
		Title       *string `json:"titre" validate:"omitempty,min=1,max=200"`
		Description *string `json:"description"`
		Category    *string `json:"categorie" validate:"omitempty,goal_category"`
		Active      *bool   `json:"est_actif"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Title != nil {
		template.Title = *req.Title
	}
	if req.Description != nil {
		template.Description = req.Description
	}
	if req.Category != nil {
		template.Category = domain.GoalCategory(*req.Category)
	}
	if req.Active != nil {
		template.Active = *req.Active
	}

	if err := h.store.UpdateGoalTemplate(r.Context(), template); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.conflict(w, r, "Le template a été modifié entre-temps, veuillez réessayer")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.writeJSON(w, r, http.StatusOK, template)
}

// DeleteGoalTemplate désactive le template, les objectifs déjà assignés le conservent.
func (h *Handler) DeleteGoalTemplate(w http.ResponseWriter, r *http.Request) {
	template := r.Context().Value(GoalTemplateCtx).(*domain.GoalTemplate)

	if err := h.store.DeactivateGoalTemplate(r.Context(), template.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Template d'objectif non trouvé")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.messageResponse(w, r, "Template d'objectif désactivé avec succès")
}
