package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gestion-entretiens/backend/internal/domain"
)

func (h *Handler) GetNotes(w http.ResponseWriter, r *http.Request) {
	interview := r.Context().Value(InterviewCtx).(*domain.Interview)

	notes, err := h.store.GetNotes(r.Context(), interview.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, notes)
}

func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	interview := r.Context().Value(InterviewCtx).(*domain.Interview)

	var req struct {
		Section string  `json:"section" validate:"required,max=100"`
		Content string  `json:"contenu" validate:"required"`
		Phase   *string `json:"type" validate:"omitempty,note_phase"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	note := &domain.Note{
		InterviewID: interview.ID,
		Section:     req.Section,
		Content:     req.Content,
		Phase:       domain.NotePhasePreparation,
	}
	if req.Phase != nil {
		note.Phase = domain.NotePhase(*req.Phase)
	}

	if err := h.store.CreateNote(r.Context(), note); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, note)
}

func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	note := r.Context().Value(NoteCtx).(*domain.Note)

	var req struct {
		Content string  `json:"contenu" validate:"required"`
		Section *string `json:"section" validate:"omitempty,min=1,max=100"`
		Phase   *string `json:"type" validate:"omitempty,note_phase"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	note.Content = req.Content
	if req.Section != nil {
		note.Section = *req.Section
	}
	if req.Phase != nil {
		note.Phase = domain.NotePhase(*req.Phase)
	}

	if err := h.store.UpdateNote(r.Context(), note); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Note non trouvée")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.writeJSON(w, r, http.StatusOK, note)
}

func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	note := r.Context().Value(NoteCtx).(*domain.Note)

	if err := h.store.DeleteNote(r.Context(), note.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Note non trouvée")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.messageResponse(w, r, "Note supprimée avec succès")
}
