package handler

import "net/http"

func (h *Handler) GetInterviewTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.store.GetInterviewTemplates(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, templates)
}
