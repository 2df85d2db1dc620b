package handler

import (
	"database/sql"
	"errors"
	"net/http"
)

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	manager, err := h.store.GetManagerByID(r.Context(), managerID(r))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Manager non trouvé")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.writeJSON(w, r, http.StatusOK, manager)
}
