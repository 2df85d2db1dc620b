package handler

import "net/http"

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.messageResponse(w, r, "API Gestion Entretiens - Prête !")
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.requestLogger(r).WithError(err).Warn("Base de données injoignable")
		h.writeJSON(w, r, http.StatusServiceUnavailable, struct {
			Status string `json:"status"`
		}{
			Status: "indisponible",
		})
		return
	}

	h.writeJSON(w, r, http.StatusOK, struct {
		Status string `json:"status"`
	}{
		Status: "ok",
	})
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetDashboardStats(r.Context(), managerID(r), h.now())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, stats)
}
