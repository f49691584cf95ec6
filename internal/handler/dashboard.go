package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rasmal-backend/internal/service"
)

type DashboardHandler struct {
	Service *service.LedgerService
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.summary)
}

func (h DashboardHandler) summary(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	summary, err := h.Service.Dashboard(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
