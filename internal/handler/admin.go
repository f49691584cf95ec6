package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rasmal-backend/internal/service"
)

// AdminHandler exposes the destructive tenant operations.
type AdminHandler struct {
	Service *service.LedgerService
}

func (h AdminHandler) RegisterRoutes(r chi.Router) {
	r.Post("/reset", h.reset)
}

func (h AdminHandler) reset(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}
	if err := h.Service.ResetTenant(r.Context(), user.ID, req.Password); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
