package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rasmal-backend/internal/service"
)

type TrashHandler struct {
	Service *service.TrashService
}

func (h TrashHandler) RegisterRoutes(r chi.Router) {
	r.Get("/trash", h.list)
	r.Post("/trash/{id}/restore", h.restore)
	r.Delete("/trash/{id}", h.purge)
	r.Delete("/trash", h.empty)
}

func (h TrashHandler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	items, err := h.Service.Items(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h TrashHandler) restore(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	if err := h.Service.Restore(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h TrashHandler) purge(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	if err := h.Service.Purge(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h TrashHandler) empty(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	if err := h.Service.Empty(r.Context(), user.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
