package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"rasmal-backend/internal/domain"
	"rasmal-backend/internal/service"
)

type FournisseurHandler struct {
	Service *service.LedgerService
}

func (h FournisseurHandler) RegisterRoutes(r chi.Router) {
	r.Get("/fournisseurs", h.list)
	r.Post("/fournisseurs", h.create)
	r.Put("/fournisseurs/{id}", h.update)
	r.Delete("/fournisseurs/{id}", h.delete)
}

func (h FournisseurHandler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	items, err := h.Service.ListFournisseurs(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h FournisseurHandler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Name       string          `json:"name"`
		Currency   string          `json:"currency"`
		Currencies []string        `json:"currencies"`
		Balance    decimal.Decimal `json:"balance"`
		Image      *string         `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	f, err := h.Service.AddFournisseur(r.Context(), user.ID, domain.Fournisseur{
		Name:       req.Name,
		Currency:   req.Currency,
		Currencies: req.Currencies,
		Balance:    req.Balance,
		Image:      req.Image,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h FournisseurHandler) update(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Name       *string          `json:"name"`
		Currency   *string          `json:"currency"`
		Currencies []string         `json:"currencies"`
		Balance    *decimal.Decimal `json:"balance"`
		Image      *string          `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	err := h.Service.UpdateFournisseur(r.Context(), user.ID, chi.URLParam(r, "id"), domain.FournisseurPatch{
		Name:       req.Name,
		Currency:   req.Currency,
		Currencies: req.Currencies,
		Balance:    req.Balance,
		Image:      req.Image,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h FournisseurHandler) delete(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteFournisseur(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
