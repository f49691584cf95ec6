package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"rasmal-backend/internal/domain"
	"rasmal-backend/internal/service"
)

type CompanyHandler struct {
	Service *service.LedgerService
}

func (h CompanyHandler) RegisterRoutes(r chi.Router) {
	r.Get("/companies", h.list)
	r.Post("/companies", h.create)
	r.Put("/companies/{id}", h.update)
	r.Delete("/companies/{id}", h.delete)
}

func (h CompanyHandler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	items, err := h.Service.ListCompanies(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h CompanyHandler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Name            string          `json:"name"`
		Owner           string          `json:"owner"`
		Description     string          `json:"description"`
		InitialCapital  decimal.Decimal `json:"initialCapital"`
		SharePercentage decimal.Decimal `json:"sharePercentage"`
		IsActive        *bool           `json:"isActive"`
		Image           *string         `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	c, err := h.Service.AddCompany(r.Context(), user.ID, domain.Company{
		Name:            req.Name,
		Owner:           req.Owner,
		Description:     req.Description,
		InitialCapital:  req.InitialCapital,
		SharePercentage: req.SharePercentage,
		IsActive:        active,
		Image:           req.Image,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h CompanyHandler) update(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Name            *string          `json:"name"`
		Owner           *string          `json:"owner"`
		Description     *string          `json:"description"`
		InitialCapital  *decimal.Decimal `json:"initialCapital"`
		SharePercentage *decimal.Decimal `json:"sharePercentage"`
		IsActive        *bool            `json:"isActive"`
		Image           *string          `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	err := h.Service.UpdateCompany(r.Context(), user.ID, chi.URLParam(r, "id"), domain.CompanyPatch{
		Name:            req.Name,
		Owner:           req.Owner,
		Description:     req.Description,
		InitialCapital:  req.InitialCapital,
		SharePercentage: req.SharePercentage,
		IsActive:        req.IsActive,
		Image:           req.Image,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h CompanyHandler) delete(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteCompany(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
