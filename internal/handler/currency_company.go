package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"rasmal-backend/internal/domain"
	"rasmal-backend/internal/service"
)

type CurrencyCompanyHandler struct {
	Service *service.LedgerService
}

func (h CurrencyCompanyHandler) RegisterRoutes(r chi.Router) {
	r.Get("/currency-companies", h.list)
	r.Post("/currency-companies", h.create)
	r.Put("/currency-companies/{id}", h.update)
	r.Delete("/currency-companies/{id}", h.delete)
}

func (h CurrencyCompanyHandler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	items, err := h.Service.ListCurrencyCompanies(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h CurrencyCompanyHandler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Name                 string          `json:"name"`
		BaseCurrency         string          `json:"baseCurrency"`
		BaseCurrencies       []string        `json:"baseCurrencies"`
		TargetCurrency       string          `json:"targetCurrency"`
		TargetCurrencies     []string        `json:"targetCurrencies"`
		ExchangeRate         decimal.Decimal `json:"exchangeRate"`
		CommissionPercentage decimal.Decimal `json:"commissionPercentage"`
		Description          string          `json:"description"`
		Image                *string         `json:"image"`
		IsActive             *bool           `json:"isActive"`
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
	c, err := h.Service.AddCurrencyCompany(r.Context(), user.ID, domain.CurrencyCompany{
		Name:                 req.Name,
		BaseCurrency:         req.BaseCurrency,
		BaseCurrencies:       req.BaseCurrencies,
		TargetCurrency:       req.TargetCurrency,
		TargetCurrencies:     req.TargetCurrencies,
		ExchangeRate:         req.ExchangeRate,
		CommissionPercentage: req.CommissionPercentage,
		Description:          req.Description,
		Image:                req.Image,
		IsActive:             active,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h CurrencyCompanyHandler) update(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Name                 *string          `json:"name"`
		BaseCurrency         *string          `json:"baseCurrency"`
		BaseCurrencies       []string         `json:"baseCurrencies"`
		TargetCurrency       *string          `json:"targetCurrency"`
		TargetCurrencies     []string         `json:"targetCurrencies"`
		ExchangeRate         *decimal.Decimal `json:"exchangeRate"`
		CommissionPercentage *decimal.Decimal `json:"commissionPercentage"`
		Description          *string          `json:"description"`
		IsActive             *bool            `json:"isActive"`
		Image                *string          `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	err := h.Service.UpdateCurrencyCompany(r.Context(), user.ID, chi.URLParam(r, "id"), domain.CurrencyCompanyPatch{
		Name:                 req.Name,
		BaseCurrency:         req.BaseCurrency,
		BaseCurrencies:       req.BaseCurrencies,
		TargetCurrency:       req.TargetCurrency,
		TargetCurrencies:     req.TargetCurrencies,
		ExchangeRate:         req.ExchangeRate,
		CommissionPercentage: req.CommissionPercentage,
		Description:          req.Description,
		IsActive:             req.IsActive,
		Image:                req.Image,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h CurrencyCompanyHandler) delete(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteCurrencyCompany(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
