package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"rasmal-backend/internal/domain"
	"rasmal-backend/internal/service"
)

type CurrencyTransactionHandler struct {
	Service *service.ExchangeService
}

func (h CurrencyTransactionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/currency-transactions", h.list)
	r.Post("/currency-transactions", h.create)
	r.Put("/currency-transactions/{id}", h.update)
	r.Delete("/currency-transactions/{id}", h.delete)
}

func (h CurrencyTransactionHandler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	items, err := h.Service.ListCurrencyTransactions(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h CurrencyTransactionHandler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	var req struct {
		CurrencyCompanyID string          `json:"currencyCompanyId"`
		FromAmount        decimal.Decimal `json:"fromAmount"`
		ToAmount          decimal.Decimal `json:"toAmount"`
		ExchangeRateUsed  decimal.Decimal `json:"exchangeRateUsed"`
		CommissionAmount  decimal.Decimal `json:"commissionAmount"`
		Description       string          `json:"description"`
		UsdFournisseurID  *string         `json:"usdFournisseurId"`
		DzdCompanyID      *string         `json:"dzdCompanyId"`
		UsdDescription    *string         `json:"usdDescription"`
		DzdDescription    *string         `json:"dzdDescription"`
		ExtraDzdAmount    decimal.Decimal `json:"extraDzdAmount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.CurrencyCompanyID == "" {
		writeError(w, http.StatusBadRequest, "currencyCompanyId is required")
		return
	}
	if req.FromAmount.IsNegative() {
		writeError(w, http.StatusBadRequest, "fromAmount cannot be negative")
		return
	}
	ct, err := h.Service.AddCurrencyTransaction(r.Context(), user.ID, service.ExchangeInput{
		CurrencyCompanyID: req.CurrencyCompanyID,
		FromAmount:        req.FromAmount,
		ToAmount:          req.ToAmount,
		ExchangeRateUsed:  req.ExchangeRateUsed,
		CommissionAmount:  req.CommissionAmount,
		Description:       req.Description,
		UsdFournisseurID:  req.UsdFournisseurID,
		DzdCompanyID:      req.DzdCompanyID,
		UsdDescription:    req.UsdDescription,
		DzdDescription:    req.DzdDescription,
		ExtraDzdAmount:    req.ExtraDzdAmount,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ct)
}

func (h CurrencyTransactionHandler) update(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	var req struct {
		FromAmount          *decimal.Decimal `json:"fromAmount"`
		ToAmount            *decimal.Decimal `json:"toAmount"`
		ExchangeRateUsed    *decimal.Decimal `json:"exchangeRateUsed"`
		CommissionAmount    *decimal.Decimal `json:"commissionAmount"`
		Description         *string          `json:"description"`
		ApplyRateToSiblings bool             `json:"applyRateToSiblings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	err := h.Service.UpdateCurrencyTransaction(r.Context(), user.ID, chi.URLParam(r, "id"), domain.CurrencyTransactionPatch{
		FromAmount:       req.FromAmount,
		ToAmount:         req.ToAmount,
		ExchangeRateUsed: req.ExchangeRateUsed,
		CommissionAmount: req.CommissionAmount,
		Description:      req.Description,
	}, req.ApplyRateToSiblings)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h CurrencyTransactionHandler) delete(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteCurrencyTransaction(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
