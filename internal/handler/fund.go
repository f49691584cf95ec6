package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"rasmal-backend/internal/domain"
	"rasmal-backend/internal/service"
)

type FundHandler struct {
	Service *service.LedgerService
}

func (h FundHandler) RegisterRoutes(r chi.Router) {
	r.Get("/fund", h.get)
	r.Put("/fund", h.set)
	r.Get("/fund/transactions", h.listTransactions)
	r.Post("/fund/transactions", h.createTransaction)
}

func (h FundHandler) get(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	fund, txs, err := h.Service.FundState(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"amount":       fund.Amount,
		"hasPassword":  fund.PasswordHash != nil,
		"transactions": txs,
	})
}

func (h FundHandler) set(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Amount   decimal.Decimal `json:"amount"`
		Password string          `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}
	if err := h.Service.SetFundCapital(r.Context(), user.ID, req.Amount, req.Password); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h FundHandler) listTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	_, txs, err := h.Service.FundState(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (h FundHandler) createTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Type        string          `json:"type"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Amount.IsZero() {
		writeError(w, http.StatusBadRequest, "amount is required")
		return
	}
	t, err := h.Service.AddFundTransaction(r.Context(), user.ID, domain.FundTransactionType(req.Type), req.Amount, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}
