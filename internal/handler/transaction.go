package handler

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"rasmal-backend/internal/domain"
	"rasmal-backend/internal/service"
)

type TransactionHandler struct {
	Service *service.LedgerService
}

func (h TransactionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/transactions", h.list)
	r.Get("/transactions/export", h.export)
	r.Post("/transactions", h.create)
	r.Put("/transactions/{id}", h.update)
	r.Delete("/transactions/{id}", h.delete)
}

func (h TransactionHandler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	startDate, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return
	}
	endDate, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return
	}
	items, err := h.Service.ListTransactions(r.Context(), user.ID, startDate, endDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h TransactionHandler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Type          string          `json:"type"`
		Amount        decimal.Decimal `json:"amount"`
		Rate          decimal.Decimal `json:"rate"`
		Description   string          `json:"description"`
		CompanyID     *string         `json:"companyId"`
		FournisseurID *string         `json:"fournisseurId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Amount.IsZero() {
		writeError(w, http.StatusBadRequest, "amount is required")
		return
	}
	t, err := h.Service.AddTransaction(r.Context(), user.ID, domain.Transaction{
		Type:          domain.TransactionType(req.Type),
		Amount:        req.Amount,
		Rate:          req.Rate,
		Description:   req.Description,
		CompanyID:     req.CompanyID,
		FournisseurID: req.FournisseurID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h TransactionHandler) update(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Amount      *decimal.Decimal `json:"amount"`
		Rate        *decimal.Decimal `json:"rate"`
		Description *string          `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	err := h.Service.UpdateTransaction(r.Context(), user.ID, chi.URLParam(r, "id"), domain.TransactionPatch{
		Amount:      req.Amount,
		Rate:        req.Rate,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h TransactionHandler) delete(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteTransaction(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h TransactionHandler) export(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	startDate, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return
	}
	endDate, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return
	}
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		writeError(w, http.StatusBadRequest, "startDate must be before endDate")
		return
	}

	items, err := h.Service.ListTransactions(r.Context(), user.ID, startDate, endDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	filenameSuffix := time.Now().Format("20060102_150405")
	if startDate != nil && endDate != nil {
		filenameSuffix = fmt.Sprintf("%s_%s", startDate.Format("20060102"), endDate.Format("20060102"))
	}

	switch format {
	case "csv":
		data, err := exportTransactionsCSV(items)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"", filenameSuffix))
		_, _ = w.Write(data)
	case "xlsx", "excel":
		data, err := exportTransactionsXLSX(items)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"", filenameSuffix))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}

func exportTransactionsCSV(items []domain.Transaction) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"id", "type", "amount", "rate", "description", "company_id", "fournisseur_id", "date"})
	for _, t := range items {
		_ = w.Write([]string{
			t.ID,
			string(t.Type),
			t.Amount.String(),
			t.Rate.String(),
			t.Description,
			derefString(t.CompanyID),
			derefString(t.FournisseurID),
			t.CreatedAt.Format("2006-01-02"),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportTransactionsXLSX(items []domain.Transaction) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Transactions"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"ID", "Type", "Amount", "Rate", "Description", "Company", "Fournisseur", "Date"}
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, t := range items {
		row := r + 2
		amount, _ := t.Amount.Float64()
		rate, _ := t.Rate.Float64()
		values := []any{
			t.ID,
			string(t.Type),
			amount,
			rate,
			t.Description,
			derefString(t.CompanyID),
			derefString(t.FournisseurID),
			t.CreatedAt.Format("2006-01-02"),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 38)
	_ = f.SetColWidth(sheet, "B", "B", 12)
	_ = f.SetColWidth(sheet, "C", "D", 14)
	_ = f.SetColWidth(sheet, "E", "E", 40)
	_ = f.SetColWidth(sheet, "F", "G", 38)
	_ = f.SetColWidth(sheet, "H", "H", 12)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", "H1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
