package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rasmal-backend/internal/domain"
)

// Description tags written by the composer. The edit/delete matcher relies
// on them when no explicit link is available.
const (
	TagExchange     = "currency exchange:"
	TagExchangeDebt = "exchange debt:"
)

// LinkWindow bounds the legacy heuristic: linked entries must have been
// created within this window of the currency transaction.
const LinkWindow = 10 * time.Second

// SiblingWindow bounds bulk rate propagation across an office's
// neighbouring currency transactions.
const SiblingWindow = 10 * time.Minute

// ComputeToAmount applies the composer's override rule: a non-zero caller
// value is respected verbatim, otherwise fromAmount × rate.
func ComputeToAmount(fromAmount, toAmount, rate decimal.Decimal) decimal.Decimal {
	if !toAmount.IsZero() {
		return toAmount
	}
	return fromAmount.Mul(rate)
}

// SupplierLegDescription labels the fournisseur debit spawned by an exchange.
func SupplierLegDescription(fromAmount decimal.Decimal, currency, officeName string) string {
	if officeName == "" {
		officeName = "unknown office"
	}
	return fmt.Sprintf("%s %s %s from %s", TagExchange, fromAmount.String(), currency, officeName)
}

// CompanyLegDescription labels the company debt spawned by an exchange.
func CompanyLegDescription(fromAmount, rate, toAmount decimal.Decimal, currency string) string {
	return fmt.Sprintf("%s %s %s × %s = %s DZD", TagExchangeDebt, fromAmount.String(), currency, rate.String(), toAmount.String())
}

// ExchangeDescription labels the exchange record itself.
func ExchangeDescription(fromAmount, rate, toAmount decimal.Decimal, currency string) string {
	return fmt.Sprintf("%s %s × %s = %s DZD", fromAmount.String(), currency, rate.String(), toAmount.String())
}

// IsAutoDescription reports whether a description looks composer-generated.
// User-edited descriptions are left alone during edit propagation.
func IsAutoDescription(s string) bool {
	return s == "" ||
		strings.Contains(s, TagExchange) ||
		strings.Contains(s, TagExchangeDebt) ||
		strings.Contains(s, "×")
}

// BuildLegs produces the linked regular transactions for a compound
// exchange: a negative fournisseur entry for the foreign amount and a
// negative company entry for the local-currency debt. Legs carry the
// currency transaction's id so later edits and deletes can find them
// without guessing.
func BuildLegs(ct domain.CurrencyTransaction, currency, officeName string) []domain.Transaction {
	var legs []domain.Transaction
	if ct.UsdFournisseurID != nil && *ct.UsdFournisseurID != "" {
		legs = append(legs, domain.Transaction{
			UserID:        ct.UserID,
			Type:          domain.TransactionFournisseur,
			FournisseurID: ct.UsdFournisseurID,
			Amount:        ct.FromAmount.Neg(),
			Rate:          decimal.NewFromInt(1),
			Description:   SupplierLegDescription(ct.FromAmount, currency, officeName),
			CurrencyTxID:  &ct.ID,
		})
	}
	if ct.DzdCompanyID != nil && *ct.DzdCompanyID != "" {
		legs = append(legs, domain.Transaction{
			UserID:       ct.UserID,
			Type:         domain.TransactionCompany,
			CompanyID:    ct.DzdCompanyID,
			Amount:       ct.ToAmount.Neg(),
			Rate:         decimal.NewFromInt(1),
			Description:  CompanyLegDescription(ct.FromAmount, ct.ExchangeRateUsed, ct.ToAmount, currency),
			CurrencyTxID: &ct.ID,
		})
	}
	return legs
}

// LinkedTransactions finds the regular transactions spawned by ct. Entries
// carrying ct's id are matched directly; rows without one (restored from
// trash, or written before explicit linking existed) fall back to the
// legacy heuristic: created within LinkWindow of ct, exact negated amount,
// and a recognized description tag. The heuristic can silently miss.
func LinkedTransactions(txs []domain.Transaction, ct domain.CurrencyTransaction) []domain.Transaction {
	var linked []domain.Transaction
	for _, t := range txs {
		if t.CurrencyTxID != nil && *t.CurrencyTxID == ct.ID {
			linked = append(linked, t)
		}
	}
	if len(linked) > 0 {
		return linked
	}

	for _, t := range txs {
		if t.CurrencyTxID != nil {
			continue
		}
		diff := t.CreatedAt.Sub(ct.CreatedAt)
		if diff < 0 {
			diff = -diff
		}
		if diff > LinkWindow {
			continue
		}

		usdMatch := ct.UsdFournisseurID != nil &&
			t.FournisseurID != nil && *t.FournisseurID == *ct.UsdFournisseurID &&
			t.Amount.Equal(ct.FromAmount.Neg()) &&
			strings.Contains(t.Description, TagExchange)

		dzdMatch := ct.DzdCompanyID != nil &&
			t.CompanyID != nil && *t.CompanyID == *ct.DzdCompanyID &&
			t.Amount.Equal(ct.ToAmount.Neg()) &&
			(strings.Contains(t.Description, TagExchangeDebt) || strings.Contains(t.Description, "DZD"))

		if usdMatch || dzdMatch {
			linked = append(linked, t)
		}
	}
	return linked
}

// Siblings returns the other currency transactions of the same office
// created within SiblingWindow of ct. Used for bulk rate re-application.
func Siblings(cts []domain.CurrencyTransaction, ct domain.CurrencyTransaction) []domain.CurrencyTransaction {
	var out []domain.CurrencyTransaction
	for _, other := range cts {
		if other.ID == ct.ID || other.CurrencyCompanyID != ct.CurrencyCompanyID {
			continue
		}
		diff := other.CreatedAt.Sub(ct.CreatedAt)
		if diff < 0 {
			diff = -diff
		}
		if diff <= SiblingWindow {
			out = append(out, other)
		}
	}
	return out
}
