package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rasmal-backend/internal/domain"
	"rasmal-backend/internal/ledger"
	"rasmal-backend/internal/repository"
)

// ExchangeService turns one user-facing currency exchange into the correct
// set of ledger rows and keeps them reconcilable on edit and delete.
type ExchangeService struct {
	Ledger *LedgerService
	Logger *slog.Logger

	now   func() time.Time
	newID func() string
}

func NewExchangeService(ledgerSvc *LedgerService, logger *slog.Logger) *ExchangeService {
	return &ExchangeService{
		Ledger: ledgerSvc,
		Logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// ExchangeInput is one user-initiated exchange action. A zero FromAmount is a
// DZD-only payout; a positive FromAmount is foreign currency received, with
// optional linked supplier and company legs. ExtraDzdAmount, when positive,
// spawns an additional standalone payout alongside the main record.
type ExchangeInput struct {
	CurrencyCompanyID string
	FromAmount        decimal.Decimal
	ToAmount          decimal.Decimal
	ExchangeRateUsed  decimal.Decimal
	CommissionAmount  decimal.Decimal
	Description       string
	UsdFournisseurID  *string
	DzdCompanyID      *string
	UsdDescription    *string
	DzdDescription    *string
	ExtraDzdAmount    decimal.Decimal
}

func (s *ExchangeService) ListCurrencyTransactions(ctx context.Context, userID string) ([]domain.CurrencyTransaction, error) {
	snap, err := s.Ledger.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snap.VisibleCurrencyTransactions(), nil
}

// AddCurrencyTransaction validates the office, computes the local-currency
// amount, gates payouts against global capital, and writes the record with
// its linked legs in one store transaction.
func (s *ExchangeService) AddCurrencyTransaction(ctx context.Context, userID string, in ExchangeInput) (domain.CurrencyTransaction, error) {
	snap, err := s.Ledger.Snapshot(ctx, userID)
	if err != nil {
		return domain.CurrencyTransaction{}, err
	}
	office, ok := snap.CurrencyCompany(in.CurrencyCompanyID)
	if !ok {
		return domain.CurrencyTransaction{}, repository.ErrNotFound
	}

	ct := domain.CurrencyTransaction{
		ID:                s.newID(),
		UserID:            userID,
		CurrencyCompanyID: in.CurrencyCompanyID,
		FromAmount:        in.FromAmount,
		ToAmount:          ledger.ComputeToAmount(in.FromAmount, in.ToAmount, in.ExchangeRateUsed),
		ExchangeRateUsed:  in.ExchangeRateUsed,
		CommissionAmount:  in.CommissionAmount,
		Description:       in.Description,
		UsdFournisseurID:  in.UsdFournisseurID,
		DzdCompanyID:      in.DzdCompanyID,
		UsdDescription:    in.UsdDescription,
		DzdDescription:    in.DzdDescription,
		CreatedAt:         s.now(),
	}
	ct.UpdatedAt = ct.CreatedAt

	// DZD-only payout: cash leaves the books, gate it.
	if !ct.FromAmount.IsPositive() {
		if snap.GlobalCapital().Sub(ct.ToAmount).IsNegative() {
			return domain.CurrencyTransaction{}, ErrInsufficientCapital
		}
		if err := s.Ledger.CurrencyTxs.Create(ctx, ct); err != nil {
			return domain.CurrencyTransaction{}, err
		}
		return ct, nil
	}

	currency := office.BaseCurrency
	if ct.UsdFournisseurID != nil {
		if f, ok := snap.Fournisseur(*ct.UsdFournisseurID); ok {
			currency = f.Currency
		} else {
			return domain.CurrencyTransaction{}, repository.ErrNotFound
		}
	}
	if ct.DzdCompanyID != nil {
		if _, ok := snap.Company(*ct.DzdCompanyID); !ok {
			return domain.CurrencyTransaction{}, repository.ErrNotFound
		}
	}
	if ct.Description == "" {
		ct.Description = ledger.ExchangeDescription(ct.FromAmount, ct.ExchangeRateUsed, ct.ToAmount, currency)
	}

	// A separate local-currency amount rides along as its own payout record.
	if in.ExtraDzdAmount.IsPositive() {
		if snap.GlobalCapital().Sub(in.ExtraDzdAmount).IsNegative() {
			return domain.CurrencyTransaction{}, ErrInsufficientCapital
		}
		extra := domain.CurrencyTransaction{
			ID:                s.newID(),
			UserID:            userID,
			CurrencyCompanyID: in.CurrencyCompanyID,
			ToAmount:          in.ExtraDzdAmount,
			ExchangeRateUsed:  in.ExchangeRateUsed,
			Description:       in.Description,
			CreatedAt:         ct.CreatedAt,
			UpdatedAt:         ct.CreatedAt,
		}
		if err := s.Ledger.CurrencyTxs.Create(ctx, extra); err != nil {
			return domain.CurrencyTransaction{}, err
		}
	}

	legs := ledger.BuildLegs(ct, currency, office.Name)
	for i := range legs {
		legs[i].ID = s.newID()
		legs[i].CreatedAt = ct.CreatedAt
		legs[i].UpdatedAt = ct.CreatedAt
	}
	if err := s.Ledger.CurrencyTxs.CreateCompound(ctx, ct, legs); err != nil {
		return domain.CurrencyTransaction{}, err
	}

	for _, leg := range legs {
		s.Ledger.refreshOwnerCache(ctx, snap, leg, leg.Amount)
	}
	return ct, nil
}

// UpdateCurrencyTransaction edits the record in place. When the foreign
// amount or rate changes, the local amount is recomputed and the change is
// propagated to the linked legs; composer-generated descriptions are
// regenerated, user-edited ones are left alone. With applyToSiblings set, a
// rate change is re-applied to the office's neighbouring records as well.
func (s *ExchangeService) UpdateCurrencyTransaction(ctx context.Context, userID, id string, p domain.CurrencyTransactionPatch, applyToSiblings bool) error {
	snap, err := s.Ledger.Snapshot(ctx, userID)
	if err != nil {
		return err
	}
	ct, ok := snap.CurrencyTransaction(id)
	if !ok {
		return repository.ErrNotFound
	}

	updated := ct
	if p.FromAmount != nil {
		updated.FromAmount = *p.FromAmount
	}
	if p.ExchangeRateUsed != nil {
		updated.ExchangeRateUsed = *p.ExchangeRateUsed
	}
	if p.CommissionAmount != nil {
		updated.CommissionAmount = *p.CommissionAmount
	}
	if p.Description != nil {
		updated.Description = *p.Description
	}

	amountsChanged := p.FromAmount != nil || p.ExchangeRateUsed != nil
	if p.ToAmount != nil {
		updated.ToAmount = *p.ToAmount
	} else if amountsChanged && updated.FromAmount.IsPositive() {
		updated.ToAmount = updated.FromAmount.Mul(updated.ExchangeRateUsed)
	}

	currency := s.legCurrency(snap, updated)
	if p.Description == nil && amountsChanged && ledger.IsAutoDescription(ct.Description) && updated.FromAmount.IsPositive() {
		updated.Description = ledger.ExchangeDescription(updated.FromAmount, updated.ExchangeRateUsed, updated.ToAmount, currency)
	}

	if err := s.writeCurrencyTransaction(ctx, userID, ct, updated); err != nil {
		return err
	}

	if amountsChanged {
		s.propagateToLegs(ctx, snap, ct, updated, currency)
	}

	rateChanged := p.ExchangeRateUsed != nil && !ct.ExchangeRateUsed.Equal(updated.ExchangeRateUsed)
	if applyToSiblings && rateChanged {
		s.applyRateToSiblings(ctx, snap, ct, updated.ExchangeRateUsed)
	}
	return nil
}

// DeleteCurrencyTransaction trashes the record and removes it together with
// the legs it spawned.
func (s *ExchangeService) DeleteCurrencyTransaction(ctx context.Context, userID, id string) error {
	snap, err := s.Ledger.Snapshot(ctx, userID)
	if err != nil {
		return err
	}
	ct, ok := snap.CurrencyTransaction(id)
	if !ok {
		return repository.ErrNotFound
	}

	legs := ledger.LinkedTransactions(snap.Transactions, ct)
	linkedIDs := make([]string, len(legs))
	for i, leg := range legs {
		linkedIDs[i] = leg.ID
	}

	trash, err := s.Ledger.trashItem(userID, domain.TrashCurrencyTransaction, ct)
	if err != nil {
		return err
	}
	if err := s.Ledger.CurrencyTxs.DeleteCascade(ctx, trash, id, linkedIDs); err != nil {
		return err
	}

	for _, leg := range legs {
		s.Ledger.refreshOwnerCache(ctx, snap, leg, leg.Amount.Neg())
	}
	return nil
}

func (s *ExchangeService) legCurrency(snap ledger.Snapshot, ct domain.CurrencyTransaction) string {
	if ct.UsdFournisseurID != nil {
		if f, ok := snap.Fournisseur(*ct.UsdFournisseurID); ok {
			return f.Currency
		}
	}
	if office, ok := snap.CurrencyCompany(ct.CurrencyCompanyID); ok {
		return office.BaseCurrency
	}
	return "USD"
}

func (s *ExchangeService) writeCurrencyTransaction(ctx context.Context, userID string, old, updated domain.CurrencyTransaction) error {
	patch := domain.CurrencyTransactionPatch{}
	if !old.FromAmount.Equal(updated.FromAmount) {
		patch.FromAmount = &updated.FromAmount
	}
	if !old.ToAmount.Equal(updated.ToAmount) {
		patch.ToAmount = &updated.ToAmount
	}
	if !old.ExchangeRateUsed.Equal(updated.ExchangeRateUsed) {
		patch.ExchangeRateUsed = &updated.ExchangeRateUsed
	}
	if !old.CommissionAmount.Equal(updated.CommissionAmount) {
		patch.CommissionAmount = &updated.CommissionAmount
	}
	if old.Description != updated.Description {
		patch.Description = &updated.Description
	}
	return s.Ledger.CurrencyTxs.Update(ctx, userID, old.ID, patch)
}

// propagateToLegs rewrites the linked legs to the post-edit amounts. The
// finder prefers the explicit link and falls back to the legacy heuristic;
// a fallback miss leaves the leg silently untouched.
func (s *ExchangeService) propagateToLegs(ctx context.Context, snap ledger.Snapshot, old, updated domain.CurrencyTransaction, currency string) {
	office, _ := snap.CurrencyCompany(old.CurrencyCompanyID)
	for _, leg := range ledger.LinkedTransactions(snap.Transactions, old) {
		patch := domain.TransactionPatch{}
		switch {
		case leg.FournisseurID != nil:
			amount := updated.FromAmount.Neg()
			patch.Amount = &amount
			if ledger.IsAutoDescription(leg.Description) {
				desc := ledger.SupplierLegDescription(updated.FromAmount, currency, office.Name)
				patch.Description = &desc
			}
		case leg.CompanyID != nil:
			amount := updated.ToAmount.Neg()
			patch.Amount = &amount
			if ledger.IsAutoDescription(leg.Description) {
				desc := ledger.CompanyLegDescription(updated.FromAmount, updated.ExchangeRateUsed, updated.ToAmount, currency)
				patch.Description = &desc
			}
		default:
			continue
		}
		if err := s.Ledger.Transactions.Update(ctx, old.UserID, leg.ID, patch); err != nil {
			s.Logger.Warn("linked leg update failed", "currency_tx_id", old.ID, "leg_id", leg.ID, "error", err)
		}
	}
}

// applyRateToSiblings re-applies a new rate to the office's currency
// transactions created near the edited one, legs included.
func (s *ExchangeService) applyRateToSiblings(ctx context.Context, snap ledger.Snapshot, ct domain.CurrencyTransaction, rate decimal.Decimal) {
	for _, sib := range ledger.Siblings(snap.CurrencyTransactions, ct) {
		if !sib.FromAmount.IsPositive() {
			continue
		}
		updated := sib
		updated.ExchangeRateUsed = rate
		updated.ToAmount = sib.FromAmount.Mul(rate)
		currency := s.legCurrency(snap, sib)
		if ledger.IsAutoDescription(sib.Description) {
			updated.Description = ledger.ExchangeDescription(updated.FromAmount, rate, updated.ToAmount, currency)
		}
		if err := s.writeCurrencyTransaction(ctx, sib.UserID, sib, updated); err != nil {
			s.Logger.Warn("sibling rate update failed", "currency_tx_id", sib.ID, "error", err)
			continue
		}
		s.propagateToLegs(ctx, snap, sib, updated, currency)
	}
}
