package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"rasmal-backend/internal/domain"
	"rasmal-backend/internal/ledger"
	"rasmal-backend/internal/repository"
)

// LedgerService owns the tenant's collections and derived views. Reads load a
// fresh snapshot and derive balances from the transaction logs; writes go
// through the stores and opportunistically refresh the persisted balance
// caches.
type LedgerService struct {
	Companies         CompanyStore
	Fournisseurs      FournisseurStore
	Transactions      TransactionStore
	CurrencyCompanies CurrencyCompanyStore
	CurrencyTxs       CurrencyTransactionStore
	Fund              FundStore
	Trash             TrashStore
	Reset             ResetStore
	Auth              PasswordVerifier
	Logger            *slog.Logger

	now   func() time.Time
	newID func() string
}

func NewLedgerService(
	companies CompanyStore,
	fournisseurs FournisseurStore,
	transactions TransactionStore,
	currencyCompanies CurrencyCompanyStore,
	currencyTxs CurrencyTransactionStore,
	fund FundStore,
	trash TrashStore,
	reset ResetStore,
	auth PasswordVerifier,
	logger *slog.Logger,
) *LedgerService {
	return &LedgerService{
		Companies:         companies,
		Fournisseurs:      fournisseurs,
		Transactions:      transactions,
		CurrencyCompanies: currencyCompanies,
		CurrencyTxs:       currencyTxs,
		Fund:              fund,
		Trash:             trash,
		Reset:             reset,
		Auth:              auth,
		Logger:            logger,
		now:               time.Now,
		newID:             uuid.NewString,
	}
}

// Snapshot loads every collection of the tenant in parallel.
func (s *LedgerService) Snapshot(ctx context.Context, userID string) (ledger.Snapshot, error) {
	var snap ledger.Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Companies, err = s.Companies.List(ctx, userID)
		return
	})
	g.Go(func() (err error) {
		snap.Fournisseurs, err = s.Fournisseurs.List(ctx, userID)
		return
	})
	g.Go(func() (err error) {
		snap.Transactions, err = s.Transactions.List(ctx, userID, nil, nil)
		return
	})
	g.Go(func() (err error) {
		snap.CurrencyCompanies, err = s.CurrencyCompanies.List(ctx, userID)
		return
	})
	g.Go(func() (err error) {
		snap.CurrencyTransactions, err = s.CurrencyTxs.List(ctx, userID)
		return
	})
	g.Go(func() error {
		fund, err := s.Fund.Get(ctx, userID)
		if err != nil {
			return err
		}
		snap.FundCapital = fund.Amount
		return nil
	})
	g.Go(func() (err error) {
		snap.FundTransactions, err = s.Fund.ListTransactions(ctx, userID)
		return
	})
	g.Go(func() (err error) {
		snap.Trash, err = s.Trash.List(ctx, userID)
		return
	})
	if err := g.Wait(); err != nil {
		return ledger.Snapshot{}, err
	}
	return snap, nil
}

// Companies

func (s *LedgerService) ListCompanies(ctx context.Context, userID string) ([]domain.Company, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snap.DerivedCompanies(), nil
}

func (s *LedgerService) AddCompany(ctx context.Context, userID string, c domain.Company) (domain.Company, error) {
	c.ID = s.newID()
	c.UserID = userID
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	if err := s.Companies.Create(ctx, c); err != nil {
		return domain.Company{}, err
	}
	return c, nil
}

func (s *LedgerService) UpdateCompany(ctx context.Context, userID, id string, p domain.CompanyPatch) error {
	return s.Companies.Update(ctx, userID, id, p)
}

// DeleteCompany snapshots the company into trash and removes it. Its
// transactions stay behind and are orphan-filtered out of derived views.
func (s *LedgerService) DeleteCompany(ctx context.Context, userID, id string) error {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return err
	}
	c, ok := snap.Company(id)
	if !ok {
		return repository.ErrNotFound
	}
	trash, err := s.trashItem(userID, domain.TrashCompany, c)
	if err != nil {
		return err
	}
	return s.Companies.DeleteWithTrash(ctx, trash, id)
}

// Fournisseurs

func (s *LedgerService) ListFournisseurs(ctx context.Context, userID string) ([]domain.Fournisseur, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snap.DerivedFournisseurs(), nil
}

func (s *LedgerService) AddFournisseur(ctx context.Context, userID string, f domain.Fournisseur) (domain.Fournisseur, error) {
	f.ID = s.newID()
	f.UserID = userID
	f.CreatedAt = s.now()
	f.UpdatedAt = f.CreatedAt
	if f.Currency == "" {
		f.Currency = "USD"
	}
	if err := s.Fournisseurs.Create(ctx, f); err != nil {
		return domain.Fournisseur{}, err
	}
	return f, nil
}

func (s *LedgerService) UpdateFournisseur(ctx context.Context, userID, id string, p domain.FournisseurPatch) error {
	return s.Fournisseurs.Update(ctx, userID, id, p)
}

func (s *LedgerService) DeleteFournisseur(ctx context.Context, userID, id string) error {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return err
	}
	f, ok := snap.Fournisseur(id)
	if !ok {
		return repository.ErrNotFound
	}
	trash, err := s.trashItem(userID, domain.TrashFournisseur, f)
	if err != nil {
		return err
	}
	return s.Fournisseurs.DeleteWithTrash(ctx, trash, id)
}

// Transactions

// ListTransactions returns visible entries, newest first, optionally bounded
// by a [from, to] day range. Entries whose owner was deleted are suppressed.
func (s *LedgerService) ListTransactions(ctx context.Context, userID string, from, to *time.Time) ([]domain.Transaction, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	visible := snap.VisibleTransactions()
	if from == nil && to == nil {
		return visible, nil
	}
	out := make([]domain.Transaction, 0, len(visible))
	for _, t := range visible {
		if from != nil && t.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && !t.CreatedAt.Before(to.AddDate(0, 0, 1)) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// AddTransaction validates the target, applies the global capital gate to
// company outflows, writes the entry, then pushes the recomputed balance onto
// the owning record as a best-effort cache update.
func (s *LedgerService) AddTransaction(ctx context.Context, userID string, t domain.Transaction) (domain.Transaction, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return domain.Transaction{}, err
	}

	switch t.Type {
	case domain.TransactionCompany:
		if t.CompanyID == nil {
			return domain.Transaction{}, fmt.Errorf("companyId is required for company transactions")
		}
		if _, ok := snap.Company(*t.CompanyID); !ok {
			return domain.Transaction{}, repository.ErrNotFound
		}
		if t.Amount.IsNegative() && snap.GlobalCapital().Add(t.Amount).IsNegative() {
			return domain.Transaction{}, ErrInsufficientCapital
		}
	case domain.TransactionFournisseur:
		if t.FournisseurID == nil {
			return domain.Transaction{}, fmt.Errorf("fournisseurId is required for fournisseur transactions")
		}
		if _, ok := snap.Fournisseur(*t.FournisseurID); !ok {
			return domain.Transaction{}, repository.ErrNotFound
		}
	default:
		return domain.Transaction{}, fmt.Errorf("unknown transaction type %q", t.Type)
	}

	t.ID = s.newID()
	t.UserID = userID
	t.CreatedAt = s.now()
	t.UpdatedAt = t.CreatedAt
	if t.Rate.IsZero() {
		t.Rate = decimal.NewFromInt(1)
	}
	if err := s.Transactions.Create(ctx, t); err != nil {
		return domain.Transaction{}, err
	}

	s.refreshOwnerCache(ctx, snap, t, t.Amount)
	return t, nil
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, userID, id string, p domain.TransactionPatch) error {
	if err := s.Transactions.Update(ctx, userID, id, p); err != nil {
		return err
	}
	s.recacheFromFreshSnapshot(ctx, userID, id)
	return nil
}

// DeleteTransaction moves the entry to trash and removes it atomically, then
// refreshes the owner's cached balance without the deleted row.
func (s *LedgerService) DeleteTransaction(ctx context.Context, userID, id string) error {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return err
	}
	var target *domain.Transaction
	for i := range snap.Transactions {
		if snap.Transactions[i].ID == id {
			target = &snap.Transactions[i]
			break
		}
	}
	if target == nil {
		return repository.ErrNotFound
	}
	trash, err := s.trashItem(userID, domain.TrashTransaction, target)
	if err != nil {
		return err
	}
	if err := s.Transactions.DeleteWithTrash(ctx, trash, id); err != nil {
		return err
	}

	s.refreshOwnerCache(ctx, snap, *target, target.Amount.Neg())
	return nil
}

// Currency companies

func (s *LedgerService) ListCurrencyCompanies(ctx context.Context, userID string) ([]domain.CurrencyCompany, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snap.DerivedCurrencyCompanies(), nil
}

func (s *LedgerService) AddCurrencyCompany(ctx context.Context, userID string, c domain.CurrencyCompany) (domain.CurrencyCompany, error) {
	c.ID = s.newID()
	c.UserID = userID
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	if c.BaseCurrency == "" {
		c.BaseCurrency = "USD"
	}
	if c.TargetCurrency == "" {
		c.TargetCurrency = "DZD"
	}
	if err := s.CurrencyCompanies.Create(ctx, c); err != nil {
		return domain.CurrencyCompany{}, err
	}
	return c, nil
}

func (s *LedgerService) UpdateCurrencyCompany(ctx context.Context, userID, id string, p domain.CurrencyCompanyPatch) error {
	return s.CurrencyCompanies.Update(ctx, userID, id, p)
}

func (s *LedgerService) DeleteCurrencyCompany(ctx context.Context, userID, id string) error {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return err
	}
	c, ok := snap.CurrencyCompany(id)
	if !ok {
		return repository.ErrNotFound
	}
	trash, err := s.trashItem(userID, domain.TrashCurrencyCompany, c)
	if err != nil {
		return err
	}
	return s.CurrencyCompanies.DeleteWithTrash(ctx, trash, id)
}

// Fund

func (s *LedgerService) FundState(ctx context.Context, userID string) (domain.FundCapital, []domain.FundTransaction, error) {
	fund, err := s.Fund.Get(ctx, userID)
	if err != nil {
		return domain.FundCapital{}, nil, err
	}
	txs, err := s.Fund.ListTransactions(ctx, userID)
	if err != nil {
		return domain.FundCapital{}, nil, err
	}
	return fund, txs, nil
}

// SetFundCapital resets the cash box to an absolute amount. The first set
// establishes the fund password; later sets must present it.
func (s *LedgerService) SetFundCapital(ctx context.Context, userID string, amount decimal.Decimal, password string) error {
	fund, err := s.Fund.Get(ctx, userID)
	if err != nil {
		return err
	}
	hash := fund.PasswordHash
	if hash != nil {
		if bcrypt.CompareHashAndPassword([]byte(*hash), []byte(password)) != nil {
			return ErrInvalidPassword
		}
	} else {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		hs := string(h)
		hash = &hs
	}

	if err := s.Fund.Set(ctx, domain.FundCapital{UserID: userID, Amount: amount, PasswordHash: hash}); err != nil {
		return err
	}
	return s.Fund.CreateTransaction(ctx, domain.FundTransaction{
		ID:          s.newID(),
		UserID:      userID,
		Type:        domain.FundSet,
		Amount:      amount,
		Description: "fund capital set",
		CreatedAt:   s.now(),
	})
}

// AddFundTransaction appends to the fund log and moves the cached amount by
// the signed value: deposits add, withdrawals subtract.
func (s *LedgerService) AddFundTransaction(ctx context.Context, userID string, typ domain.FundTransactionType, amount decimal.Decimal, description string) (domain.FundTransaction, error) {
	signed := amount.Abs()
	switch typ {
	case domain.FundAdd:
	case domain.FundWithdraw:
		signed = signed.Neg()
	default:
		return domain.FundTransaction{}, fmt.Errorf("unknown fund transaction type %q", typ)
	}

	fund, err := s.Fund.Get(ctx, userID)
	if err != nil {
		return domain.FundTransaction{}, err
	}
	t := domain.FundTransaction{
		ID:          s.newID(),
		UserID:      userID,
		Type:        typ,
		Amount:      signed,
		Description: description,
		CreatedAt:   s.now(),
	}
	if err := s.Fund.CreateTransaction(ctx, t); err != nil {
		return domain.FundTransaction{}, err
	}
	if err := s.Fund.UpdateAmount(ctx, userID, fund.Amount.Add(signed)); err != nil {
		return domain.FundTransaction{}, err
	}
	return t, nil
}

// Dashboard

type DashboardSummary struct {
	GlobalCapital     decimal.Decimal `json:"globalCapital"`
	FundCapital       decimal.Decimal `json:"fundCapital"`
	WorkingCapital    decimal.Decimal `json:"workingCapital"`
	CurrencyNet       decimal.Decimal `json:"currencyNet"`
	CompanyCount      int             `json:"companyCount"`
	FournisseurCount  int             `json:"fournisseurCount"`
	TransactionCount  int             `json:"transactionCount"`
	CurrencyCompanies int             `json:"currencyCompanyCount"`
	TrashCount        int             `json:"trashCount"`
}

func (s *LedgerService) Dashboard(ctx context.Context, userID string) (DashboardSummary, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return DashboardSummary{}, err
	}
	working := decimal.Zero
	for _, c := range snap.Companies {
		working = working.Add(snap.CompanyCapital(c.ID))
	}
	return DashboardSummary{
		GlobalCapital:     snap.GlobalCapital(),
		FundCapital:       snap.FundCapital,
		WorkingCapital:    working,
		CurrencyNet:       snap.CurrencyNet(),
		CompanyCount:      len(snap.Companies),
		FournisseurCount:  len(snap.Fournisseurs),
		TransactionCount:  len(snap.VisibleTransactions()),
		CurrencyCompanies: len(snap.CurrencyCompanies),
		TrashCount:        len(snap.Trash),
	}, nil
}

// ResetTenant wipes every collection after re-authenticating the user. The
// wipe is sequential per table; a mid-sequence failure leaves the remaining
// tables untouched.
func (s *LedgerService) ResetTenant(ctx context.Context, userID, password string) error {
	if err := s.Auth.VerifyPassword(ctx, userID, password); err != nil {
		return err
	}
	return s.Reset.Wipe(ctx, userID)
}

// helpers

func (s *LedgerService) trashItem(userID string, typ domain.TrashItemType, payload any) (domain.TrashItem, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return domain.TrashItem{}, err
	}
	return domain.TrashItem{
		ID:        s.newID(),
		UserID:    userID,
		ItemType:  typ,
		ItemData:  data,
		DeletedAt: s.now(),
	}, nil
}

// refreshOwnerCache pushes owningBalance+delta onto the persisted cache
// column of the transaction's owner. Failures are logged and swallowed; the
// cache is never trusted on read.
func (s *LedgerService) refreshOwnerCache(ctx context.Context, snap ledger.Snapshot, t domain.Transaction, delta decimal.Decimal) {
	var err error
	switch {
	case t.Type == domain.TransactionCompany && t.CompanyID != nil:
		total := snap.CompanyCapital(*t.CompanyID).Add(delta)
		err = s.Companies.Update(ctx, t.UserID, *t.CompanyID, domain.CompanyPatch{WorkingCapital: &total})
	case t.Type == domain.TransactionFournisseur && t.FournisseurID != nil:
		total := snap.FournisseurBalance(*t.FournisseurID).Add(delta)
		err = s.Fournisseurs.Update(ctx, t.UserID, *t.FournisseurID, domain.FournisseurPatch{Balance: &total})
	}
	if err != nil {
		s.Logger.Warn("balance cache refresh failed", "transaction_id", t.ID, "error", err)
	}
}

// recacheFromFreshSnapshot reloads state after an in-place edit and pushes the
// owner's recomputed balance. Best effort.
func (s *LedgerService) recacheFromFreshSnapshot(ctx context.Context, userID, txID string) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		s.Logger.Warn("balance cache refresh failed", "transaction_id", txID, "error", err)
		return
	}
	for _, t := range snap.Transactions {
		if t.ID == txID {
			s.refreshOwnerCache(ctx, snap, t, decimal.Zero)
			return
		}
	}
}
