package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"rasmal-backend/internal/domain"
	"rasmal-backend/internal/repository"
)

// memDB backs the in-memory fakes. Collections are kept newest-first to
// mirror the repositories' created_at DESC ordering.
type memDB struct {
	companies         []domain.Company
	fournisseurs      []domain.Fournisseur
	transactions      []domain.Transaction
	currencyCompanies []domain.CurrencyCompany
	currencyTxs       []domain.CurrencyTransaction
	fund              domain.FundCapital
	fundTxs           []domain.FundTransaction
	trash             []domain.TrashItem
}

type fakeCompanyStore struct{ db *memDB }

func (s fakeCompanyStore) List(_ context.Context, _ string) ([]domain.Company, error) {
	return append([]domain.Company(nil), s.db.companies...), nil
}

func (s fakeCompanyStore) Create(_ context.Context, c domain.Company) error {
	s.db.companies = append([]domain.Company{c}, s.db.companies...)
	return nil
}

func (s fakeCompanyStore) Update(_ context.Context, userID, id string, p domain.CompanyPatch) error {
	for i := range s.db.companies {
		c := &s.db.companies[i]
		if c.ID != id || c.UserID != userID {
			continue
		}
		if p.Name != nil {
			c.Name = *p.Name
		}
		if p.WorkingCapital != nil {
			c.WorkingCapital = *p.WorkingCapital
		}
		if p.InitialCapital != nil {
			c.InitialCapital = *p.InitialCapital
		}
		if p.IsActive != nil {
			c.IsActive = *p.IsActive
		}
		return nil
	}
	return repository.ErrNotFound
}

func (s fakeCompanyStore) DeleteWithTrash(_ context.Context, trash domain.TrashItem, id string) error {
	s.db.trash = append([]domain.TrashItem{trash}, s.db.trash...)
	out := s.db.companies[:0]
	for _, c := range s.db.companies {
		if c.ID != id {
			out = append(out, c)
		}
	}
	s.db.companies = out
	return nil
}

type fakeFournisseurStore struct{ db *memDB }

func (s fakeFournisseurStore) List(_ context.Context, _ string) ([]domain.Fournisseur, error) {
	return append([]domain.Fournisseur(nil), s.db.fournisseurs...), nil
}

func (s fakeFournisseurStore) Create(_ context.Context, f domain.Fournisseur) error {
	s.db.fournisseurs = append([]domain.Fournisseur{f}, s.db.fournisseurs...)
	return nil
}

func (s fakeFournisseurStore) Update(_ context.Context, userID, id string, p domain.FournisseurPatch) error {
	for i := range s.db.fournisseurs {
		f := &s.db.fournisseurs[i]
		if f.ID != id || f.UserID != userID {
			continue
		}
		if p.Name != nil {
			f.Name = *p.Name
		}
		if p.Currency != nil {
			f.Currency = *p.Currency
		}
		if p.Balance != nil {
			f.Balance = *p.Balance
		}
		return nil
	}
	return repository.ErrNotFound
}

func (s fakeFournisseurStore) DeleteWithTrash(_ context.Context, trash domain.TrashItem, id string) error {
	s.db.trash = append([]domain.TrashItem{trash}, s.db.trash...)
	out := s.db.fournisseurs[:0]
	for _, f := range s.db.fournisseurs {
		if f.ID != id {
			out = append(out, f)
		}
	}
	s.db.fournisseurs = out
	return nil
}

type fakeTransactionStore struct{ db *memDB }

func (s fakeTransactionStore) List(_ context.Context, _ string, from, to *time.Time) ([]domain.Transaction, error) {
	out := make([]domain.Transaction, 0, len(s.db.transactions))
	for _, t := range s.db.transactions {
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

func (s fakeTransactionStore) Create(_ context.Context, t domain.Transaction) error {
	s.db.transactions = append([]domain.Transaction{t}, s.db.transactions...)
	return nil
}

func (s fakeTransactionStore) Update(_ context.Context, userID, id string, p domain.TransactionPatch) error {
	for i := range s.db.transactions {
		t := &s.db.transactions[i]
		if t.ID != id || t.UserID != userID {
			continue
		}
		if p.Amount != nil {
			t.Amount = *p.Amount
		}
		if p.Rate != nil {
			t.Rate = *p.Rate
		}
		if p.Description != nil {
			t.Description = *p.Description
		}
		return nil
	}
	return repository.ErrNotFound
}

func (s fakeTransactionStore) DeleteWithTrash(_ context.Context, trash domain.TrashItem, id string) error {
	s.db.trash = append([]domain.TrashItem{trash}, s.db.trash...)
	out := s.db.transactions[:0]
	for _, t := range s.db.transactions {
		if t.ID != id {
			out = append(out, t)
		}
	}
	s.db.transactions = out
	return nil
}

type fakeCurrencyCompanyStore struct{ db *memDB }

func (s fakeCurrencyCompanyStore) List(_ context.Context, _ string) ([]domain.CurrencyCompany, error) {
	return append([]domain.CurrencyCompany(nil), s.db.currencyCompanies...), nil
}

func (s fakeCurrencyCompanyStore) Create(_ context.Context, c domain.CurrencyCompany) error {
	s.db.currencyCompanies = append([]domain.CurrencyCompany{c}, s.db.currencyCompanies...)
	return nil
}

func (s fakeCurrencyCompanyStore) Update(_ context.Context, userID, id string, p domain.CurrencyCompanyPatch) error {
	for i := range s.db.currencyCompanies {
		c := &s.db.currencyCompanies[i]
		if c.ID != id || c.UserID != userID {
			continue
		}
		if p.Name != nil {
			c.Name = *p.Name
		}
		if p.ExchangeRate != nil {
			c.ExchangeRate = *p.ExchangeRate
		}
		return nil
	}
	return repository.ErrNotFound
}

func (s fakeCurrencyCompanyStore) DeleteWithTrash(_ context.Context, trash domain.TrashItem, id string) error {
	s.db.trash = append([]domain.TrashItem{trash}, s.db.trash...)
	out := s.db.currencyCompanies[:0]
	for _, c := range s.db.currencyCompanies {
		if c.ID != id {
			out = append(out, c)
		}
	}
	s.db.currencyCompanies = out
	return nil
}

type fakeCurrencyTxStore struct{ db *memDB }

func (s fakeCurrencyTxStore) List(_ context.Context, _ string) ([]domain.CurrencyTransaction, error) {
	return append([]domain.CurrencyTransaction(nil), s.db.currencyTxs...), nil
}

func (s fakeCurrencyTxStore) Create(_ context.Context, ct domain.CurrencyTransaction) error {
	s.db.currencyTxs = append([]domain.CurrencyTransaction{ct}, s.db.currencyTxs...)
	return nil
}

func (s fakeCurrencyTxStore) CreateCompound(ctx context.Context, ct domain.CurrencyTransaction, legs []domain.Transaction) error {
	if err := s.Create(ctx, ct); err != nil {
		return err
	}
	for _, leg := range legs {
		s.db.transactions = append([]domain.Transaction{leg}, s.db.transactions...)
	}
	return nil
}

func (s fakeCurrencyTxStore) Update(_ context.Context, userID, id string, p domain.CurrencyTransactionPatch) error {
	for i := range s.db.currencyTxs {
		ct := &s.db.currencyTxs[i]
		if ct.ID != id || ct.UserID != userID {
			continue
		}
		if p.FromAmount != nil {
			ct.FromAmount = *p.FromAmount
		}
		if p.ToAmount != nil {
			ct.ToAmount = *p.ToAmount
		}
		if p.ExchangeRateUsed != nil {
			ct.ExchangeRateUsed = *p.ExchangeRateUsed
		}
		if p.CommissionAmount != nil {
			ct.CommissionAmount = *p.CommissionAmount
		}
		if p.Description != nil {
			ct.Description = *p.Description
		}
		return nil
	}
	return repository.ErrNotFound
}

func (s fakeCurrencyTxStore) DeleteCascade(_ context.Context, trash domain.TrashItem, id string, linkedIDs []string) error {
	s.db.trash = append([]domain.TrashItem{trash}, s.db.trash...)
	cts := s.db.currencyTxs[:0]
	for _, ct := range s.db.currencyTxs {
		if ct.ID != id {
			cts = append(cts, ct)
		}
	}
	s.db.currencyTxs = cts

	linked := make(map[string]bool, len(linkedIDs))
	for _, lid := range linkedIDs {
		linked[lid] = true
	}
	txs := s.db.transactions[:0]
	for _, t := range s.db.transactions {
		if !linked[t.ID] {
			txs = append(txs, t)
		}
	}
	s.db.transactions = txs
	return nil
}

type fakeFundStore struct{ db *memDB }

func (s fakeFundStore) Get(_ context.Context, userID string) (domain.FundCapital, error) {
	if s.db.fund.UserID == "" {
		return domain.FundCapital{UserID: userID, Amount: decimal.Zero}, nil
	}
	return s.db.fund, nil
}

func (s fakeFundStore) Set(_ context.Context, f domain.FundCapital) error {
	if f.PasswordHash == nil {
		f.PasswordHash = s.db.fund.PasswordHash
	}
	s.db.fund = f
	return nil
}

func (s fakeFundStore) UpdateAmount(_ context.Context, userID string, amount decimal.Decimal) error {
	s.db.fund.UserID = userID
	s.db.fund.Amount = amount
	return nil
}

func (s fakeFundStore) ListTransactions(_ context.Context, _ string) ([]domain.FundTransaction, error) {
	return append([]domain.FundTransaction(nil), s.db.fundTxs...), nil
}

func (s fakeFundStore) CreateTransaction(_ context.Context, t domain.FundTransaction) error {
	s.db.fundTxs = append([]domain.FundTransaction{t}, s.db.fundTxs...)
	return nil
}

type fakeTrashStore struct{ db *memDB }

func (s fakeTrashStore) List(_ context.Context, _ string) ([]domain.TrashItem, error) {
	return append([]domain.TrashItem(nil), s.db.trash...), nil
}

func (s fakeTrashStore) Get(_ context.Context, userID, id string) (domain.TrashItem, error) {
	for _, item := range s.db.trash {
		if item.ID == id && item.UserID == userID {
			return item, nil
		}
	}
	return domain.TrashItem{}, repository.ErrNotFound
}

func (s fakeTrashStore) Create(_ context.Context, item domain.TrashItem) error {
	s.db.trash = append([]domain.TrashItem{item}, s.db.trash...)
	return nil
}

func (s fakeTrashStore) Delete(_ context.Context, _, id string) error {
	out := s.db.trash[:0]
	for _, item := range s.db.trash {
		if item.ID != id {
			out = append(out, item)
		}
	}
	s.db.trash = out
	return nil
}

func (s fakeTrashStore) DeleteAll(_ context.Context, _ string) error {
	s.db.trash = nil
	return nil
}

type fakeResetStore struct{ db *memDB }

func (s fakeResetStore) Wipe(_ context.Context, _ string) error {
	*s.db = memDB{}
	return nil
}

type fakeVerifier struct{ password string }

func (v fakeVerifier) VerifyPassword(_ context.Context, _, password string) error {
	if password != v.password {
		return ErrInvalidPassword
	}
	return nil
}

// newTestLedger wires a LedgerService over the fakes with deterministic ids
// and a controllable clock.
func newTestLedger() (*LedgerService, *memDB, *time.Time) {
	db := &memDB{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewLedgerService(
		fakeCompanyStore{db}, fakeFournisseurStore{db}, fakeTransactionStore{db},
		fakeCurrencyCompanyStore{db}, fakeCurrencyTxStore{db},
		fakeFundStore{db}, fakeTrashStore{db}, fakeResetStore{db},
		fakeVerifier{password: "hunter2"}, logger,
	)

	clock := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("id-%03d", seq)
	}
	return svc, db, &clock
}

func newTestExchange() (*ExchangeService, *LedgerService, *memDB, *time.Time) {
	ledgerSvc, db, clock := newTestLedger()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewExchangeService(ledgerSvc, logger)
	svc.now = ledgerSvc.now
	svc.newID = ledgerSvc.newID
	return svc, ledgerSvc, db, clock
}
