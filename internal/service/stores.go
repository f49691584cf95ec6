package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"rasmal-backend/internal/domain"
)

// Store interfaces are satisfied by the pgx repositories in production and by
// in-memory fakes in tests.

var (
	// ErrInsufficientCapital rejects outflows that would drive the tenant's
	// global capital negative.
	ErrInsufficientCapital = errors.New("insufficient capital")
	// ErrInvalidPassword rejects a guarded operation whose password check failed.
	ErrInvalidPassword = errors.New("invalid password")
)

type CompanyStore interface {
	List(ctx context.Context, userID string) ([]domain.Company, error)
	Create(ctx context.Context, c domain.Company) error
	Update(ctx context.Context, userID, id string, p domain.CompanyPatch) error
	DeleteWithTrash(ctx context.Context, trash domain.TrashItem, id string) error
}

type FournisseurStore interface {
	List(ctx context.Context, userID string) ([]domain.Fournisseur, error)
	Create(ctx context.Context, f domain.Fournisseur) error
	Update(ctx context.Context, userID, id string, p domain.FournisseurPatch) error
	DeleteWithTrash(ctx context.Context, trash domain.TrashItem, id string) error
}

type TransactionStore interface {
	List(ctx context.Context, userID string, from, to *time.Time) ([]domain.Transaction, error)
	Create(ctx context.Context, t domain.Transaction) error
	Update(ctx context.Context, userID, id string, p domain.TransactionPatch) error
	DeleteWithTrash(ctx context.Context, trash domain.TrashItem, id string) error
}

type CurrencyCompanyStore interface {
	List(ctx context.Context, userID string) ([]domain.CurrencyCompany, error)
	Create(ctx context.Context, c domain.CurrencyCompany) error
	Update(ctx context.Context, userID, id string, p domain.CurrencyCompanyPatch) error
	DeleteWithTrash(ctx context.Context, trash domain.TrashItem, id string) error
}

type CurrencyTransactionStore interface {
	List(ctx context.Context, userID string) ([]domain.CurrencyTransaction, error)
	Create(ctx context.Context, ct domain.CurrencyTransaction) error
	CreateCompound(ctx context.Context, ct domain.CurrencyTransaction, legs []domain.Transaction) error
	Update(ctx context.Context, userID, id string, p domain.CurrencyTransactionPatch) error
	DeleteCascade(ctx context.Context, trash domain.TrashItem, id string, linkedIDs []string) error
}

type FundStore interface {
	Get(ctx context.Context, userID string) (domain.FundCapital, error)
	Set(ctx context.Context, f domain.FundCapital) error
	UpdateAmount(ctx context.Context, userID string, amount decimal.Decimal) error
	ListTransactions(ctx context.Context, userID string) ([]domain.FundTransaction, error)
	CreateTransaction(ctx context.Context, t domain.FundTransaction) error
}

type TrashStore interface {
	List(ctx context.Context, userID string) ([]domain.TrashItem, error)
	Get(ctx context.Context, userID, id string) (domain.TrashItem, error)
	Create(ctx context.Context, item domain.TrashItem) error
	Delete(ctx context.Context, userID, id string) error
	DeleteAll(ctx context.Context, userID string) error
}

type ResetStore interface {
	Wipe(ctx context.Context, userID string) error
}

// PasswordVerifier re-authenticates the current user before destructive
// operations. Satisfied by AuthService.
type PasswordVerifier interface {
	VerifyPassword(ctx context.Context, userID, password string) error
}
