package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Enumerations
const (
	TransactionCompany     TransactionType = "company"
	TransactionFournisseur TransactionType = "fournisseur"

	FundAdd      FundTransactionType = "add"
	FundWithdraw FundTransactionType = "withdraw"
	FundSet      FundTransactionType = "set"

	TrashCompany             TrashItemType = "company"
	TrashFournisseur         TrashItemType = "fournisseur"
	TrashTransaction         TrashItemType = "transaction"
	TrashCurrencyCompany     TrashItemType = "currency_company"
	TrashCurrencyTransaction TrashItemType = "currency_transaction"
)

type TransactionType string
type FundTransactionType string
type TrashItemType string

type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash *string    `json:"-"`
	IsGoogle     bool       `json:"isGoogle"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	DeletedAt    *time.Time `json:"-"`
}

// Company is a tracked business. WorkingCapital is a best-effort cache;
// readers always recompute it from the transaction log.
type Company struct {
	ID              string          `json:"id"`
	UserID          string          `json:"-"`
	Name            string          `json:"name"`
	Owner           string          `json:"owner"`
	Description     string          `json:"description"`
	InitialCapital  decimal.Decimal `json:"initialCapital"`
	WorkingCapital  decimal.Decimal `json:"workingCapital"`
	SharePercentage decimal.Decimal `json:"sharePercentage"`
	IsActive        bool            `json:"isActive"`
	Image           *string         `json:"image"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Fournisseur is a foreign-currency supplier. Balance is cached like
// Company.WorkingCapital and derived live from transactions.
type Fournisseur struct {
	ID         string          `json:"id"`
	UserID     string          `json:"-"`
	Name       string          `json:"name"`
	Currency   string          `json:"currency"`
	Currencies []string        `json:"currencies,omitempty"`
	Balance    decimal.Decimal `json:"balance"`
	Image      *string         `json:"image"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Transaction is a signed ledger entry against exactly one company or
// fournisseur (positive = income, negative = outcome). CurrencyTxID links
// entries spawned by a currency exchange back to their origin.
type Transaction struct {
	ID            string          `json:"id"`
	UserID        string          `json:"-"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Rate          decimal.Decimal `json:"rate"`
	Description   string          `json:"description"`
	CompanyID     *string         `json:"companyId,omitempty"`
	FournisseurID *string         `json:"fournisseurId,omitempty"`
	CurrencyTxID  *string         `json:"currencyTxId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// CurrencyCompany is an exchange office. Balance is not stored; it is the
// signed net of the office's currency transactions, filled in on read.
type CurrencyCompany struct {
	ID                   string          `json:"id"`
	UserID               string          `json:"-"`
	Name                 string          `json:"name"`
	BaseCurrency         string          `json:"baseCurrency"`
	BaseCurrencies       []string        `json:"baseCurrencies,omitempty"`
	TargetCurrency       string          `json:"targetCurrency"`
	TargetCurrencies     []string        `json:"targetCurrencies,omitempty"`
	ExchangeRate         decimal.Decimal `json:"exchangeRate"`
	CommissionPercentage decimal.Decimal `json:"commissionPercentage"`
	Description          string          `json:"description"`
	Image                *string         `json:"image"`
	IsActive             bool            `json:"isActive"`
	Balance              decimal.Decimal `json:"balance"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// CurrencyTransaction records one exchange-office movement.
// FromAmount == 0 means a DZD-only payout; FromAmount > 0 means foreign
// currency was received and ToAmount is its local-currency equivalent.
type CurrencyTransaction struct {
	ID                string          `json:"id"`
	UserID            string          `json:"-"`
	CurrencyCompanyID string          `json:"currencyCompanyId"`
	FromAmount        decimal.Decimal `json:"fromAmount"`
	ToAmount          decimal.Decimal `json:"toAmount"`
	ExchangeRateUsed  decimal.Decimal `json:"exchangeRateUsed"`
	CommissionAmount  decimal.Decimal `json:"commissionAmount"`
	Description       string          `json:"description"`
	UsdFournisseurID  *string         `json:"usdFournisseurId,omitempty"`
	DzdCompanyID      *string         `json:"dzdCompanyId,omitempty"`
	UsdDescription    *string         `json:"usdDescription,omitempty"`
	DzdDescription    *string         `json:"dzdDescription,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// FundCapital is the per-user central cash box. Sets are guarded by a
// password verified through the auth service.
type FundCapital struct {
	UserID       string          `json:"-"`
	Amount       decimal.Decimal `json:"amount"`
	PasswordHash *string         `json:"-"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type FundTransaction struct {
	ID          string              `json:"id"`
	UserID      string              `json:"-"`
	Type        FundTransactionType `json:"type"`
	Amount      decimal.Decimal     `json:"amount"`
	Description string              `json:"description"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// TrashItem holds the full JSON snapshot of a deleted entity so it can be
// replayed through the matching add operation on restore.
type TrashItem struct {
	ID        string          `json:"id"`
	UserID    string          `json:"-"`
	ItemType  TrashItemType   `json:"itemType"`
	ItemData  json.RawMessage `json:"itemData"`
	DeletedAt time.Time       `json:"deletedAt"`
}
