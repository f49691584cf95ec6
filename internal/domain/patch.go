package domain

import "github.com/shopspring/decimal"

// Patch types express partial updates: nil means "leave the column
// untouched". Image set to an empty string clears the stored URI.

type CompanyPatch struct {
	Name            *string
	Owner           *string
	Description     *string
	InitialCapital  *decimal.Decimal
	WorkingCapital  *decimal.Decimal
	SharePercentage *decimal.Decimal
	IsActive        *bool
	Image           *string
}

type FournisseurPatch struct {
	Name       *string
	Currency   *string
	Currencies []string
	Balance    *decimal.Decimal
	Image      *string
}

type TransactionPatch struct {
	Amount      *decimal.Decimal
	Rate        *decimal.Decimal
	Description *string
}

type CurrencyCompanyPatch struct {
	Name                 *string
	BaseCurrency         *string
	BaseCurrencies       []string
	TargetCurrency       *string
	TargetCurrencies     []string
	ExchangeRate         *decimal.Decimal
	CommissionPercentage *decimal.Decimal
	Description          *string
	IsActive             *bool
	Image                *string
}

type CurrencyTransactionPatch struct {
	CurrencyCompanyID *string
	FromAmount        *decimal.Decimal
	ToAmount          *decimal.Decimal
	ExchangeRateUsed  *decimal.Decimal
	CommissionAmount  *decimal.Decimal
	Description       *string
	UsdFournisseurID  *string
	DzdCompanyID      *string
	UsdDescription    *string
	DzdDescription    *string
}
