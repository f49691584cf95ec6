package ledger

import (
	"github.com/shopspring/decimal"

	"rasmal-backend/internal/domain"
)

// Snapshot is one consistent read of a tenant's raw collections. All
// balances exposed to callers are derived from the transaction logs here;
// the persisted working_capital/balance columns are never trusted on read.
type Snapshot struct {
	Companies            []domain.Company
	Fournisseurs         []domain.Fournisseur
	Transactions         []domain.Transaction
	CurrencyCompanies    []domain.CurrencyCompany
	CurrencyTransactions []domain.CurrencyTransaction
	FundCapital          decimal.Decimal
	FundTransactions     []domain.FundTransaction
	Trash                []domain.TrashItem
}

// CompanyCapital sums the company-type transactions linked to a company.
// InitialCapital is tracked separately and is not part of the sum.
func (s Snapshot) CompanyCapital(companyID string) decimal.Decimal {
	total := decimal.Zero
	for _, t := range s.Transactions {
		if t.Type == domain.TransactionCompany && t.CompanyID != nil && *t.CompanyID == companyID {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// FournisseurBalance sums the fournisseur-type transactions linked to a supplier.
func (s Snapshot) FournisseurBalance(fournisseurID string) decimal.Decimal {
	total := decimal.Zero
	for _, t := range s.Transactions {
		if t.Type == domain.TransactionFournisseur && t.FournisseurID != nil && *t.FournisseurID == fournisseurID {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// OfficeBalance nets an exchange office's currency transactions: a
// received-foreign-currency entry adds its local-currency equivalent, a
// DZD-only payout subtracts it.
func (s Snapshot) OfficeBalance(currencyCompanyID string) decimal.Decimal {
	total := decimal.Zero
	for _, t := range s.CurrencyTransactions {
		if t.CurrencyCompanyID != currencyCompanyID {
			continue
		}
		if t.FromAmount.IsPositive() {
			total = total.Add(t.ToAmount)
		} else {
			total = total.Sub(t.ToAmount)
		}
	}
	return total
}

// DerivedCompanies returns companies with WorkingCapital overwritten by the
// live sum of their transactions.
func (s Snapshot) DerivedCompanies() []domain.Company {
	out := make([]domain.Company, len(s.Companies))
	for i, c := range s.Companies {
		c.WorkingCapital = s.CompanyCapital(c.ID)
		out[i] = c
	}
	return out
}

// DerivedFournisseurs returns suppliers with Balance overwritten by the live
// sum of their transactions.
func (s Snapshot) DerivedFournisseurs() []domain.Fournisseur {
	out := make([]domain.Fournisseur, len(s.Fournisseurs))
	for i, f := range s.Fournisseurs {
		f.Balance = s.FournisseurBalance(f.ID)
		out[i] = f
	}
	return out
}

// DerivedCurrencyCompanies returns exchange offices with Balance filled in
// from their currency transactions.
func (s Snapshot) DerivedCurrencyCompanies() []domain.CurrencyCompany {
	out := make([]domain.CurrencyCompany, len(s.CurrencyCompanies))
	for i, c := range s.CurrencyCompanies {
		c.Balance = s.OfficeBalance(c.ID)
		out[i] = c
	}
	return out
}

// VisibleTransactions drops entries whose owning company or fournisseur no
// longer exists. Deleting a parent soft-cascades by filtering, not by
// removing the rows.
func (s Snapshot) VisibleTransactions() []domain.Transaction {
	out := make([]domain.Transaction, 0, len(s.Transactions))
	for _, t := range s.Transactions {
		switch t.Type {
		case domain.TransactionCompany:
			if t.CompanyID == nil || !s.hasCompany(*t.CompanyID) {
				continue
			}
		case domain.TransactionFournisseur:
			if t.FournisseurID == nil || !s.hasFournisseur(*t.FournisseurID) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// VisibleCurrencyTransactions drops entries whose exchange office no longer exists.
func (s Snapshot) VisibleCurrencyTransactions() []domain.CurrencyTransaction {
	out := make([]domain.CurrencyTransaction, 0, len(s.CurrencyTransactions))
	for _, t := range s.CurrencyTransactions {
		if s.hasCurrencyCompany(t.CurrencyCompanyID) {
			out = append(out, t)
		}
	}
	return out
}

// CurrencyNet is the signed net of all visible currency transactions.
func (s Snapshot) CurrencyNet() decimal.Decimal {
	total := decimal.Zero
	for _, t := range s.VisibleCurrencyTransactions() {
		if t.FromAmount.IsPositive() {
			total = total.Add(t.ToAmount)
		} else {
			total = total.Sub(t.ToAmount)
		}
	}
	return total
}

// GlobalCapital is the tenant-wide total used to gate outflows:
// fund capital + every company's working capital + signed currency net.
func (s Snapshot) GlobalCapital() decimal.Decimal {
	total := s.FundCapital
	for _, c := range s.Companies {
		total = total.Add(s.CompanyCapital(c.ID))
	}
	return total.Add(s.CurrencyNet())
}

// FundSum replays the fund transaction log: a "set" entry resets the running
// total, add/withdraw entries apply their signed amount.
func (s Snapshot) FundSum() decimal.Decimal {
	total := decimal.Zero
	for i := len(s.FundTransactions) - 1; i >= 0; i-- {
		t := s.FundTransactions[i]
		if t.Type == domain.FundSet {
			total = t.Amount
			continue
		}
		total = total.Add(t.Amount)
	}
	return total
}

func (s Snapshot) Company(id string) (domain.Company, bool) {
	for _, c := range s.Companies {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Company{}, false
}

func (s Snapshot) Fournisseur(id string) (domain.Fournisseur, bool) {
	for _, f := range s.Fournisseurs {
		if f.ID == id {
			return f, true
		}
	}
	return domain.Fournisseur{}, false
}

func (s Snapshot) CurrencyCompany(id string) (domain.CurrencyCompany, bool) {
	for _, c := range s.CurrencyCompanies {
		if c.ID == id {
			return c, true
		}
	}
	return domain.CurrencyCompany{}, false
}

func (s Snapshot) CurrencyTransaction(id string) (domain.CurrencyTransaction, bool) {
	for _, t := range s.CurrencyTransactions {
		if t.ID == id {
			return t, true
		}
	}
	return domain.CurrencyTransaction{}, false
}

func (s Snapshot) hasCompany(id string) bool {
	_, ok := s.Company(id)
	return ok
}

func (s Snapshot) hasFournisseur(id string) bool {
	_, ok := s.Fournisseur(id)
	return ok
}

func (s Snapshot) hasCurrencyCompany(id string) bool {
	_, ok := s.CurrencyCompany(id)
	return ok
}
