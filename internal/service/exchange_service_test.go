package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rasmal-backend/internal/domain"
	"rasmal-backend/internal/ledger"
)

// seedExchange creates an office, a supplier and a company for compound tests.
func seedExchange(t *testing.T, svc *LedgerService) (office domain.CurrencyCompany, supplier domain.Fournisseur, company domain.Company) {
	t.Helper()
	ctx := context.Background()
	var err error
	office, err = svc.AddCurrencyCompany(ctx, testUser, domain.CurrencyCompany{Name: "Oran Exchange", BaseCurrency: "USD"})
	require.NoError(t, err)
	supplier, err = svc.AddFournisseur(ctx, testUser, domain.Fournisseur{Name: "Shenzhen Trading", Currency: "USD"})
	require.NoError(t, err)
	company, err = svc.AddCompany(ctx, testUser, domain.Company{Name: "Atlas"})
	require.NoError(t, err)
	return office, supplier, company
}

func TestCompoundExchangeLinkage(t *testing.T) {
	svc, ledgerSvc, db, _ := newTestExchange()
	ctx := context.Background()
	office, supplier, company := seedExchange(t, ledgerSvc)

	ct, err := svc.AddCurrencyTransaction(ctx, testUser, ExchangeInput{
		CurrencyCompanyID: office.ID,
		FromAmount:        dec(100),
		ExchangeRateUsed:  dec(200),
		UsdFournisseurID:  &supplier.ID,
		DzdCompanyID:      &company.ID,
	})
	require.NoError(t, err)
	require.True(t, ct.ToAmount.Equal(dec(20000)), "toAmount = fromAmount × rate, got %s", ct.ToAmount)

	require.Len(t, db.transactions, 2)
	var supplierLeg, companyLeg *domain.Transaction
	for i := range db.transactions {
		tx := &db.transactions[i]
		require.NotNil(t, tx.CurrencyTxID)
		require.Equal(t, ct.ID, *tx.CurrencyTxID)
		switch tx.Type {
		case domain.TransactionFournisseur:
			supplierLeg = tx
		case domain.TransactionCompany:
			companyLeg = tx
		}
	}
	require.NotNil(t, supplierLeg)
	require.Equal(t, supplier.ID, *supplierLeg.FournisseurID)
	require.True(t, supplierLeg.Amount.Equal(dec(-100)))
	require.NotNil(t, companyLeg)
	require.Equal(t, company.ID, *companyLeg.CompanyID)
	require.True(t, companyLeg.Amount.Equal(dec(-20000)))
}

func TestToAmountOverrideRespected(t *testing.T) {
	svc, ledgerSvc, _, _ := newTestExchange()
	ctx := context.Background()
	office, supplier, company := seedExchange(t, ledgerSvc)

	ct, err := svc.AddCurrencyTransaction(ctx, testUser, ExchangeInput{
		CurrencyCompanyID: office.ID,
		FromAmount:        dec(100),
		ToAmount:          dec(19500),
		ExchangeRateUsed:  dec(200),
		UsdFournisseurID:  &supplier.ID,
		DzdCompanyID:      &company.ID,
	})
	require.NoError(t, err)
	require.True(t, ct.ToAmount.Equal(dec(19500)))
}

func TestPayoutGatedByGlobalCapital(t *testing.T) {
	svc, ledgerSvc, _, _ := newTestExchange()
	ctx := context.Background()
	office, _, _ := seedExchange(t, ledgerSvc)

	require.NoError(t, ledgerSvc.SetFundCapital(ctx, testUser, dec(5000), "fund-secret"))

	_, err := svc.AddCurrencyTransaction(ctx, testUser, ExchangeInput{
		CurrencyCompanyID: office.ID,
		ToAmount:          dec(9000),
	})
	require.ErrorIs(t, err, ErrInsufficientCapital)

	ct, err := svc.AddCurrencyTransaction(ctx, testUser, ExchangeInput{
		CurrencyCompanyID: office.ID,
		ToAmount:          dec(4000),
	})
	require.NoError(t, err)
	require.True(t, ct.FromAmount.IsZero())
}

func TestEditPropagatesToLinkedLegs(t *testing.T) {
	svc, ledgerSvc, db, _ := newTestExchange()
	ctx := context.Background()
	office, supplier, company := seedExchange(t, ledgerSvc)

	ct, err := svc.AddCurrencyTransaction(ctx, testUser, ExchangeInput{
		CurrencyCompanyID: office.ID,
		FromAmount:        dec(100),
		ExchangeRateUsed:  dec(200),
		UsdFournisseurID:  &supplier.ID,
		DzdCompanyID:      &company.ID,
	})
	require.NoError(t, err)

	newRate := dec(210)
	err = svc.UpdateCurrencyTransaction(ctx, testUser, ct.ID, domain.CurrencyTransactionPatch{
		ExchangeRateUsed: &newRate,
	}, false)
	require.NoError(t, err)

	var stored domain.CurrencyTransaction
	for _, row := range db.currencyTxs {
		if row.ID == ct.ID {
			stored = row
		}
	}
	require.True(t, stored.ToAmount.Equal(dec(21000)))

	for _, tx := range db.transactions {
		switch tx.Type {
		case domain.TransactionCompany:
			require.True(t, tx.Amount.Equal(dec(-21000)), "company leg must follow the new rate, got %s", tx.Amount)
		case domain.TransactionFournisseur:
			require.True(t, tx.Amount.Equal(dec(-100)))
		}
	}
}

func TestHeuristicFallbackWindow(t *testing.T) {
	svc, ledgerSvc, db, _ := newTestExchange()
	ctx := context.Background()
	office, supplier, company := seedExchange(t, ledgerSvc)

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	ct := domain.CurrencyTransaction{
		ID: "ct-legacy", UserID: testUser, CurrencyCompanyID: office.ID,
		FromAmount: dec(100), ToAmount: dec(20000), ExchangeRateUsed: dec(200),
		UsdFournisseurID: &supplier.ID, DzdCompanyID: &company.ID,
		CreatedAt: base,
	}
	db.currencyTxs = []domain.CurrencyTransaction{ct}

	// One leg inside the window with a recognized tag, one created too late.
	inWindow := domain.Transaction{
		ID: "tx-in", UserID: testUser, Type: domain.TransactionFournisseur,
		FournisseurID: &supplier.ID, Amount: dec(-100),
		Description: ledger.SupplierLegDescription(dec(100), "USD", office.Name),
		CreatedAt:   base.Add(5 * time.Second),
	}
	outOfWindow := domain.Transaction{
		ID: "tx-out", UserID: testUser, Type: domain.TransactionCompany,
		CompanyID: &company.ID, Amount: dec(-20000),
		Description: ledger.CompanyLegDescription(dec(100), dec(200), dec(20000), "USD"),
		CreatedAt:   base.Add(30 * time.Second),
	}
	db.transactions = []domain.Transaction{inWindow, outOfWindow}

	newRate := dec(210)
	err := svc.UpdateCurrencyTransaction(ctx, testUser, ct.ID, domain.CurrencyTransactionPatch{
		ExchangeRateUsed: &newRate,
	}, false)
	require.NoError(t, err)

	for _, tx := range db.transactions {
		switch tx.ID {
		case "tx-in":
			require.True(t, tx.Amount.Equal(dec(-100)), "supplier leg amount unchanged by a rate edit")
		case "tx-out":
			require.True(t, tx.Amount.Equal(dec(-20000)), "legs outside the window must not be touched")
		}
	}
}

func TestDeleteCascadeRemovesLegs(t *testing.T) {
	svc, ledgerSvc, db, _ := newTestExchange()
	ctx := context.Background()
	office, supplier, company := seedExchange(t, ledgerSvc)

	ct, err := svc.AddCurrencyTransaction(ctx, testUser, ExchangeInput{
		CurrencyCompanyID: office.ID,
		FromAmount:        dec(100),
		ExchangeRateUsed:  dec(200),
		UsdFournisseurID:  &supplier.ID,
		DzdCompanyID:      &company.ID,
	})
	require.NoError(t, err)
	require.Len(t, db.transactions, 2)

	require.NoError(t, svc.DeleteCurrencyTransaction(ctx, testUser, ct.ID))
	require.Empty(t, db.currencyTxs)
	require.Empty(t, db.transactions)
	require.Len(t, db.trash, 1)
	require.Equal(t, domain.TrashCurrencyTransaction, db.trash[0].ItemType)
}

func TestApplyRateToSiblings(t *testing.T) {
	svc, ledgerSvc, db, clock := newTestExchange()
	ctx := context.Background()
	office, supplier, company := seedExchange(t, ledgerSvc)

	first, err := svc.AddCurrencyTransaction(ctx, testUser, ExchangeInput{
		CurrencyCompanyID: office.ID,
		FromAmount:        dec(100),
		ExchangeRateUsed:  dec(200),
		UsdFournisseurID:  &supplier.ID,
		DzdCompanyID:      &company.ID,
	})
	require.NoError(t, err)

	*clock = clock.Add(5 * time.Minute)
	second, err := svc.AddCurrencyTransaction(ctx, testUser, ExchangeInput{
		CurrencyCompanyID: office.ID,
		FromAmount:        dec(50),
		ExchangeRateUsed:  dec(200),
		UsdFournisseurID:  &supplier.ID,
		DzdCompanyID:      &company.ID,
	})
	require.NoError(t, err)

	newRate := dec(210)
	err = svc.UpdateCurrencyTransaction(ctx, testUser, first.ID, domain.CurrencyTransactionPatch{
		ExchangeRateUsed: &newRate,
	}, true)
	require.NoError(t, err)

	for _, row := range db.currencyTxs {
		switch row.ID {
		case first.ID:
			require.True(t, row.ToAmount.Equal(dec(21000)))
		case second.ID:
			require.True(t, row.ExchangeRateUsed.Equal(dec(210)), "sibling inside 10 minutes gets the new rate")
			require.True(t, row.ToAmount.Equal(dec(10500)))
		}
	}
}

func TestOfficeBalanceDerivation(t *testing.T) {
	svc, ledgerSvc, _, _ := newTestExchange()
	ctx := context.Background()
	office, supplier, company := seedExchange(t, ledgerSvc)

	require.NoError(t, ledgerSvc.SetFundCapital(ctx, testUser, dec(100000), "fund-secret"))

	_, err := svc.AddCurrencyTransaction(ctx, testUser, ExchangeInput{
		CurrencyCompanyID: office.ID,
		FromAmount:        dec(100),
		ExchangeRateUsed:  dec(200),
		UsdFournisseurID:  &supplier.ID,
		DzdCompanyID:      &company.ID,
	})
	require.NoError(t, err)
	_, err = svc.AddCurrencyTransaction(ctx, testUser, ExchangeInput{
		CurrencyCompanyID: office.ID,
		ToAmount:          dec(5000),
	})
	require.NoError(t, err)

	offices, err := ledgerSvc.ListCurrencyCompanies(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, offices, 1)
	require.True(t, offices[0].Balance.Equal(dec(15000)), "received adds, payout subtracts, got %s", offices[0].Balance)
}
