package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"rasmal-backend/internal/domain"
)

const testUser = "user-1"

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestAddCompanyMintsIdentity(t *testing.T) {
	svc, db, _ := newTestLedger()

	c, err := svc.AddCompany(context.Background(), testUser, domain.Company{Name: "Atlas", InitialCapital: dec(100000)})
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)
	require.Equal(t, testUser, c.UserID)
	require.Len(t, db.companies, 1)
}

func TestSimpleDepositDoesNotReaddInitialCapital(t *testing.T) {
	svc, _, _ := newTestLedger()
	ctx := context.Background()

	c, err := svc.AddCompany(ctx, testUser, domain.Company{Name: "Atlas", InitialCapital: dec(100000)})
	require.NoError(t, err)

	_, err = svc.AddTransaction(ctx, testUser, domain.Transaction{
		Type:      domain.TransactionCompany,
		CompanyID: &c.ID,
		Amount:    dec(50000),
	})
	require.NoError(t, err)

	companies, err := svc.ListCompanies(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	require.True(t, companies[0].WorkingCapital.Equal(dec(50000)),
		"working capital must be the transaction sum, got %s", companies[0].WorkingCapital)
	require.True(t, companies[0].InitialCapital.Equal(dec(100000)))
}

func TestFournisseurBalanceDerivation(t *testing.T) {
	svc, _, _ := newTestLedger()
	ctx := context.Background()

	f, err := svc.AddFournisseur(ctx, testUser, domain.Fournisseur{Name: "Shenzhen Trading", Currency: "USD"})
	require.NoError(t, err)

	for _, amount := range []int64{1200, -300, 450} {
		_, err = svc.AddTransaction(ctx, testUser, domain.Transaction{
			Type:          domain.TransactionFournisseur,
			FournisseurID: &f.ID,
			Amount:        dec(amount),
		})
		require.NoError(t, err)
	}

	fournisseurs, err := svc.ListFournisseurs(ctx, testUser)
	require.NoError(t, err)
	require.True(t, fournisseurs[0].Balance.Equal(dec(1350)))
}

func TestGlobalCapitalGateRejectsCompanyOutflow(t *testing.T) {
	svc, _, _ := newTestLedger()
	ctx := context.Background()

	c, err := svc.AddCompany(ctx, testUser, domain.Company{Name: "Atlas"})
	require.NoError(t, err)
	_, err = svc.AddTransaction(ctx, testUser, domain.Transaction{
		Type: domain.TransactionCompany, CompanyID: &c.ID, Amount: dec(1000),
	})
	require.NoError(t, err)

	_, err = svc.AddTransaction(ctx, testUser, domain.Transaction{
		Type: domain.TransactionCompany, CompanyID: &c.ID, Amount: dec(-1500),
	})
	require.ErrorIs(t, err, ErrInsufficientCapital)

	// Exactly down to zero is allowed.
	_, err = svc.AddTransaction(ctx, testUser, domain.Transaction{
		Type: domain.TransactionCompany, CompanyID: &c.ID, Amount: dec(-1000),
	})
	require.NoError(t, err)
}

func TestOrphanSuppressionAfterCompanyDelete(t *testing.T) {
	svc, db, _ := newTestLedger()
	ctx := context.Background()

	c, err := svc.AddCompany(ctx, testUser, domain.Company{Name: "Atlas"})
	require.NoError(t, err)
	_, err = svc.AddTransaction(ctx, testUser, domain.Transaction{
		Type: domain.TransactionCompany, CompanyID: &c.ID, Amount: dec(700),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCompany(ctx, testUser, c.ID))

	visible, err := svc.ListTransactions(ctx, testUser, nil, nil)
	require.NoError(t, err)
	require.Empty(t, visible, "orphaned transactions must be filtered")
	require.Len(t, db.transactions, 1, "raw rows stay behind")
}

func TestDeleteTransactionMovesToTrash(t *testing.T) {
	svc, db, _ := newTestLedger()
	ctx := context.Background()

	c, err := svc.AddCompany(ctx, testUser, domain.Company{Name: "Atlas"})
	require.NoError(t, err)
	tx, err := svc.AddTransaction(ctx, testUser, domain.Transaction{
		Type: domain.TransactionCompany, CompanyID: &c.ID, Amount: dec(700),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTransaction(ctx, testUser, tx.ID))
	require.Empty(t, db.transactions)
	require.Len(t, db.trash, 1)
	require.Equal(t, domain.TrashTransaction, db.trash[0].ItemType)
}

func TestSetFundCapitalEstablishesAndChecksPassword(t *testing.T) {
	svc, db, _ := newTestLedger()
	ctx := context.Background()

	require.NoError(t, svc.SetFundCapital(ctx, testUser, dec(100000), "fund-secret"))
	require.True(t, db.fund.Amount.Equal(dec(100000)))
	require.NotNil(t, db.fund.PasswordHash)

	err := svc.SetFundCapital(ctx, testUser, dec(5), "wrong")
	require.ErrorIs(t, err, ErrInvalidPassword)
	require.True(t, db.fund.Amount.Equal(dec(100000)))

	require.NoError(t, svc.SetFundCapital(ctx, testUser, dec(200000), "fund-secret"))
	require.True(t, db.fund.Amount.Equal(dec(200000)))
}

func TestFundDepositAndWithdraw(t *testing.T) {
	svc, db, _ := newTestLedger()
	ctx := context.Background()

	require.NoError(t, svc.SetFundCapital(ctx, testUser, dec(100000), "fund-secret"))

	_, err := svc.AddFundTransaction(ctx, testUser, domain.FundAdd, dec(50000), "deposit")
	require.NoError(t, err)
	require.True(t, db.fund.Amount.Equal(dec(150000)))

	wt, err := svc.AddFundTransaction(ctx, testUser, domain.FundWithdraw, dec(20000), "rent")
	require.NoError(t, err)
	require.True(t, wt.Amount.Equal(dec(-20000)), "withdrawals are stored signed")
	require.True(t, db.fund.Amount.Equal(dec(130000)))
}

func TestResetTenantRequiresPassword(t *testing.T) {
	svc, db, _ := newTestLedger()
	ctx := context.Background()

	_, err := svc.AddCompany(ctx, testUser, domain.Company{Name: "Atlas"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.ResetTenant(ctx, testUser, "nope"), ErrInvalidPassword)
	require.Len(t, db.companies, 1)

	require.NoError(t, svc.ResetTenant(ctx, testUser, "hunter2"))
	require.Empty(t, db.companies)
}

func TestDashboardAggregates(t *testing.T) {
	svc, _, _ := newTestLedger()
	ctx := context.Background()

	require.NoError(t, svc.SetFundCapital(ctx, testUser, dec(1000), "fund-secret"))
	c, err := svc.AddCompany(ctx, testUser, domain.Company{Name: "Atlas"})
	require.NoError(t, err)
	_, err = svc.AddTransaction(ctx, testUser, domain.Transaction{
		Type: domain.TransactionCompany, CompanyID: &c.ID, Amount: dec(500),
	})
	require.NoError(t, err)

	summary, err := svc.Dashboard(ctx, testUser)
	require.NoError(t, err)
	require.True(t, summary.GlobalCapital.Equal(dec(1500)))
	require.True(t, summary.FundCapital.Equal(dec(1000)))
	require.Equal(t, 1, summary.CompanyCount)
	require.Equal(t, 1, summary.TransactionCount)
}
