package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"rasmal-backend/internal/domain"
)

func newTestTrash() (*TrashService, *LedgerService, *ExchangeService, *memDB) {
	exchangeSvc, ledgerSvc, db, _ := newTestExchange()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewTrashService(fakeTrashStore{db}, ledgerSvc, exchangeSvc, logger)
	return svc, ledgerSvc, exchangeSvc, db
}

func TestRestoreCompanyMintsNewIdentity(t *testing.T) {
	svc, ledgerSvc, _, db := newTestTrash()
	ctx := context.Background()

	c, err := ledgerSvc.AddCompany(ctx, testUser, domain.Company{Name: "Atlas", InitialCapital: dec(100000)})
	require.NoError(t, err)
	require.NoError(t, ledgerSvc.DeleteCompany(ctx, testUser, c.ID))
	require.Empty(t, db.companies)
	require.Len(t, db.trash, 1)

	require.NoError(t, svc.Restore(ctx, testUser, db.trash[0].ID))
	require.Len(t, db.companies, 1)
	require.Equal(t, "Atlas", db.companies[0].Name)
	require.True(t, db.companies[0].InitialCapital.Equal(dec(100000)))
	require.NotEqual(t, c.ID, db.companies[0].ID, "restore replays the add with a new id")
	require.Empty(t, db.trash)
}

func TestRestoreTransactionDropsStaleLink(t *testing.T) {
	svc, ledgerSvc, _, db := newTestTrash()
	ctx := context.Background()

	c, err := ledgerSvc.AddCompany(ctx, testUser, domain.Company{Name: "Atlas"})
	require.NoError(t, err)
	link := "ct-gone"
	tx := domain.Transaction{
		Type: domain.TransactionCompany, CompanyID: &c.ID,
		Amount: dec(900), CurrencyTxID: &link,
	}
	created, err := ledgerSvc.AddTransaction(ctx, testUser, tx)
	require.NoError(t, err)
	require.NoError(t, ledgerSvc.DeleteTransaction(ctx, testUser, created.ID))

	require.NoError(t, svc.Restore(ctx, testUser, db.trash[0].ID))
	require.Len(t, db.transactions, 1)
	require.Nil(t, db.transactions[0].CurrencyTxID, "a restored row no longer points at its old parent")
	require.True(t, db.transactions[0].Amount.Equal(dec(900)))
}

func TestRestoreCurrencyTransactionRebuildsLegs(t *testing.T) {
	svc, ledgerSvc, exchangeSvc, db := newTestTrash()
	ctx := context.Background()

	office, err := ledgerSvc.AddCurrencyCompany(ctx, testUser, domain.CurrencyCompany{Name: "Oran Exchange", BaseCurrency: "USD"})
	require.NoError(t, err)
	supplier, err := ledgerSvc.AddFournisseur(ctx, testUser, domain.Fournisseur{Name: "Shenzhen Trading", Currency: "USD"})
	require.NoError(t, err)
	company, err := ledgerSvc.AddCompany(ctx, testUser, domain.Company{Name: "Atlas"})
	require.NoError(t, err)

	ct, err := exchangeSvc.AddCurrencyTransaction(ctx, testUser, ExchangeInput{
		CurrencyCompanyID: office.ID,
		FromAmount:        dec(100),
		ExchangeRateUsed:  dec(200),
		UsdFournisseurID:  &supplier.ID,
		DzdCompanyID:      &company.ID,
	})
	require.NoError(t, err)
	require.NoError(t, exchangeSvc.DeleteCurrencyTransaction(ctx, testUser, ct.ID))
	require.Empty(t, db.transactions)

	require.NoError(t, svc.Restore(ctx, testUser, db.trash[0].ID))
	require.Len(t, db.currencyTxs, 1)
	require.NotEqual(t, ct.ID, db.currencyTxs[0].ID)
	require.True(t, db.currencyTxs[0].ToAmount.Equal(dec(20000)))
	require.Len(t, db.transactions, 2, "legs are recomposed on restore")
}

func TestPurgeIsIdempotent(t *testing.T) {
	svc, ledgerSvc, _, db := newTestTrash()
	ctx := context.Background()

	c, err := ledgerSvc.AddCompany(ctx, testUser, domain.Company{Name: "Atlas"})
	require.NoError(t, err)
	require.NoError(t, ledgerSvc.DeleteCompany(ctx, testUser, c.ID))
	id := db.trash[0].ID

	require.NoError(t, svc.Purge(ctx, testUser, id))
	require.Empty(t, db.trash)
	require.NoError(t, svc.Purge(ctx, testUser, id), "second purge is a no-op")
	require.Empty(t, db.companies, "purge never resurrects the entity")
}

func TestRestoreMissingIDIsNoop(t *testing.T) {
	svc, _, _, db := newTestTrash()
	require.NoError(t, svc.Restore(context.Background(), testUser, "nothing-here"))
	require.Empty(t, db.trash)
}

func TestTrashSnapshotRoundTrip(t *testing.T) {
	svc, ledgerSvc, _, db := newTestTrash()
	ctx := context.Background()

	f, err := ledgerSvc.AddFournisseur(ctx, testUser, domain.Fournisseur{
		Name: "Shenzhen Trading", Currency: "RMB", Currencies: []string{"RMB", "USD"},
	})
	require.NoError(t, err)
	require.NoError(t, ledgerSvc.DeleteFournisseur(ctx, testUser, f.ID))

	var stored domain.Fournisseur
	require.NoError(t, json.Unmarshal(db.trash[0].ItemData, &stored))
	require.Equal(t, f.Name, stored.Name)
	require.Equal(t, f.Currency, stored.Currency)
	require.Equal(t, f.Currencies, stored.Currencies)

	require.NoError(t, svc.Restore(ctx, testUser, db.trash[0].ID))
	require.Len(t, db.fournisseurs, 1)
	require.Equal(t, "RMB", db.fournisseurs[0].Currency)
}