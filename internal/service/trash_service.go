package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"rasmal-backend/internal/domain"
	"rasmal-backend/internal/repository"
)

// TrashService restores or purges soft-deleted entities. Restore replays the
// matching add operation with the stored snapshot as payload, so the restored
// entity gets a fresh id and createdAt; references other rows held to the old
// id are not repaired.
type TrashService struct {
	Trash    TrashStore
	Ledger   *LedgerService
	Exchange *ExchangeService
	Logger   *slog.Logger
}

func NewTrashService(trash TrashStore, ledgerSvc *LedgerService, exchange *ExchangeService, logger *slog.Logger) *TrashService {
	return &TrashService{Trash: trash, Ledger: ledgerSvc, Exchange: exchange, Logger: logger}
}

func (s *TrashService) Items(ctx context.Context, userID string) ([]domain.TrashItem, error) {
	return s.Trash.List(ctx, userID)
}

// Restore replays the add for the trashed entity, then drops the trash entry.
// A missing id is a no-op.
func (s *TrashService) Restore(ctx context.Context, userID, id string) error {
	item, err := s.Trash.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	switch item.ItemType {
	case domain.TrashCompany:
		var c domain.Company
		if err := json.Unmarshal(item.ItemData, &c); err != nil {
			return err
		}
		_, err = s.Ledger.AddCompany(ctx, userID, c)
	case domain.TrashFournisseur:
		var f domain.Fournisseur
		if err := json.Unmarshal(item.ItemData, &f); err != nil {
			return err
		}
		_, err = s.Ledger.AddFournisseur(ctx, userID, f)
	case domain.TrashTransaction:
		var t domain.Transaction
		if err := json.Unmarshal(item.ItemData, &t); err != nil {
			return err
		}
		t.CurrencyTxID = nil
		_, err = s.Ledger.AddTransaction(ctx, userID, t)
	case domain.TrashCurrencyCompany:
		var c domain.CurrencyCompany
		if err := json.Unmarshal(item.ItemData, &c); err != nil {
			return err
		}
		_, err = s.Ledger.AddCurrencyCompany(ctx, userID, c)
	case domain.TrashCurrencyTransaction:
		var ct domain.CurrencyTransaction
		if err := json.Unmarshal(item.ItemData, &ct); err != nil {
			return err
		}
		_, err = s.Exchange.AddCurrencyTransaction(ctx, userID, ExchangeInput{
			CurrencyCompanyID: ct.CurrencyCompanyID,
			FromAmount:        ct.FromAmount,
			ToAmount:          ct.ToAmount,
			ExchangeRateUsed:  ct.ExchangeRateUsed,
			CommissionAmount:  ct.CommissionAmount,
			Description:       ct.Description,
			UsdFournisseurID:  ct.UsdFournisseurID,
			DzdCompanyID:      ct.DzdCompanyID,
			UsdDescription:    ct.UsdDescription,
			DzdDescription:    ct.DzdDescription,
		})
	default:
		return fmt.Errorf("unknown trash item type %q", item.ItemType)
	}
	if err != nil {
		return err
	}

	return s.Trash.Delete(ctx, userID, id)
}

// Purge permanently drops a trash entry. Purging twice is a no-op.
func (s *TrashService) Purge(ctx context.Context, userID, id string) error {
	return s.Trash.Delete(ctx, userID, id)
}

// Empty drops the whole trash bin.
func (s *TrashService) Empty(ctx context.Context, userID string) error {
	return s.Trash.DeleteAll(ctx, userID)
}
