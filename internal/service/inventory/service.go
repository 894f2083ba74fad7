package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/repository"
	"github.com/williamdagle/clinic-admin-api/internal/service/audit"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
)

type Service struct {
	repo    repository.InventoryRepository
	auditor *audit.Service
}

func NewService(repo repository.InventoryRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, auditor: auditor}
}

func (s *Service) CreateItem(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, req *model.CreateItemRequest) (*model.InventoryItem, error) {
	item := &model.InventoryItem{
		Base:        model.Base{ID: uuid.New()},
		TenantScope: scope,
		Name:        req.Name,
		SKU:         req.SKU,
		Category:    req.Category,
		Unit:        req.Unit,
		Stock:       req.Stock,
		IsActive:    true,
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionCreate, "inventory_item", item.ID, &audit.LogOptions{
		NewValues: item,
	})

	return item, nil
}

func (s *Service) GetItem(ctx context.Context, scope model.TenantScope, id uuid.UUID) (*model.InventoryItem, error) {
	return s.repo.GetItem(ctx, scope.ClinicID, id)
}

func (s *Service) ListItems(ctx context.Context, scope model.TenantScope, filters *model.InventoryFilters) ([]*model.InventoryItem, error) {
	filters.ClinicID = scope.ClinicID
	return s.repo.ListItems(ctx, filters)
}

func (s *Service) UpdateItem(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, id uuid.UUID, req *model.UpdateItemRequest) (*model.InventoryItem, error) {
	item, err := s.repo.GetItem(ctx, scope.ClinicID, id)
	if err != nil {
		return nil, err
	}

	old := *item

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionUpdate, "inventory_item", item.ID, &audit.LogOptions{
		OldValues: old,
		NewValues: item,
	})

	return item, nil
}

// signedQuantity maps the transaction vocabulary onto a stock delta:
// purchases add, sales and waste subtract, adjustments carry their sign.
func signedQuantity(txType model.InventoryTransactionType, quantity int64) int64 {
	switch txType {
	case model.InventoryTransactionPurchase:
		if quantity < 0 {
			return -quantity
		}
		return quantity
	case model.InventoryTransactionSale, model.InventoryTransactionWaste:
		if quantity < 0 {
			return quantity
		}
		return -quantity
	default:
		return quantity
	}
}

// RecordTransaction applies a stock movement. Stock is re-read in this call
// and the guard rejects any movement that would drive it negative; the stock
// update and the ledger insert share one database transaction.
func (s *Service) RecordTransaction(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, itemID uuid.UUID, req *model.RecordTransactionRequest) (*model.InventoryTransaction, error) {
	if req.Quantity == 0 {
		return nil, apperrors.Validation("quantity must be non-zero")
	}

	item, err := s.repo.GetItem(ctx, scope.ClinicID, itemID)
	if err != nil {
		return nil, err
	}

	newStock := item.Stock + signedQuantity(req.Type, req.Quantity)
	if newStock < 0 {
		return nil, apperrors.Conflict("transaction would drive stock negative").
			WithField("stock", item.Stock).
			WithField("requested", req.Quantity)
	}

	tx := &model.InventoryTransaction{
		ID:          uuid.New(),
		ItemID:      item.ID,
		ClinicID:    scope.ClinicID,
		Type:        req.Type,
		Quantity:    req.Quantity,
		StockAfter:  newStock,
		Reason:      req.Reason,
		PerformedBy: actorID,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.ApplyTransaction(ctx, item.ID, newStock, tx); err != nil {
		return nil, fmt.Errorf("failed to apply transaction: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionUpdate, "inventory_item", item.ID, &audit.LogOptions{
		OldValues: map[string]int64{"stock": item.Stock},
		NewValues: map[string]int64{"stock": newStock},
	})

	return tx, nil
}

func (s *Service) ListTransactions(ctx context.Context, scope model.TenantScope, itemID uuid.UUID) ([]*model.InventoryTransaction, error) {
	if _, err := s.repo.GetItem(ctx, scope.ClinicID, itemID); err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(ctx, itemID)
}
