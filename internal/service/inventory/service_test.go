package inventory

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/service/audit"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
	"github.com/williamdagle/clinic-admin-api/pkg/logger"
)

type fakeInventoryRepo struct {
	items        map[uuid.UUID]*model.InventoryItem
	transactions []*model.InventoryTransaction
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{items: make(map[uuid.UUID]*model.InventoryItem)}
}

func (r *fakeInventoryRepo) CreateItem(_ context.Context, item *model.InventoryItem) error {
	r.items[item.ID] = item
	return nil
}

func (r *fakeInventoryRepo) GetItem(_ context.Context, clinicID, id uuid.UUID) (*model.InventoryItem, error) {
	item, ok := r.items[id]
	if !ok || item.ClinicID != clinicID {
		return nil, apperrors.NotFound("inventory item")
	}
	return item, nil
}

func (r *fakeInventoryRepo) UpdateItem(_ context.Context, item *model.InventoryItem) error {
	r.items[item.ID] = item
	return nil
}

func (r *fakeInventoryRepo) ListItems(_ context.Context, filters *model.InventoryFilters) ([]*model.InventoryItem, error) {
	var out []*model.InventoryItem
	for _, item := range r.items {
		if item.ClinicID == filters.ClinicID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) ApplyTransaction(_ context.Context, itemID uuid.UUID, newStock int64, tx *model.InventoryTransaction) error {
	r.items[itemID].Stock = newStock
	r.transactions = append(r.transactions, tx)
	return nil
}

func (r *fakeInventoryRepo) ListTransactions(_ context.Context, itemID uuid.UUID) ([]*model.InventoryTransaction, error) {
	var out []*model.InventoryTransaction
	for _, tx := range r.transactions {
		if tx.ItemID == itemID {
			out = append(out, tx)
		}
	}
	return out, nil
}

type fakeAuditRepo struct{}

func (r *fakeAuditRepo) Create(_ context.Context, _ *model.AuditLog) error { return nil }
func (r *fakeAuditRepo) List(_ context.Context, _ *model.AuditFilters) ([]*model.AuditLog, error) {
	return nil, nil
}

func newFixture(t *testing.T, initialStock int64) (*Service, *fakeInventoryRepo, model.TenantScope, *model.InventoryItem) {
	t.Helper()
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	repo := newFakeInventoryRepo()
	svc := NewService(repo, audit.NewService(&fakeAuditRepo{}, log))

	scope := model.TenantScope{ClinicID: uuid.New(), OrganizationID: uuid.New()}
	item, err := svc.CreateItem(context.Background(), uuid.New(), scope, &model.CreateItemRequest{
		Name:  "Vitamin D drip",
		SKU:   "VD-500",
		Unit:  "bag",
		Stock: initialStock,
	})
	require.NoError(t, err)

	return svc, repo, scope, item
}

func TestRecordTransactionSigns(t *testing.T) {
	tests := []struct {
		name      string
		txType    model.InventoryTransactionType
		quantity  int64
		wantStock int64
	}{
		{"purchase adds", model.InventoryTransactionPurchase, 5, 15},
		{"sale subtracts", model.InventoryTransactionSale, 3, 7},
		{"waste subtracts", model.InventoryTransactionWaste, 2, 8},
		{"negative adjustment", model.InventoryTransactionAdjustment, -4, 6},
		{"positive adjustment", model.InventoryTransactionAdjustment, 4, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, scope, item := newFixture(t, 10)

			tx, err := svc.RecordTransaction(context.Background(), uuid.New(), scope, item.ID, &model.RecordTransactionRequest{
				Type:     tt.txType,
				Quantity: tt.quantity,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.wantStock, tx.StockAfter)
			assert.Equal(t, tt.wantStock, item.Stock)
		})
	}
}

func TestRecordTransactionZeroQuantityRejected(t *testing.T) {
	svc, _, scope, item := newFixture(t, 10)

	_, err := svc.RecordTransaction(context.Background(), uuid.New(), scope, item.ID, &model.RecordTransactionRequest{
		Type:     model.InventoryTransactionSale,
		Quantity: 0,
	})

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
}

func TestRecordTransactionNegativeStockConflicts(t *testing.T) {
	svc, repo, scope, item := newFixture(t, 2)

	_, err := svc.RecordTransaction(context.Background(), uuid.New(), scope, item.ID, &model.RecordTransactionRequest{
		Type:     model.InventoryTransactionSale,
		Quantity: 3,
	})

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Equal(t, int64(2), appErr.Fields["stock"])
	assert.Equal(t, int64(3), appErr.Fields["requested"])

	// The rejected movement must not reach stock or the ledger.
	assert.Equal(t, int64(2), item.Stock)
	assert.Empty(t, repo.transactions)
}

func TestRecordTransactionDrainToZero(t *testing.T) {
	svc, _, scope, item := newFixture(t, 5)

	tx, err := svc.RecordTransaction(context.Background(), uuid.New(), scope, item.ID, &model.RecordTransactionRequest{
		Type:     model.InventoryTransactionWaste,
		Quantity: 5,
		Reason:   "expired lot",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(0), tx.StockAfter)
}

func TestListTransactionsRequiresItem(t *testing.T) {
	svc, _, scope, _ := newFixture(t, 5)

	_, err := svc.ListTransactions(context.Background(), scope, uuid.New())

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}
