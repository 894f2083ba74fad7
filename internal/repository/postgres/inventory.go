package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
)

const inventoryItemColumns = `
	id, clinic_id, organization_id, name, sku, category, unit, stock,
	is_active, created_at, updated_at
`

func (r *inventoryRepository) CreateItem(ctx context.Context, item *model.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (
			id, clinic_id, organization_id, name, sku, category, unit,
			stock, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.ClinicID,
		item.OrganizationID,
		item.Name,
		item.SKU,
		item.Category,
		item.Unit,
		item.Stock,
		item.IsActive,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return nil
}

func (r *inventoryRepository) GetItem(ctx context.Context, clinicID, id uuid.UUID) (*model.InventoryItem, error) {
	query := `SELECT ` + inventoryItemColumns + ` FROM inventory_items WHERE clinic_id = $1 AND id = $2`
	var item model.InventoryItem
	if err := r.db.GetContext(ctx, &item, query, clinicID, id); err != nil {
		return nil, notFoundOr(err, "inventory item")
	}
	return &item, nil
}

func (r *inventoryRepository) UpdateItem(ctx context.Context, item *model.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET name = $1, category = $2, unit = $3, is_active = $4, updated_at = $5
		WHERE clinic_id = $6 AND id = $7
	`
	item.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		item.Name,
		item.Category,
		item.Unit,
		item.IsActive,
		item.UpdatedAt,
		item.ClinicID,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("inventory item not found")
	}
	return nil
}

func (r *inventoryRepository) ListItems(ctx context.Context, filters *model.InventoryFilters) ([]*model.InventoryItem, error) {
	query := `SELECT ` + inventoryItemColumns + ` FROM inventory_items WHERE clinic_id = $1 AND is_active = true`
	args := []interface{}{filters.ClinicID}
	argCount := 2

	if filters.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argCount)
		args = append(args, filters.Category)
		argCount++
	}
	if filters.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR sku ILIKE $%d)", argCount, argCount)
		args = append(args, "%"+filters.Search+"%")
		argCount++
	}

	query += " ORDER BY name ASC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filters.Limit)
	}

	var items []*model.InventoryItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	return items, nil
}

// ApplyTransaction writes the stock level and the transaction row in one
// database transaction so the ledger never disagrees with the stock column.
func (r *inventoryRepository) ApplyTransaction(ctx context.Context, itemID uuid.UUID, newStock int64, txn *model.InventoryTransaction) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	updateQuery := `
		UPDATE inventory_items
		SET stock = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := tx.ExecContext(ctx, updateQuery, newStock, time.Now(), itemID)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("inventory item not found")
	}

	insertQuery := `
		INSERT INTO inventory_transactions (
			id, item_id, clinic_id, type, quantity, stock_after, reason,
			performed_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	txn.CreatedAt = time.Now()

	_, err = tx.ExecContext(ctx, insertQuery,
		txn.ID,
		txn.ItemID,
		txn.ClinicID,
		txn.Type,
		txn.Quantity,
		txn.StockAfter,
		txn.Reason,
		txn.PerformedBy,
		txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert inventory transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit inventory transaction: %w", err)
	}
	return nil
}

func (r *inventoryRepository) ListTransactions(ctx context.Context, itemID uuid.UUID) ([]*model.InventoryTransaction, error) {
	query := `
		SELECT id, item_id, clinic_id, type, quantity, stock_after, reason,
			   performed_by, created_at
		FROM inventory_transactions
		WHERE item_id = $1
		ORDER BY created_at DESC
	`
	var txs []*model.InventoryTransaction
	if err := r.db.SelectContext(ctx, &txs, query, itemID); err != nil {
		return nil, fmt.Errorf("failed to list inventory transactions: %w", err)
	}
	return txs, nil
}
