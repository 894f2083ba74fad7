package model

import (
	"time"

	"github.com/google/uuid"
)

type InventoryTransactionType string

const (
	InventoryTransactionPurchase   InventoryTransactionType = "purchase"
	InventoryTransactionSale       InventoryTransactionType = "sale"
	InventoryTransactionAdjustment InventoryTransactionType = "adjustment"
	InventoryTransactionWaste      InventoryTransactionType = "waste"
)

type InventoryItem struct {
	Base
	TenantScope
	Name     string `json:"name" db:"name"`
	SKU      string `json:"sku" db:"sku"`
	Category string `json:"category" db:"category"`
	Unit     string `json:"unit" db:"unit"`
	Stock    int64  `json:"stock" db:"stock"`
	IsActive bool   `json:"is_active" db:"is_active"`
}

type InventoryTransaction struct {
	ID          uuid.UUID                `json:"id" db:"id"`
	ItemID      uuid.UUID                `json:"item_id" db:"item_id"`
	ClinicID    uuid.UUID                `json:"clinic_id" db:"clinic_id"`
	Type        InventoryTransactionType `json:"type" db:"type"`
	Quantity    int64                    `json:"quantity" db:"quantity"`
	StockAfter  int64                    `json:"stock_after" db:"stock_after"`
	Reason      string                   `json:"reason" db:"reason"`
	PerformedBy uuid.UUID                `json:"performed_by" db:"performed_by"`
	CreatedAt   time.Time                `json:"created_at" db:"created_at"`
}

type CreateItemRequest struct {
	Name     string `json:"name" binding:"required"`
	SKU      string `json:"sku" binding:"required"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
	Stock    int64  `json:"stock" binding:"gte=0"`
}

type UpdateItemRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Unit     *string `json:"unit"`
	IsActive *bool   `json:"is_active"`
}

type RecordTransactionRequest struct {
	Type     InventoryTransactionType `json:"type" binding:"required,oneof=purchase sale adjustment waste"`
	Quantity int64                    `json:"quantity" binding:"required"`
	Reason   string                   `json:"reason"`
}

type InventoryFilters struct {
	ClinicID uuid.UUID
	Category string
	Search   string
	Limit    int
}
