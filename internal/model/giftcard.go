package model

import (
	"time"

	"github.com/google/uuid"
)

type GiftCardTransactionType string

const (
	GiftCardTransactionIssue      GiftCardTransactionType = "issue"
	GiftCardTransactionRedeem     GiftCardTransactionType = "redeem"
	GiftCardTransactionAdjustment GiftCardTransactionType = "adjustment"
)

type GiftCard struct {
	Base
	TenantScope
	Code           string     `json:"code" db:"code"`
	InitialBalance int64      `json:"initial_balance" db:"initial_balance"`
	Balance        int64      `json:"balance" db:"balance"`
	IssuedTo       *uuid.UUID `json:"issued_to,omitempty" db:"issued_to"`
	IsActive       bool       `json:"is_active" db:"is_active"`
}

type GiftCardTransaction struct {
	ID          uuid.UUID               `json:"id" db:"id"`
	CardID      uuid.UUID               `json:"card_id" db:"card_id"`
	Type        GiftCardTransactionType `json:"type" db:"type"`
	Amount      int64                   `json:"amount" db:"amount"`
	BalanceLeft int64                   `json:"balance_left" db:"balance_left"`
	PerformedBy uuid.UUID               `json:"performed_by" db:"performed_by"`
	CreatedAt   time.Time               `json:"created_at" db:"created_at"`
}

type IssueGiftCardRequest struct {
	Code           string     `json:"code" binding:"required"`
	InitialBalance int64      `json:"initial_balance" binding:"required,gt=0"`
	IssuedTo       *uuid.UUID `json:"issued_to"`
}

type RedeemGiftCardRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}
