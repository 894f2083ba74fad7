package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
)

const giftCardColumns = `
	id, clinic_id, organization_id, code, initial_balance, balance,
	issued_to, is_active, created_at, updated_at
`

func (r *giftCardRepository) Create(ctx context.Context, card *model.GiftCard) error {
	query := `
		INSERT INTO gift_cards (
			id, clinic_id, organization_id, code, initial_balance, balance,
			issued_to, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	card.CreatedAt = time.Now()
	card.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		card.ID,
		card.ClinicID,
		card.OrganizationID,
		card.Code,
		card.InitialBalance,
		card.Balance,
		card.IssuedTo,
		card.IsActive,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create gift card: %w", err)
	}
	return nil
}

func (r *giftCardRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.GiftCard, error) {
	query := `SELECT ` + giftCardColumns + ` FROM gift_cards WHERE clinic_id = $1 AND id = $2`
	var card model.GiftCard
	if err := r.db.GetContext(ctx, &card, query, clinicID, id); err != nil {
		return nil, notFoundOr(err, "gift card")
	}
	return &card, nil
}

func (r *giftCardRepository) GetByCode(ctx context.Context, clinicID uuid.UUID, code string) (*model.GiftCard, error) {
	query := `SELECT ` + giftCardColumns + ` FROM gift_cards WHERE clinic_id = $1 AND code = $2`
	var card model.GiftCard
	if err := r.db.GetContext(ctx, &card, query, clinicID, code); err != nil {
		return nil, notFoundOr(err, "gift card")
	}
	return &card, nil
}

func (r *giftCardRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance int64, isActive bool) error {
	query := `
		UPDATE gift_cards
		SET balance = $1, is_active = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, balance, isActive, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update gift card balance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("gift card not found")
	}
	return nil
}

func (r *giftCardRepository) CreateTransaction(ctx context.Context, tx *model.GiftCardTransaction) error {
	query := `
		INSERT INTO gift_card_transactions (
			id, card_id, type, amount, balance_left, performed_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	tx.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.CardID,
		tx.Type,
		tx.Amount,
		tx.BalanceLeft,
		tx.PerformedBy,
		tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create gift card transaction: %w", err)
	}
	return nil
}

func (r *giftCardRepository) ListTransactions(ctx context.Context, cardID uuid.UUID) ([]*model.GiftCardTransaction, error) {
	query := `
		SELECT id, card_id, type, amount, balance_left, performed_by, created_at
		FROM gift_card_transactions
		WHERE card_id = $1
		ORDER BY created_at DESC
	`
	var txs []*model.GiftCardTransaction
	if err := r.db.SelectContext(ctx, &txs, query, cardID); err != nil {
		return nil, fmt.Errorf("failed to list gift card transactions: %w", err)
	}
	return txs, nil
}
