package giftcard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/repository"
	"github.com/williamdagle/clinic-admin-api/internal/service/audit"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
)

type Service struct {
	repo    repository.GiftCardRepository
	auditor *audit.Service
}

func NewService(repo repository.GiftCardRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, auditor: auditor}
}

func (s *Service) IssueCard(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, req *model.IssueGiftCardRequest) (*model.GiftCard, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, apperrors.Validation("code is required")
	}

	if existing, err := s.repo.GetByCode(ctx, scope.ClinicID, code); err == nil && existing != nil {
		return nil, apperrors.Conflict("a gift card with this code already exists").
			WithField("code", code)
	}

	card := &model.GiftCard{
		Base:           model.Base{ID: uuid.New()},
		TenantScope:    scope,
		Code:           code,
		InitialBalance: req.InitialBalance,
		Balance:        req.InitialBalance,
		IssuedTo:       req.IssuedTo,
		IsActive:       true,
	}

	if err := s.repo.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to issue gift card: %w", err)
	}

	tx := &model.GiftCardTransaction{
		ID:          uuid.New(),
		CardID:      card.ID,
		Type:        model.GiftCardTransactionIssue,
		Amount:      req.InitialBalance,
		BalanceLeft: req.InitialBalance,
		PerformedBy: actorID,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record issue transaction: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionCreate, "gift_card", card.ID, &audit.LogOptions{
		NewValues: card,
	})

	return card, nil
}

func (s *Service) GetCard(ctx context.Context, scope model.TenantScope, id uuid.UUID) (*model.GiftCard, error) {
	return s.repo.Get(ctx, scope.ClinicID, id)
}

// Redeem deducts from the card balance. The balance is re-read at the start
// of the call; insufficient funds return a conflict echoing the current
// balance and the requested amount. Draining the card deactivates it.
func (s *Service) Redeem(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, id uuid.UUID, req *model.RedeemGiftCardRequest) (*model.GiftCard, error) {
	card, err := s.repo.Get(ctx, scope.ClinicID, id)
	if err != nil {
		return nil, err
	}

	if !card.IsActive {
		return nil, apperrors.Conflict("gift card is not active")
	}

	if req.Amount > card.Balance {
		return nil, apperrors.Conflict("insufficient balance").
			WithField("balance", card.Balance).
			WithField("requested", req.Amount)
	}

	card.Balance -= req.Amount
	if card.Balance == 0 {
		card.IsActive = false
	}

	if err := s.repo.UpdateBalance(ctx, card.ID, card.Balance, card.IsActive); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	tx := &model.GiftCardTransaction{
		ID:          uuid.New(),
		CardID:      card.ID,
		Type:        model.GiftCardTransactionRedeem,
		Amount:      req.Amount,
		BalanceLeft: card.Balance,
		PerformedBy: actorID,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record redemption: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionUpdate, "gift_card", card.ID, &audit.LogOptions{
		NewValues: card,
	})

	return card, nil
}

func (s *Service) ListTransactions(ctx context.Context, scope model.TenantScope, id uuid.UUID) ([]*model.GiftCardTransaction, error) {
	if _, err := s.repo.Get(ctx, scope.ClinicID, id); err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(ctx, id)
}
