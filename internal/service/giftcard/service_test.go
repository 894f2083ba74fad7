package giftcard

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

type fakeGiftCardRepo struct {
	cards        map[uuid.UUID]*model.GiftCard
	transactions []*model.GiftCardTransaction
}

func newFakeGiftCardRepo() *fakeGiftCardRepo {
	return &fakeGiftCardRepo{cards: make(map[uuid.UUID]*model.GiftCard)}
}

func (r *fakeGiftCardRepo) Create(_ context.Context, card *model.GiftCard) error {
	r.cards[card.ID] = card
	return nil
}

func (r *fakeGiftCardRepo) Get(_ context.Context, clinicID, id uuid.UUID) (*model.GiftCard, error) {
	card, ok := r.cards[id]
	if !ok || card.ClinicID != clinicID {
		return nil, apperrors.NotFound("gift card")
	}
	return card, nil
}

func (r *fakeGiftCardRepo) GetByCode(_ context.Context, clinicID uuid.UUID, code string) (*model.GiftCard, error) {
	for _, card := range r.cards {
		if card.ClinicID == clinicID && card.Code == code {
			return card, nil
		}
	}
	return nil, apperrors.NotFound("gift card")
}

func (r *fakeGiftCardRepo) UpdateBalance(_ context.Context, id uuid.UUID, balance int64, isActive bool) error {
	card := r.cards[id]
	card.Balance = balance
	card.IsActive = isActive
	return nil
}

func (r *fakeGiftCardRepo) CreateTransaction(_ context.Context, tx *model.GiftCardTransaction) error {
	r.transactions = append(r.transactions, tx)
	return nil
}

func (r *fakeGiftCardRepo) ListTransactions(_ context.Context, cardID uuid.UUID) ([]*model.GiftCardTransaction, error) {
	var out []*model.GiftCardTransaction
	for _, tx := range r.transactions {
		if tx.CardID == cardID {
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

func newTestService() (*Service, *fakeGiftCardRepo) {
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	repo := newFakeGiftCardRepo()
	return NewService(repo, audit.NewService(&fakeAuditRepo{}, log)), repo
}

func issue(t *testing.T, svc *Service, scope model.TenantScope, balance int64) *model.GiftCard {
	t.Helper()
	card, err := svc.IssueCard(context.Background(), uuid.New(), scope, &model.IssueGiftCardRequest{
		Code:           "WELLNESS-100",
		InitialBalance: balance,
	})
	require.NoError(t, err)
	return card
}

func TestIssueCard(t *testing.T) {
	svc, repo := newTestService()
	scope := model.TenantScope{ClinicID: uuid.New(), OrganizationID: uuid.New()}

	card := issue(t, svc, scope, 5000)

	assert.Equal(t, int64(5000), card.Balance)
	assert.True(t, card.IsActive)
	assert.Len(t, repo.transactions, 1)
	assert.Equal(t, model.GiftCardTransactionIssue, repo.transactions[0].Type)
}

func TestIssueCardDuplicateCodeConflicts(t *testing.T) {
	svc, _ := newTestService()
	scope := model.TenantScope{ClinicID: uuid.New(), OrganizationID: uuid.New()}
	issue(t, svc, scope, 5000)

	_, err := svc.IssueCard(context.Background(), uuid.New(), scope, &model.IssueGiftCardRequest{
		Code:           "wellness-100",
		InitialBalance: 2500,
	})

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestRedeemOverBalanceEchoesAmounts(t *testing.T) {
	svc, _ := newTestService()
	scope := model.TenantScope{ClinicID: uuid.New(), OrganizationID: uuid.New()}
	card := issue(t, svc, scope, 5000)

	_, err := svc.Redeem(context.Background(), uuid.New(), scope, card.ID, &model.RedeemGiftCardRequest{
		Amount: 6000,
	})

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Equal(t, int64(5000), appErr.Fields["balance"])
	assert.Equal(t, int64(6000), appErr.Fields["requested"])
}

func TestRedeemExactBalanceDeactivatesCard(t *testing.T) {
	svc, repo := newTestService()
	scope := model.TenantScope{ClinicID: uuid.New(), OrganizationID: uuid.New()}
	card := issue(t, svc, scope, 5000)

	redeemed, err := svc.Redeem(context.Background(), uuid.New(), scope, card.ID, &model.RedeemGiftCardRequest{
		Amount: 5000,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(0), redeemed.Balance)
	assert.False(t, redeemed.IsActive)

	// Further redemptions bounce off the inactive card.
	_, err = svc.Redeem(context.Background(), uuid.New(), scope, card.ID, &model.RedeemGiftCardRequest{
		Amount: 1,
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)

	assert.Len(t, repo.transactions, 2)
}

func TestRedeemPartialBalance(t *testing.T) {
	svc, _ := newTestService()
	scope := model.TenantScope{ClinicID: uuid.New(), OrganizationID: uuid.New()}
	card := issue(t, svc, scope, 5000)

	redeemed, err := svc.Redeem(context.Background(), uuid.New(), scope, card.ID, &model.RedeemGiftCardRequest{
		Amount: 1500,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3500), redeemed.Balance)
	assert.True(t, redeemed.IsActive)
}
