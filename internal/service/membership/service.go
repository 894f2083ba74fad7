package membership

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/repository"
	"github.com/williamdagle/clinic-admin-api/internal/service/audit"
	"github.com/williamdagle/clinic-admin-api/internal/service/event"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
)

type Service struct {
	repo        repository.MembershipRepository
	patientRepo repository.PatientRepository
	emitter     event.Emitter
	auditor     *audit.Service
}

func NewService(
	repo repository.MembershipRepository,
	patientRepo repository.PatientRepository,
	emitter event.Emitter,
	auditor *audit.Service,
) *Service {
	return &Service{repo: repo, patientRepo: patientRepo, emitter: emitter, auditor: auditor}
}

func (s *Service) CreatePlan(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, req *model.CreatePlanRequest) (*model.MembershipPlan, error) {
	plan := &model.MembershipPlan{
		Base:         model.Base{ID: uuid.New()},
		TenantScope:  scope,
		Name:         req.Name,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		DurationDays: req.DurationDays,
		IsActive:     true,
	}

	if err := s.repo.CreatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionCreate, "membership_plan", plan.ID, &audit.LogOptions{
		NewValues: plan,
	})

	return plan, nil
}

func (s *Service) GetPlan(ctx context.Context, scope model.TenantScope, id uuid.UUID) (*model.MembershipPlan, error) {
	return s.repo.GetPlan(ctx, scope.ClinicID, id)
}

func (s *Service) ListPlans(ctx context.Context, scope model.TenantScope) ([]*model.MembershipPlan, error) {
	return s.repo.ListPlans(ctx, scope.ClinicID)
}

// Enroll creates an active membership. A patient can hold at most one active
// membership per plan; the check re-reads current state, so a concurrent
// enroll can slip through and is resolved by the caller retrying a cancel.
func (s *Service) Enroll(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, req *model.EnrollMembershipRequest) (*model.Membership, error) {
	if _, err := s.patientRepo.Get(ctx, scope.ClinicID, req.PatientID); err != nil {
		if _, ok := apperrors.AsAppError(err); ok {
			return nil, apperrors.Validation("patient does not exist").WithField("patient_id", req.PatientID.String())
		}
		return nil, err
	}

	plan, err := s.repo.GetPlan(ctx, scope.ClinicID, req.PlanID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, apperrors.Validation("plan is not active").WithField("plan_id", plan.ID.String())
	}

	existing, err := s.repo.FindActive(ctx, req.PatientID, req.PlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing membership: %w", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("patient already has an active membership for this plan").
			WithField("membership_id", existing.ID.String())
	}

	now := time.Now()
	membership := &model.Membership{
		Base:        model.Base{ID: uuid.New()},
		TenantScope: scope,
		PatientID:   req.PatientID,
		PlanID:      req.PlanID,
		Status:      model.MembershipStatusActive,
		StartDate:   now,
		EndDate:     now.AddDate(0, 0, plan.DurationDays),
	}

	if err := s.repo.Create(ctx, membership); err != nil {
		return nil, fmt.Errorf("failed to enroll membership: %w", err)
	}

	s.emitter.Emit(ctx, model.EventMembershipEnrolled, membership)
	s.auditor.Log(ctx, actorID, scope, model.AuditActionCreate, "membership", membership.ID, &audit.LogOptions{
		NewValues: membership,
	})

	return membership, nil
}

func (s *Service) GetMembership(ctx context.Context, scope model.TenantScope, id uuid.UUID) (*model.Membership, error) {
	return s.repo.Get(ctx, scope.ClinicID, id)
}

func (s *Service) ListMemberships(ctx context.Context, scope model.TenantScope, filters *model.MembershipFilters) ([]*model.Membership, error) {
	filters.ClinicID = scope.ClinicID
	return s.repo.List(ctx, filters)
}

// Cancel flips the status and keeps the row for history.
func (s *Service) Cancel(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, id uuid.UUID) (*model.Membership, error) {
	membership, err := s.repo.Get(ctx, scope.ClinicID, id)
	if err != nil {
		return nil, err
	}

	if membership.Status != model.MembershipStatusActive {
		return nil, apperrors.Conflict("membership is not active").
			WithField("status", string(membership.Status))
	}

	old := *membership
	if err := s.repo.UpdateStatus(ctx, membership.ID, model.MembershipStatusCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel membership: %w", err)
	}
	membership.Status = model.MembershipStatusCancelled

	s.auditor.Log(ctx, actorID, scope, model.AuditActionUpdate, "membership", membership.ID, &audit.LogOptions{
		OldValues: old,
		NewValues: membership,
	})

	return membership, nil
}
