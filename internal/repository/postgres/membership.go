package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
)

func (r *membershipRepository) CreatePlan(ctx context.Context, plan *model.MembershipPlan) error {
	query := `
		INSERT INTO membership_plans (
			id, clinic_id, organization_id, name, description, price_cents,
			duration_days, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		plan.ID,
		plan.ClinicID,
		plan.OrganizationID,
		plan.Name,
		plan.Description,
		plan.PriceCents,
		plan.DurationDays,
		plan.IsActive,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create membership plan: %w", err)
	}
	return nil
}

func (r *membershipRepository) GetPlan(ctx context.Context, clinicID, id uuid.UUID) (*model.MembershipPlan, error) {
	query := `
		SELECT id, clinic_id, organization_id, name, description, price_cents,
			   duration_days, is_active, created_at, updated_at
		FROM membership_plans
		WHERE clinic_id = $1 AND id = $2
	`
	var plan model.MembershipPlan
	if err := r.db.GetContext(ctx, &plan, query, clinicID, id); err != nil {
		return nil, notFoundOr(err, "membership plan")
	}
	return &plan, nil
}

func (r *membershipRepository) ListPlans(ctx context.Context, clinicID uuid.UUID) ([]*model.MembershipPlan, error) {
	query := `
		SELECT id, clinic_id, organization_id, name, description, price_cents,
			   duration_days, is_active, created_at, updated_at
		FROM membership_plans
		WHERE clinic_id = $1 AND is_active = true
		ORDER BY name ASC
	`
	var plans []*model.MembershipPlan
	if err := r.db.SelectContext(ctx, &plans, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list membership plans: %w", err)
	}
	return plans, nil
}

func (r *membershipRepository) Create(ctx context.Context, membership *model.Membership) error {
	query := `
		INSERT INTO memberships (
			id, clinic_id, organization_id, patient_id, plan_id, status,
			start_date, end_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	membership.CreatedAt = time.Now()
	membership.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		membership.ID,
		membership.ClinicID,
		membership.OrganizationID,
		membership.PatientID,
		membership.PlanID,
		membership.Status,
		membership.StartDate,
		membership.EndDate,
		membership.CreatedAt,
		membership.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}
	return nil
}

func (r *membershipRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Membership, error) {
	query := `
		SELECT id, clinic_id, organization_id, patient_id, plan_id, status,
			   start_date, end_date, created_at, updated_at
		FROM memberships
		WHERE clinic_id = $1 AND id = $2
	`
	var membership model.Membership
	if err := r.db.GetContext(ctx, &membership, query, clinicID, id); err != nil {
		return nil, notFoundOr(err, "membership")
	}
	return &membership, nil
}

// FindActive returns nil without error when no active membership exists.
func (r *membershipRepository) FindActive(ctx context.Context, patientID, planID uuid.UUID) (*model.Membership, error) {
	query := `
		SELECT id, clinic_id, organization_id, patient_id, plan_id, status,
			   start_date, end_date, created_at, updated_at
		FROM memberships
		WHERE patient_id = $1 AND plan_id = $2 AND status = 'active'
	`
	var membership model.Membership
	err := r.db.GetContext(ctx, &membership, query, patientID, planID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active membership: %w", err)
	}
	return &membership, nil
}

func (r *membershipRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.MembershipStatus) error {
	query := `
		UPDATE memberships
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update membership status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("membership not found")
	}
	return nil
}

func (r *membershipRepository) List(ctx context.Context, filters *model.MembershipFilters) ([]*model.Membership, error) {
	query := `
		SELECT id, clinic_id, organization_id, patient_id, plan_id, status,
			   start_date, end_date, created_at, updated_at
		FROM memberships
		WHERE clinic_id = $1
	`
	args := []interface{}{filters.ClinicID}
	argCount := 2

	if filters.PatientID != uuid.Nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, filters.PatientID)
		argCount++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	query += " ORDER BY created_at DESC"

	var memberships []*model.Membership
	if err := r.db.SelectContext(ctx, &memberships, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return memberships, nil
}
