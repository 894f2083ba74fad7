package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
)

const profileColumns = `
	id, identity_id, clinic_id, organization_id, first_name, last_name,
	email, role, is_active, created_at, updated_at
`

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	query := `
		INSERT INTO profiles (
			id, identity_id, clinic_id, organization_id, first_name,
			last_name, email, role, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.IdentityID,
		profile.ClinicID,
		profile.OrganizationID,
		profile.FirstName,
		profile.LastName,
		profile.Email,
		profile.Role,
		profile.IsActive,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *profileRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE clinic_id = $1 AND id = $2`
	var profile model.Profile
	if err := r.db.GetContext(ctx, &profile, query, clinicID, id); err != nil {
		return nil, notFoundOr(err, "profile")
	}
	return &profile, nil
}

// GetByIdentityID returns the profile regardless of its active flag. The
// authentication layer distinguishes a deactivated profile from a missing
// one, so the row must still be visible here.
func (r *profileRepository) GetByIdentityID(ctx context.Context, identityID uuid.UUID) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE identity_id = $1`
	var profile model.Profile
	if err := r.db.GetContext(ctx, &profile, query, identityID); err != nil {
		return nil, notFoundOr(err, "profile")
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	query := `
		UPDATE profiles
		SET first_name = $1, last_name = $2, role = $3, is_active = $4, updated_at = $5
		WHERE clinic_id = $6 AND id = $7
	`
	profile.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		profile.FirstName,
		profile.LastName,
		profile.Role,
		profile.IsActive,
		profile.UpdatedAt,
		profile.ClinicID,
		profile.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("profile not found")
	}
	return nil
}

// Delete is a hard delete and runs on the privileged pool.
func (r *profileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM profiles WHERE id = $1`
	if _, err := r.privileged.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

func (r *profileRepository) List(ctx context.Context, clinicID uuid.UUID, filters *model.UserFilters) ([]*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE clinic_id = $1`
	args := []interface{}{clinicID}
	argCount := 2

	if filters != nil {
		if filters.Role != "" {
			query += fmt.Sprintf(" AND role = $%d", argCount)
			args = append(args, filters.Role)
			argCount++
		}
		if filters.IsActive != nil {
			query += fmt.Sprintf(" AND is_active = $%d", argCount)
			args = append(args, *filters.IsActive)
			argCount++
		}
		if filters.Search != "" {
			query += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", argCount, argCount, argCount)
			args = append(args, "%"+filters.Search+"%")
			argCount++
		}
	}

	query += " ORDER BY created_at DESC"

	var profiles []*model.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}
