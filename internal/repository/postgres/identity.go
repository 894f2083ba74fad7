package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
)

func (r *identityRepository) Create(ctx context.Context, identity *model.Identity) error {
	query := `
		INSERT INTO identities (
			id, email, password_hash, status, login_attempts,
			last_login_attempt, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	identity.CreatedAt = time.Now()
	identity.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		identity.ID,
		identity.Email,
		identity.PasswordHash,
		identity.Status,
		identity.LoginAttempts,
		identity.LastLoginAttempt,
		identity.CreatedAt,
		identity.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}
	return nil
}

func (r *identityRepository) Get(ctx context.Context, id uuid.UUID) (*model.Identity, error) {
	query := `
		SELECT id, email, password_hash, status, login_attempts,
			   last_login_attempt, last_login_at, created_at, updated_at
		FROM identities
		WHERE id = $1
	`
	var identity model.Identity
	if err := r.db.GetContext(ctx, &identity, query, id); err != nil {
		return nil, notFoundOr(err, "identity")
	}
	return &identity, nil
}

func (r *identityRepository) GetByEmail(ctx context.Context, email string) (*model.Identity, error) {
	query := `
		SELECT id, email, password_hash, status, login_attempts,
			   last_login_attempt, last_login_at, created_at, updated_at
		FROM identities
		WHERE email = $1
	`
	var identity model.Identity
	if err := r.db.GetContext(ctx, &identity, query, email); err != nil {
		return nil, notFoundOr(err, "identity")
	}
	return &identity, nil
}

func (r *identityRepository) Update(ctx context.Context, identity *model.Identity) error {
	query := `
		UPDATE identities
		SET email = $1, password_hash = $2, status = $3, login_attempts = $4,
			last_login_attempt = $5, last_login_at = $6, updated_at = $7
		WHERE id = $8
	`
	identity.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		identity.Email,
		identity.PasswordHash,
		identity.Status,
		identity.LoginAttempts,
		identity.LastLoginAttempt,
		identity.LastLoginAt,
		identity.UpdatedAt,
		identity.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update identity: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("identity not found")
	}
	return nil
}

func (r *identityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM identities WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}
	return nil
}
