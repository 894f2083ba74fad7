package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleSystemAdmin Role = "system_admin"
	RoleAdmin       Role = "admin"
	RoleClinician   Role = "clinician"
	RoleStaff       Role = "staff"
)

type IdentityStatus string

const (
	IdentityStatusActive IdentityStatus = "active"
	IdentityStatusLocked IdentityStatus = "locked"
)

// Identity is the authentication record a bearer token resolves to.
type Identity struct {
	ID               uuid.UUID      `json:"id" db:"id"`
	Email            string         `json:"email" db:"email"`
	PasswordHash     string         `json:"-" db:"password_hash"`
	Status           IdentityStatus `json:"status" db:"status"`
	LoginAttempts    int            `json:"-" db:"login_attempts"`
	LastLoginAttempt time.Time      `json:"-" db:"last_login_attempt"`
	LastLoginAt      *time.Time     `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}

// Profile is the tenant-scoped user record linked to an identity. The role
// drives authorization; clinic and organization scope every query.
type Profile struct {
	Base
	TenantScope
	IdentityID uuid.UUID `json:"identity_id" db:"identity_id"`
	FirstName  string    `json:"first_name" db:"first_name"`
	LastName   string    `json:"last_name" db:"last_name"`
	Email      string    `json:"email" db:"email"`
	Role       Role      `json:"role" db:"role"`
	IsActive   bool      `json:"is_active" db:"is_active"`
}

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Role      Role   `json:"role" binding:"required,oneof=system_admin admin clinician staff"`
}

type UpdateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *Role   `json:"role" binding:"omitempty,oneof=system_admin admin clinician staff"`
	IsActive  *bool   `json:"is_active"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UserFilters struct {
	Role     Role
	IsActive *bool
	Search   string
}
