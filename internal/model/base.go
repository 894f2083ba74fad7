package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TenantScope identifies the clinic (and owning organization) a record
// belongs to. It is always derived from the authenticated caller's profile,
// never from client input.
type TenantScope struct {
	ClinicID       uuid.UUID `json:"clinic_id" db:"clinic_id"`
	OrganizationID uuid.UUID `json:"organization_id" db:"organization_id"`
}

// BaseFilter contains common list filter fields
type BaseFilter struct {
	SearchTerm string    `json:"search_term" form:"search"`
	Status     string    `json:"status" form:"status"`
	StartDate  time.Time `json:"start_date" form:"start_date" time_format:"2006-01-02"`
	EndDate    time.Time `json:"end_date" form:"end_date" time_format:"2006-01-02"`
	Limit      int       `json:"limit" form:"limit"`
}
