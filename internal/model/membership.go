package model

import (
	"time"

	"github.com/google/uuid"
)

type MembershipStatus string

const (
	MembershipStatusActive    MembershipStatus = "active"
	MembershipStatusCancelled MembershipStatus = "cancelled"
	MembershipStatusExpired   MembershipStatus = "expired"
)

type MembershipPlan struct {
	Base
	TenantScope
	Name         string `json:"name" db:"name"`
	Description  string `json:"description" db:"description"`
	PriceCents   int64  `json:"price_cents" db:"price_cents"`
	DurationDays int    `json:"duration_days" db:"duration_days"`
	IsActive     bool   `json:"is_active" db:"is_active"`
}

type Membership struct {
	Base
	TenantScope
	PatientID uuid.UUID        `json:"patient_id" db:"patient_id"`
	PlanID    uuid.UUID        `json:"plan_id" db:"plan_id"`
	Status    MembershipStatus `json:"status" db:"status"`
	StartDate time.Time        `json:"start_date" db:"start_date"`
	EndDate   time.Time        `json:"end_date" db:"end_date"`
}

type CreatePlanRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	PriceCents   int64  `json:"price_cents" binding:"required,gte=0"`
	DurationDays int    `json:"duration_days" binding:"required,gt=0"`
}

type EnrollMembershipRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	PlanID    uuid.UUID `json:"plan_id" binding:"required"`
}

type MembershipFilters struct {
	ClinicID  uuid.UUID
	PatientID uuid.UUID
	Status    MembershipStatus
}
