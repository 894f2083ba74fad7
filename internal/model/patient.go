package model

import (
	"time"

	"github.com/google/uuid"
)

type PatientStatus string

const (
	PatientStatusActive   PatientStatus = "active"
	PatientStatusInactive PatientStatus = "inactive"
)

type Patient struct {
	Base
	TenantScope
	FirstName   string        `json:"first_name" db:"first_name"`
	LastName    string        `json:"last_name" db:"last_name"`
	Email       string        `json:"email" db:"email"`
	Phone       string        `json:"phone" db:"phone"`
	DateOfBirth *time.Time    `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Gender      string        `json:"gender" db:"gender"`
	Address     string        `json:"address" db:"address"`
	Status      PatientStatus `json:"status" db:"status"`
	IsActive    bool          `json:"is_active" db:"is_active"`
}

type CreatePatientRequest struct {
	FirstName   string     `json:"first_name" binding:"required"`
	LastName    string     `json:"last_name" binding:"required"`
	Email       string     `json:"email" binding:"omitempty,email"`
	Phone       string     `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      string     `json:"gender"`
	Address     string     `json:"address"`
}

type UpdatePatientRequest struct {
	FirstName   *string        `json:"first_name"`
	LastName    *string        `json:"last_name"`
	Email       *string        `json:"email" binding:"omitempty,email"`
	Phone       *string        `json:"phone"`
	DateOfBirth *time.Time     `json:"date_of_birth"`
	Gender      *string        `json:"gender"`
	Address     *string        `json:"address"`
	Status      *PatientStatus `json:"status" binding:"omitempty,oneof=active inactive"`
}

type PatientFilters struct {
	ClinicID uuid.UUID
	Status   PatientStatus
	Search   string
	Limit    int
}
