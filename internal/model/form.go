package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type FormAssignmentStatus string

const (
	FormAssignmentStatusPending   FormAssignmentStatus = "pending"
	FormAssignmentStatusCompleted FormAssignmentStatus = "completed"
)

// FormDefinition is the parent record of a versioned document. Publishing
// inserts a new FormVersion and repoints CurrentVersionID; version rows are
// never mutated in place.
type FormDefinition struct {
	Base
	TenantScope
	Name               string     `json:"name" db:"name"`
	Category           string     `json:"category" db:"category"`
	CurrentVersionID   *uuid.UUID `json:"current_version_id,omitempty" db:"current_version_id"`
	ComplianceRequired bool       `json:"compliance_required" db:"compliance_required"`
	IsActive           bool       `json:"is_active" db:"is_active"`
}

type FormVersion struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	FormID    uuid.UUID       `json:"form_id" db:"form_id"`
	Version   int             `json:"version" db:"version"`
	Schema    json.RawMessage `json:"schema" db:"schema"`
	CreatedBy uuid.UUID       `json:"created_by" db:"created_by"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// FormAssignment pins the version the patient fills against, so later
// publishes never change an outstanding assignment.
type FormAssignment struct {
	Base
	TenantScope
	FormID      uuid.UUID            `json:"form_id" db:"form_id"`
	VersionID   uuid.UUID            `json:"version_id" db:"version_id"`
	PatientID   uuid.UUID            `json:"patient_id" db:"patient_id"`
	AssignedBy  uuid.UUID            `json:"assigned_by" db:"assigned_by"`
	Status      FormAssignmentStatus `json:"status" db:"status"`
	Response    json.RawMessage      `json:"response,omitempty" db:"response"`
	CompletedAt *time.Time           `json:"completed_at,omitempty" db:"completed_at"`
}

type CreateFormRequest struct {
	Name               string          `json:"name" binding:"required"`
	Category           string          `json:"category"`
	ComplianceRequired bool            `json:"compliance_required"`
	Schema             json.RawMessage `json:"schema" binding:"required"`
}

type PublishVersionRequest struct {
	Schema json.RawMessage `json:"schema" binding:"required"`
}

type AssignFormRequest struct {
	FormID    uuid.UUID `json:"form_id" binding:"required"`
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
}

type CompleteAssignmentRequest struct {
	Response json.RawMessage `json:"response" binding:"required"`
}

type FormFilters struct {
	ClinicID uuid.UUID
	Category string
	Limit    int
}
