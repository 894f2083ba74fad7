package model

import (
	"time"

	"github.com/google/uuid"
)

type GroupMemberStatus string

const (
	GroupMemberStatusActive  GroupMemberStatus = "active"
	GroupMemberStatusRemoved GroupMemberStatus = "removed"
)

type Group struct {
	Base
	TenantScope
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	MaxMembers  int    `json:"max_members" db:"max_members"`
	IsActive    bool   `json:"is_active" db:"is_active"`
}

type GroupMember struct {
	ID        uuid.UUID         `json:"id" db:"id"`
	GroupID   uuid.UUID         `json:"group_id" db:"group_id"`
	PatientID uuid.UUID         `json:"patient_id" db:"patient_id"`
	Status    GroupMemberStatus `json:"status" db:"status"`
	JoinedAt  time.Time         `json:"joined_at" db:"joined_at"`
	RemovedAt *time.Time        `json:"removed_at,omitempty" db:"removed_at"`
}

// AttendanceRecord is keyed by (group_id, appointment_id, patient_id).
// Writes are idempotent upserts: resubmitting the same key replaces the
// attended flag instead of inserting a second row.
type AttendanceRecord struct {
	ID            uuid.UUID `json:"id" db:"id"`
	GroupID       uuid.UUID `json:"group_id" db:"group_id"`
	AppointmentID uuid.UUID `json:"appointment_id" db:"appointment_id"`
	PatientID     uuid.UUID `json:"patient_id" db:"patient_id"`
	Attended      bool      `json:"attended" db:"attended"`
	Notes         string    `json:"notes" db:"notes"`
	RecordedBy    uuid.UUID `json:"recorded_by" db:"recorded_by"`
	RecordedAt    time.Time `json:"recorded_at" db:"recorded_at"`
}

type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	MaxMembers  int    `json:"max_members" binding:"required,gt=0"`
}

type UpdateGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	MaxMembers  *int    `json:"max_members" binding:"omitempty,gt=0"`
	IsActive    *bool   `json:"is_active"`
}

type EnrollMemberRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
}

type RecordAttendanceRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" binding:"required"`
	PatientID     uuid.UUID `json:"patient_id" binding:"required"`
	Attended      bool      `json:"attended"`
	Notes         string    `json:"notes"`
}
