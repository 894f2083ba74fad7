package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

type Appointment struct {
	Base
	TenantScope
	ClinicianID  uuid.UUID         `json:"clinician_id" db:"clinician_id"`
	PatientID    uuid.UUID         `json:"patient_id" db:"patient_id"`
	GroupID      *uuid.UUID        `json:"group_id,omitempty" db:"group_id"`
	StartTime    time.Time         `json:"start_time" db:"start_time"`
	EndTime      time.Time         `json:"end_time" db:"end_time"`
	Status       AppointmentStatus `json:"status" db:"status"`
	Notes        string            `json:"notes,omitempty" db:"notes"`
	CancelReason *string           `json:"cancel_reason,omitempty" db:"cancel_reason"`
}

type CreateAppointmentRequest struct {
	ClinicianID uuid.UUID  `json:"clinician_id" binding:"required"`
	PatientID   uuid.UUID  `json:"patient_id" binding:"required"`
	GroupID     *uuid.UUID `json:"group_id"`
	StartTime   time.Time  `json:"start_time" binding:"required"`
	EndTime     time.Time  `json:"end_time" binding:"required,gtfield=StartTime"`
	Notes       string     `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	StartTime *time.Time         `json:"start_time"`
	EndTime   *time.Time         `json:"end_time"`
	Status    *AppointmentStatus `json:"status" binding:"omitempty,oneof=scheduled confirmed cancelled completed no_show"`
	Notes     *string            `json:"notes"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type AppointmentFilters struct {
	ClinicID    uuid.UUID
	ClinicianID uuid.UUID
	PatientID   uuid.UUID
	Status      AppointmentStatus
	StartDate   time.Time
	EndDate     time.Time
	Limit       int
}
