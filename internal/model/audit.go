package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	UserID         uuid.UUID       `json:"user_id" db:"user_id"`
	ClinicID       uuid.UUID       `json:"clinic_id" db:"clinic_id"`
	OrganizationID uuid.UUID       `json:"organization_id" db:"organization_id"`
	Action         string          `json:"action" db:"action"`
	EntityType     string          `json:"entity_type" db:"entity_type"`
	EntityID       uuid.UUID       `json:"entity_id" db:"entity_id"`
	OldValues      json.RawMessage `json:"old_values,omitempty" db:"old_values"`
	NewValues      json.RawMessage `json:"new_values,omitempty" db:"new_values"`
	IPAddress      string          `json:"ip_address" db:"ip_address"`
	UserAgent      string          `json:"user_agent" db:"user_agent"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
	AuditActionLogin  = "login"
	AuditActionRedeem = "redeem"
	AuditActionEnroll = "enroll"
)

type AuditFilters struct {
	ClinicID   uuid.UUID
	UserID     uuid.UUID
	EntityType string
	Action     string
	StartDate  time.Time
	EndDate    time.Time
	Limit      int
}
