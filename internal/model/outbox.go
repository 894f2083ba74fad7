package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusProcessed OutboxStatus = "processed"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// Event types published through the outbox. Consumers treat deliveries as
// advisory: a lost or failed event never affects the primary write.
const (
	EventPatientCreated     = "PATIENT_CREATED"
	EventPatientActivated   = "PATIENT_ACTIVATED"
	EventMembershipEnrolled = "MEMBERSHIP_ENROLLED"
	EventTaskMutated        = "TASK_MUTATED"
	EventAuditRecord        = "AUDIT_RECORD"
)

type OutboxEvent struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	EventType    string          `json:"event_type" db:"event_type"`
	Payload      json.RawMessage `json:"payload" db:"payload"`
	Status       OutboxStatus    `json:"status" db:"status"`
	ErrorMessage *string         `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	ProcessedAt  *time.Time      `json:"processed_at,omitempty" db:"processed_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}
