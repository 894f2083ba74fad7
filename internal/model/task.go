package model

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Task is soft-deleted: DELETE flips IsDeleted, the row stays retrievable.
type Task struct {
	Base
	TenantScope
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description" db:"description"`
	AssigneeID  *uuid.UUID   `json:"assignee_id,omitempty" db:"assignee_id"`
	PatientID   *uuid.UUID   `json:"patient_id,omitempty" db:"patient_id"`
	Status      TaskStatus   `json:"status" db:"status"`
	Priority    TaskPriority `json:"priority" db:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty" db:"due_date"`
	IsDeleted   bool         `json:"is_deleted" db:"is_deleted"`
}

type CreateTaskRequest struct {
	Title       string       `json:"title" binding:"required"`
	Description string       `json:"description"`
	AssigneeID  *uuid.UUID   `json:"assignee_id"`
	PatientID   *uuid.UUID   `json:"patient_id"`
	Priority    TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time   `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	AssigneeID  *uuid.UUID    `json:"assignee_id"`
	Status      *TaskStatus   `json:"status" binding:"omitempty,oneof=open in_progress done"`
	Priority    *TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time    `json:"due_date"`
}

type TaskFilters struct {
	ClinicID   uuid.UUID
	AssigneeID uuid.UUID
	PatientID  uuid.UUID
	Status     TaskStatus
	Limit      int
}
