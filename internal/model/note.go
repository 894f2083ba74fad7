package model

import (
	"github.com/google/uuid"
)

type NoteType string

const (
	NoteTypeProgress   NoteType = "progress"
	NoteTypeIntake     NoteType = "intake"
	NoteTypeDischarge  NoteType = "discharge"
	NoteTypeAssessment NoteType = "assessment"
)

type ClinicalNote struct {
	Base
	TenantScope
	PatientID uuid.UUID `json:"patient_id" db:"patient_id"`
	AuthorID  uuid.UUID `json:"author_id" db:"author_id"`
	NoteType  NoteType  `json:"note_type" db:"note_type"`
	Content   string    `json:"content" db:"content"`
	IsDeleted bool      `json:"is_deleted" db:"is_deleted"`
}

type CreateNoteRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	NoteType  NoteType  `json:"note_type" binding:"required,oneof=progress intake discharge assessment"`
	Content   string    `json:"content" binding:"required"`
}

type UpdateNoteRequest struct {
	Content *string `json:"content"`
}

type NoteFilters struct {
	ClinicID  uuid.UUID
	PatientID uuid.UUID
	NoteType  NoteType
	Limit     int
}
