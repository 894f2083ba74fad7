package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
)

const noteColumns = `
	id, clinic_id, organization_id, patient_id, author_id, note_type,
	content, is_deleted, created_at, updated_at
`

func (r *noteRepository) Create(ctx context.Context, note *model.ClinicalNote) error {
	query := `
		INSERT INTO clinical_notes (
			id, clinic_id, organization_id, patient_id, author_id,
			note_type, content, is_deleted, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	note.CreatedAt = time.Now()
	note.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		note.ID,
		note.ClinicID,
		note.OrganizationID,
		note.PatientID,
		note.AuthorID,
		note.NoteType,
		note.Content,
		note.IsDeleted,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create clinical note: %w", err)
	}
	return nil
}

func (r *noteRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.ClinicalNote, error) {
	query := `SELECT ` + noteColumns + ` FROM clinical_notes WHERE clinic_id = $1 AND id = $2`
	var note model.ClinicalNote
	if err := r.db.GetContext(ctx, &note, query, clinicID, id); err != nil {
		return nil, notFoundOr(err, "clinical note")
	}
	return &note, nil
}

func (r *noteRepository) Update(ctx context.Context, note *model.ClinicalNote) error {
	query := `
		UPDATE clinical_notes
		SET content = $1, updated_at = $2
		WHERE clinic_id = $3 AND id = $4 AND is_deleted = false
	`
	note.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query, note.Content, note.UpdatedAt, note.ClinicID, note.ID)
	if err != nil {
		return fmt.Errorf("failed to update clinical note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("clinical note not found")
	}
	return nil
}

func (r *noteRepository) SoftDelete(ctx context.Context, clinicID, id uuid.UUID) error {
	query := `
		UPDATE clinical_notes
		SET is_deleted = true, updated_at = $1
		WHERE clinic_id = $2 AND id = $3
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), clinicID, id)
	if err != nil {
		return fmt.Errorf("failed to delete clinical note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("clinical note not found")
	}
	return nil
}

func (r *noteRepository) List(ctx context.Context, filters *model.NoteFilters) ([]*model.ClinicalNote, error) {
	query := `SELECT ` + noteColumns + ` FROM clinical_notes WHERE clinic_id = $1 AND is_deleted = false`
	args := []interface{}{filters.ClinicID}
	argCount := 2

	if filters.PatientID != uuid.Nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, filters.PatientID)
		argCount++
	}
	if filters.NoteType != "" {
		query += fmt.Sprintf(" AND note_type = $%d", argCount)
		args = append(args, filters.NoteType)
		argCount++
	}

	query += " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filters.Limit)
	}

	var notes []*model.ClinicalNote
	if err := r.db.SelectContext(ctx, &notes, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list clinical notes: %w", err)
	}
	return notes, nil
}
