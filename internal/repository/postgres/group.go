package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
)

func (r *groupRepository) Create(ctx context.Context, group *model.Group) error {
	query := `
		INSERT INTO groups (
			id, clinic_id, organization_id, name, description, max_members,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	group.CreatedAt = time.Now()
	group.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		group.ID,
		group.ClinicID,
		group.OrganizationID,
		group.Name,
		group.Description,
		group.MaxMembers,
		group.IsActive,
		group.CreatedAt,
		group.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

func (r *groupRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Group, error) {
	query := `
		SELECT id, clinic_id, organization_id, name, description, max_members,
			   is_active, created_at, updated_at
		FROM groups
		WHERE clinic_id = $1 AND id = $2
	`
	var group model.Group
	if err := r.db.GetContext(ctx, &group, query, clinicID, id); err != nil {
		return nil, notFoundOr(err, "group")
	}
	return &group, nil
}

func (r *groupRepository) Update(ctx context.Context, group *model.Group) error {
	query := `
		UPDATE groups
		SET name = $1, description = $2, max_members = $3, is_active = $4, updated_at = $5
		WHERE clinic_id = $6 AND id = $7
	`
	group.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		group.Name,
		group.Description,
		group.MaxMembers,
		group.IsActive,
		group.UpdatedAt,
		group.ClinicID,
		group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("group not found")
	}
	return nil
}

func (r *groupRepository) List(ctx context.Context, clinicID uuid.UUID) ([]*model.Group, error) {
	query := `
		SELECT id, clinic_id, organization_id, name, description, max_members,
			   is_active, created_at, updated_at
		FROM groups
		WHERE clinic_id = $1
		ORDER BY name ASC
	`
	var groups []*model.Group
	if err := r.db.SelectContext(ctx, &groups, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

func (r *groupRepository) CountActiveMembers(ctx context.Context, groupID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM group_members WHERE group_id = $1 AND status = 'active'`
	var count int
	if err := r.db.GetContext(ctx, &count, query, groupID); err != nil {
		return 0, fmt.Errorf("failed to count group members: %w", err)
	}
	return count, nil
}

// GetActiveMember returns nil without error when the patient is not an
// active member.
func (r *groupRepository) GetActiveMember(ctx context.Context, groupID, patientID uuid.UUID) (*model.GroupMember, error) {
	query := `
		SELECT id, group_id, patient_id, status, joined_at, removed_at
		FROM group_members
		WHERE group_id = $1 AND patient_id = $2 AND status = 'active'
	`
	var member model.GroupMember
	err := r.db.GetContext(ctx, &member, query, groupID, patientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group member: %w", err)
	}
	return &member, nil
}

func (r *groupRepository) AddMember(ctx context.Context, member *model.GroupMember) error {
	query := `
		INSERT INTO group_members (id, group_id, patient_id, status, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		member.ID,
		member.GroupID,
		member.PatientID,
		member.Status,
		member.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

func (r *groupRepository) RemoveMember(ctx context.Context, groupID, patientID uuid.UUID) error {
	query := `
		UPDATE group_members
		SET status = 'removed', removed_at = $1
		WHERE group_id = $2 AND patient_id = $3 AND status = 'active'
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), groupID, patientID)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("group member not found")
	}
	return nil
}

func (r *groupRepository) ListMembers(ctx context.Context, groupID uuid.UUID) ([]*model.GroupMember, error) {
	query := `
		SELECT id, group_id, patient_id, status, joined_at, removed_at
		FROM group_members
		WHERE group_id = $1 AND status = 'active'
		ORDER BY joined_at ASC
	`
	var members []*model.GroupMember
	if err := r.db.SelectContext(ctx, &members, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	return members, nil
}

// UpsertAttendance relies on the unique constraint over
// (group_id, appointment_id, patient_id): resubmitting the same key updates
// the existing row in place.
func (r *groupRepository) UpsertAttendance(ctx context.Context, record *model.AttendanceRecord) error {
	query := `
		INSERT INTO attendance_records (
			id, group_id, appointment_id, patient_id, attended, notes,
			recorded_by, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (group_id, appointment_id, patient_id)
		DO UPDATE SET attended = EXCLUDED.attended,
					  notes = EXCLUDED.notes,
					  recorded_by = EXCLUDED.recorded_by,
					  recorded_at = EXCLUDED.recorded_at
	`
	record.RecordedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.GroupID,
		record.AppointmentID,
		record.PatientID,
		record.Attended,
		record.Notes,
		record.RecordedBy,
		record.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert attendance record: %w", err)
	}
	return nil
}

func (r *groupRepository) GetAttendance(ctx context.Context, groupID, appointmentID, patientID uuid.UUID) (*model.AttendanceRecord, error) {
	query := `
		SELECT id, group_id, appointment_id, patient_id, attended, notes,
			   recorded_by, recorded_at
		FROM attendance_records
		WHERE group_id = $1 AND appointment_id = $2 AND patient_id = $3
	`
	var record model.AttendanceRecord
	if err := r.db.GetContext(ctx, &record, query, groupID, appointmentID, patientID); err != nil {
		return nil, notFoundOr(err, "attendance record")
	}
	return &record, nil
}

func (r *groupRepository) ListAttendance(ctx context.Context, groupID, appointmentID uuid.UUID) ([]*model.AttendanceRecord, error) {
	query := `
		SELECT id, group_id, appointment_id, patient_id, attended, notes,
			   recorded_by, recorded_at
		FROM attendance_records
		WHERE group_id = $1
	`
	args := []interface{}{groupID}

	if appointmentID != uuid.Nil {
		query += " AND appointment_id = $2"
		args = append(args, appointmentID)
	}

	query += " ORDER BY recorded_at DESC"

	var records []*model.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	return records, nil
}
