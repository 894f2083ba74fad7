package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
)

const appointmentColumns = `
	id, clinic_id, organization_id, clinician_id, patient_id, group_id,
	start_time, end_time, status, notes, cancel_reason, created_at, updated_at
`

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, clinic_id, organization_id, clinician_id, patient_id,
			group_id, start_time, end_time, status, notes, cancel_reason,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.ClinicID,
		apt.OrganizationID,
		apt.ClinicianID,
		apt.PatientID,
		apt.GroupID,
		apt.StartTime,
		apt.EndTime,
		apt.Status,
		apt.Notes,
		apt.CancelReason,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE clinic_id = $1 AND id = $2`
	var apt model.Appointment
	if err := r.db.GetContext(ctx, &apt, query, clinicID, id); err != nil {
		return nil, notFoundOr(err, "appointment")
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET start_time = $1, end_time = $2, status = $3, notes = $4,
			cancel_reason = $5, updated_at = $6
		WHERE clinic_id = $7 AND id = $8
	`
	apt.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		apt.StartTime,
		apt.EndTime,
		apt.Status,
		apt.Notes,
		apt.CancelReason,
		apt.UpdatedAt,
		apt.ClinicID,
		apt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("appointment not found")
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE clinic_id = $1`
	args := []interface{}{filters.ClinicID}
	argCount := 2

	if filters.ClinicianID != uuid.Nil {
		query += fmt.Sprintf(" AND clinician_id = $%d", argCount)
		args = append(args, filters.ClinicianID)
		argCount++
	}
	if filters.PatientID != uuid.Nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, filters.PatientID)
		argCount++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if !filters.StartDate.IsZero() {
		query += fmt.Sprintf(" AND start_time >= $%d", argCount)
		args = append(args, filters.StartDate)
		argCount++
	}
	if !filters.EndDate.IsZero() {
		query += fmt.Sprintf(" AND end_time <= $%d", argCount)
		args = append(args, filters.EndDate)
		argCount++
	}

	query += " ORDER BY start_time ASC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filters.Limit)
	}

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) FindOverlapping(ctx context.Context, clinicianID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE clinician_id = $1
		AND status NOT IN ('cancelled', 'completed', 'no_show')
		AND start_time < $3
		AND end_time > $2
	`
	args := []interface{}{clinicianID, start, end}

	if excludeID != nil {
		query += " AND id != $4"
		args = append(args, *excludeID)
	}

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to find overlapping appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForClinician(ctx context.Context, clinicianID uuid.UUID, start, end time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE clinician_id = $1
		AND start_time >= $2
		AND end_time <= $3
		AND status NOT IN ('cancelled', 'no_show')
		ORDER BY start_time ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, clinicianID, start, end); err != nil {
		return nil, fmt.Errorf("failed to list clinician appointments: %w", err)
	}
	return appointments, nil
}
