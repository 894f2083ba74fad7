package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
)

const taskColumns = `
	id, clinic_id, organization_id, title, description, assignee_id,
	patient_id, status, priority, due_date, is_deleted, created_at, updated_at
`

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	query := `
		INSERT INTO tasks (
			id, clinic_id, organization_id, title, description, assignee_id,
			patient_id, status, priority, due_date, is_deleted, created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.ClinicID,
		task.OrganizationID,
		task.Title,
		task.Description,
		task.AssigneeID,
		task.PatientID,
		task.Status,
		task.Priority,
		task.DueDate,
		task.IsDeleted,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// Get returns the row regardless of the is_deleted flag so soft-deleted
// tasks stay retrievable by id.
func (r *taskRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE clinic_id = $1 AND id = $2`
	var task model.Task
	if err := r.db.GetContext(ctx, &task, query, clinicID, id); err != nil {
		return nil, notFoundOr(err, "task")
	}
	return &task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, assignee_id = $3, status = $4,
			priority = $5, due_date = $6, updated_at = $7
		WHERE clinic_id = $8 AND id = $9 AND is_deleted = false
	`
	task.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.AssigneeID,
		task.Status,
		task.Priority,
		task.DueDate,
		task.UpdatedAt,
		task.ClinicID,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("task not found")
	}
	return nil
}

func (r *taskRepository) SoftDelete(ctx context.Context, clinicID, id uuid.UUID) error {
	query := `
		UPDATE tasks
		SET is_deleted = true, updated_at = $1
		WHERE clinic_id = $2 AND id = $3
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), clinicID, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("task not found")
	}
	return nil
}

func (r *taskRepository) List(ctx context.Context, filters *model.TaskFilters) ([]*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE clinic_id = $1 AND is_deleted = false`
	args := []interface{}{filters.ClinicID}
	argCount := 2

	if filters.AssigneeID != uuid.Nil {
		query += fmt.Sprintf(" AND assignee_id = $%d", argCount)
		args = append(args, filters.AssigneeID)
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

	query += " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filters.Limit)
	}

	var tasks []*model.Task
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}
