package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
)

func (r *auditRepository) Create(ctx context.Context, log *model.AuditLog) error {
	query := `
		INSERT INTO audit_logs (
			id, user_id, clinic_id, organization_id, action, entity_type,
			entity_id, old_values, new_values, ip_address, user_agent, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	log.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.UserID,
		log.ClinicID,
		log.OrganizationID,
		log.Action,
		log.EntityType,
		log.EntityID,
		log.OldValues,
		log.NewValues,
		log.IPAddress,
		log.UserAgent,
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditLog, error) {
	query := `
		SELECT id, user_id, clinic_id, organization_id, action, entity_type,
			   entity_id, old_values, new_values, ip_address, user_agent, created_at
		FROM audit_logs
		WHERE clinic_id = $1
	`
	args := []interface{}{filters.ClinicID}
	argCount := 2

	if filters.UserID != uuid.Nil {
		query += fmt.Sprintf(" AND user_id = $%d", argCount)
		args = append(args, filters.UserID)
		argCount++
	}
	if filters.EntityType != "" {
		query += fmt.Sprintf(" AND entity_type = $%d", argCount)
		args = append(args, filters.EntityType)
		argCount++
	}
	if filters.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", argCount)
		args = append(args, filters.Action)
		argCount++
	}
	if !filters.StartDate.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", argCount)
		args = append(args, filters.StartDate)
		argCount++
	}
	if !filters.EndDate.IsZero() {
		query += fmt.Sprintf(" AND created_at <= $%d", argCount)
		args = append(args, filters.EndDate)
		argCount++
	}

	query += " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filters.Limit)
	}

	var logs []*model.AuditLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}
