package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
)

const formDefinitionColumns = `
	id, clinic_id, organization_id, name, category, current_version_id,
	compliance_required, is_active, created_at, updated_at
`

func (r *formRepository) CreateDefinition(ctx context.Context, def *model.FormDefinition, version *model.FormVersion) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	def.CreatedAt = time.Now()
	def.UpdatedAt = time.Now()

	defQuery := `
		INSERT INTO form_definitions (
			id, clinic_id, organization_id, name, category,
			compliance_required, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.ExecContext(ctx, defQuery,
		def.ID,
		def.ClinicID,
		def.OrganizationID,
		def.Name,
		def.Category,
		def.ComplianceRequired,
		def.IsActive,
		def.CreatedAt,
		def.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create form definition: %w", err)
	}

	version.CreatedAt = time.Now()

	verQuery := `
		INSERT INTO form_versions (id, form_id, version, schema, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(ctx, verQuery,
		version.ID,
		version.FormID,
		version.Version,
		version.Schema,
		version.CreatedBy,
		version.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create form version: %w", err)
	}

	pointQuery := `UPDATE form_definitions SET current_version_id = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, pointQuery, version.ID, def.ID); err != nil {
		return fmt.Errorf("failed to point definition at version: %w", err)
	}
	def.CurrentVersionID = &version.ID

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit form creation: %w", err)
	}
	return nil
}

func (r *formRepository) GetDefinition(ctx context.Context, clinicID, id uuid.UUID) (*model.FormDefinition, error) {
	query := `SELECT ` + formDefinitionColumns + ` FROM form_definitions WHERE clinic_id = $1 AND id = $2`
	var def model.FormDefinition
	if err := r.db.GetContext(ctx, &def, query, clinicID, id); err != nil {
		return nil, notFoundOr(err, "form")
	}
	return &def, nil
}

func (r *formRepository) ListDefinitions(ctx context.Context, filters *model.FormFilters) ([]*model.FormDefinition, error) {
	query := `SELECT ` + formDefinitionColumns + ` FROM form_definitions WHERE clinic_id = $1 AND is_active = true`
	args := []interface{}{filters.ClinicID}
	argCount := 2

	if filters.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argCount)
		args = append(args, filters.Category)
		argCount++
	}

	query += " ORDER BY name ASC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filters.Limit)
	}

	var defs []*model.FormDefinition
	if err := r.db.SelectContext(ctx, &defs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list form definitions: %w", err)
	}
	return defs, nil
}

func (r *formRepository) ListComplianceForms(ctx context.Context, clinicID uuid.UUID) ([]*model.FormDefinition, error) {
	query := `
		SELECT ` + formDefinitionColumns + `
		FROM form_definitions
		WHERE clinic_id = $1 AND compliance_required = true AND is_active = true
	`
	var defs []*model.FormDefinition
	if err := r.db.SelectContext(ctx, &defs, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list compliance forms: %w", err)
	}
	return defs, nil
}

func (r *formRepository) GetVersion(ctx context.Context, id uuid.UUID) (*model.FormVersion, error) {
	query := `
		SELECT id, form_id, version, schema, created_by, created_at
		FROM form_versions
		WHERE id = $1
	`
	var version model.FormVersion
	if err := r.db.GetContext(ctx, &version, query, id); err != nil {
		return nil, notFoundOr(err, "form version")
	}
	return &version, nil
}

func (r *formRepository) ListVersions(ctx context.Context, formID uuid.UUID) ([]*model.FormVersion, error) {
	query := `
		SELECT id, form_id, version, schema, created_by, created_at
		FROM form_versions
		WHERE form_id = $1
		ORDER BY version DESC
	`
	var versions []*model.FormVersion
	if err := r.db.SelectContext(ctx, &versions, query, formID); err != nil {
		return nil, fmt.Errorf("failed to list form versions: %w", err)
	}
	return versions, nil
}

// PublishVersion appends the version row and repoints the parent. The old
// version row is left untouched.
func (r *formRepository) PublishVersion(ctx context.Context, formID uuid.UUID, version *model.FormVersion) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	version.CreatedAt = time.Now()

	insertQuery := `
		INSERT INTO form_versions (id, form_id, version, schema, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(ctx, insertQuery,
		version.ID,
		version.FormID,
		version.Version,
		version.Schema,
		version.CreatedBy,
		version.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert form version: %w", err)
	}

	pointQuery := `UPDATE form_definitions SET current_version_id = $1, updated_at = $2 WHERE id = $3`
	result, err := tx.ExecContext(ctx, pointQuery, version.ID, time.Now(), formID)
	if err != nil {
		return fmt.Errorf("failed to repoint form definition: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("form definition not found")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit version publish: %w", err)
	}
	return nil
}

func (r *formRepository) CreateAssignment(ctx context.Context, assignment *model.FormAssignment) error {
	query := `
		INSERT INTO form_assignments (
			id, clinic_id, organization_id, form_id, version_id, patient_id,
			assigned_by, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		assignment.ID,
		assignment.ClinicID,
		assignment.OrganizationID,
		assignment.FormID,
		assignment.VersionID,
		assignment.PatientID,
		assignment.AssignedBy,
		assignment.Status,
		assignment.CreatedAt,
		assignment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create form assignment: %w", err)
	}
	return nil
}

func (r *formRepository) GetAssignment(ctx context.Context, clinicID, id uuid.UUID) (*model.FormAssignment, error) {
	query := `
		SELECT id, clinic_id, organization_id, form_id, version_id, patient_id,
			   assigned_by, status, response, completed_at, created_at, updated_at
		FROM form_assignments
		WHERE clinic_id = $1 AND id = $2
	`
	var assignment model.FormAssignment
	if err := r.db.GetContext(ctx, &assignment, query, clinicID, id); err != nil {
		return nil, notFoundOr(err, "form assignment")
	}
	return &assignment, nil
}

func (r *formRepository) ListAssignments(ctx context.Context, clinicID, patientID uuid.UUID) ([]*model.FormAssignment, error) {
	query := `
		SELECT id, clinic_id, organization_id, form_id, version_id, patient_id,
			   assigned_by, status, response, completed_at, created_at, updated_at
		FROM form_assignments
		WHERE clinic_id = $1
	`
	args := []interface{}{clinicID}

	if patientID != uuid.Nil {
		query += " AND patient_id = $2"
		args = append(args, patientID)
	}

	query += " ORDER BY created_at DESC"

	var assignments []*model.FormAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list form assignments: %w", err)
	}
	return assignments, nil
}

func (r *formRepository) CompleteAssignment(ctx context.Context, assignment *model.FormAssignment) error {
	query := `
		UPDATE form_assignments
		SET status = $1, response = $2, completed_at = $3, updated_at = $4
		WHERE clinic_id = $5 AND id = $6
	`
	assignment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		assignment.Status,
		assignment.Response,
		assignment.CompletedAt,
		assignment.UpdatedAt,
		assignment.ClinicID,
		assignment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete form assignment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("form assignment not found")
	}
	return nil
}
