package form

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/repository"
	"github.com/williamdagle/clinic-admin-api/internal/service/audit"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
)

type Service struct {
	repo        repository.FormRepository
	patientRepo repository.PatientRepository
	auditor     *audit.Service
}

func NewService(repo repository.FormRepository, patientRepo repository.PatientRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, patientRepo: patientRepo, auditor: auditor}
}

// CreateForm inserts the definition with version 1 as its current version.
func (s *Service) CreateForm(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, req *model.CreateFormRequest) (*model.FormDefinition, error) {
	def := &model.FormDefinition{
		Base:               model.Base{ID: uuid.New()},
		TenantScope:        scope,
		Name:               req.Name,
		Category:           req.Category,
		ComplianceRequired: req.ComplianceRequired,
		IsActive:           true,
	}
	version := &model.FormVersion{
		ID:        uuid.New(),
		FormID:    def.ID,
		Version:   1,
		Schema:    req.Schema,
		CreatedBy: actorID,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateDefinition(ctx, def, version); err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionCreate, "form", def.ID, &audit.LogOptions{
		NewValues: def,
	})

	return def, nil
}

func (s *Service) GetForm(ctx context.Context, scope model.TenantScope, id uuid.UUID) (*model.FormDefinition, error) {
	return s.repo.GetDefinition(ctx, scope.ClinicID, id)
}

func (s *Service) ListForms(ctx context.Context, scope model.TenantScope, filters *model.FormFilters) ([]*model.FormDefinition, error) {
	filters.ClinicID = scope.ClinicID
	return s.repo.ListDefinitions(ctx, filters)
}

// PublishVersion appends a new version and repoints the definition. Earlier
// versions and outstanding assignments are untouched.
func (s *Service) PublishVersion(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, formID uuid.UUID, req *model.PublishVersionRequest) (*model.FormVersion, error) {
	def, err := s.repo.GetDefinition(ctx, scope.ClinicID, formID)
	if err != nil {
		return nil, err
	}

	versions, err := s.repo.ListVersions(ctx, def.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	next := 1
	for _, v := range versions {
		if v.Version >= next {
			next = v.Version + 1
		}
	}

	version := &model.FormVersion{
		ID:        uuid.New(),
		FormID:    def.ID,
		Version:   next,
		Schema:    req.Schema,
		CreatedBy: actorID,
		CreatedAt: time.Now(),
	}

	if err := s.repo.PublishVersion(ctx, def.ID, version); err != nil {
		return nil, fmt.Errorf("failed to publish version: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionUpdate, "form", def.ID, &audit.LogOptions{
		NewValues: version,
	})

	return version, nil
}

func (s *Service) ListVersions(ctx context.Context, scope model.TenantScope, formID uuid.UUID) ([]*model.FormVersion, error) {
	if _, err := s.repo.GetDefinition(ctx, scope.ClinicID, formID); err != nil {
		return nil, err
	}
	return s.repo.ListVersions(ctx, formID)
}

// AssignForm pins the current version onto the assignment so a later publish
// never changes what the patient is asked to fill.
func (s *Service) AssignForm(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, req *model.AssignFormRequest) (*model.FormAssignment, error) {
	def, err := s.repo.GetDefinition(ctx, scope.ClinicID, req.FormID)
	if err != nil {
		return nil, err
	}
	if def.CurrentVersionID == nil {
		return nil, apperrors.Conflict("form has no published version")
	}

	if _, err := s.patientRepo.Get(ctx, scope.ClinicID, req.PatientID); err != nil {
		if _, ok := apperrors.AsAppError(err); ok {
			return nil, apperrors.Validation("patient does not exist").WithField("patient_id", req.PatientID.String())
		}
		return nil, err
	}

	assignment := &model.FormAssignment{
		Base:        model.Base{ID: uuid.New()},
		TenantScope: scope,
		FormID:      def.ID,
		VersionID:   *def.CurrentVersionID,
		PatientID:   req.PatientID,
		AssignedBy:  actorID,
		Status:      model.FormAssignmentStatusPending,
	}

	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to assign form: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionCreate, "form_assignment", assignment.ID, &audit.LogOptions{
		NewValues: assignment,
	})

	return assignment, nil
}

func (s *Service) ListAssignments(ctx context.Context, scope model.TenantScope, patientID uuid.UUID) ([]*model.FormAssignment, error) {
	return s.repo.ListAssignments(ctx, scope.ClinicID, patientID)
}

// CompleteAssignment stores the response against the version the form was
// assigned with.
func (s *Service) CompleteAssignment(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, id uuid.UUID, req *model.CompleteAssignmentRequest) (*model.FormAssignment, error) {
	assignment, err := s.repo.GetAssignment(ctx, scope.ClinicID, id)
	if err != nil {
		return nil, err
	}

	if assignment.Status == model.FormAssignmentStatusCompleted {
		return nil, apperrors.Conflict("assignment is already completed")
	}

	now := time.Now()
	assignment.Status = model.FormAssignmentStatusCompleted
	assignment.Response = req.Response
	assignment.CompletedAt = &now

	if err := s.repo.CompleteAssignment(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to complete assignment: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionUpdate, "form_assignment", assignment.ID, &audit.LogOptions{
		NewValues: assignment,
	})

	return assignment, nil
}
