package note

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/repository"
	"github.com/williamdagle/clinic-admin-api/internal/service/audit"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
)

type Service struct {
	repo        repository.NoteRepository
	patientRepo repository.PatientRepository
	auditor     *audit.Service
}

func NewService(repo repository.NoteRepository, patientRepo repository.PatientRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, patientRepo: patientRepo, auditor: auditor}
}

// CreateNote records a clinical note. The author is the acting profile, the
// patient must exist in the caller's clinic.
func (s *Service) CreateNote(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, req *model.CreateNoteRequest) (*model.ClinicalNote, error) {
	if _, err := s.patientRepo.Get(ctx, scope.ClinicID, req.PatientID); err != nil {
		if _, ok := apperrors.AsAppError(err); ok {
			return nil, apperrors.Validation("patient does not exist").WithField("patient_id", req.PatientID.String())
		}
		return nil, err
	}

	note := &model.ClinicalNote{
		Base:        model.Base{ID: uuid.New()},
		TenantScope: scope,
		PatientID:   req.PatientID,
		AuthorID:    actorID,
		NoteType:    req.NoteType,
		Content:     req.Content,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionCreate, "clinical_note", note.ID, &audit.LogOptions{
		NewValues: note,
	})

	return note, nil
}

func (s *Service) GetNote(ctx context.Context, scope model.TenantScope, id uuid.UUID) (*model.ClinicalNote, error) {
	return s.repo.Get(ctx, scope.ClinicID, id)
}

func (s *Service) ListNotes(ctx context.Context, scope model.TenantScope, filters *model.NoteFilters) ([]*model.ClinicalNote, error) {
	filters.ClinicID = scope.ClinicID
	return s.repo.List(ctx, filters)
}

// UpdateNote lets only the original author amend the content.
func (s *Service) UpdateNote(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, id uuid.UUID, req *model.UpdateNoteRequest) (*model.ClinicalNote, error) {
	note, err := s.repo.Get(ctx, scope.ClinicID, id)
	if err != nil {
		return nil, err
	}

	if note.AuthorID != actorID {
		return nil, apperrors.Forbidden("only the author can amend a note")
	}

	old := *note
	if req.Content != nil {
		note.Content = *req.Content
	}

	if err := s.repo.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionUpdate, "clinical_note", note.ID, &audit.LogOptions{
		OldValues: old,
		NewValues: note,
	})

	return note, nil
}

func (s *Service) DeleteNote(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, id uuid.UUID) error {
	note, err := s.repo.Get(ctx, scope.ClinicID, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, scope.ClinicID, id); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionDelete, "clinical_note", note.ID, &audit.LogOptions{
		OldValues: note,
	})

	return nil
}
