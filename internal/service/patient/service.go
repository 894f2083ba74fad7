package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/repository"
	"github.com/williamdagle/clinic-admin-api/internal/service/audit"
	"github.com/williamdagle/clinic-admin-api/internal/service/event"
)

type Service struct {
	repo    repository.PatientRepository
	emitter event.Emitter
	auditor *audit.Service
}

func NewService(repo repository.PatientRepository, emitter event.Emitter, auditor *audit.Service) *Service {
	return &Service{repo: repo, emitter: emitter, auditor: auditor}
}

func (s *Service) CreatePatient(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, req *model.CreatePatientRequest) (*model.Patient, error) {
	patient := &model.Patient{
		Base:        model.Base{ID: uuid.New()},
		TenantScope: scope,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Address:     req.Address,
		Status:      model.PatientStatusActive,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	s.emitter.Emit(ctx, model.EventPatientCreated, patient)
	s.auditor.Log(ctx, actorID, scope, model.AuditActionCreate, "patient", patient.ID, &audit.LogOptions{
		NewValues: patient,
	})

	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, scope model.TenantScope, id uuid.UUID) (*model.Patient, error) {
	return s.repo.Get(ctx, scope.ClinicID, id)
}

func (s *Service) ListPatients(ctx context.Context, scope model.TenantScope, filters *model.PatientFilters) ([]*model.Patient, error) {
	filters.ClinicID = scope.ClinicID
	return s.repo.List(ctx, filters)
}

func (s *Service) UpdatePatient(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, scope.ClinicID, id)
	if err != nil {
		return nil, err
	}

	old := *patient
	wasInactive := patient.Status == model.PatientStatusInactive

	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.DateOfBirth != nil {
		patient.DateOfBirth = req.DateOfBirth
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.Status != nil {
		patient.Status = *req.Status
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}

	if wasInactive && patient.Status == model.PatientStatusActive {
		s.emitter.Emit(ctx, model.EventPatientActivated, patient)
	}
	s.auditor.Log(ctx, actorID, scope, model.AuditActionUpdate, "patient", patient.ID, &audit.LogOptions{
		OldValues: old,
		NewValues: patient,
	})

	return patient, nil
}

// DeletePatient marks the row inactive. The record stays readable through
// Get for notes and audit history.
func (s *Service) DeletePatient(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, id uuid.UUID) error {
	patient, err := s.repo.Get(ctx, scope.ClinicID, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, scope.ClinicID, id); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionDelete, "patient", patient.ID, &audit.LogOptions{
		OldValues: patient,
	})

	return nil
}
