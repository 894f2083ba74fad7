package group

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
	repo        repository.GroupRepository
	patientRepo repository.PatientRepository
	auditor     *audit.Service
}

func NewService(repo repository.GroupRepository, patientRepo repository.PatientRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, patientRepo: patientRepo, auditor: auditor}
}

func (s *Service) CreateGroup(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, req *model.CreateGroupRequest) (*model.Group, error) {
	group := &model.Group{
		Base:        model.Base{ID: uuid.New()},
		TenantScope: scope,
		Name:        req.Name,
		Description: req.Description,
		MaxMembers:  req.MaxMembers,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionCreate, "group", group.ID, &audit.LogOptions{
		NewValues: group,
	})

	return group, nil
}

func (s *Service) GetGroup(ctx context.Context, scope model.TenantScope, id uuid.UUID) (*model.Group, error) {
	return s.repo.Get(ctx, scope.ClinicID, id)
}

func (s *Service) ListGroups(ctx context.Context, scope model.TenantScope) ([]*model.Group, error) {
	return s.repo.List(ctx, scope.ClinicID)
}

func (s *Service) UpdateGroup(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, id uuid.UUID, req *model.UpdateGroupRequest) (*model.Group, error) {
	group, err := s.repo.Get(ctx, scope.ClinicID, id)
	if err != nil {
		return nil, err
	}

	old := *group

	if req.Name != nil {
		group.Name = *req.Name
	}
	if req.Description != nil {
		group.Description = *req.Description
	}
	if req.MaxMembers != nil {
		// Shrinking below the current member count is allowed; the cap only
		// gates new enrollments.
		group.MaxMembers = *req.MaxMembers
	}
	if req.IsActive != nil {
		group.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionUpdate, "group", group.ID, &audit.LogOptions{
		OldValues: old,
		NewValues: group,
	})

	return group, nil
}

// EnrollMember adds a patient to the group. The capacity count is re-read
// inside this call; concurrent enrollments can briefly exceed the cap, which
// is accepted (last writer wins).
func (s *Service) EnrollMember(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, groupID uuid.UUID, req *model.EnrollMemberRequest) (*model.GroupMember, error) {
	group, err := s.repo.Get(ctx, scope.ClinicID, groupID)
	if err != nil {
		return nil, err
	}

	if _, err := s.patientRepo.Get(ctx, scope.ClinicID, req.PatientID); err != nil {
		if _, ok := apperrors.AsAppError(err); ok {
			return nil, apperrors.Validation("patient does not exist").WithField("patient_id", req.PatientID.String())
		}
		return nil, err
	}

	if existing, err := s.repo.GetActiveMember(ctx, groupID, req.PatientID); err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	} else if existing != nil {
		return nil, apperrors.Conflict("patient is already an active member of this group")
	}

	count, err := s.repo.CountActiveMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	if count >= group.MaxMembers {
		return nil, apperrors.Conflict("group is at capacity").
			WithField("max_members", group.MaxMembers).
			WithField("current_members", count)
	}

	member := &model.GroupMember{
		ID:        uuid.New(),
		GroupID:   groupID,
		PatientID: req.PatientID,
		Status:    model.GroupMemberStatusActive,
		JoinedAt:  time.Now(),
	}

	if err := s.repo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to enroll member: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionCreate, "group_member", member.ID, &audit.LogOptions{
		NewValues: member,
	})

	return member, nil
}

func (s *Service) RemoveMember(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, groupID, patientID uuid.UUID) error {
	if _, err := s.repo.Get(ctx, scope.ClinicID, groupID); err != nil {
		return err
	}

	member, err := s.repo.GetActiveMember(ctx, groupID, patientID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if member == nil {
		return apperrors.NotFound("group member")
	}

	if err := s.repo.RemoveMember(ctx, groupID, patientID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionDelete, "group_member", member.ID, &audit.LogOptions{
		OldValues: member,
	})

	return nil
}

func (s *Service) ListMembers(ctx context.Context, scope model.TenantScope, groupID uuid.UUID) ([]*model.GroupMember, error) {
	if _, err := s.repo.Get(ctx, scope.ClinicID, groupID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, groupID)
}

// RecordAttendance upserts the attendance row for (group, appointment,
// patient). Resubmission with a different attended value replaces the row,
// it never duplicates it.
func (s *Service) RecordAttendance(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, groupID uuid.UUID, req *model.RecordAttendanceRequest) (*model.AttendanceRecord, error) {
	if _, err := s.repo.Get(ctx, scope.ClinicID, groupID); err != nil {
		return nil, err
	}

	member, err := s.repo.GetActiveMember(ctx, groupID, req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if member == nil {
		return nil, apperrors.Validation("patient is not an active member of this group").
			WithField("patient_id", req.PatientID.String())
	}

	record := &model.AttendanceRecord{
		ID:            uuid.New(),
		GroupID:       groupID,
		AppointmentID: req.AppointmentID,
		PatientID:     req.PatientID,
		Attended:      req.Attended,
		Notes:         req.Notes,
		RecordedBy:    actorID,
		RecordedAt:    time.Now(),
	}

	if err := s.repo.UpsertAttendance(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record attendance: %w", err)
	}

	stored, err := s.repo.GetAttendance(ctx, groupID, req.AppointmentID, req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("failed to read attendance: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionUpdate, "attendance", stored.ID, &audit.LogOptions{
		NewValues: stored,
	})

	return stored, nil
}

func (s *Service) ListAttendance(ctx context.Context, scope model.TenantScope, groupID, appointmentID uuid.UUID) ([]*model.AttendanceRecord, error) {
	if _, err := s.repo.Get(ctx, scope.ClinicID, groupID); err != nil {
		return nil, err
	}
	return s.repo.ListAttendance(ctx, groupID, appointmentID)
}
