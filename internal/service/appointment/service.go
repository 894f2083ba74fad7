package appointment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/email"
	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/repository"
	"github.com/williamdagle/clinic-admin-api/internal/service/audit"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
	"github.com/williamdagle/clinic-admin-api/pkg/logger"
)

// Clinic working hours used for availability slots.
const (
	workDayStartHour = 9
	workDayEndHour   = 17
	slotDuration     = 30 * time.Minute
)

type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	auditor     *audit.Service
	mailer      email.Sender
	logger      *logger.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	auditor *audit.Service,
	mailer email.Sender,
	logger *logger.Logger,
) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		auditor:     auditor,
		mailer:      mailer,
		logger:      logger,
	}
}

func isTerminal(status model.AppointmentStatus) bool {
	switch status {
	case model.AppointmentStatusCancelled, model.AppointmentStatusCompleted, model.AppointmentStatusNoShow:
		return true
	}
	return false
}

// CreateAppointment books a slot. The overlap check re-reads the clinician's
// non-terminal appointments; a concurrent double-book between the check and
// the insert loses to the last writer.
func (s *Service) CreateAppointment(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	patient, err := s.patientRepo.Get(ctx, scope.ClinicID, req.PatientID)
	if err != nil {
		if _, ok := apperrors.AsAppError(err); ok {
			return nil, apperrors.Validation("patient does not exist").WithField("patient_id", req.PatientID.String())
		}
		return nil, err
	}

	overlapping, err := s.repo.FindOverlapping(ctx, req.ClinicianID, req.StartTime, req.EndTime, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, apperrors.Conflict("clinician already has an appointment in this time range").
			WithField("conflicting_appointment_id", overlapping[0].ID.String())
	}

	apt := &model.Appointment{
		Base:        model.Base{ID: uuid.New()},
		TenantScope: scope,
		ClinicianID: req.ClinicianID,
		PatientID:   req.PatientID,
		GroupID:     req.GroupID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      model.AppointmentStatusScheduled,
		Notes:       req.Notes,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	if patient.Email != "" {
		if err := s.mailer.SendAppointmentReminder(patient.Email, patient.FirstName, apt.StartTime); err != nil {
			s.logger.Error(err, "failed to send appointment reminder",
				"appointment_id", apt.ID.String())
		}
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionCreate, "appointment", apt.ID, &audit.LogOptions{
		NewValues: apt,
	})

	return apt, nil
}

func (s *Service) GetAppointment(ctx context.Context, scope model.TenantScope, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, scope.ClinicID, id)
}

func (s *Service) ListAppointments(ctx context.Context, scope model.TenantScope, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	filters.ClinicID = scope.ClinicID
	return s.repo.List(ctx, filters)
}

func (s *Service) UpdateAppointment(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, scope.ClinicID, id)
	if err != nil {
		return nil, err
	}

	old := *apt

	if req.StartTime != nil {
		apt.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		apt.EndTime = *req.EndTime
	}
	if !apt.EndTime.After(apt.StartTime) {
		return nil, apperrors.Validation("end_time must be after start_time")
	}
	if req.Status != nil {
		apt.Status = *req.Status
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}

	// Reschedules re-run the overlap check against everyone else.
	if req.StartTime != nil || req.EndTime != nil {
		overlapping, err := s.repo.FindOverlapping(ctx, apt.ClinicianID, apt.StartTime, apt.EndTime, &apt.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check availability: %w", err)
		}
		if len(overlapping) > 0 {
			return nil, apperrors.Conflict("clinician already has an appointment in this time range").
				WithField("conflicting_appointment_id", overlapping[0].ID.String())
		}
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionUpdate, "appointment", apt.ID, &audit.LogOptions{
		OldValues: old,
		NewValues: apt,
	})

	return apt, nil
}

func (s *Service) CancelAppointment(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, id uuid.UUID, req *model.CancelAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, scope.ClinicID, id)
	if err != nil {
		return nil, err
	}

	if isTerminal(apt.Status) {
		return nil, apperrors.Conflict("appointment is already finalized").
			WithField("status", string(apt.Status))
	}

	old := *apt
	apt.Status = model.AppointmentStatusCancelled
	apt.CancelReason = &req.Reason

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionUpdate, "appointment", apt.ID, &audit.LogOptions{
		OldValues: old,
		NewValues: apt,
	})

	return apt, nil
}

// GetAvailability returns the clinician's free slots for the given date:
// working hours divided into fixed-size slots, minus any slot that
// intersects a booked non-terminal appointment.
func (s *Service) GetAvailability(ctx context.Context, clinicianID uuid.UUID, date time.Time) ([]model.TimeSlot, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), workDayStartHour, 0, 0, 0, date.Location())
	dayEnd := time.Date(date.Year(), date.Month(), date.Day(), workDayEndHour, 0, 0, 0, date.Location())

	booked, err := s.repo.ListForClinician(ctx, clinicianID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}

	sort.Slice(booked, func(i, j int) bool {
		return booked[i].StartTime.Before(booked[j].StartTime)
	})

	var free []model.TimeSlot
	for cursor := dayStart; !cursor.Add(slotDuration).After(dayEnd); cursor = cursor.Add(slotDuration) {
		slotEnd := cursor.Add(slotDuration)
		taken := false
		for _, apt := range booked {
			if isTerminal(apt.Status) {
				continue
			}
			if apt.StartTime.Before(slotEnd) && apt.EndTime.After(cursor) {
				taken = true
				break
			}
		}
		if !taken {
			free = append(free, model.TimeSlot{Start: cursor, End: slotEnd})
		}
	}

	return free, nil
}
