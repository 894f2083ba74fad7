package appointment

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/service/audit"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
	"github.com/williamdagle/clinic-admin-api/pkg/logger"
)

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, apt *model.Appointment) error {
	r.appointments[apt.ID] = apt
	return nil
}

func (r *fakeAppointmentRepo) Get(_ context.Context, clinicID, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := r.appointments[id]
	if !ok || apt.ClinicID != clinicID {
		return nil, apperrors.NotFound("appointment")
	}
	return apt, nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, apt *model.Appointment) error {
	r.appointments[apt.ID] = apt
	return nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range r.appointments {
		if apt.ClinicID == filters.ClinicID {
			out = append(out, apt)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) FindOverlapping(_ context.Context, clinicianID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range r.appointments {
		if apt.ClinicianID != clinicianID {
			continue
		}
		if excludeID != nil && apt.ID == *excludeID {
			continue
		}
		if isTerminal(apt.Status) {
			continue
		}
		if apt.StartTime.Before(end) && apt.EndTime.After(start) {
			out = append(out, apt)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListForClinician(_ context.Context, clinicianID uuid.UUID, start, end time.Time) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range r.appointments {
		if apt.ClinicianID == clinicianID && apt.StartTime.Before(end) && apt.EndTime.After(start) {
			out = append(out, apt)
		}
	}
	return out, nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]*model.Patient)}
}

func (r *fakePatientRepo) Create(_ context.Context, p *model.Patient) error {
	r.patients[p.ID] = p
	return nil
}

func (r *fakePatientRepo) Get(_ context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
	p, ok := r.patients[id]
	if !ok || p.ClinicID != clinicID {
		return nil, apperrors.NotFound("patient")
	}
	return p, nil
}

func (r *fakePatientRepo) Update(_ context.Context, p *model.Patient) error {
	r.patients[p.ID] = p
	return nil
}

func (r *fakePatientRepo) SoftDelete(_ context.Context, _, id uuid.UUID) error {
	if p, ok := r.patients[id]; ok {
		p.IsActive = false
	}
	return nil
}

func (r *fakePatientRepo) List(_ context.Context, _ *model.PatientFilters) ([]*model.Patient, error) {
	var out []*model.Patient
	for _, p := range r.patients {
		out = append(out, p)
	}
	return out, nil
}

type fakeAuditRepo struct{}

func (r *fakeAuditRepo) Create(_ context.Context, _ *model.AuditLog) error { return nil }
func (r *fakeAuditRepo) List(_ context.Context, _ *model.AuditFilters) ([]*model.AuditLog, error) {
	return nil, nil
}

type fakeMailer struct {
	sent    int
	sendErr error
}

func (m *fakeMailer) SendAppointmentReminder(_, _ string, _ time.Time) error {
	m.sent++
	return m.sendErr
}

type fixture struct {
	svc         *Service
	repo        *fakeAppointmentRepo
	patientRepo *fakePatientRepo
	mailer      *fakeMailer
	scope       model.TenantScope
	patient     *model.Patient
	clinician   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	repo := newFakeAppointmentRepo()
	patientRepo := newFakePatientRepo()
	mailer := &fakeMailer{}
	auditor := audit.NewService(&fakeAuditRepo{}, log)

	scope := model.TenantScope{ClinicID: uuid.New(), OrganizationID: uuid.New()}
	patient := &model.Patient{
		Base:        model.Base{ID: uuid.New()},
		TenantScope: scope,
		FirstName:   "Iris",
		LastName:    "Webb",
		Email:       "iris@example.com",
		IsActive:    true,
	}
	require.NoError(t, patientRepo.Create(context.Background(), patient))

	return &fixture{
		svc:         NewService(repo, patientRepo, auditor, mailer, log),
		repo:        repo,
		patientRepo: patientRepo,
		mailer:      mailer,
		scope:       scope,
		patient:     patient,
		clinician:   uuid.New(),
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestCreateAppointment(t *testing.T) {
	f := newFixture(t)

	apt, err := f.svc.CreateAppointment(context.Background(), uuid.New(), f.scope, &model.CreateAppointmentRequest{
		ClinicianID: f.clinician,
		PatientID:   f.patient.ID,
		StartTime:   at(10, 0),
		EndTime:     at(11, 0),
	})

	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
	assert.Equal(t, 1, f.mailer.sent)
}

func TestCreateAppointmentOverlapConflict(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateAppointment(context.Background(), uuid.New(), f.scope, &model.CreateAppointmentRequest{
		ClinicianID: f.clinician,
		PatientID:   f.patient.ID,
		StartTime:   at(10, 0),
		EndTime:     at(11, 0),
	})
	require.NoError(t, err)

	// 10:30-11:30 intersects 10:00-11:00.
	_, err = f.svc.CreateAppointment(context.Background(), uuid.New(), f.scope, &model.CreateAppointmentRequest{
		ClinicianID: f.clinician,
		PatientID:   f.patient.ID,
		StartTime:   at(10, 30),
		EndTime:     at(11, 30),
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)

	// Back-to-back 11:00-12:00 does not.
	_, err = f.svc.CreateAppointment(context.Background(), uuid.New(), f.scope, &model.CreateAppointmentRequest{
		ClinicianID: f.clinician,
		PatientID:   f.patient.ID,
		StartTime:   at(11, 0),
		EndTime:     at(12, 0),
	})
	assert.NoError(t, err)
}

func TestCreateAppointmentOverlapIgnoresCancelled(t *testing.T) {
	f := newFixture(t)

	apt, err := f.svc.CreateAppointment(context.Background(), uuid.New(), f.scope, &model.CreateAppointmentRequest{
		ClinicianID: f.clinician,
		PatientID:   f.patient.ID,
		StartTime:   at(10, 0),
		EndTime:     at(11, 0),
	})
	require.NoError(t, err)

	_, err = f.svc.CancelAppointment(context.Background(), uuid.New(), f.scope, apt.ID, &model.CancelAppointmentRequest{
		Reason: "patient request",
	})
	require.NoError(t, err)

	_, err = f.svc.CreateAppointment(context.Background(), uuid.New(), f.scope, &model.CreateAppointmentRequest{
		ClinicianID: f.clinician,
		PatientID:   f.patient.ID,
		StartTime:   at(10, 0),
		EndTime:     at(11, 0),
	})
	assert.NoError(t, err, "cancelled slots are free again")
}

func TestCreateAppointmentEmailFailureDoesNotRollBack(t *testing.T) {
	f := newFixture(t)
	f.mailer.sendErr = errors.New("smtp unavailable")

	apt, err := f.svc.CreateAppointment(context.Background(), uuid.New(), f.scope, &model.CreateAppointmentRequest{
		ClinicianID: f.clinician,
		PatientID:   f.patient.ID,
		StartTime:   at(9, 0),
		EndTime:     at(9, 30),
	})

	require.NoError(t, err)
	assert.Contains(t, f.repo.appointments, apt.ID)
}

func TestCancelFinalizedAppointmentConflicts(t *testing.T) {
	f := newFixture(t)

	apt, err := f.svc.CreateAppointment(context.Background(), uuid.New(), f.scope, &model.CreateAppointmentRequest{
		ClinicianID: f.clinician,
		PatientID:   f.patient.ID,
		StartTime:   at(14, 0),
		EndTime:     at(15, 0),
	})
	require.NoError(t, err)

	_, err = f.svc.CancelAppointment(context.Background(), uuid.New(), f.scope, apt.ID, &model.CancelAppointmentRequest{Reason: "no show"})
	require.NoError(t, err)

	_, err = f.svc.CancelAppointment(context.Background(), uuid.New(), f.scope, apt.ID, &model.CancelAppointmentRequest{Reason: "again"})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestGetAvailabilityExcludesBookedSlots(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateAppointment(context.Background(), uuid.New(), f.scope, &model.CreateAppointmentRequest{
		ClinicianID: f.clinician,
		PatientID:   f.patient.ID,
		StartTime:   at(10, 0),
		EndTime:     at(11, 0),
	})
	require.NoError(t, err)

	slots, err := f.svc.GetAvailability(context.Background(), f.clinician, at(0, 0))
	require.NoError(t, err)

	// 9:00-17:00 in 30-minute slots is 16 slots; the booking removes two.
	assert.Len(t, slots, 14)
	for _, slot := range slots {
		overlapsBooking := slot.Start.Before(at(11, 0)) && slot.End.After(at(10, 0))
		assert.False(t, overlapsBooking, "slot %v should not intersect the booking", slot)
	}
}
