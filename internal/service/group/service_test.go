package group

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/service/audit"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
	"github.com/williamdagle/clinic-admin-api/pkg/logger"
)

type attendanceKey struct {
	groupID       uuid.UUID
	appointmentID uuid.UUID
	patientID     uuid.UUID
}

type fakeGroupRepo struct {
	groups     map[uuid.UUID]*model.Group
	members    map[uuid.UUID][]*model.GroupMember
	attendance map[attendanceKey]*model.AttendanceRecord
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		groups:     make(map[uuid.UUID]*model.Group),
		members:    make(map[uuid.UUID][]*model.GroupMember),
		attendance: make(map[attendanceKey]*model.AttendanceRecord),
	}
}

func (r *fakeGroupRepo) Create(_ context.Context, g *model.Group) error {
	r.groups[g.ID] = g
	return nil
}

func (r *fakeGroupRepo) Get(_ context.Context, clinicID, id uuid.UUID) (*model.Group, error) {
	g, ok := r.groups[id]
	if !ok || g.ClinicID != clinicID {
		return nil, apperrors.NotFound("group")
	}
	return g, nil
}

func (r *fakeGroupRepo) Update(_ context.Context, g *model.Group) error {
	r.groups[g.ID] = g
	return nil
}

func (r *fakeGroupRepo) List(_ context.Context, clinicID uuid.UUID) ([]*model.Group, error) {
	var out []*model.Group
	for _, g := range r.groups {
		if g.ClinicID == clinicID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) CountActiveMembers(_ context.Context, groupID uuid.UUID) (int, error) {
	count := 0
	for _, m := range r.members[groupID] {
		if m.Status == model.GroupMemberStatusActive {
			count++
		}
	}
	return count, nil
}

// GetActiveMember follows the repository contract: nil with no error when
// the patient holds no active row, never a not-found error.
func (r *fakeGroupRepo) GetActiveMember(_ context.Context, groupID, patientID uuid.UUID) (*model.GroupMember, error) {
	for _, m := range r.members[groupID] {
		if m.PatientID == patientID && m.Status == model.GroupMemberStatusActive {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeGroupRepo) AddMember(_ context.Context, member *model.GroupMember) error {
	r.members[member.GroupID] = append(r.members[member.GroupID], member)
	return nil
}

func (r *fakeGroupRepo) RemoveMember(_ context.Context, groupID, patientID uuid.UUID) error {
	for _, m := range r.members[groupID] {
		if m.PatientID == patientID && m.Status == model.GroupMemberStatusActive {
			m.Status = model.GroupMemberStatusRemoved
		}
	}
	return nil
}

func (r *fakeGroupRepo) ListMembers(_ context.Context, groupID uuid.UUID) ([]*model.GroupMember, error) {
	return r.members[groupID], nil
}

func (r *fakeGroupRepo) UpsertAttendance(_ context.Context, record *model.AttendanceRecord) error {
	key := attendanceKey{record.GroupID, record.AppointmentID, record.PatientID}
	if existing, ok := r.attendance[key]; ok {
		existing.Attended = record.Attended
		existing.Notes = record.Notes
		existing.RecordedBy = record.RecordedBy
		existing.RecordedAt = record.RecordedAt
		return nil
	}
	r.attendance[key] = record
	return nil
}

func (r *fakeGroupRepo) GetAttendance(_ context.Context, groupID, appointmentID, patientID uuid.UUID) (*model.AttendanceRecord, error) {
	record, ok := r.attendance[attendanceKey{groupID, appointmentID, patientID}]
	if !ok {
		return nil, apperrors.NotFound("attendance record")
	}
	return record, nil
}

func (r *fakeGroupRepo) ListAttendance(_ context.Context, groupID, appointmentID uuid.UUID) ([]*model.AttendanceRecord, error) {
	var out []*model.AttendanceRecord
	for key, record := range r.attendance {
		if key.groupID == groupID && key.appointmentID == appointmentID {
			out = append(out, record)
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

func (r *fakePatientRepo) Update(_ context.Context, p *model.Patient) error { return nil }
func (r *fakePatientRepo) SoftDelete(_ context.Context, _, _ uuid.UUID) error {
	return nil
}
func (r *fakePatientRepo) List(_ context.Context, _ *model.PatientFilters) ([]*model.Patient, error) {
	return nil, nil
}

type fakeAuditRepo struct{}

func (r *fakeAuditRepo) Create(_ context.Context, _ *model.AuditLog) error { return nil }
func (r *fakeAuditRepo) List(_ context.Context, _ *model.AuditFilters) ([]*model.AuditLog, error) {
	return nil, nil
}

type fixture struct {
	svc         *Service
	repo        *fakeGroupRepo
	patientRepo *fakePatientRepo
	scope       model.TenantScope
	group       *model.Group
}

func newFixture(t *testing.T, maxMembers int) *fixture {
	t.Helper()
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	repo := newFakeGroupRepo()
	patientRepo := newFakePatientRepo()
	svc := NewService(repo, patientRepo, audit.NewService(&fakeAuditRepo{}, log))

	scope := model.TenantScope{ClinicID: uuid.New(), OrganizationID: uuid.New()}
	group, err := svc.CreateGroup(context.Background(), uuid.New(), scope, &model.CreateGroupRequest{
		Name:       "Tuesday DBT",
		MaxMembers: maxMembers,
	})
	require.NoError(t, err)

	return &fixture{svc: svc, repo: repo, patientRepo: patientRepo, scope: scope, group: group}
}

func (f *fixture) addPatient(t *testing.T) *model.Patient {
	t.Helper()
	p := &model.Patient{
		Base:        model.Base{ID: uuid.New()},
		TenantScope: f.scope,
		IsActive:    true,
	}
	require.NoError(t, f.patientRepo.Create(context.Background(), p))
	return p
}

// A first-time enrollment finds no prior membership row; the lookup must
// report that as an empty result, not as an error, or every initial enroll
// would fail.
func TestEnrollMember(t *testing.T) {
	f := newFixture(t, 3)
	p := f.addPatient(t)

	member, err := f.svc.EnrollMember(context.Background(), uuid.New(), f.scope, f.group.ID, &model.EnrollMemberRequest{
		PatientID: p.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, model.GroupMemberStatusActive, member.Status)
}

func TestRemoveMemberNotEnrolledIsNotFound(t *testing.T) {
	f := newFixture(t, 3)
	p := f.addPatient(t)

	err := f.svc.RemoveMember(context.Background(), uuid.New(), f.scope, f.group.ID, p.ID)

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestEnrollDuplicateActiveMemberConflicts(t *testing.T) {
	f := newFixture(t, 3)
	p := f.addPatient(t)

	_, err := f.svc.EnrollMember(context.Background(), uuid.New(), f.scope, f.group.ID, &model.EnrollMemberRequest{PatientID: p.ID})
	require.NoError(t, err)

	_, err = f.svc.EnrollMember(context.Background(), uuid.New(), f.scope, f.group.ID, &model.EnrollMemberRequest{PatientID: p.ID})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestEnrollAtCapacityConflicts(t *testing.T) {
	f := newFixture(t, 2)

	for i := 0; i < 2; i++ {
		p := f.addPatient(t)
		_, err := f.svc.EnrollMember(context.Background(), uuid.New(), f.scope, f.group.ID, &model.EnrollMemberRequest{PatientID: p.ID})
		require.NoError(t, err)
	}

	p := f.addPatient(t)
	_, err := f.svc.EnrollMember(context.Background(), uuid.New(), f.scope, f.group.ID, &model.EnrollMemberRequest{PatientID: p.ID})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Equal(t, 2, appErr.Fields["current_members"])
}

func TestRemovedMemberFreesCapacity(t *testing.T) {
	f := newFixture(t, 1)
	p1 := f.addPatient(t)

	_, err := f.svc.EnrollMember(context.Background(), uuid.New(), f.scope, f.group.ID, &model.EnrollMemberRequest{PatientID: p1.ID})
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveMember(context.Background(), uuid.New(), f.scope, f.group.ID, p1.ID))

	p2 := f.addPatient(t)
	_, err = f.svc.EnrollMember(context.Background(), uuid.New(), f.scope, f.group.ID, &model.EnrollMemberRequest{PatientID: p2.ID})
	assert.NoError(t, err)
}

func TestRecordAttendanceIsIdempotent(t *testing.T) {
	f := newFixture(t, 3)
	p := f.addPatient(t)
	appointmentID := uuid.New()

	_, err := f.svc.EnrollMember(context.Background(), uuid.New(), f.scope, f.group.ID, &model.EnrollMemberRequest{PatientID: p.ID})
	require.NoError(t, err)

	first, err := f.svc.RecordAttendance(context.Background(), uuid.New(), f.scope, f.group.ID, &model.RecordAttendanceRequest{
		AppointmentID: appointmentID,
		PatientID:     p.ID,
		Attended:      true,
	})
	require.NoError(t, err)
	assert.True(t, first.Attended)

	// Resubmitting with a different value replaces the row instead of
	// duplicating it.
	second, err := f.svc.RecordAttendance(context.Background(), uuid.New(), f.scope, f.group.ID, &model.RecordAttendanceRequest{
		AppointmentID: appointmentID,
		PatientID:     p.ID,
		Attended:      false,
	})
	require.NoError(t, err)
	assert.False(t, second.Attended)

	records, err := f.svc.ListAttendance(context.Background(), f.scope, f.group.ID, appointmentID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.False(t, records[0].Attended)
}

func TestRecordAttendanceRequiresActiveMember(t *testing.T) {
	f := newFixture(t, 3)
	p := f.addPatient(t)

	_, err := f.svc.RecordAttendance(context.Background(), uuid.New(), f.scope, f.group.ID, &model.RecordAttendanceRequest{
		AppointmentID: uuid.New(),
		PatientID:     p.ID,
		Attended:      true,
	})

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
}
