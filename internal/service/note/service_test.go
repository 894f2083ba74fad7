package note

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

type fakeNoteRepo struct {
	notes map[uuid.UUID]*model.ClinicalNote
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: make(map[uuid.UUID]*model.ClinicalNote)}
}

func (r *fakeNoteRepo) Create(_ context.Context, note *model.ClinicalNote) error {
	r.notes[note.ID] = note
	return nil
}

func (r *fakeNoteRepo) Get(_ context.Context, clinicID, id uuid.UUID) (*model.ClinicalNote, error) {
	note, ok := r.notes[id]
	if !ok || note.ClinicID != clinicID || note.IsDeleted {
		return nil, apperrors.NotFound("note")
	}
	return note, nil
}

func (r *fakeNoteRepo) Update(_ context.Context, note *model.ClinicalNote) error {
	r.notes[note.ID] = note
	return nil
}

func (r *fakeNoteRepo) SoftDelete(_ context.Context, _, id uuid.UUID) error {
	r.notes[id].IsDeleted = true
	return nil
}

func (r *fakeNoteRepo) List(_ context.Context, filters *model.NoteFilters) ([]*model.ClinicalNote, error) {
	var out []*model.ClinicalNote
	for _, note := range r.notes {
		if note.ClinicID == filters.ClinicID && !note.IsDeleted {
			out = append(out, note)
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

func (r *fakePatientRepo) Update(_ context.Context, _ *model.Patient) error   { return nil }
func (r *fakePatientRepo) SoftDelete(_ context.Context, _, _ uuid.UUID) error { return nil }
func (r *fakePatientRepo) List(_ context.Context, _ *model.PatientFilters) ([]*model.Patient, error) {
	return nil, nil
}

type fakeAuditRepo struct{}

func (r *fakeAuditRepo) Create(_ context.Context, _ *model.AuditLog) error { return nil }
func (r *fakeAuditRepo) List(_ context.Context, _ *model.AuditFilters) ([]*model.AuditLog, error) {
	return nil, nil
}

func newFixture(t *testing.T) (*Service, model.TenantScope, *model.Patient) {
	t.Helper()
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	patientRepo := newFakePatientRepo()
	svc := NewService(newFakeNoteRepo(), patientRepo, audit.NewService(&fakeAuditRepo{}, log))

	scope := model.TenantScope{ClinicID: uuid.New(), OrganizationID: uuid.New()}
	patient := &model.Patient{
		Base:        model.Base{ID: uuid.New()},
		TenantScope: scope,
		IsActive:    true,
	}
	require.NoError(t, patientRepo.Create(context.Background(), patient))

	return svc, scope, patient
}

func TestCreateNote(t *testing.T) {
	svc, scope, patient := newFixture(t)
	author := uuid.New()

	note, err := svc.CreateNote(context.Background(), author, scope, &model.CreateNoteRequest{
		PatientID: patient.ID,
		NoteType:  model.NoteTypeProgress,
		Content:   "Patient reports improved sleep.",
	})

	require.NoError(t, err)
	assert.Equal(t, author, note.AuthorID)
	assert.Equal(t, model.NoteTypeProgress, note.NoteType)
}

func TestCreateNoteUnknownPatientRejected(t *testing.T) {
	svc, scope, _ := newFixture(t)

	_, err := svc.CreateNote(context.Background(), uuid.New(), scope, &model.CreateNoteRequest{
		PatientID: uuid.New(),
		NoteType:  model.NoteTypeIntake,
		Content:   "first visit",
	})

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
}

func TestUpdateNoteAuthorOnly(t *testing.T) {
	svc, scope, patient := newFixture(t)
	author := uuid.New()

	note, err := svc.CreateNote(context.Background(), author, scope, &model.CreateNoteRequest{
		PatientID: patient.ID,
		NoteType:  model.NoteTypeAssessment,
		Content:   "initial assessment",
	})
	require.NoError(t, err)

	amended := "amended assessment"
	_, err = svc.UpdateNote(context.Background(), uuid.New(), scope, note.ID, &model.UpdateNoteRequest{
		Content: &amended,
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)

	updated, err := svc.UpdateNote(context.Background(), author, scope, note.ID, &model.UpdateNoteRequest{
		Content: &amended,
	})
	require.NoError(t, err)
	assert.Equal(t, amended, updated.Content)
}

func TestDeleteNoteHidesFromReads(t *testing.T) {
	svc, scope, patient := newFixture(t)
	author := uuid.New()

	note, err := svc.CreateNote(context.Background(), author, scope, &model.CreateNoteRequest{
		PatientID: patient.ID,
		NoteType:  model.NoteTypeDischarge,
		Content:   "discharged to outpatient care",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteNote(context.Background(), author, scope, note.ID))

	_, err = svc.GetNote(context.Background(), scope, note.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}
