package form

import (
	"context"
	"encoding/json"
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

type fakeFormRepo struct {
	definitions map[uuid.UUID]*model.FormDefinition
	versions    map[uuid.UUID][]*model.FormVersion
	assignments map[uuid.UUID]*model.FormAssignment
}

func newFakeFormRepo() *fakeFormRepo {
	return &fakeFormRepo{
		definitions: make(map[uuid.UUID]*model.FormDefinition),
		versions:    make(map[uuid.UUID][]*model.FormVersion),
		assignments: make(map[uuid.UUID]*model.FormAssignment),
	}
}

func (r *fakeFormRepo) CreateDefinition(_ context.Context, def *model.FormDefinition, version *model.FormVersion) error {
	def.CurrentVersionID = &version.ID
	r.definitions[def.ID] = def
	r.versions[def.ID] = append(r.versions[def.ID], version)
	return nil
}

func (r *fakeFormRepo) GetDefinition(_ context.Context, clinicID, id uuid.UUID) (*model.FormDefinition, error) {
	def, ok := r.definitions[id]
	if !ok || def.ClinicID != clinicID {
		return nil, apperrors.NotFound("form")
	}
	return def, nil
}

func (r *fakeFormRepo) ListDefinitions(_ context.Context, filters *model.FormFilters) ([]*model.FormDefinition, error) {
	var out []*model.FormDefinition
	for _, def := range r.definitions {
		if def.ClinicID == filters.ClinicID {
			out = append(out, def)
		}
	}
	return out, nil
}

func (r *fakeFormRepo) ListComplianceForms(_ context.Context, clinicID uuid.UUID) ([]*model.FormDefinition, error) {
	var out []*model.FormDefinition
	for _, def := range r.definitions {
		if def.ClinicID == clinicID && def.ComplianceRequired && def.IsActive {
			out = append(out, def)
		}
	}
	return out, nil
}

func (r *fakeFormRepo) GetVersion(_ context.Context, id uuid.UUID) (*model.FormVersion, error) {
	for _, versions := range r.versions {
		for _, v := range versions {
			if v.ID == id {
				return v, nil
			}
		}
	}
	return nil, apperrors.NotFound("form version")
}

func (r *fakeFormRepo) ListVersions(_ context.Context, formID uuid.UUID) ([]*model.FormVersion, error) {
	return r.versions[formID], nil
}

func (r *fakeFormRepo) PublishVersion(_ context.Context, formID uuid.UUID, version *model.FormVersion) error {
	r.versions[formID] = append(r.versions[formID], version)
	r.definitions[formID].CurrentVersionID = &version.ID
	return nil
}

func (r *fakeFormRepo) CreateAssignment(_ context.Context, assignment *model.FormAssignment) error {
	r.assignments[assignment.ID] = assignment
	return nil
}

func (r *fakeFormRepo) GetAssignment(_ context.Context, clinicID, id uuid.UUID) (*model.FormAssignment, error) {
	assignment, ok := r.assignments[id]
	if !ok || assignment.ClinicID != clinicID {
		return nil, apperrors.NotFound("form assignment")
	}
	return assignment, nil
}

func (r *fakeFormRepo) ListAssignments(_ context.Context, clinicID, patientID uuid.UUID) ([]*model.FormAssignment, error) {
	var out []*model.FormAssignment
	for _, a := range r.assignments {
		if a.ClinicID == clinicID && a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeFormRepo) CompleteAssignment(_ context.Context, assignment *model.FormAssignment) error {
	r.assignments[assignment.ID] = assignment
	return nil
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

type fixture struct {
	svc     *Service
	repo    *fakeFormRepo
	scope   model.TenantScope
	form    *model.FormDefinition
	patient *model.Patient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	repo := newFakeFormRepo()
	patientRepo := newFakePatientRepo()
	svc := NewService(repo, patientRepo, audit.NewService(&fakeAuditRepo{}, log))

	scope := model.TenantScope{ClinicID: uuid.New(), OrganizationID: uuid.New()}
	form, err := svc.CreateForm(context.Background(), uuid.New(), scope, &model.CreateFormRequest{
		Name:   "Intake Questionnaire",
		Schema: json.RawMessage(`{"fields":["name","dob"]}`),
	})
	require.NoError(t, err)

	patient := &model.Patient{
		Base:        model.Base{ID: uuid.New()},
		TenantScope: scope,
		IsActive:    true,
	}
	require.NoError(t, patientRepo.Create(context.Background(), patient))

	return &fixture{svc: svc, repo: repo, scope: scope, form: form, patient: patient}
}

func TestCreateFormSeedsVersionOne(t *testing.T) {
	f := newFixture(t)

	require.NotNil(t, f.form.CurrentVersionID)
	versions, err := f.svc.ListVersions(context.Background(), f.scope, f.form.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, 1, versions[0].Version)
	assert.Equal(t, *f.form.CurrentVersionID, versions[0].ID)
}

func TestPublishVersionAppendsAndRepoints(t *testing.T) {
	f := newFixture(t)
	firstVersionID := *f.form.CurrentVersionID

	published, err := f.svc.PublishVersion(context.Background(), uuid.New(), f.scope, f.form.ID, &model.PublishVersionRequest{
		Schema: json.RawMessage(`{"fields":["name","dob","insurance"]}`),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, published.Version)
	assert.Equal(t, published.ID, *f.form.CurrentVersionID)

	// Version 1 still exists untouched.
	v1, err := f.repo.GetVersion(context.Background(), firstVersionID)
	require.NoError(t, err)
	assert.Equal(t, 1, v1.Version)
	assert.JSONEq(t, `{"fields":["name","dob"]}`, string(v1.Schema))
}

func TestAssignmentPinsVersionAgainstLaterPublish(t *testing.T) {
	f := newFixture(t)
	pinnedID := *f.form.CurrentVersionID

	assignment, err := f.svc.AssignForm(context.Background(), uuid.New(), f.scope, &model.AssignFormRequest{
		FormID:    f.form.ID,
		PatientID: f.patient.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, pinnedID, assignment.VersionID)

	_, err = f.svc.PublishVersion(context.Background(), uuid.New(), f.scope, f.form.ID, &model.PublishVersionRequest{
		Schema: json.RawMessage(`{"fields":["name"]}`),
	})
	require.NoError(t, err)

	// The outstanding assignment still points at the version it was
	// created with.
	got, err := f.repo.GetAssignment(context.Background(), f.scope.ClinicID, assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, pinnedID, got.VersionID)
	assert.NotEqual(t, *f.form.CurrentVersionID, got.VersionID)
}

func TestAssignFormUnknownPatientRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AssignForm(context.Background(), uuid.New(), f.scope, &model.AssignFormRequest{
		FormID:    f.form.ID,
		PatientID: uuid.New(),
	})

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
}

func TestCompleteAssignment(t *testing.T) {
	f := newFixture(t)

	assignment, err := f.svc.AssignForm(context.Background(), uuid.New(), f.scope, &model.AssignFormRequest{
		FormID:    f.form.ID,
		PatientID: f.patient.ID,
	})
	require.NoError(t, err)

	completed, err := f.svc.CompleteAssignment(context.Background(), uuid.New(), f.scope, assignment.ID, &model.CompleteAssignmentRequest{
		Response: json.RawMessage(`{"name":"Iris Webb"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, model.FormAssignmentStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
}

func TestCompleteAssignmentTwiceConflicts(t *testing.T) {
	f := newFixture(t)

	assignment, err := f.svc.AssignForm(context.Background(), uuid.New(), f.scope, &model.AssignFormRequest{
		FormID:    f.form.ID,
		PatientID: f.patient.ID,
	})
	require.NoError(t, err)

	_, err = f.svc.CompleteAssignment(context.Background(), uuid.New(), f.scope, assignment.ID, &model.CompleteAssignmentRequest{
		Response: json.RawMessage(`{"name":"Iris Webb"}`),
	})
	require.NoError(t, err)

	_, err = f.svc.CompleteAssignment(context.Background(), uuid.New(), f.scope, assignment.ID, &model.CompleteAssignmentRequest{
		Response: json.RawMessage(`{"name":"someone else"}`),
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}
