package user

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
	"github.com/williamdagle/clinic-admin-api/pkg/auth"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
	"github.com/williamdagle/clinic-admin-api/pkg/logger"
	"github.com/williamdagle/clinic-admin-api/pkg/security"
)

type fakeIdentityRepo struct {
	identities map[uuid.UUID]*model.Identity
	byEmail    map[string]*model.Identity
	createErr  error
	deleted    []uuid.UUID
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{
		identities: make(map[uuid.UUID]*model.Identity),
		byEmail:    make(map[string]*model.Identity),
	}
}

func (r *fakeIdentityRepo) Create(_ context.Context, identity *model.Identity) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.identities[identity.ID] = identity
	r.byEmail[identity.Email] = identity
	return nil
}

func (r *fakeIdentityRepo) Get(_ context.Context, id uuid.UUID) (*model.Identity, error) {
	identity, ok := r.identities[id]
	if !ok {
		return nil, apperrors.NotFound("identity")
	}
	return identity, nil
}

func (r *fakeIdentityRepo) GetByEmail(_ context.Context, email string) (*model.Identity, error) {
	identity, ok := r.byEmail[email]
	if !ok {
		return nil, apperrors.NotFound("identity")
	}
	return identity, nil
}

func (r *fakeIdentityRepo) Update(_ context.Context, identity *model.Identity) error {
	r.identities[identity.ID] = identity
	r.byEmail[identity.Email] = identity
	return nil
}

func (r *fakeIdentityRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	if identity, ok := r.identities[id]; ok {
		delete(r.byEmail, identity.Email)
		delete(r.identities, id)
	}
	return nil
}

type fakeProfileRepo struct {
	profiles   map[uuid.UUID]*model.Profile
	byIdentity map[uuid.UUID]*model.Profile
	createErr  error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		profiles:   make(map[uuid.UUID]*model.Profile),
		byIdentity: make(map[uuid.UUID]*model.Profile),
	}
}

func (r *fakeProfileRepo) Create(_ context.Context, profile *model.Profile) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.profiles[profile.ID] = profile
	r.byIdentity[profile.IdentityID] = profile
	return nil
}

func (r *fakeProfileRepo) Get(_ context.Context, clinicID, id uuid.UUID) (*model.Profile, error) {
	profile, ok := r.profiles[id]
	if !ok || profile.ClinicID != clinicID {
		return nil, apperrors.NotFound("user")
	}
	return profile, nil
}

func (r *fakeProfileRepo) GetByIdentityID(_ context.Context, identityID uuid.UUID) (*model.Profile, error) {
	profile, ok := r.byIdentity[identityID]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	return profile, nil
}

func (r *fakeProfileRepo) Update(_ context.Context, profile *model.Profile) error {
	r.profiles[profile.ID] = profile
	return nil
}

func (r *fakeProfileRepo) Delete(_ context.Context, id uuid.UUID) error {
	if profile, ok := r.profiles[id]; ok {
		delete(r.byIdentity, profile.IdentityID)
		delete(r.profiles, id)
	}
	return nil
}

func (r *fakeProfileRepo) List(_ context.Context, clinicID uuid.UUID, _ *model.UserFilters) ([]*model.Profile, error) {
	var out []*model.Profile
	for _, p := range r.profiles {
		if p.ClinicID == clinicID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeAuditRepo struct {
	entries []*model.AuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, log *model.AuditLog) error {
	r.entries = append(r.entries, log)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, _ *model.AuditFilters) ([]*model.AuditLog, error) {
	return r.entries, nil
}

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func newTestService(identityRepo *fakeIdentityRepo, profileRepo *fakeProfileRepo) *Service {
	log := testLogger()
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
	})
	auditor := audit.NewService(&fakeAuditRepo{}, log)
	return NewService(identityRepo, profileRepo, security.NewBcryptHasher(4), jwtSvc, auditor, log)
}

func testScope() model.TenantScope {
	return model.TenantScope{ClinicID: uuid.New(), OrganizationID: uuid.New()}
}

func TestCreateUser(t *testing.T) {
	identityRepo := newFakeIdentityRepo()
	profileRepo := newFakeProfileRepo()
	svc := newTestService(identityRepo, profileRepo)

	profile, err := svc.CreateUser(context.Background(), uuid.New(), testScope(), &model.CreateUserRequest{
		Email:     "clinician@example.com",
		Password:  "str0ngpassword",
		FirstName: "Dana",
		LastName:  "Reyes",
		Role:      model.RoleClinician,
	})

	require.NoError(t, err)
	assert.Equal(t, model.RoleClinician, profile.Role)
	assert.True(t, profile.IsActive)
	assert.Len(t, identityRepo.identities, 1)
	assert.Len(t, profileRepo.profiles, 1)
}

func TestCreateUserRollsBackIdentityWhenProfileFails(t *testing.T) {
	identityRepo := newFakeIdentityRepo()
	profileRepo := newFakeProfileRepo()
	profileRepo.createErr = errors.New("unique constraint violation")
	svc := newTestService(identityRepo, profileRepo)

	_, err := svc.CreateUser(context.Background(), uuid.New(), testScope(), &model.CreateUserRequest{
		Email:     "dupe@example.com",
		Password:  "str0ngpassword",
		FirstName: "Dana",
		LastName:  "Reyes",
		Role:      model.RoleStaff,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unique constraint violation")
	assert.Len(t, identityRepo.deleted, 1, "identity should be compensated away")
	assert.Empty(t, identityRepo.identities)
}

func TestLoginAndLockout(t *testing.T) {
	identityRepo := newFakeIdentityRepo()
	profileRepo := newFakeProfileRepo()
	svc := newTestService(identityRepo, profileRepo)

	scope := testScope()
	_, err := svc.CreateUser(context.Background(), uuid.New(), scope, &model.CreateUserRequest{
		Email:     "login@example.com",
		Password:  "str0ngpassword",
		FirstName: "Lee",
		LastName:  "Ng",
		Role:      model.RoleAdmin,
	})
	require.NoError(t, err)

	tokens, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "login@example.com",
		Password: "str0ngpassword",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	for i := 0; i < maxLoginAttempts; i++ {
		_, err = svc.Login(context.Background(), &model.LoginRequest{
			Email:    "login@example.com",
			Password: "wrongpassword",
		})
		require.Error(t, err)
	}

	// Account is now locked even with the right password.
	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "login@example.com",
		Password: "str0ngpassword",
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(newFakeIdentityRepo(), newFakeProfileRepo())

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever123",
	})

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestResolveProfileMissingIsForbidden(t *testing.T) {
	svc := newTestService(newFakeIdentityRepo(), newFakeProfileRepo())

	_, err := svc.ResolveProfile(context.Background(), uuid.New())

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestRefreshToken(t *testing.T) {
	identityRepo := newFakeIdentityRepo()
	profileRepo := newFakeProfileRepo()
	svc := newTestService(identityRepo, profileRepo)

	_, err := svc.CreateUser(context.Background(), uuid.New(), testScope(), &model.CreateUserRequest{
		Email:     "refresh@example.com",
		Password:  "str0ngpassword",
		FirstName: "Ali",
		LastName:  "Marsh",
		Role:      model.RoleStaff,
	})
	require.NoError(t, err)

	tokens, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "refresh@example.com",
		Password: "str0ngpassword",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken(context.Background(), "not-a-token")
	require.Error(t, err)
}
