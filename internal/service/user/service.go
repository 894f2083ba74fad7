package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/repository"
	"github.com/williamdagle/clinic-admin-api/internal/service/audit"
	"github.com/williamdagle/clinic-admin-api/pkg/auth"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
	"github.com/williamdagle/clinic-admin-api/pkg/logger"
	"github.com/williamdagle/clinic-admin-api/pkg/security"
)

const (
	maxLoginAttempts = 5
	lockoutDuration  = 15 * time.Minute
)

type Service struct {
	identityRepo repository.IdentityRepository
	profileRepo  repository.ProfileRepository
	hasher       security.PasswordHasher
	jwtSvc       auth.JWTService
	auditor      *audit.Service
	logger       *logger.Logger
}

func NewService(
	identityRepo repository.IdentityRepository,
	profileRepo repository.ProfileRepository,
	hasher security.PasswordHasher,
	jwtSvc auth.JWTService,
	auditor *audit.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		identityRepo: identityRepo,
		profileRepo:  profileRepo,
		hasher:       hasher,
		jwtSvc:       jwtSvc,
		auditor:      auditor,
		logger:       logger,
	}
}

// CreateUser provisions an identity and its tenant-scoped profile. If the
// profile insert fails the identity is deleted best-effort and the original
// error is returned regardless of whether the compensating delete succeeds.
func (s *Service) CreateUser(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, req *model.CreateUserRequest) (*model.Profile, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation("password does not meet requirements")
	}

	identity := &model.Identity{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Status:       model.IdentityStatusActive,
	}

	if err := s.identityRepo.Create(ctx, identity); err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	profile := &model.Profile{
		Base:        model.Base{ID: uuid.New()},
		TenantScope: scope,
		IdentityID:  identity.ID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Role:        req.Role,
		IsActive:    true,
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		if delErr := s.identityRepo.Delete(ctx, identity.ID); delErr != nil {
			s.logger.Error(delErr, "compensating identity delete failed",
				"identity_id", identity.ID.String())
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionCreate, "user", profile.ID, &audit.LogOptions{
		NewValues: profile,
	})

	return profile, nil
}

func (s *Service) GetUser(ctx context.Context, scope model.TenantScope, id uuid.UUID) (*model.Profile, error) {
	return s.profileRepo.Get(ctx, scope.ClinicID, id)
}

func (s *Service) ListUsers(ctx context.Context, scope model.TenantScope, filters *model.UserFilters) ([]*model.Profile, error) {
	return s.profileRepo.List(ctx, scope.ClinicID, filters)
}

func (s *Service) UpdateUser(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, id uuid.UUID, req *model.UpdateUserRequest) (*model.Profile, error) {
	profile, err := s.profileRepo.Get(ctx, scope.ClinicID, id)
	if err != nil {
		return nil, err
	}

	old := *profile

	if req.FirstName != nil {
		profile.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		profile.LastName = *req.LastName
	}
	if req.Role != nil {
		profile.Role = *req.Role
	}
	if req.IsActive != nil {
		profile.IsActive = *req.IsActive
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionUpdate, "user", profile.ID, &audit.LogOptions{
		OldValues: old,
		NewValues: profile,
	})

	return profile, nil
}

// DeleteUser hard-deletes the profile and its identity. Gated to
// system_admin at the route level. The removed profile is returned so the
// caller can evict any cached authorization state keyed by its identity.
func (s *Service) DeleteUser(ctx context.Context, actorID uuid.UUID, scope model.TenantScope, id uuid.UUID) (*model.Profile, error) {
	profile, err := s.profileRepo.Get(ctx, scope.ClinicID, id)
	if err != nil {
		return nil, err
	}

	if err := s.profileRepo.Delete(ctx, profile.ID); err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	if err := s.identityRepo.Delete(ctx, profile.IdentityID); err != nil {
		s.logger.Error(err, "failed to delete identity for removed user",
			"identity_id", profile.IdentityID.String())
	}

	s.auditor.Log(ctx, actorID, scope, model.AuditActionDelete, "user", profile.ID, &audit.LogOptions{
		OldValues: profile,
	})

	return profile, nil
}

// Login verifies credentials against the identity record, applying the
// lockout policy, and returns a token pair.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*auth.TokenPair, error) {
	identity, err := s.identityRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	if identity.Status == model.IdentityStatusLocked {
		if time.Since(identity.LastLoginAttempt) < lockoutDuration {
			return nil, apperrors.Unauthorized("account is locked, please try again later")
		}
		identity.Status = model.IdentityStatusActive
		identity.LoginAttempts = 0
	}

	if err := s.hasher.Compare(identity.PasswordHash, req.Password); err != nil {
		identity.LoginAttempts++
		identity.LastLoginAttempt = time.Now()
		if identity.LoginAttempts >= maxLoginAttempts {
			identity.Status = model.IdentityStatusLocked
		}
		if updErr := s.identityRepo.Update(ctx, identity); updErr != nil {
			s.logger.Error(updErr, "failed to update login attempts")
		}
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	identity.LoginAttempts = 0
	now := time.Now()
	identity.LastLoginAt = &now
	if err := s.identityRepo.Update(ctx, identity); err != nil {
		return nil, fmt.Errorf("failed to update login timestamp: %w", err)
	}

	tokens, err := s.jwtSvc.GenerateTokenPair(identity.ID, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if profile, perr := s.profileRepo.GetByIdentityID(ctx, identity.ID); perr == nil {
		s.auditor.Log(ctx, profile.ID, profile.TenantScope, model.AuditActionLogin, "auth", identity.ID, nil)
	}

	return tokens, nil
}

func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	identity, err := s.identityRepo.Get(ctx, claims.IdentityID)
	if err != nil {
		return nil, apperrors.Unauthorized("identity not found")
	}

	return s.jwtSvc.GenerateTokenPair(identity.ID, identity.Email)
}

// ResolveProfile maps an authenticated identity onto its tenant-scoped
// profile. A missing profile is a 403, not a 401: the credential was valid
// but unprovisioned.
func (s *Service) ResolveProfile(ctx context.Context, identityID uuid.UUID) (*model.Profile, error) {
	profile, err := s.profileRepo.GetByIdentityID(ctx, identityID)
	if err != nil {
		if _, ok := apperrors.AsAppError(err); ok {
			return nil, apperrors.Forbidden("profile not found")
		}
		return nil, err
	}
	return profile, nil
}
