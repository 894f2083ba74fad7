package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/pkg/auth"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
	"github.com/williamdagle/clinic-admin-api/pkg/httputil"
)

const ContextAuth = "auth_context"

// AuthContext carries the resolved actor through the request.
type AuthContext struct {
	IdentityID uuid.UUID
	ProfileID  uuid.UUID
	Role       model.Role
	Scope      model.TenantScope
}

// ProfileResolver maps an authenticated identity to its profile.
type ProfileResolver interface {
	ResolveProfile(ctx context.Context, identityID uuid.UUID) (*model.Profile, error)
}

type AuthMiddleware struct {
	jwtSvc   auth.JWTService
	resolver ProfileResolver
	cache    *gocache.Cache
}

func NewAuthMiddleware(jwtSvc auth.JWTService, resolver ProfileResolver) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSvc:   jwtSvc,
		resolver: resolver,
		cache:    gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// Authenticate validates the bearer token and resolves the profile. A bad or
// missing credential is a 401; a valid credential with no provisioned
// profile is a 403.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httputil.RespondWithError(c, apperrors.Unauthorized("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondWithError(c, apperrors.Unauthorized("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.jwtSvc.ValidateAccessToken(parts[1])
		if err != nil {
			httputil.RespondWithError(c, apperrors.Unauthorized("invalid token"))
			c.Abort()
			return
		}

		profile, err := m.resolveProfile(c.Request.Context(), claims.IdentityID)
		if err != nil {
			httputil.RespondWithError(c, err)
			c.Abort()
			return
		}

		if !profile.IsActive {
			httputil.RespondWithError(c, apperrors.Forbidden("profile is deactivated"))
			c.Abort()
			return
		}

		c.Set(ContextAuth, &AuthContext{
			IdentityID: claims.IdentityID,
			ProfileID:  profile.ID,
			Role:       profile.Role,
			Scope:      profile.TenantScope,
		})
		c.Next()
	}
}

func (m *AuthMiddleware) resolveProfile(ctx context.Context, identityID uuid.UUID) (*model.Profile, error) {
	key := identityID.String()
	if cached, ok := m.cache.Get(key); ok {
		return cached.(*model.Profile), nil
	}

	profile, err := m.resolver.ResolveProfile(ctx, identityID)
	if err != nil {
		return nil, err
	}

	m.cache.Set(key, profile, gocache.DefaultExpiration)
	return profile, nil
}

// InvalidateProfile drops the cached profile after a role or status change.
func (m *AuthMiddleware) InvalidateProfile(identityID uuid.UUID) {
	m.cache.Delete(identityID.String())
}

// RequireRoles gates the route to an allow-list of roles.
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		authCtx := GetAuthContext(c)
		if authCtx == nil {
			httputil.RespondWithError(c, apperrors.Unauthorized("not authenticated"))
			c.Abort()
			return
		}

		for _, role := range roles {
			if authCtx.Role == role {
				c.Next()
				return
			}
		}

		httputil.RespondWithError(c, apperrors.Forbidden("insufficient role"))
		c.Abort()
	}
}

// GetAuthContext returns the auth context set by Authenticate, or nil.
func GetAuthContext(c *gin.Context) *AuthContext {
	v, ok := c.Get(ContextAuth)
	if !ok {
		return nil
	}
	authCtx, ok := v.(*AuthContext)
	if !ok {
		return nil
	}
	return authCtx
}
