package user

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/middleware"
	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/service/user"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
	"github.com/williamdagle/clinic-admin-api/pkg/httputil"
)

// ProfileCacheInvalidator evicts cached authorization state for an identity.
// Role and scope changes must take effect immediately, not after the cache
// TTL expires.
type ProfileCacheInvalidator interface {
	InvalidateProfile(identityID uuid.UUID)
}

type Handler struct {
	service     *user.Service
	invalidator ProfileCacheInvalidator
}

func NewHandler(service *user.Service, invalidator ProfileCacheInvalidator) *Handler {
	return &Handler{service: service, invalidator: invalidator}
}

// RegisterAuthRoutes mounts the unauthenticated login endpoints.
func (h *Handler) RegisterAuthRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("", middleware.RequireRoles(model.RoleSystemAdmin, model.RoleAdmin), h.CreateUser)
		users.GET("", middleware.RequireRoles(model.RoleSystemAdmin, model.RoleAdmin), h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", middleware.RequireRoles(model.RoleSystemAdmin, model.RoleAdmin), h.UpdateUser)
		users.DELETE("/:id", middleware.RequireRoles(model.RoleSystemAdmin), h.DeleteUser)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, tokens)
}

func (h *Handler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	tokens, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, tokens)
}

func (h *Handler) CreateUser(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	profile, err := h.service.CreateUser(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, profile)
}

func (h *Handler) GetUser(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid user ID"))
		return
	}

	profile, err := h.service.GetUser(c.Request.Context(), authCtx.Scope, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, profile)
}

func (h *Handler) ListUsers(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	filters := &model.UserFilters{
		Role:   model.Role(c.Query("role")),
		Search: c.Query("search"),
	}

	profiles, err := h.service.ListUsers(c.Request.Context(), authCtx.Scope, filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, profiles)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid user ID"))
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	profile, err := h.service.UpdateUser(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.invalidator.InvalidateProfile(profile.IdentityID)

	httputil.RespondWithSuccess(c, profile)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid user ID"))
		return
	}

	profile, err := h.service.DeleteUser(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	h.invalidator.InvalidateProfile(profile.IdentityID)

	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}
