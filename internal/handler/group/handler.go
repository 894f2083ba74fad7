package group

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/middleware"
	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/service/group"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
	"github.com/williamdagle/clinic-admin-api/pkg/httputil"
)

type Handler struct {
	service *group.Service
}

func NewHandler(service *group.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	groups := r.Group("/groups")
	{
		groups.POST("", middleware.RequireRoles(model.RoleSystemAdmin, model.RoleAdmin), h.CreateGroup)
		groups.GET("", h.ListGroups)
		groups.GET("/:id", h.GetGroup)
		groups.PUT("/:id", middleware.RequireRoles(model.RoleSystemAdmin, model.RoleAdmin), h.UpdateGroup)

		groups.POST("/:id/members", h.EnrollMember)
		groups.GET("/:id/members", h.ListMembers)
		groups.DELETE("/:id/members/:patientId", h.RemoveMember)

		groups.POST("/:id/attendance", h.RecordAttendance)
		groups.GET("/:id/attendance", h.ListAttendance)
	}
}

func (h *Handler) CreateGroup(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	var req model.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	g, err := h.service.CreateGroup(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, g)
}

func (h *Handler) GetGroup(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid group ID"))
		return
	}

	g, err := h.service.GetGroup(c.Request.Context(), authCtx.Scope, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, g)
}

func (h *Handler) ListGroups(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	groups, err := h.service.ListGroups(c.Request.Context(), authCtx.Scope)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, groups)
}

func (h *Handler) UpdateGroup(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid group ID"))
		return
	}

	var req model.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	g, err := h.service.UpdateGroup(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, g)
}

func (h *Handler) EnrollMember(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid group ID"))
		return
	}

	var req model.EnrollMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	member, err := h.service.EnrollMember(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, member)
}

func (h *Handler) ListMembers(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid group ID"))
		return
	}

	members, err := h.service.ListMembers(c.Request.Context(), authCtx.Scope, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, members)
}

func (h *Handler) RemoveMember(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid group ID"))
		return
	}

	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid patient ID"))
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, id, patientID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"removed": true})
}

func (h *Handler) RecordAttendance(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid group ID"))
		return
	}

	var req model.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	record, err := h.service.RecordAttendance(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, record)
}

func (h *Handler) ListAttendance(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid group ID"))
		return
	}

	appointmentID, err := uuid.Parse(c.Query("appointment_id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment ID"))
		return
	}

	records, err := h.service.ListAttendance(c.Request.Context(), authCtx.Scope, id, appointmentID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, records)
}
