package membership

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/middleware"
	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/service/membership"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
	"github.com/williamdagle/clinic-admin-api/pkg/httputil"
)

type Handler struct {
	service *membership.Service
}

func NewHandler(service *membership.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	plans := r.Group("/membership-plans")
	{
		plans.POST("", middleware.RequireRoles(model.RoleSystemAdmin, model.RoleAdmin), h.CreatePlan)
		plans.GET("", h.ListPlans)
		plans.GET("/:id", h.GetPlan)
	}

	memberships := r.Group("/memberships")
	{
		memberships.POST("", h.Enroll)
		memberships.GET("", h.ListMemberships)
		memberships.GET("/:id", h.GetMembership)
		memberships.POST("/:id/cancel", h.Cancel)
	}
}

func (h *Handler) CreatePlan(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	var req model.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	plan, err := h.service.CreatePlan(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, plan)
}

func (h *Handler) GetPlan(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid plan ID"))
		return
	}

	plan, err := h.service.GetPlan(c.Request.Context(), authCtx.Scope, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, plan)
}

func (h *Handler) ListPlans(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	plans, err := h.service.ListPlans(c.Request.Context(), authCtx.Scope)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, plans)
}

func (h *Handler) Enroll(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	var req model.EnrollMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	m, err := h.service.Enroll(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, m)
}

func (h *Handler) GetMembership(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid membership ID"))
		return
	}

	m, err := h.service.GetMembership(c.Request.Context(), authCtx.Scope, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, m)
}

func (h *Handler) ListMemberships(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	filters := &model.MembershipFilters{
		Status: model.MembershipStatus(c.Query("status")),
	}
	if pid := c.Query("patient_id"); pid != "" {
		patientID, err := uuid.Parse(pid)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid patient ID"))
			return
		}
		filters.PatientID = patientID
	}

	memberships, err := h.service.ListMemberships(c.Request.Context(), authCtx.Scope, filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, memberships)
}

func (h *Handler) Cancel(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid membership ID"))
		return
	}

	m, err := h.service.Cancel(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, m)
}
