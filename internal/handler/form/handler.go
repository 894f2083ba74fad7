package form

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/middleware"
	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/service/form"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
	"github.com/williamdagle/clinic-admin-api/pkg/httputil"
)

type Handler struct {
	service *form.Service
}

func NewHandler(service *form.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	forms := r.Group("/forms")
	{
		forms.POST("", middleware.RequireRoles(model.RoleSystemAdmin, model.RoleAdmin), h.CreateForm)
		forms.GET("", h.ListForms)
		forms.GET("/:id", h.GetForm)
		forms.POST("/:id/versions", middleware.RequireRoles(model.RoleSystemAdmin, model.RoleAdmin), h.PublishVersion)
		forms.GET("/:id/versions", h.ListVersions)
	}

	assignments := r.Group("/form-assignments")
	{
		assignments.POST("", h.AssignForm)
		assignments.GET("", h.ListAssignments)
		assignments.POST("/:id/complete", h.CompleteAssignment)
	}
}

func (h *Handler) CreateForm(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	var req model.CreateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	def, err := h.service.CreateForm(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, def)
}

func (h *Handler) GetForm(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid form ID"))
		return
	}

	def, err := h.service.GetForm(c.Request.Context(), authCtx.Scope, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, def)
}

func (h *Handler) ListForms(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	filters := &model.FormFilters{
		Category: c.Query("category"),
	}

	forms, err := h.service.ListForms(c.Request.Context(), authCtx.Scope, filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, forms)
}

func (h *Handler) PublishVersion(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid form ID"))
		return
	}

	var req model.PublishVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	version, err := h.service.PublishVersion(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, version)
}

func (h *Handler) ListVersions(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid form ID"))
		return
	}

	versions, err := h.service.ListVersions(c.Request.Context(), authCtx.Scope, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, versions)
}

func (h *Handler) AssignForm(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	var req model.AssignFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	assignment, err := h.service.AssignForm(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, assignment)
}

func (h *Handler) ListAssignments(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	patientID, err := uuid.Parse(c.Query("patient_id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid patient ID"))
		return
	}

	assignments, err := h.service.ListAssignments(c.Request.Context(), authCtx.Scope, patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, assignments)
}

func (h *Handler) CompleteAssignment(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid assignment ID"))
		return
	}

	var req model.CompleteAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	assignment, err := h.service.CompleteAssignment(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, assignment)
}
