package task

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/middleware"
	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/service/task"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
	"github.com/williamdagle/clinic-admin-api/pkg/httputil"
)

type Handler struct {
	service *task.Service
}

func NewHandler(service *task.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	tasks := r.Group("/tasks")
	{
		tasks.POST("", h.CreateTask)
		tasks.GET("", h.ListTasks)
		tasks.GET("/:id", h.GetTask)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}
}

func (h *Handler) CreateTask(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	var req model.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	t, err := h.service.CreateTask(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, t)
}

func (h *Handler) GetTask(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid task ID"))
		return
	}

	t, err := h.service.GetTask(c.Request.Context(), authCtx.Scope, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, t)
}

func (h *Handler) ListTasks(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	filters := &model.TaskFilters{
		Status: model.TaskStatus(c.Query("status")),
		Limit:  limit,
	}
	if aid := c.Query("assignee_id"); aid != "" {
		assigneeID, err := uuid.Parse(aid)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid assignee ID"))
			return
		}
		filters.AssigneeID = assigneeID
	}
	if pid := c.Query("patient_id"); pid != "" {
		patientID, err := uuid.Parse(pid)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid patient ID"))
			return
		}
		filters.PatientID = patientID
	}

	tasks, err := h.service.ListTasks(c.Request.Context(), authCtx.Scope, filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, tasks)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid task ID"))
		return
	}

	var req model.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	t, err := h.service.UpdateTask(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, t)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid task ID"))
		return
	}

	if err := h.service.DeleteTask(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}
