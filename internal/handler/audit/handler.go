package audit

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/middleware"
	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/service/audit"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
	"github.com/williamdagle/clinic-admin-api/pkg/httputil"
)

type Handler struct {
	service *audit.Service
}

func NewHandler(service *audit.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	logs := r.Group("/audit-logs")
	logs.Use(middleware.RequireRoles(model.RoleSystemAdmin, model.RoleAdmin))
	{
		logs.GET("", h.ListAuditLogs)
	}
}

func (h *Handler) ListAuditLogs(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	filters := &model.AuditFilters{
		ClinicID:   authCtx.Scope.ClinicID,
		EntityType: c.Query("entity_type"),
		Action:     c.Query("action"),
		Limit:      limit,
	}
	if uid := c.Query("user_id"); uid != "" {
		userID, err := uuid.Parse(uid)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid user ID"))
			return
		}
		filters.UserID = userID
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid from date"))
			return
		}
		filters.StartDate = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid to date"))
			return
		}
		filters.EndDate = t
	}

	logs, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, logs)
}
