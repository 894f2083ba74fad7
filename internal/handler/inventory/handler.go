package inventory

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/middleware"
	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/service/inventory"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
	"github.com/williamdagle/clinic-admin-api/pkg/httputil"
)

type Handler struct {
	service *inventory.Service
}

func NewHandler(service *inventory.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	items := r.Group("/inventory")
	{
		items.POST("", middleware.RequireRoles(model.RoleSystemAdmin, model.RoleAdmin, model.RoleStaff), h.CreateItem)
		items.GET("", h.ListItems)
		items.GET("/:id", h.GetItem)
		items.PUT("/:id", middleware.RequireRoles(model.RoleSystemAdmin, model.RoleAdmin, model.RoleStaff), h.UpdateItem)
		items.POST("/:id/transactions", h.RecordTransaction)
		items.GET("/:id/transactions", h.ListTransactions)
	}
}

func (h *Handler) CreateItem(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	var req model.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	item, err := h.service.CreateItem(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, item)
}

func (h *Handler) GetItem(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid item ID"))
		return
	}

	item, err := h.service.GetItem(c.Request.Context(), authCtx.Scope, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, item)
}

func (h *Handler) ListItems(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	filters := &model.InventoryFilters{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Limit:    limit,
	}

	items, err := h.service.ListItems(c.Request.Context(), authCtx.Scope, filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, items)
}

func (h *Handler) UpdateItem(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid item ID"))
		return
	}

	var req model.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	item, err := h.service.UpdateItem(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, item)
}

func (h *Handler) RecordTransaction(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid item ID"))
		return
	}

	var req model.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	tx, err := h.service.RecordTransaction(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, tx)
}

func (h *Handler) ListTransactions(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid item ID"))
		return
	}

	transactions, err := h.service.ListTransactions(c.Request.Context(), authCtx.Scope, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, transactions)
}
