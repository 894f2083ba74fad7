package giftcard

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/middleware"
	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/service/giftcard"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
	"github.com/williamdagle/clinic-admin-api/pkg/httputil"
)

type Handler struct {
	service *giftcard.Service
}

func NewHandler(service *giftcard.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	cards := r.Group("/gift-cards")
	{
		cards.POST("", middleware.RequireRoles(model.RoleSystemAdmin, model.RoleAdmin, model.RoleStaff), h.IssueCard)
		cards.GET("/:id", h.GetCard)
		cards.POST("/:id/redeem", h.Redeem)
		cards.GET("/:id/transactions", h.ListTransactions)
	}
}

func (h *Handler) IssueCard(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	var req model.IssueGiftCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	card, err := h.service.IssueCard(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, card)
}

func (h *Handler) GetCard(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid gift card ID"))
		return
	}

	card, err := h.service.GetCard(c.Request.Context(), authCtx.Scope, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, card)
}

func (h *Handler) Redeem(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid gift card ID"))
		return
	}

	var req model.RedeemGiftCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	card, err := h.service.Redeem(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, card)
}

func (h *Handler) ListTransactions(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid gift card ID"))
		return
	}

	transactions, err := h.service.ListTransactions(c.Request.Context(), authCtx.Scope, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, transactions)
}
