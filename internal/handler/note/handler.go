package note

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/middleware"
	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/service/note"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
	"github.com/williamdagle/clinic-admin-api/pkg/httputil"
)

type Handler struct {
	service *note.Service
}

func NewHandler(service *note.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notes := r.Group("/notes")
	notes.Use(middleware.RequireRoles(model.RoleSystemAdmin, model.RoleAdmin, model.RoleClinician))
	{
		notes.POST("", h.CreateNote)
		notes.GET("", h.ListNotes)
		notes.GET("/:id", h.GetNote)
		notes.PUT("/:id", h.UpdateNote)
		notes.DELETE("/:id", h.DeleteNote)
	}
}

func (h *Handler) CreateNote(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	var req model.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	n, err := h.service.CreateNote(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, n)
}

func (h *Handler) GetNote(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid note ID"))
		return
	}

	n, err := h.service.GetNote(c.Request.Context(), authCtx.Scope, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, n)
}

func (h *Handler) ListNotes(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	filters := &model.NoteFilters{
		NoteType: model.NoteType(c.Query("note_type")),
	}
	if pid := c.Query("patient_id"); pid != "" {
		patientID, err := uuid.Parse(pid)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid patient ID"))
			return
		}
		filters.PatientID = patientID
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filters.Limit = limit
	}

	notes, err := h.service.ListNotes(c.Request.Context(), authCtx.Scope, filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, notes)
}

func (h *Handler) UpdateNote(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid note ID"))
		return
	}

	var req model.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	n, err := h.service.UpdateNote(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, n)
}

func (h *Handler) DeleteNote(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid note ID"))
		return
	}

	if err := h.service.DeleteNote(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}
