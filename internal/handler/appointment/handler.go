package appointment

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/middleware"
	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/service/appointment"
	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
	"github.com/williamdagle/clinic-admin-api/pkg/httputil"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/availability", h.GetAvailability)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.POST("/:id/cancel", h.CancelAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	apt, err := h.service.CreateAppointment(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, apt)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment ID"))
		return
	}

	apt, err := h.service.GetAppointment(c.Request.Context(), authCtx.Scope, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	filters := &model.AppointmentFilters{
		Status: model.AppointmentStatus(c.Query("status")),
	}
	if cid := c.Query("clinician_id"); cid != "" {
		clinicianID, err := uuid.Parse(cid)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid clinician ID"))
			return
		}
		filters.ClinicianID = clinicianID
	}
	if pid := c.Query("patient_id"); pid != "" {
		patientID, err := uuid.Parse(pid)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid patient ID"))
			return
		}
		filters.PatientID = patientID
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

	appointments, err := h.service.ListAppointments(c.Request.Context(), authCtx.Scope, filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment ID"))
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	apt, err := h.service.UpdateAppointment(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	authCtx := middleware.GetAuthContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment ID"))
		return
	}

	var req model.CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	apt, err := h.service.CancelAppointment(c.Request.Context(), authCtx.ProfileID, authCtx.Scope, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) GetAvailability(c *gin.Context) {
	clinicianID, err := uuid.Parse(c.Query("clinician_id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid clinician ID"))
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid date, expected YYYY-MM-DD"))
		return
	}

	slots, err := h.service.GetAvailability(c.Request.Context(), clinicianID, date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, slots)
}
