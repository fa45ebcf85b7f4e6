package appointment

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teraclinic/clinic-api/internal/handler"
	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
	"github.com/teraclinic/clinic-api/internal/service/appointment"
)

type Handler struct {
	svc *appointment.Service
}

func NewHandler(svc *appointment.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.Create)
		appointments.GET("", h.List)
		appointments.GET("/:id", h.Get)
		appointments.PUT("/:id", h.Update)
		appointments.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	clinicID, err := handler.ClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.svc.Create(c.Request.Context(), clinicID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment id"))
		return
	}

	found, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("appointment not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) List(c *gin.Context) {
	clinicID, err := handler.ClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	filters := &model.AppointmentFilters{ClinicID: clinicID}
	if v := c.Query("patient_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient_id"))
			return
		}
		filters.PatientID = id
	}
	if v := c.Query("therapist_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid therapist_id"))
			return
		}
		filters.TherapistID = id
	}
	if v := c.Query("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid start"))
			return
		}
		filters.Range.Start = t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid end"))
			return
		}
		filters.Range.End = t
	}

	appointments, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment id"))
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("appointment not found"))
			return
		}
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment id"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("appointment not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("appointment deleted"))
}
