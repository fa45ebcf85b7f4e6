package financial

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teraclinic/clinic-api/internal/handler"
	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
	"github.com/teraclinic/clinic-api/internal/service/financial"
)

type Handler struct {
	svc *financial.Service
}

func NewHandler(svc *financial.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	records := r.Group("/financial")
	{
		records.POST("/records", h.Create)
		records.GET("/records", h.List)
		records.GET("/records/:id", h.Get)
		records.GET("/summary", h.Summary)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateFinancialRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	clinicID, err := handler.ClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	record, err := h.svc.Create(c.Request.Context(), clinicID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(record))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid record id"))
		return
	}

	record, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("record not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(record))
}

func (h *Handler) List(c *gin.Context) {
	filters, ok := h.bindFilters(c)
	if !ok {
		return
	}

	records, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(records))
}

func (h *Handler) Summary(c *gin.Context) {
	filters, ok := h.bindFilters(c)
	if !ok {
		return
	}

	summary, err := h.svc.Summarize(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(summary))
}

func (h *Handler) bindFilters(c *gin.Context) (*model.FinancialFilters, bool) {
	clinicID, err := handler.ClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return nil, false
	}

	filters := &model.FinancialFilters{
		ClinicID: clinicID,
		Type:     model.FinancialType(c.Query("type")),
	}
	if v := c.Query("patient_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient_id"))
			return nil, false
		}
		filters.PatientID = id
	}
	if v := c.Query("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid start"))
			return nil, false
		}
		filters.Range.Start = t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid end"))
			return nil, false
		}
		filters.Range.End = t
	}
	return filters, true
}
