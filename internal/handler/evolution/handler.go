package evolution

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teraclinic/clinic-api/internal/handler"
	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/service/evolution"
)

type Handler struct {
	svc *evolution.Service
}

func NewHandler(svc *evolution.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	evolutions := r.Group("/evolutions")
	{
		evolutions.POST("", h.Create)
		evolutions.POST("/draft", h.Draft)
		evolutions.GET("/patient/:patientId", h.ListByPatient)
	}
}

// Create appends a note. There is deliberately no update or delete route.
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateEvolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	clinicID, err := handler.ClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}
	therapistID, err := handler.UserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.svc.Create(c.Request.Context(), clinicID, therapistID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

// Draft returns AI-generated note text. The endpoint never fails on
// provider trouble; the fallback text comes back with status 200.
func (h *Handler) Draft(c *gin.Context) {
	var req model.DraftEvolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	draft, err := h.svc.GenerateDraft(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"draft": draft}))
}

func (h *Handler) ListByPatient(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient id"))
		return
	}

	evolutions, err := h.svc.ListForStaff(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(evolutions))
}
