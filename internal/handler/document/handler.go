package document

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teraclinic/clinic-api/internal/handler"
	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
	"github.com/teraclinic/clinic-api/internal/service/document"
)

type Handler struct {
	svc *document.Service
}

func NewHandler(svc *document.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	documents := r.Group("/documents")
	{
		documents.POST("", h.Create)
		documents.GET("/patient/:patientId", h.ListByPatient)
		documents.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	clinicID, err := handler.ClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}
	userID, err := handler.UserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.svc.Create(c.Request.Context(), clinicID, userID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) ListByPatient(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient id"))
		return
	}

	documents, err := h.svc.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(documents))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid document id"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("document not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("document deleted"))
}
