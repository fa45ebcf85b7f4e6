package settings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teraclinic/clinic-api/internal/handler"
	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
	"github.com/teraclinic/clinic-api/internal/service/settings"
)

type Handler struct {
	svc *settings.Service
}

func NewHandler(svc *settings.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/settings")
	{
		group.GET("", h.Get)
		group.PUT("", h.Update)
	}
}

func (h *Handler) Get(c *gin.Context) {
	clinicID, err := handler.ClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	found, err := h.svc.Get(c.Request.Context(), clinicID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("settings not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

// Update edits clinic branding. Quotas move only through the license
// endpoints.
func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	clinicID, err := handler.ClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	updated, err := h.svc.UpdateBranding(c.Request.Context(), clinicID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}
