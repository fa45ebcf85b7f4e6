package license

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/teraclinic/clinic-api/internal/handler"
	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/service/license"
	"github.com/teraclinic/clinic-api/pkg/metrics"
)

// Handler exposes the account-management license surface. The router
// mounts it behind a MASTER-only guard.
type Handler struct {
	svc     *license.Service
	metrics *metrics.Metrics
}

func NewHandler(svc *license.Service, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, metrics: m}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	licenses := r.Group("/account/licenses")
	{
		licenses.GET("", h.Status)
		licenses.POST("/:role/increase", h.Increase)
		licenses.POST("/:role/decrease", h.Decrease)
	}
}

// Status reports quota, headcount and both guards per licensed role.
// The guards drive which buttons the client enables.
func (h *Handler) Status(c *gin.Context) {
	clinicID, err := handler.ClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	statuses := make([]*license.RoleStatus, 0, 2)
	for _, role := range []string{model.RoleTherapist, model.RoleAdmin} {
		status, err := h.svc.Status(c.Request.Context(), clinicID, role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
			return
		}
		statuses = append(statuses, status)

		if h.metrics != nil {
			h.metrics.SeatsInUse.WithLabelValues(role).Set(float64(status.Used))
		}
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(statuses))
}

func (h *Handler) Increase(c *gin.Context) {
	h.mutate(c, "increase")
}

func (h *Handler) Decrease(c *gin.Context) {
	h.mutate(c, "decrease")
}

func (h *Handler) mutate(c *gin.Context, direction string) {
	role := strings.ToUpper(c.Param("role"))
	clinicID, err := handler.ClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	var settings *model.ClinicSettings
	if direction == "increase" {
		settings, err = h.svc.IncreaseQuota(c.Request.Context(), clinicID, role)
	} else {
		settings, err = h.svc.DecreaseQuota(c.Request.Context(), clinicID, role)
	}
	if err != nil {
		if errors.Is(err, license.ErrUnlicensedRole) {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	if h.metrics != nil {
		h.metrics.QuotaChanges.WithLabelValues(role, direction).Inc()
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(settings))
}
