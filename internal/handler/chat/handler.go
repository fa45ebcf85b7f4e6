package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teraclinic/clinic-api/internal/handler"
	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/service/chat"
)

type Handler struct {
	svc *chat.Service
}

func NewHandler(svc *chat.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	chats := r.Group("/chat")
	{
		chats.POST("/messages", h.Send)
		chats.GET("/patient/:patientId", h.ListByPatient)
	}
}

// Send posts a staff message into a patient's conversation.
func (h *Handler) Send(c *gin.Context) {
	var req model.CreateChatMessageRequest
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

	message, err := h.svc.Send(c.Request.Context(), clinicID, model.StaffParticipant(userID), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(message))
}

func (h *Handler) ListByPatient(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient id"))
		return
	}

	messages, err := h.svc.ListForStaff(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(messages))
}
