package portal

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teraclinic/clinic-api/internal/handler"
	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/service/appointment"
	"github.com/teraclinic/clinic-api/internal/service/chat"
	"github.com/teraclinic/clinic-api/internal/service/document"
	"github.com/teraclinic/clinic-api/internal/service/evolution"
	"github.com/teraclinic/clinic-api/internal/service/patient"
)

// Handler is the guardian-facing surface. Every route is scoped to the
// single patient carried by the portal token; internal notes and
// internal chat messages never leave this boundary.
type Handler struct {
	patients     *patient.Service
	appointments *appointment.Service
	evolutions   *evolution.Service
	chats        *chat.Service
	documents    *document.Service
}

func NewHandler(
	patients *patient.Service,
	appointments *appointment.Service,
	evolutions *evolution.Service,
	chats *chat.Service,
	documents *document.Service,
) *Handler {
	return &Handler{
		patients:     patients,
		appointments: appointments,
		evolutions:   evolutions,
		chats:        chats,
		documents:    documents,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/me", h.Me)
	r.GET("/appointments", h.Appointments)
	r.GET("/evolutions", h.Evolutions)
	r.GET("/documents", h.Documents)
	r.GET("/chat", h.ChatHistory)
	r.POST("/chat/messages", h.SendMessage)
}

func (h *Handler) Me(c *gin.Context) {
	patientID, err := handler.PatientID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	found, err := h.patients.Get(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("patient not found"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) Appointments(c *gin.Context) {
	patientID, err := handler.PatientID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	appointments, err := h.appointments.List(c.Request.Context(), &model.AppointmentFilters{PatientID: patientID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

// Evolutions lists only the notes shared with the guardian.
func (h *Handler) Evolutions(c *gin.Context) {
	patientID, err := handler.PatientID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	evolutions, err := h.evolutions.ListForPortal(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(evolutions))
}

func (h *Handler) Documents(c *gin.Context) {
	patientID, err := handler.PatientID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	documents, err := h.documents.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(documents))
}

func (h *Handler) ChatHistory(c *gin.Context) {
	patientID, err := handler.PatientID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	messages, err := h.chats.ListForPortal(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(messages))
}

// SendMessage posts a guardian message to the clinic's care group.
func (h *Handler) SendMessage(c *gin.Context) {
	patientID, err := handler.PatientID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}
	clinicID, err := handler.ClinicID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	var body struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	req := &model.CreateChatMessageRequest{
		PatientID: patientID,
		Receiver:  string(model.ParticipantGroup),
		Content:   body.Content,
	}
	message, err := h.chats.Send(c.Request.Context(), clinicID, model.GuardianParticipant(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(message))
}
