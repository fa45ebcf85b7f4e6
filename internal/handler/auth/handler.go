package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teraclinic/clinic-api/internal/handler"
	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/service/auth"
	"github.com/teraclinic/clinic-api/pkg/metrics"
)

type Handler struct {
	svc     *auth.Service
	metrics *metrics.Metrics
}

func NewHandler(svc *auth.Service, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, metrics: m}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/recover", h.RecoverAccount)
		authGroup.POST("/refresh", h.RefreshToken)
		authGroup.POST("/logout", h.Logout)
	}
	portal := r.Group("/portal")
	{
		portal.POST("/login", h.PortalLogin)
	}
}

func (h *Handler) countLogin(kind string, err error) {
	if h.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	h.metrics.LoginAttempts.WithLabelValues(kind, outcome).Inc()
}

// Signup creates a new clinic with its MASTER account.
func (h *Handler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, err := h.svc.RegisterMaster(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(tokens))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, err := h.svc.LoginStaff(c.Request.Context(), req.Email, req.Password)
	h.countLogin("staff", err)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid credentials"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

// PortalLogin authenticates a guardian by the patient's cpf and date of
// birth pair.
func (h *Handler) PortalLogin(c *gin.Context) {
	var req model.PortalLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, err := h.svc.LoginGuardian(c.Request.Context(), req.CPF, req.DateOfBirth)
	h.countLogin("portal", err)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid credentials"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("login failed"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

// RecoverAccount answers whether the three identity fields match a
// stored account. The response is boolean only.
func (h *Handler) RecoverAccount(c *gin.Context) {
	var req model.RecoverAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	ok, err := h.svc.RecoverAccount(c.Request.Context(), req.CPF, req.DateOfBirth, req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("recovery check failed"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"recovered": ok}))
}

func (h *Handler) RefreshToken(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, err := h.svc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid refresh token"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token := ""
	if len(header) > 7 && header[:7] == "Bearer " {
		token = header[7:]
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("missing token"))
		return
	}

	if err := h.svc.Logout(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("logged out successfully"))
}
