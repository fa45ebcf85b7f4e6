package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teraclinic/clinic-api/internal/handler"
	"github.com/teraclinic/clinic-api/internal/repository"
	authService "github.com/teraclinic/clinic-api/internal/service/auth"
	"github.com/teraclinic/clinic-api/pkg/auth"
)

// Context keys set by the auth middlewares, shared with the handlers.
const (
	ContextUserID    = handler.ContextUserID
	ContextPatientID = handler.ContextPatientID
	ContextClinicID  = handler.ContextClinicID
	ContextRole      = handler.ContextRole
	ContextEmail     = handler.ContextEmail
)

type AuthMiddleware struct {
	authSvc *authService.Service
	users   repository.UserRepository
}

func NewAuthMiddleware(authSvc *authService.Service, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc, users: users}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// Authenticate verifies a staff token and sets the identity in context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing or malformed authorization header"))
			c.Abort()
			return
		}

		claims, err := m.authSvc.ValidateToken(c.Request.Context(), token)
		if err != nil || claims.Scope != auth.ScopeStaff {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID.String())
		c.Set(ContextClinicID, claims.ClinicID.String())
		c.Set(ContextRole, claims.Role)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// AuthenticatePortal verifies a guardian portal token. Portal tokens
// are bound to exactly one patient and open no staff surface.
func (m *AuthMiddleware) AuthenticatePortal() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing or malformed authorization header"))
			c.Abort()
			return
		}

		claims, err := m.authSvc.ValidateToken(c.Request.Context(), token)
		if err != nil || claims.Scope != auth.ScopePortal {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(ContextPatientID, claims.PatientID.String())
		c.Set(ContextClinicID, claims.ClinicID.String())
		c.Next()
	}
}

// RequireRole allows only the listed roles past.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("insufficient role"))
		c.Abort()
	}
}

// RequirePermission checks the capability tag on the stored user record,
// so permission edits take effect without re-login.
func (m *AuthMiddleware) RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.GetString(ContextUserID))
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid user id"))
			c.Abort()
			return
		}

		user, err := m.users.Get(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unknown user"))
			c.Abort()
			return
		}

		if !user.HasPermission(permission) {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("permission denied"))
			c.Abort()
			return
		}
		c.Next()
	}
}
