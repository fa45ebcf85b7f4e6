package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys populated by the auth middlewares.
const (
	ContextUserID    = "userID"
	ContextPatientID = "patientID"
	ContextClinicID  = "clinicID"
	ContextRole      = "role"
	ContextEmail     = "email"
)

// ClinicID returns the authenticated clinic id from the request context.
func ClinicID(c *gin.Context) (uuid.UUID, error) {
	return contextUUID(c, ContextClinicID)
}

// UserID returns the authenticated staff user id from the request context.
func UserID(c *gin.Context) (uuid.UUID, error) {
	return contextUUID(c, ContextUserID)
}

// PatientID returns the portal session's patient id from the request context.
func PatientID(c *gin.Context) (uuid.UUID, error) {
	return contextUUID(c, ContextPatientID)
}

func contextUUID(c *gin.Context, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.GetString(key))
	if err != nil {
		return uuid.Nil, fmt.Errorf("missing %s in context", key)
	}
	return id, nil
}
