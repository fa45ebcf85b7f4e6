package model

import (
	"errors"

	"github.com/google/uuid"
)

// Auth errors surfaced to clients. Credential failures are generic on
// purpose and never reveal which field was wrong.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// PortalLoginRequest authenticates a patient guardian by the
// (cpf, date_of_birth) pair.
type PortalLoginRequest struct {
	CPF         string `json:"cpf" binding:"required,cpf"`
	DateOfBirth string `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
}

// SignupRequest creates a clinic tenant and its MASTER account.
type SignupRequest struct {
	Name            string `json:"name" binding:"required"`
	CompanyName     string `json:"company_name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
	CPF             string `json:"cpf" binding:"required,cpf"`
	DateOfBirth     string `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
}

// RecoverAccountRequest verifies account ownership by three fields at once.
type RecoverAccountRequest struct {
	CPF         string `json:"cpf" binding:"required,cpf"`
	DateOfBirth string `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	Email       string `json:"email" binding:"required,email"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

// PortalTokenResponse is returned on successful guardian login and
// scopes the session to one patient.
type PortalTokenResponse struct {
	AccessToken string   `json:"access_token"`
	Patient     *Patient `json:"patient"`
}

// TokenClaims carries the identity resolved from a verified token.
type TokenClaims struct {
	UserID    uuid.UUID
	PatientID uuid.UUID
	ClinicID  uuid.UUID
	Email     string
	Role      string
	Scope     string
}
