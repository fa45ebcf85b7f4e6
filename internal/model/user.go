package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Staff roles. A clinic has exactly one MASTER; THERAPIST and ADMIN
// seats are bounded by the clinic's license quotas.
const (
	RoleMaster    = "MASTER"
	RoleTherapist = "THERAPIST"
	RoleAdmin     = "ADMIN"
)

// Capability tags granted to staff users.
const (
	PermissionFinancialControl = "FINANCIAL_CONTROL"
	PermissionManageTherapists = "MANAGE_THERAPISTS"
	PermissionManageSchedule   = "MANAGE_SCHEDULE"
)

// IsLicensedRole reports whether the role is seat-counted against a quota.
func IsLicensedRole(role string) bool {
	return role == RoleTherapist || role == RoleAdmin
}

// User represents a staff member of a clinic
type User struct {
	Base
	ClinicID      uuid.UUID      `json:"clinic_id" db:"clinic_id"`
	Name          string         `json:"name" db:"name"`
	Email         string         `json:"email" db:"email"`
	PasswordHash  string         `json:"-" db:"password_hash"`
	CPF           string         `json:"cpf" db:"cpf"`
	DateOfBirth   string         `json:"date_of_birth" db:"date_of_birth"`
	Role          string         `json:"role" db:"role"`
	Permissions   pq.StringArray `json:"permissions" db:"permissions"`
	AvatarURL     *string        `json:"avatar_url" db:"avatar_url"`
	CouncilType   *string        `json:"council_type,omitempty" db:"council_type"`
	CouncilNumber *string        `json:"council_number,omitempty" db:"council_number"`
}

// HasPermission reports whether the user carries the capability tag.
func (u *User) HasPermission(perm string) bool {
	if u.Role == RoleMaster {
		return true
	}
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// CreateUserRequest represents staff creation parameters
type CreateUserRequest struct {
	Name          string   `json:"name" binding:"required"`
	Email         string   `json:"email" binding:"required,email"`
	Password      string   `json:"password" binding:"required,min=8"`
	CPF           string   `json:"cpf" binding:"required,cpf"`
	DateOfBirth   string   `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	Role          string   `json:"role" binding:"required,oneof=THERAPIST ADMIN"`
	Permissions   []string `json:"permissions" binding:"omitempty,dive,oneof=FINANCIAL_CONTROL MANAGE_THERAPISTS MANAGE_SCHEDULE"`
	CouncilType   *string  `json:"council_type"`
	CouncilNumber *string  `json:"council_number"`
}

// UpdateUserRequest represents staff update parameters
type UpdateUserRequest struct {
	Name          *string  `json:"name"`
	Email         *string  `json:"email" binding:"omitempty,email"`
	Permissions   []string `json:"permissions" binding:"omitempty,dive,oneof=FINANCIAL_CONTROL MANAGE_THERAPISTS MANAGE_SCHEDULE"`
	AvatarURL     *string  `json:"avatar_url"`
	CouncilType   *string  `json:"council_type"`
	CouncilNumber *string  `json:"council_number"`
}
