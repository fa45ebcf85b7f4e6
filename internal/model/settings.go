package model

import (
	"github.com/google/uuid"
)

// Default seat quotas applied to a freshly registered clinic.
const (
	DefaultTherapistQuota = 2
	DefaultAdminQuota     = 1
)

// ClinicSettings holds per-tenant branding and license quotas. One row
// per clinic; mutated by the MASTER only.
type ClinicSettings struct {
	Base
	ClinicID       uuid.UUID `json:"clinic_id" db:"clinic_id"`
	Name           string    `json:"name" db:"name"`
	LogoURL        *string   `json:"logo_url" db:"logo_url"`
	TherapistQuota int       `json:"therapist_quota" db:"therapist_quota"`
	AdminQuota     int       `json:"admin_quota" db:"admin_quota"`
}

// QuotaForRole returns the configured seat quota for a licensed role.
func (s *ClinicSettings) QuotaForRole(role string) int {
	switch role {
	case RoleTherapist:
		return s.TherapistQuota
	case RoleAdmin:
		return s.AdminQuota
	}
	return 0
}

// SetQuotaForRole stores the quota for a licensed role.
func (s *ClinicSettings) SetQuotaForRole(role string, quota int) {
	switch role {
	case RoleTherapist:
		s.TherapistQuota = quota
	case RoleAdmin:
		s.AdminQuota = quota
	}
}

type UpdateSettingsRequest struct {
	Name    *string `json:"name"`
	LogoURL *string `json:"logo_url" binding:"omitempty,url"`
}
