package license

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/teraclinic/clinic-api/internal/model"
)

// ErrUnlicensedRole is returned for quota operations on roles that are
// not seat-counted (MASTER).
var ErrUnlicensedRole = errors.New("role is not covered by a license quota")

// UserCounter exposes the headcount the policy compares quotas against.
type UserCounter interface {
	CountByRole(ctx context.Context, clinicID uuid.UUID, role string) (int, error)
}

// SettingsStore reads and writes the clinic settings that carry quotas.
type SettingsStore interface {
	Get(ctx context.Context, clinicID uuid.UUID) (*model.ClinicSettings, error)
	Save(ctx context.Context, settings *model.ClinicSettings) error
}

// Service gates staff seat creation and quota changes for one clinic.
//
// The quota rules are deliberately asymmetric: a quota may be raised
// only once every existing seat is occupied, and lowered only while
// unused seats exist. The increase guard is advisory; IncreaseQuota
// itself mutates unconditionally.
type Service struct {
	users    UserCounter
	settings SettingsStore
}

func NewService(users UserCounter, settings SettingsStore) *Service {
	return &Service{users: users, settings: settings}
}

// CountByRole returns the number of active users holding the role.
func (s *Service) CountByRole(ctx context.Context, clinicID uuid.UUID, role string) (int, error) {
	if !model.IsLicensedRole(role) {
		return 0, ErrUnlicensedRole
	}
	return s.users.CountByRole(ctx, clinicID, role)
}

// CanIncreaseQuota holds iff every configured seat is already occupied.
func (s *Service) CanIncreaseQuota(ctx context.Context, clinicID uuid.UUID, role string) (bool, error) {
	quota, count, err := s.quotaAndCount(ctx, clinicID, role)
	if err != nil {
		return false, err
	}
	return count >= quota, nil
}

// CanDecreaseQuota holds iff unused seats exist; a quota never drops
// below the active headcount.
func (s *Service) CanDecreaseQuota(ctx context.Context, clinicID uuid.UUID, role string) (bool, error) {
	quota, count, err := s.quotaAndCount(ctx, clinicID, role)
	if err != nil {
		return false, err
	}
	return quota > count, nil
}

// IncreaseQuota raises the stored quota by one. The mutation is
// unconditional; CanIncreaseQuota only gates the surface that calls it.
func (s *Service) IncreaseQuota(ctx context.Context, clinicID uuid.UUID, role string) (*model.ClinicSettings, error) {
	if !model.IsLicensedRole(role) {
		return nil, ErrUnlicensedRole
	}
	settings, err := s.settings.Get(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	settings.SetQuotaForRole(role, settings.QuotaForRole(role)+1)
	if err := s.settings.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return settings, nil
}

// DecreaseQuota lowers the quota by one, floored at zero. It is a
// no-op while no unused seat exists.
func (s *Service) DecreaseQuota(ctx context.Context, clinicID uuid.UUID, role string) (*model.ClinicSettings, error) {
	ok, err := s.CanDecreaseQuota(ctx, clinicID, role)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if !ok {
		return settings, nil
	}
	next := settings.QuotaForRole(role) - 1
	if next < 0 {
		next = 0
	}
	settings.SetQuotaForRole(role, next)
	if err := s.settings.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return settings, nil
}

// RoleStatus bundles one role's quota, headcount and guards.
type RoleStatus struct {
	Role        string `json:"role"`
	Quota       int    `json:"quota"`
	Used        int    `json:"used"`
	CanIncrease bool   `json:"can_increase"`
	CanDecrease bool   `json:"can_decrease"`
	CanCreate   bool   `json:"can_create"`
}

// Status reports the role's seat situation in one read.
func (s *Service) Status(ctx context.Context, clinicID uuid.UUID, role string) (*RoleStatus, error) {
	quota, count, err := s.quotaAndCount(ctx, clinicID, role)
	if err != nil {
		return nil, err
	}
	return &RoleStatus{
		Role:        role,
		Quota:       quota,
		Used:        count,
		CanIncrease: count >= quota,
		CanDecrease: quota > count,
		CanCreate:   count < quota,
	}, nil
}

// CanCreateUser holds while the role's headcount is below its quota.
func (s *Service) CanCreateUser(ctx context.Context, clinicID uuid.UUID, role string) (bool, error) {
	quota, count, err := s.quotaAndCount(ctx, clinicID, role)
	if err != nil {
		return false, err
	}
	return count < quota, nil
}

func (s *Service) quotaAndCount(ctx context.Context, clinicID uuid.UUID, role string) (quota, count int, err error) {
	if !model.IsLicensedRole(role) {
		return 0, 0, ErrUnlicensedRole
	}
	settings, err := s.settings.Get(ctx, clinicID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load settings: %w", err)
	}
	count, err = s.users.CountByRole(ctx, clinicID, role)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count seats: %w", err)
	}
	return settings.QuotaForRole(role), count, nil
}
