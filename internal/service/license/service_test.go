package license

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teraclinic/clinic-api/internal/model"
)

type fakeCounter struct {
	counts map[string]int
}

func (f *fakeCounter) CountByRole(_ context.Context, _ uuid.UUID, role string) (int, error) {
	return f.counts[role], nil
}

type fakeSettings struct {
	settings *model.ClinicSettings
	saves    int
}

func (f *fakeSettings) Get(_ context.Context, _ uuid.UUID) (*model.ClinicSettings, error) {
	copy := *f.settings
	return &copy, nil
}

func (f *fakeSettings) Save(_ context.Context, s *model.ClinicSettings) error {
	f.settings = s
	f.saves++
	return nil
}

func newTestService(therapistQuota, adminQuota, therapists, admins int) (*Service, *fakeSettings) {
	settings := &fakeSettings{settings: &model.ClinicSettings{
		ClinicID:       uuid.New(),
		Name:           "Test Clinic",
		TherapistQuota: therapistQuota,
		AdminQuota:     adminQuota,
	}}
	counter := &fakeCounter{counts: map[string]int{
		model.RoleTherapist: therapists,
		model.RoleAdmin:     admins,
	}}
	return NewService(counter, settings), settings
}

func TestCanCreateUser(t *testing.T) {
	ctx := context.Background()
	clinicID := uuid.New()

	tests := []struct {
		name  string
		quota int
		count int
		want  bool
	}{
		{"below quota", 3, 2, true},
		{"at quota", 2, 2, false},
		{"zero quota", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(tt.quota, 1, tt.count, 0)
			got, err := svc.CanCreateUser(ctx, clinicID, model.RoleTherapist)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuotaGuardsAtFullUtilization(t *testing.T) {
	// quota=2, headcount=2: raising is allowed, lowering is not.
	ctx := context.Background()
	clinicID := uuid.New()
	svc, _ := newTestService(2, 1, 2, 0)

	canIncrease, err := svc.CanIncreaseQuota(ctx, clinicID, model.RoleTherapist)
	require.NoError(t, err)
	assert.True(t, canIncrease)

	canDecrease, err := svc.CanDecreaseQuota(ctx, clinicID, model.RoleTherapist)
	require.NoError(t, err)
	assert.False(t, canDecrease)
}

func TestQuotaGuardsWithSpareSeats(t *testing.T) {
	// quota=3, headcount=2: lowering is allowed, raising is not.
	ctx := context.Background()
	clinicID := uuid.New()
	svc, settings := newTestService(3, 1, 2, 0)

	canIncrease, err := svc.CanIncreaseQuota(ctx, clinicID, model.RoleTherapist)
	require.NoError(t, err)
	assert.False(t, canIncrease)

	canDecrease, err := svc.CanDecreaseQuota(ctx, clinicID, model.RoleTherapist)
	require.NoError(t, err)
	assert.True(t, canDecrease)

	updated, err := svc.DecreaseQuota(ctx, clinicID, model.RoleTherapist)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.TherapistQuota)
	assert.Equal(t, 1, settings.saves)
}

func TestIncreaseQuotaIsUnconditional(t *testing.T) {
	// The guard only disables the button; calling the mutator while the
	// guard is false still raises the quota.
	ctx := context.Background()
	clinicID := uuid.New()
	svc, _ := newTestService(3, 1, 2, 0)

	canIncrease, err := svc.CanIncreaseQuota(ctx, clinicID, model.RoleTherapist)
	require.NoError(t, err)
	assert.False(t, canIncrease)

	updated, err := svc.IncreaseQuota(ctx, clinicID, model.RoleTherapist)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.TherapistQuota)
}

func TestDecreaseQuotaNoOpWithoutSlack(t *testing.T) {
	ctx := context.Background()
	clinicID := uuid.New()

	// quota == headcount: nothing changes, nothing is saved.
	svc, settings := newTestService(2, 1, 2, 0)
	updated, err := svc.DecreaseQuota(ctx, clinicID, model.RoleTherapist)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.TherapistQuota)
	assert.Zero(t, settings.saves)

	// quota already below headcount behaves the same.
	svc, settings = newTestService(1, 1, 2, 0)
	updated, err = svc.DecreaseQuota(ctx, clinicID, model.RoleTherapist)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.TherapistQuota)
	assert.Zero(t, settings.saves)
}

func TestDecreaseQuotaFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	clinicID := uuid.New()
	svc, _ := newTestService(1, 1, 0, 0)

	updated, err := svc.DecreaseQuota(ctx, clinicID, model.RoleTherapist)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.TherapistQuota)

	// A second decrement has no slack argument left and must not go negative.
	updated, err = svc.DecreaseQuota(ctx, clinicID, model.RoleTherapist)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.TherapistQuota)
}

func TestAdminQuotaIsIndependent(t *testing.T) {
	ctx := context.Background()
	clinicID := uuid.New()
	svc, _ := newTestService(2, 1, 2, 1)

	canCreateAdmin, err := svc.CanCreateUser(ctx, clinicID, model.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, canCreateAdmin)

	updated, err := svc.IncreaseQuota(ctx, clinicID, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.AdminQuota)
	assert.Equal(t, 2, updated.TherapistQuota)
}

func TestMasterIsNotLicensed(t *testing.T) {
	ctx := context.Background()
	clinicID := uuid.New()
	svc, _ := newTestService(2, 1, 0, 0)

	_, err := svc.CanCreateUser(ctx, clinicID, model.RoleMaster)
	assert.ErrorIs(t, err, ErrUnlicensedRole)

	_, err = svc.IncreaseQuota(ctx, clinicID, model.RoleMaster)
	assert.ErrorIs(t, err, ErrUnlicensedRole)
}
