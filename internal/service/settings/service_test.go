package settings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
)

type fakeSettingsRepo struct {
	settings *model.ClinicSettings
	gets     int
	updates  int
}

func (f *fakeSettingsRepo) Create(_ context.Context, s *model.ClinicSettings) error {
	f.settings = s
	return nil
}

func (f *fakeSettingsRepo) GetByClinic(_ context.Context, clinicID uuid.UUID) (*model.ClinicSettings, error) {
	f.gets++
	if f.settings == nil || f.settings.ClinicID != clinicID {
		return nil, repository.ErrNotFound
	}
	copy := *f.settings
	return &copy, nil
}

func (f *fakeSettingsRepo) Update(_ context.Context, s *model.ClinicSettings) error {
	f.updates++
	f.settings = s
	return nil
}

func TestGetUsesCacheAfterFirstRead(t *testing.T) {
	clinicID := uuid.New()
	repo := &fakeSettingsRepo{settings: &model.ClinicSettings{
		ClinicID:       clinicID,
		Name:           "TeraClinic",
		TherapistQuota: 2,
		AdminQuota:     1,
	}}
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Get(ctx, clinicID)
	require.NoError(t, err)
	second, err := svc.Get(ctx, clinicID)
	require.NoError(t, err)

	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, 1, repo.gets)
}

func TestSaveRefreshesCache(t *testing.T) {
	clinicID := uuid.New()
	repo := &fakeSettingsRepo{settings: &model.ClinicSettings{
		ClinicID:       clinicID,
		Name:           "TeraClinic",
		TherapistQuota: 2,
	}}
	svc := NewService(repo)
	ctx := context.Background()

	settings, err := svc.Get(ctx, clinicID)
	require.NoError(t, err)

	settings.TherapistQuota = 3
	require.NoError(t, svc.Save(ctx, settings))

	got, err := svc.Get(ctx, clinicID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TherapistQuota)
	assert.Equal(t, 1, repo.gets)
}

func TestSaveRejectsNegativeQuota(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewService(repo)

	err := svc.Save(context.Background(), &model.ClinicSettings{TherapistQuota: -1})
	assert.Error(t, err)
	assert.Zero(t, repo.updates)
}

func TestUpdateBrandingLeavesQuotasAlone(t *testing.T) {
	clinicID := uuid.New()
	repo := &fakeSettingsRepo{settings: &model.ClinicSettings{
		ClinicID:       clinicID,
		Name:           "Old Name",
		TherapistQuota: 4,
		AdminQuota:     2,
	}}
	svc := NewService(repo)

	name := "New Name"
	updated, err := svc.UpdateBranding(context.Background(), clinicID, &model.UpdateSettingsRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, 4, updated.TherapistQuota)
	assert.Equal(t, 2, updated.AdminQuota)
}
