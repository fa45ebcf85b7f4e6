package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
)

type settingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Create(ctx context.Context, settings *model.ClinicSettings) error {
	query := `
		INSERT INTO clinic_settings (id, clinic_id, name, logo_url, therapist_quota,
			admin_quota, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	settings.CreatedAt = time.Now()
	settings.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		settings.ID,
		settings.ClinicID,
		settings.Name,
		settings.LogoURL,
		settings.TherapistQuota,
		settings.AdminQuota,
		settings.CreatedAt,
		settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create clinic settings: %w", err)
	}
	return nil
}

func (r *settingsRepository) GetByClinic(ctx context.Context, clinicID uuid.UUID) (*model.ClinicSettings, error) {
	query := `SELECT * FROM clinic_settings WHERE clinic_id = $1 AND deleted_at IS NULL`
	var settings model.ClinicSettings
	if err := r.db.GetContext(ctx, &settings, query, clinicID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get clinic settings: %w", err)
	}
	return &settings, nil
}

func (r *settingsRepository) Update(ctx context.Context, settings *model.ClinicSettings) error {
	query := `
		UPDATE clinic_settings
		SET name = $1, logo_url = $2, therapist_quota = $3, admin_quota = $4, updated_at = $5
		WHERE clinic_id = $6 AND deleted_at IS NULL
	`
	settings.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		settings.Name,
		settings.LogoURL,
		settings.TherapistQuota,
		settings.AdminQuota,
		settings.UpdatedAt,
		settings.ClinicID,
	)
	if err != nil {
		return fmt.Errorf("failed to update clinic settings: %w", err)
	}
	return nil
}
