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

type evolutionRepository struct {
	db *sqlx.DB
}

func NewEvolutionRepository(db *sqlx.DB) repository.EvolutionRepository {
	return &evolutionRepository{db: db}
}

// Evolutions are append-only: there is no update or delete path.
func (r *evolutionRepository) Create(ctx context.Context, evolution *model.Evolution) error {
	query := `
		INSERT INTO evolutions (id, clinic_id, patient_id, therapist_id, date, is_internal,
			content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	evolution.CreatedAt = time.Now()
	evolution.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		evolution.ID,
		evolution.ClinicID,
		evolution.PatientID,
		evolution.TherapistID,
		evolution.Date,
		evolution.IsInternal,
		evolution.Content,
		evolution.CreatedAt,
		evolution.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create evolution: %w", err)
	}
	return nil
}

func (r *evolutionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Evolution, error) {
	query := `SELECT * FROM evolutions WHERE id = $1 AND deleted_at IS NULL`
	var evolution model.Evolution
	if err := r.db.GetContext(ctx, &evolution, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get evolution: %w", err)
	}
	return &evolution, nil
}

func (r *evolutionRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Evolution, error) {
	query := `SELECT * FROM evolutions WHERE patient_id = $1 AND deleted_at IS NULL ORDER BY date`
	var evolutions []*model.Evolution
	err := r.db.SelectContext(ctx, &evolutions, query, patientID)
	return evolutions, err
}
