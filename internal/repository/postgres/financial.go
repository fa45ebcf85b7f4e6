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

type financialRepository struct {
	db *sqlx.DB
}

func NewFinancialRepository(db *sqlx.DB) repository.FinancialRepository {
	return &financialRepository{db: db}
}

func (r *financialRepository) Create(ctx context.Context, record *model.FinancialRecord) error {
	query := `
		INSERT INTO financial_records (id, clinic_id, patient_id, appointment_id, description,
			amount, date, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.ClinicID,
		record.PatientID,
		record.AppointmentID,
		record.Description,
		record.Amount,
		record.Date,
		record.Type,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create financial record: %w", err)
	}
	return nil
}

func (r *financialRepository) Get(ctx context.Context, id uuid.UUID) (*model.FinancialRecord, error) {
	query := `SELECT * FROM financial_records WHERE id = $1 AND deleted_at IS NULL`
	var record model.FinancialRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get financial record: %w", err)
	}
	return &record, nil
}

func (r *financialRepository) List(ctx context.Context, filters *model.FinancialFilters) ([]*model.FinancialRecord, error) {
	query := `SELECT * FROM financial_records WHERE clinic_id = $1 AND deleted_at IS NULL`
	args := []interface{}{filters.ClinicID}

	if filters.PatientID != uuid.Nil {
		args = append(args, filters.PatientID)
		query += fmt.Sprintf(" AND patient_id = $%d", len(args))
	}
	if filters.Type != "" {
		args = append(args, filters.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if !filters.Range.Start.IsZero() {
		args = append(args, filters.Range.Start)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !filters.Range.End.IsZero() {
		args = append(args, filters.Range.End)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date"

	var records []*model.FinancialRecord
	err := r.db.SelectContext(ctx, &records, query, args...)
	return records, err
}
