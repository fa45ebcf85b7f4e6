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

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (id, clinic_id, name, cpf, date_of_birth, guardian_name,
			guardian_cpf, contact, email, address, avatar_url, type, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.ClinicID,
		patient.Name,
		patient.CPF,
		patient.DateOfBirth,
		patient.GuardianName,
		patient.GuardianCPF,
		patient.Contact,
		patient.Email,
		patient.Address,
		patient.AvatarURL,
		patient.Type,
		patient.Status,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1 AND deleted_at IS NULL`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) FindByCPFAndDOB(ctx context.Context, cpf, dateOfBirth string) ([]*model.Patient, error) {
	query := `
		SELECT * FROM patients
		WHERE cpf = $1 AND date_of_birth = $2 AND status = $3 AND deleted_at IS NULL
		ORDER BY created_at
	`
	var patients []*model.Patient
	err := r.db.SelectContext(ctx, &patients, query, cpf, dateOfBirth, model.PatientStatusActive)
	return patients, err
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET name = $1, guardian_name = $2, guardian_cpf = $3, contact = $4, email = $5,
			address = $6, avatar_url = $7, type = $8, status = $9, updated_at = $10
		WHERE id = $11 AND deleted_at IS NULL
	`
	patient.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		patient.Name,
		patient.GuardianName,
		patient.GuardianCPF,
		patient.Contact,
		patient.Email,
		patient.Address,
		patient.AvatarURL,
		patient.Type,
		patient.Status,
		patient.UpdatedAt,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE patients SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := `SELECT * FROM patients WHERE clinic_id = $1 AND deleted_at IS NULL`
	args := []interface{}{filters.ClinicID}

	if filters.Status != "" {
		args = append(args, filters.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filters.Type != "" {
		args = append(args, filters.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filters.SearchTerm != "" {
		args = append(args, "%"+filters.SearchTerm+"%")
		query += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	query += " ORDER BY created_at"

	var patients []*model.Patient
	err := r.db.SelectContext(ctx, &patients, query, args...)
	return patients, err
}
