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

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (id, clinic_id, patient_id, therapist_id, title, start_time,
			end_time, recurrence, billing_type, billing_amount, billing_paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.ClinicID,
		appointment.PatientID,
		appointment.TherapistID,
		appointment.Title,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Recurrence,
		appointment.BillingType,
		appointment.BillingAmount,
		appointment.BillingPaid,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE id = $1 AND deleted_at IS NULL`
	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET title = $1, start_time = $2, end_time = $3, recurrence = $4, billing_type = $5,
			billing_amount = $6, billing_paid = $7, therapist_id = $8, updated_at = $9
		WHERE id = $10 AND deleted_at IS NULL
	`
	appointment.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		appointment.Title,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Recurrence,
		appointment.BillingType,
		appointment.BillingAmount,
		appointment.BillingPaid,
		appointment.TherapistID,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE appointments SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE clinic_id = $1 AND deleted_at IS NULL`
	args := []interface{}{filters.ClinicID}

	if filters.PatientID != uuid.Nil {
		args = append(args, filters.PatientID)
		query += fmt.Sprintf(" AND patient_id = $%d", len(args))
	}
	if filters.TherapistID != uuid.Nil {
		args = append(args, filters.TherapistID)
		query += fmt.Sprintf(" AND therapist_id = $%d", len(args))
	}
	if !filters.Range.Start.IsZero() {
		args = append(args, filters.Range.Start)
		query += fmt.Sprintf(" AND start_time >= $%d", len(args))
	}
	if !filters.Range.End.IsZero() {
		args = append(args, filters.Range.End)
		query += fmt.Sprintf(" AND start_time <= $%d", len(args))
	}
	query += " ORDER BY start_time"

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	return appointments, err
}
