package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
)

type Service struct {
	repo     repository.AppointmentRepository
	patients repository.PatientRepository
}

func NewService(repo repository.AppointmentRepository, patients repository.PatientRepository) *Service {
	return &Service{repo: repo, patients: patients}
}

// Create schedules a session. The patient must exist and the slot must
// have positive duration.
func (s *Service) Create(ctx context.Context, clinicID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if !req.StartTime.Before(req.EndTime) {
		return nil, fmt.Errorf("start time must be before end time")
	}
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}

	appointment := &model.Appointment{
		Base:          model.Base{ID: uuid.New()},
		ClinicID:      clinicID,
		PatientID:     req.PatientID,
		TherapistID:   req.TherapistID,
		Title:         req.Title,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Recurrence:    model.AppointmentRecurrence(req.Recurrence),
		BillingType:   model.BillingType(req.BillingType),
		BillingAmount: req.BillingAmount,
	}
	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.repo.List(ctx, filters)
}

// Update reschedules or re-bills a session. The positive-duration
// invariant is re-checked against the merged times.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		appointment.Title = *req.Title
	}
	if req.StartTime != nil {
		appointment.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		appointment.EndTime = *req.EndTime
	}
	if req.Recurrence != nil {
		appointment.Recurrence = model.AppointmentRecurrence(*req.Recurrence)
	}
	if req.BillingType != nil {
		appointment.BillingType = model.BillingType(*req.BillingType)
	}
	if req.BillingAmount != nil {
		appointment.BillingAmount = *req.BillingAmount
	}
	if req.BillingPaid != nil {
		appointment.BillingPaid = *req.BillingPaid
	}

	if !appointment.StartTime.Before(appointment.EndTime) {
		return nil, fmt.Errorf("start time must be before end time")
	}

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
