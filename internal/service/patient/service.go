package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
)

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

// Create registers a patient. New patients start active so the
// guardian portal pair works immediately.
func (s *Service) Create(ctx context.Context, clinicID uuid.UUID, req *model.CreatePatientRequest) (*model.Patient, error) {
	if req.Type == model.PatientTypeChild && req.GuardianName == "" {
		return nil, fmt.Errorf("child patients require a guardian name")
	}

	patient := &model.Patient{
		Base:         model.Base{ID: uuid.New()},
		ClinicID:     clinicID,
		Name:         req.Name,
		CPF:          req.CPF,
		DateOfBirth:  req.DateOfBirth,
		GuardianName: req.GuardianName,
		GuardianCPF:  req.GuardianCPF,
		Contact:      req.Contact,
		Email:        req.Email,
		Address:      req.Address,
		Type:         req.Type,
		Status:       string(model.PatientStatusActive),
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.GuardianName != nil {
		patient.GuardianName = *req.GuardianName
	}
	if req.GuardianCPF != nil {
		patient.GuardianCPF = req.GuardianCPF
	}
	if req.Contact != nil {
		patient.Contact = *req.Contact
	}
	if req.Email != nil {
		patient.Email = req.Email
	}
	if req.Address != nil {
		patient.Address = req.Address
	}
	if req.AvatarURL != nil {
		patient.AvatarURL = req.AvatarURL
	}
	if req.Type != nil {
		patient.Type = *req.Type
	}
	if req.Status != nil {
		patient.Status = *req.Status
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return patient, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
