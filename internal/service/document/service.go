package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
)

type Service struct {
	repo     repository.DocumentRepository
	patients repository.PatientRepository
}

func NewService(repo repository.DocumentRepository, patients repository.PatientRepository) *Service {
	return &Service{repo: repo, patients: patients}
}

// Create records metadata for a file already held by external storage.
func (s *Service) Create(ctx context.Context, clinicID, uploadedBy uuid.UUID, req *model.CreateDocumentRequest) (*model.Document, error) {
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}

	document := &model.Document{
		Base:       model.Base{ID: uuid.New()},
		ClinicID:   clinicID,
		PatientID:  req.PatientID,
		UploadedBy: uploadedBy,
		FileName:   req.FileName,
		FileType:   req.FileType,
		UploadDate: time.Now(),
		URL:        req.URL,
	}
	if err := s.repo.Create(ctx, document); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return document, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Document, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
