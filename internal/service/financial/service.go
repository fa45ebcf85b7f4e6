package financial

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
)

type Service struct {
	repo repository.FinancialRepository
}

func NewService(repo repository.FinancialRepository) *Service {
	return &Service{repo: repo}
}

// Create appends a ledger entry. The entry type always comes from the
// sign of the amount; a caller-supplied type that disagrees with the
// sign is rejected rather than silently corrected.
func (s *Service) Create(ctx context.Context, clinicID uuid.UUID, req *model.CreateFinancialRecordRequest) (*model.FinancialRecord, error) {
	derived := model.FinancialTypeForAmount(req.Amount)
	if req.Type != nil && model.FinancialType(*req.Type) != derived {
		return nil, fmt.Errorf("type %s does not match the sign of amount %.2f", *req.Type, req.Amount)
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	record := &model.FinancialRecord{
		Base:          model.Base{ID: uuid.New()},
		ClinicID:      clinicID,
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		Description:   req.Description,
		Amount:        req.Amount,
		Date:          date,
		Type:          derived,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create financial record: %w", err)
	}
	return record, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.FinancialRecord, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.FinancialFilters) ([]*model.FinancialRecord, error) {
	return s.repo.List(ctx, filters)
}

// Summary aggregates the filtered ledger. Expenses carry negative
// amounts, so the balance is a plain sum.
type Summary struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

func (s *Service) Summarize(ctx context.Context, filters *model.FinancialFilters) (*Summary, error) {
	records, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	summary := &Summary{}
	for _, r := range records {
		if r.Type == model.FinancialIncome {
			summary.Income += r.Amount
		} else {
			summary.Expenses += r.Amount
		}
		summary.Balance += r.Amount
	}
	return summary, nil
}
