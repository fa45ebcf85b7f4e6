package evolution

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
	"github.com/teraclinic/clinic-api/pkg/ai"
	"github.com/teraclinic/clinic-api/pkg/metrics"
)

// historyDepth is how many recent notes feed the draft prompt.
const historyDepth = 3

type Service struct {
	repo      repository.EvolutionRepository
	patients  repository.PatientRepository
	generator ai.TextGenerator
	metrics   *metrics.Metrics
}

func NewService(repo repository.EvolutionRepository, patients repository.PatientRepository, generator ai.TextGenerator, m *metrics.Metrics) *Service {
	return &Service{repo: repo, patients: patients, generator: generator, metrics: m}
}

// Create appends a progress note. Notes are never edited or deleted
// afterwards.
func (s *Service) Create(ctx context.Context, clinicID, therapistID uuid.UUID, req *model.CreateEvolutionRequest) (*model.Evolution, error) {
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	evolution := &model.Evolution{
		Base:        model.Base{ID: uuid.New()},
		ClinicID:    clinicID,
		PatientID:   req.PatientID,
		TherapistID: therapistID,
		Date:        date,
		IsInternal:  req.IsInternal,
		Content:     req.Content,
	}
	if err := s.repo.Create(ctx, evolution); err != nil {
		return nil, fmt.Errorf("failed to create evolution: %w", err)
	}
	return evolution, nil
}

// ListForStaff returns the patient's full note history, internal
// entries included.
func (s *Service) ListForStaff(ctx context.Context, patientID uuid.UUID) ([]*model.Evolution, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// ListForPortal returns only the notes shared with the guardian.
func (s *Service) ListForPortal(ctx context.Context, patientID uuid.UUID) ([]*model.Evolution, error) {
	all, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	shared := make([]*model.Evolution, 0, len(all))
	for _, e := range all {
		if !e.IsInternal {
			shared = append(shared, e)
		}
	}
	return shared, nil
}

// GenerateDraft asks the text provider for a note draft from the
// session keywords and the patient's last notes. Provider failure is
// absorbed: the caller always gets usable text, never an error page.
func (s *Service) GenerateDraft(ctx context.Context, req *model.DraftEvolutionRequest) (string, error) {
	if s.metrics != nil {
		s.metrics.DraftRequests.Inc()
	}

	notes, err := s.repo.ListByPatient(ctx, req.PatientID)
	if err != nil {
		return "", fmt.Errorf("failed to load history: %w", err)
	}
	// History comes back date-ascending; the prompt gets the tail.
	if len(notes) > historyDepth {
		notes = notes[len(notes)-historyDepth:]
	}

	history := make([]ai.Note, 0, len(notes))
	for _, n := range notes {
		history = append(history, ai.Note{Date: n.Date, Content: n.Content})
	}

	draft, err := s.generator.GenerateDraft(ctx, req.Keywords, history)
	if err != nil {
		log.Warn().Err(err).Str("patient_id", req.PatientID.String()).Msg("draft generation failed, serving fallback")
		if s.metrics != nil {
			s.metrics.DraftFallbacks.Inc()
		}
		return ai.FallbackDraft, nil
	}
	return draft, nil
}
