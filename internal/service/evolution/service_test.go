package evolution

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
	"github.com/teraclinic/clinic-api/pkg/ai"
)

type fakeEvolutionRepo struct {
	notes []*model.Evolution
}

func (f *fakeEvolutionRepo) Create(_ context.Context, e *model.Evolution) error {
	f.notes = append(f.notes, e)
	return nil
}

func (f *fakeEvolutionRepo) Get(_ context.Context, id uuid.UUID) (*model.Evolution, error) {
	for _, e := range f.notes {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeEvolutionRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*model.Evolution, error) {
	var out []*model.Evolution
	for _, e := range f.notes {
		if e.PatientID == patientID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakePatientRepo struct {
	patient *model.Patient
}

func (f *fakePatientRepo) Create(_ context.Context, _ *model.Patient) error { return nil }

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	if f.patient != nil && f.patient.ID == id {
		return f.patient, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakePatientRepo) FindByCPFAndDOB(_ context.Context, _, _ string) ([]*model.Patient, error) {
	return nil, nil
}

func (f *fakePatientRepo) Update(_ context.Context, _ *model.Patient) error { return nil }
func (f *fakePatientRepo) Delete(_ context.Context, _ uuid.UUID) error      { return nil }

func (f *fakePatientRepo) List(_ context.Context, _ *model.PatientFilters) ([]*model.Patient, error) {
	return nil, nil
}

type fakeGenerator struct {
	draft   string
	err     error
	history []ai.Note
}

func (f *fakeGenerator) GenerateDraft(_ context.Context, _ string, history []ai.Note) (string, error) {
	f.history = history
	return f.draft, f.err
}

func newTestService(gen *fakeGenerator) (*Service, *fakeEvolutionRepo, *model.Patient) {
	repo := &fakeEvolutionRepo{}
	patient := &model.Patient{Base: model.Base{ID: uuid.New()}, ClinicID: uuid.New()}
	svc := NewService(repo, &fakePatientRepo{patient: patient}, gen, nil)
	return svc, repo, patient
}

func seedNotes(repo *fakeEvolutionRepo, patientID uuid.UUID, n int, internalEvery int) {
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		repo.notes = append(repo.notes, &model.Evolution{
			Base:       model.Base{ID: uuid.New()},
			PatientID:  patientID,
			Date:       base.AddDate(0, 0, i),
			IsInternal: internalEvery > 0 && i%internalEvery == 0,
			Content:    fmt.Sprintf("note %d", i),
		})
	}
}

func TestCreateEvolution(t *testing.T) {
	svc, repo, patient := newTestService(&fakeGenerator{})

	note, err := svc.Create(context.Background(), patient.ClinicID, uuid.New(), &model.CreateEvolutionRequest{
		PatientID: patient.ID,
		Content:   "Patient engaged well with the exercises.",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, note.ID)
	assert.False(t, note.Date.IsZero())
	assert.Len(t, repo.notes, 1)
}

func TestCreateEvolutionUnknownPatient(t *testing.T) {
	svc, _, patient := newTestService(&fakeGenerator{})

	_, err := svc.Create(context.Background(), patient.ClinicID, uuid.New(), &model.CreateEvolutionRequest{
		PatientID: uuid.New(),
		Content:   "note",
	})
	assert.Error(t, err)
}

func TestListForPortalHidesInternalNotes(t *testing.T) {
	svc, repo, patient := newTestService(&fakeGenerator{})
	seedNotes(repo, patient.ID, 4, 2)
	ctx := context.Background()

	staff, err := svc.ListForStaff(ctx, patient.ID)
	require.NoError(t, err)
	assert.Len(t, staff, 4)

	portal, err := svc.ListForPortal(ctx, patient.ID)
	require.NoError(t, err)
	assert.Len(t, portal, 2)
	for _, e := range portal {
		assert.False(t, e.IsInternal)
	}
}

func TestGenerateDraftUsesRecentHistory(t *testing.T) {
	gen := &fakeGenerator{draft: "Generated note."}
	svc, repo, patient := newTestService(gen)
	seedNotes(repo, patient.ID, 5, 0)

	draft, err := svc.GenerateDraft(context.Background(), &model.DraftEvolutionRequest{
		PatientID: patient.ID,
		Keywords:  "focus, motor coordination",
	})
	require.NoError(t, err)
	assert.Equal(t, "Generated note.", draft)

	// Only the three most recent notes reach the prompt.
	require.Len(t, gen.history, 3)
	assert.Equal(t, time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC), gen.history[0].Date)
	assert.Equal(t, time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC), gen.history[2].Date)
}

func TestGenerateDraftFallsBackOnProviderError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("provider down")}
	svc, _, patient := newTestService(gen)

	draft, err := svc.GenerateDraft(context.Background(), &model.DraftEvolutionRequest{
		PatientID: patient.ID,
		Keywords:  "focus",
	})
	require.NoError(t, err)
	assert.Equal(t, ai.FallbackDraft, draft)
}

func TestGenerateDraftFallsBackWhenNotConfigured(t *testing.T) {
	gen := &fakeGenerator{err: ai.ErrNotConfigured}
	svc, _, patient := newTestService(gen)

	draft, err := svc.GenerateDraft(context.Background(), &model.DraftEvolutionRequest{
		PatientID: patient.ID,
		Keywords:  "focus",
	})
	require.NoError(t, err)
	assert.Equal(t, ai.FallbackDraft, draft)
}
