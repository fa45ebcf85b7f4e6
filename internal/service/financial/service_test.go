package financial

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
)

type fakeFinancialRepo struct {
	records []*model.FinancialRecord
}

func (f *fakeFinancialRepo) Create(_ context.Context, r *model.FinancialRecord) error {
	f.records = append(f.records, r)
	return nil
}

func (f *fakeFinancialRepo) Get(_ context.Context, id uuid.UUID) (*model.FinancialRecord, error) {
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeFinancialRepo) List(_ context.Context, _ *model.FinancialFilters) ([]*model.FinancialRecord, error) {
	return f.records, nil
}

func TestCreateDerivesTypeFromSign(t *testing.T) {
	repo := &fakeFinancialRepo{}
	svc := NewService(repo)
	ctx := context.Background()
	clinicID := uuid.New()

	income, err := svc.Create(ctx, clinicID, &model.CreateFinancialRecordRequest{
		Description: "Session fee",
		Amount:      150,
	})
	require.NoError(t, err)
	assert.Equal(t, model.FinancialIncome, income.Type)

	expense, err := svc.Create(ctx, clinicID, &model.CreateFinancialRecordRequest{
		Description: "Room rent",
		Amount:      -800,
	})
	require.NoError(t, err)
	assert.Equal(t, model.FinancialExpense, expense.Type)
}

func TestCreateRejectsTypeSignMismatch(t *testing.T) {
	repo := &fakeFinancialRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	typ := string(model.FinancialExpense)
	_, err := svc.Create(ctx, uuid.New(), &model.CreateFinancialRecordRequest{
		Description: "Session fee",
		Amount:      150,
		Type:        &typ,
	})
	assert.Error(t, err)
	assert.Empty(t, repo.records)
}

func TestCreateAcceptsAgreeingType(t *testing.T) {
	svc := NewService(&fakeFinancialRepo{})

	typ := string(model.FinancialIncome)
	record, err := svc.Create(context.Background(), uuid.New(), &model.CreateFinancialRecordRequest{
		Description: "Session fee",
		Amount:      150,
		Type:        &typ,
	})
	require.NoError(t, err)
	assert.Equal(t, model.FinancialIncome, record.Type)
}

func TestSummarize(t *testing.T) {
	repo := &fakeFinancialRepo{}
	svc := NewService(repo)
	ctx := context.Background()
	clinicID := uuid.New()

	amounts := []float64{150, 200, -80}
	for _, a := range amounts {
		_, err := svc.Create(ctx, clinicID, &model.CreateFinancialRecordRequest{
			Description: "entry",
			Amount:      a,
		})
		require.NoError(t, err)
	}

	summary, err := svc.Summarize(ctx, &model.FinancialFilters{ClinicID: clinicID})
	require.NoError(t, err)
	assert.Equal(t, 350.0, summary.Income)
	assert.Equal(t, -80.0, summary.Expenses)
	assert.Equal(t, 270.0, summary.Balance)
}
