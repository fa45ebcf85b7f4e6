package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teraclinic/clinic-api/internal/model"
)

func TestFinancialRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFinancialRepository(db)

	record := &model.FinancialRecord{
		Base:        model.Base{ID: uuid.New()},
		ClinicID:    uuid.New(),
		Description: "Session fee",
		Amount:      150,
		Date:        time.Now(),
		Type:        model.FinancialIncome,
	}

	mock.ExpectExec("INSERT INTO financial_records").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), record))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinancialRepositoryListAppliesFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFinancialRepository(db)
	clinicID := uuid.New()
	patientID := uuid.New()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "clinic_id", "patient_id", "appointment_id", "description", "amount",
		"date", "type", "created_at", "updated_at", "deleted_at",
	}).AddRow(
		uuid.New(), clinicID, patientID, nil, "Session fee", 150.0,
		start, model.FinancialIncome, start, start, nil,
	)

	mock.ExpectQuery("SELECT \\* FROM financial_records WHERE clinic_id = \\$1 AND deleted_at IS NULL AND patient_id = \\$2 AND type = \\$3 AND date >= \\$4").
		WithArgs(clinicID, patientID, model.FinancialIncome, start).
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), &model.FinancialFilters{
		ClinicID:  clinicID,
		PatientID: patientID,
		Type:      model.FinancialIncome,
		Range:     model.DateRange{Start: start},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.FinancialIncome, records[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
