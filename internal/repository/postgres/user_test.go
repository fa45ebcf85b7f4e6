package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestUserRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	user := &model.User{
		Base:        model.Base{ID: uuid.New()},
		ClinicID:    uuid.New(),
		Name:        "Ana Souza",
		Email:       "ana@clinic.com",
		CPF:         "52998224725",
		DateOfBirth: "1990-03-15",
		Role:        model.RoleTherapist,
	}

	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), user))
	assert.False(t, user.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGetByEmailNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT \\* FROM users WHERE email").
		WithArgs("nobody@clinic.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByEmail(context.Background(), "nobody@clinic.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCountByRole(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	clinicID := uuid.New()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users").
		WithArgs(clinicID, model.RoleTherapist).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountByRole(context.Background(), clinicID, model.RoleTherapist)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGetByRecoveryMatchesAllFields(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	id := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "clinic_id", "name", "email", "password_hash", "cpf", "date_of_birth",
		"role", "permissions", "avatar_url", "council_type", "council_number",
		"created_at", "updated_at", "deleted_at",
	}).AddRow(
		id, uuid.New(), "Ana Souza", "ana@clinic.com", "hash", "52998224725", "1990-03-15",
		model.RoleTherapist, "{}", nil, nil, nil, now, now, nil,
	)

	mock.ExpectQuery("SELECT \\* FROM users").
		WithArgs("52998224725", "1990-03-15", "ana@clinic.com").
		WillReturnRows(rows)

	user, err := repo.GetByRecovery(context.Background(), "52998224725", "1990-03-15", "ana@clinic.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	id := uuid.New()

	mock.ExpectExec("UPDATE users SET deleted_at").
		WithArgs(sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
