package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/teraclinic/clinic-api/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// GetByRecovery matches a user on all three identity fields at once.
	GetByRecovery(ctx context.Context, cpf, dateOfBirth, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, clinicID uuid.UUID) ([]*model.User, error)
	CountByRole(ctx context.Context, clinicID uuid.UUID, role string) (int, error)
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	// FindByCPFAndDOB returns every active patient matching the pair;
	// the caller decides what an ambiguous match means.
	FindByCPFAndDOB(ctx context.Context, cpf, dateOfBirth string) ([]*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, appointment *model.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
}

type EvolutionRepository interface {
	Create(ctx context.Context, evolution *model.Evolution) error
	Get(ctx context.Context, id uuid.UUID) (*model.Evolution, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Evolution, error)
}

type ChatRepository interface {
	Create(ctx context.Context, message *model.ChatMessage) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, includeInternal bool) ([]*model.ChatMessage, error)
}

type FinancialRepository interface {
	Create(ctx context.Context, record *model.FinancialRecord) error
	Get(ctx context.Context, id uuid.UUID) (*model.FinancialRecord, error)
	List(ctx context.Context, filters *model.FinancialFilters) ([]*model.FinancialRecord, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, document *model.Document) error
	Get(ctx context.Context, id uuid.UUID) (*model.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Document, error)
}

type SettingsRepository interface {
	Create(ctx context.Context, settings *model.ClinicSettings) error
	GetByClinic(ctx context.Context, clinicID uuid.UUID) (*model.ClinicSettings, error)
	Update(ctx context.Context, settings *model.ClinicSettings) error
}

type TokenRepository interface {
	// Invalidate denylists a presented token until its natural expiry.
	Invalidate(ctx context.Context, token string, expiresAt time.Time) error
	IsInvalidated(ctx context.Context, token string) (bool, error)
}
