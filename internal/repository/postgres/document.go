package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
)

type documentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) repository.DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, document *model.Document) error {
	query := `
		INSERT INTO documents (id, clinic_id, patient_id, uploaded_by, file_name, file_type,
			upload_date, url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	document.CreatedAt = time.Now()
	document.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		document.ID,
		document.ClinicID,
		document.PatientID,
		document.UploadedBy,
		document.FileName,
		document.FileType,
		document.UploadDate,
		document.URL,
		document.CreatedAt,
		document.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (r *documentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	query := `SELECT * FROM documents WHERE id = $1 AND deleted_at IS NULL`
	var document model.Document
	if err := r.db.GetContext(ctx, &document, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &document, nil
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE documents SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *documentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Document, error) {
	query := `SELECT * FROM documents WHERE patient_id = $1 AND deleted_at IS NULL ORDER BY upload_date`
	var documents []*model.Document
	err := r.db.SelectContext(ctx, &documents, query, patientID)
	return documents, err
}
