package model

import (
	"time"

	"github.com/google/uuid"
)

// Document file types
const (
	DocumentTypePDF   = "pdf"
	DocumentTypeJPG   = "jpg"
	DocumentTypePNG   = "png"
	DocumentTypeOther = "other"
)

// Document records metadata for a file held by external storage; the
// bytes themselves never pass through this service.
type Document struct {
	Base
	ClinicID   uuid.UUID `json:"clinic_id" db:"clinic_id"`
	PatientID  uuid.UUID `json:"patient_id" db:"patient_id"`
	UploadedBy uuid.UUID `json:"uploaded_by" db:"uploaded_by"`
	FileName   string    `json:"file_name" db:"file_name"`
	FileType   string    `json:"file_type" db:"file_type"`
	UploadDate time.Time `json:"upload_date" db:"upload_date"`
	URL        string    `json:"url" db:"url"`
}

type CreateDocumentRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	FileName  string    `json:"file_name" binding:"required"`
	FileType  string    `json:"file_type" binding:"required,oneof=pdf jpg png other"`
	URL       string    `json:"url" binding:"required,url"`
}
