package model

import (
	"time"

	"github.com/google/uuid"
)

// Evolution is a dated clinical progress note. Notes are append-only;
// internal notes are visible to staff only, external ones also through
// the patient portal.
type Evolution struct {
	Base
	ClinicID    uuid.UUID `json:"clinic_id" db:"clinic_id"`
	PatientID   uuid.UUID `json:"patient_id" db:"patient_id"`
	TherapistID uuid.UUID `json:"therapist_id" db:"therapist_id"`
	Date        time.Time `json:"date" db:"date"`
	IsInternal  bool      `json:"is_internal" db:"is_internal"`
	Content     string    `json:"content" db:"content"`
}

type CreateEvolutionRequest struct {
	PatientID  uuid.UUID  `json:"patient_id" binding:"required"`
	Date       *time.Time `json:"date"`
	IsInternal bool       `json:"is_internal"`
	Content    string     `json:"content" binding:"required"`
}

// DraftEvolutionRequest asks the text provider for a note draft built
// from session keywords and the patient's recent history.
type DraftEvolutionRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	Keywords  string    `json:"keywords" binding:"required"`
}
