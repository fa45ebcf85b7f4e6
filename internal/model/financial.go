package model

import (
	"time"

	"github.com/google/uuid"
)

type FinancialType string

const (
	FinancialIncome  FinancialType = "income"
	FinancialExpense FinancialType = "expense"
)

// FinancialTypeForAmount derives the ledger entry type from the signed
// amount: income for amount >= 0, expense otherwise. Sign and type tag
// must always agree.
func FinancialTypeForAmount(amount float64) FinancialType {
	if amount >= 0 {
		return FinancialIncome
	}
	return FinancialExpense
}

// FinancialRecord is a signed ledger entry, optionally tied to a
// patient and an appointment.
type FinancialRecord struct {
	Base
	ClinicID      uuid.UUID     `json:"clinic_id" db:"clinic_id"`
	PatientID     *uuid.UUID    `json:"patient_id,omitempty" db:"patient_id"`
	AppointmentID *uuid.UUID    `json:"appointment_id,omitempty" db:"appointment_id"`
	Description   string        `json:"description" db:"description"`
	Amount        float64       `json:"amount" db:"amount"`
	Date          time.Time     `json:"date" db:"date"`
	Type          FinancialType `json:"type" db:"type"`
}

type CreateFinancialRecordRequest struct {
	PatientID     *uuid.UUID `json:"patient_id"`
	AppointmentID *uuid.UUID `json:"appointment_id"`
	Description   string     `json:"description" binding:"required"`
	Amount        float64    `json:"amount" binding:"required"`
	Date          *time.Time `json:"date"`
	// Optional; when present it must agree with the sign of Amount.
	Type *string `json:"type" binding:"omitempty,oneof=income expense"`
}

type FinancialFilters struct {
	ClinicID  uuid.UUID
	PatientID uuid.UUID
	Type      FinancialType
	Range     DateRange
}
