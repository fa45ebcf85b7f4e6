package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentRecurrence string

const (
	RecurrenceNone     AppointmentRecurrence = "NONE"
	RecurrenceWeekly   AppointmentRecurrence = "WEEKLY"
	RecurrenceBiweekly AppointmentRecurrence = "BIWEEKLY"
	RecurrenceMonthly  AppointmentRecurrence = "MONTHLY"
)

type BillingType string

const (
	BillingPerSession BillingType = "PER_SESSION"
	BillingMonthly    BillingType = "MONTHLY"
)

// Appointment represents a scheduled session. Invariant: StartTime < EndTime.
type Appointment struct {
	Base
	ClinicID      uuid.UUID             `json:"clinic_id" db:"clinic_id"`
	PatientID     uuid.UUID             `json:"patient_id" db:"patient_id"`
	TherapistID   uuid.UUID             `json:"therapist_id" db:"therapist_id"`
	Title         string                `json:"title" db:"title"`
	StartTime     time.Time             `json:"start_time" db:"start_time"`
	EndTime       time.Time             `json:"end_time" db:"end_time"`
	Recurrence    AppointmentRecurrence `json:"recurrence" db:"recurrence"`
	BillingType   BillingType           `json:"billing_type" db:"billing_type"`
	BillingAmount float64               `json:"billing_amount" db:"billing_amount"`
	BillingPaid   bool                  `json:"billing_paid" db:"billing_paid"`
}

type CreateAppointmentRequest struct {
	PatientID     uuid.UUID `json:"patient_id" binding:"required"`
	TherapistID   uuid.UUID `json:"therapist_id" binding:"required"`
	Title         string    `json:"title" binding:"required"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required,gtfield=StartTime"`
	Recurrence    string    `json:"recurrence" binding:"required,oneof=NONE WEEKLY BIWEEKLY MONTHLY"`
	BillingType   string    `json:"billing_type" binding:"required,oneof=PER_SESSION MONTHLY"`
	BillingAmount float64   `json:"billing_amount" binding:"min=0"`
}

type UpdateAppointmentRequest struct {
	Title         *string    `json:"title"`
	StartTime     *time.Time `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	Recurrence    *string    `json:"recurrence" binding:"omitempty,oneof=NONE WEEKLY BIWEEKLY MONTHLY"`
	BillingType   *string    `json:"billing_type" binding:"omitempty,oneof=PER_SESSION MONTHLY"`
	BillingAmount *float64   `json:"billing_amount" binding:"omitempty,min=0"`
	BillingPaid   *bool      `json:"billing_paid"`
}

type AppointmentFilters struct {
	ClinicID    uuid.UUID
	PatientID   uuid.UUID
	TherapistID uuid.UUID
	Range       DateRange
}
