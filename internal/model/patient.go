package model

import (
	"github.com/google/uuid"
)

// Patient care types
const (
	PatientTypeChild = "infantil"
	PatientTypeAdult = "adulto"
)

type PatientStatus string

const (
	PatientStatusActive   PatientStatus = "active"
	PatientStatusInactive PatientStatus = "inactive"
)

// Patient represents a person under the clinic's care. The (cpf,
// date_of_birth) pair identifies the patient for guardian portal login
// and must be unambiguous among active patients.
type Patient struct {
	Base
	ClinicID     uuid.UUID `json:"clinic_id" db:"clinic_id"`
	Name         string    `json:"name" db:"name"`
	CPF          string    `json:"cpf" db:"cpf"`
	DateOfBirth  string    `json:"date_of_birth" db:"date_of_birth"`
	GuardianName string    `json:"guardian_name" db:"guardian_name"`
	GuardianCPF  *string   `json:"guardian_cpf,omitempty" db:"guardian_cpf"`
	Contact      string    `json:"contact" db:"contact"`
	Email        *string   `json:"email,omitempty" db:"email"`
	Address      *string   `json:"address,omitempty" db:"address"`
	AvatarURL    *string   `json:"avatar_url" db:"avatar_url"`
	Type         string    `json:"type" db:"type"`
	Status       string    `json:"status" db:"status"`
}

type CreatePatientRequest struct {
	Name         string  `json:"name" binding:"required"`
	CPF          string  `json:"cpf" binding:"required,cpf"`
	DateOfBirth  string  `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	GuardianName string  `json:"guardian_name"`
	GuardianCPF  *string `json:"guardian_cpf" binding:"omitempty,cpf"`
	Contact      string  `json:"contact" binding:"required"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Address      *string `json:"address"`
	Type         string  `json:"type" binding:"required,oneof=infantil adulto"`
}

type UpdatePatientRequest struct {
	Name         *string `json:"name"`
	GuardianName *string `json:"guardian_name"`
	GuardianCPF  *string `json:"guardian_cpf" binding:"omitempty,cpf"`
	Contact      *string `json:"contact"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Address      *string `json:"address"`
	AvatarURL    *string `json:"avatar_url"`
	Type         *string `json:"type" binding:"omitempty,oneof=infantil adulto"`
	Status       *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// PatientFilters represents patient search parameters
type PatientFilters struct {
	ClinicID   uuid.UUID
	Status     string
	Type       string
	SearchTerm string
}
