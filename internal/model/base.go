package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// DateRange bounds list queries on a date column. Zero bounds are open.
type DateRange struct {
	Start time.Time `json:"start" form:"start"`
	End   time.Time `json:"end" form:"end"`
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}
