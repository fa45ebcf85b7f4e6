package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ParticipantKind string

// Chat participant kinds. Staff participants carry a user id, the
// guardian participant stands for the patient portal side, and group
// addresses every staff member following the patient.
const (
	ParticipantStaff    ParticipantKind = "staff"
	ParticipantGuardian ParticipantKind = "guardian"
	ParticipantGroup    ParticipantKind = "group"
)

// Participant is a tagged chat endpoint. UserID is set only for staff.
type Participant struct {
	Kind   ParticipantKind `json:"kind"`
	UserID *uuid.UUID      `json:"user_id,omitempty"`
}

func StaffParticipant(userID uuid.UUID) Participant {
	return Participant{Kind: ParticipantStaff, UserID: &userID}
}

func GuardianParticipant() Participant {
	return Participant{Kind: ParticipantGuardian}
}

func GroupParticipant() Participant {
	return Participant{Kind: ParticipantGroup}
}

// Validate rejects malformed participants before they reach storage.
func (p Participant) Validate() error {
	switch p.Kind {
	case ParticipantStaff:
		if p.UserID == nil || *p.UserID == uuid.Nil {
			return fmt.Errorf("staff participant requires a user id")
		}
	case ParticipantGuardian, ParticipantGroup:
		if p.UserID != nil {
			return fmt.Errorf("%s participant must not carry a user id", p.Kind)
		}
	default:
		return fmt.Errorf("unknown participant kind %q", p.Kind)
	}
	return nil
}

// ChatMessage is an append-only message scoped to one patient's
// conversation. Display ordering is by Timestamp ascending.
type ChatMessage struct {
	Base
	ClinicID   uuid.UUID   `json:"clinic_id" db:"clinic_id"`
	PatientID  uuid.UUID   `json:"patient_id" db:"patient_id"`
	Sender     Participant `json:"sender" db:"-"`
	Receiver   Participant `json:"receiver" db:"-"`
	Timestamp  time.Time   `json:"timestamp" db:"timestamp"`
	Content    string      `json:"content" db:"content"`
	IsInternal bool        `json:"is_internal" db:"is_internal"`

	// Flattened participant columns for sqlx scanning.
	SenderKind   ParticipantKind `json:"-" db:"sender_kind"`
	SenderUserID *uuid.UUID      `json:"-" db:"sender_user_id"`
	ReceiverKind ParticipantKind `json:"-" db:"receiver_kind"`
	ReceiverUser *uuid.UUID      `json:"-" db:"receiver_user_id"`
}

// FlattenParticipants copies the tagged participants into their scan columns.
func (m *ChatMessage) FlattenParticipants() {
	m.SenderKind = m.Sender.Kind
	m.SenderUserID = m.Sender.UserID
	m.ReceiverKind = m.Receiver.Kind
	m.ReceiverUser = m.Receiver.UserID
}

// RestoreParticipants rebuilds the tagged participants after a row scan.
func (m *ChatMessage) RestoreParticipants() {
	m.Sender = Participant{Kind: m.SenderKind, UserID: m.SenderUserID}
	m.Receiver = Participant{Kind: m.ReceiverKind, UserID: m.ReceiverUser}
}

type CreateChatMessageRequest struct {
	PatientID  uuid.UUID  `json:"patient_id" binding:"required"`
	Receiver   string     `json:"receiver" binding:"required,oneof=staff guardian group"`
	ReceiverID *uuid.UUID `json:"receiver_id"`
	Content    string     `json:"content" binding:"required"`
	IsInternal bool       `json:"is_internal"`
}
