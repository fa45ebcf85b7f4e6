package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
)

type chatRepository struct {
	db *sqlx.DB
}

func NewChatRepository(db *sqlx.DB) repository.ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, message *model.ChatMessage) error {
	message.FlattenParticipants()
	query := `
		INSERT INTO chat_messages (id, clinic_id, patient_id, sender_kind, sender_user_id,
			receiver_kind, receiver_user_id, timestamp, content, is_internal, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	message.CreatedAt = time.Now()
	message.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		message.ID,
		message.ClinicID,
		message.PatientID,
		message.SenderKind,
		message.SenderUserID,
		message.ReceiverKind,
		message.ReceiverUser,
		message.Timestamp,
		message.Content,
		message.IsInternal,
		message.CreatedAt,
		message.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}
	return nil
}

// ListByPatient returns the conversation ordered by timestamp ascending,
// which is the display order.
func (r *chatRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, includeInternal bool) ([]*model.ChatMessage, error) {
	query := `SELECT * FROM chat_messages WHERE patient_id = $1 AND deleted_at IS NULL`
	args := []interface{}{patientID}
	if !includeInternal {
		query += " AND is_internal = FALSE"
	}
	query += " ORDER BY timestamp ASC"

	var messages []*model.ChatMessage
	if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, err
	}
	for _, m := range messages {
		m.RestoreParticipants()
	}
	return messages, nil
}
