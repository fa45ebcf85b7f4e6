package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
	"github.com/teraclinic/clinic-api/pkg/messaging"
	"github.com/teraclinic/clinic-api/pkg/metrics"
)

type Service struct {
	repo     repository.ChatRepository
	patients repository.PatientRepository
	broker   messaging.Broker
	metrics  *metrics.Metrics
}

func NewService(repo repository.ChatRepository, patients repository.PatientRepository, broker messaging.Broker, m *metrics.Metrics) *Service {
	return &Service{repo: repo, patients: patients, broker: broker, metrics: m}
}

// ChannelFor names the broker channel carrying one patient's conversation.
func ChannelFor(patientID uuid.UUID) string {
	return fmt.Sprintf("chat.%s", patientID)
}

// Send appends a message to the patient's conversation and fans it out
// to the broker. Persistence is authoritative; a failed fan-out is
// logged and counted but the message stands.
func (s *Service) Send(ctx context.Context, clinicID uuid.UUID, sender model.Participant, req *model.CreateChatMessageRequest) (*model.ChatMessage, error) {
	receiver := model.Participant{Kind: model.ParticipantKind(req.Receiver), UserID: req.ReceiverID}
	if err := sender.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := receiver.Validate(); err != nil {
		return nil, fmt.Errorf("invalid receiver: %w", err)
	}
	if sender.Kind == model.ParticipantGuardian && req.IsInternal {
		return nil, fmt.Errorf("portal messages cannot be internal")
	}
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}

	message := &model.ChatMessage{
		Base:       model.Base{ID: uuid.New()},
		ClinicID:   clinicID,
		PatientID:  req.PatientID,
		Sender:     sender,
		Receiver:   receiver,
		Timestamp:  time.Now(),
		Content:    req.Content,
		IsInternal: req.IsInternal,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if err := s.broker.Publish(ctx, ChannelFor(message.PatientID), message); err != nil {
		log.Warn().Err(err).Str("patient_id", message.PatientID.String()).Msg("failed to publish chat message")
		if s.metrics != nil {
			s.metrics.ChatPublishFailures.Inc()
		}
	} else if s.metrics != nil {
		s.metrics.ChatMessagesPublished.Inc()
	}

	return message, nil
}

// ListForStaff returns the whole conversation, internal messages included.
func (s *Service) ListForStaff(ctx context.Context, patientID uuid.UUID) ([]*model.ChatMessage, error) {
	return s.repo.ListByPatient(ctx, patientID, true)
}

// ListForPortal returns the conversation as the guardian sees it.
func (s *Service) ListForPortal(ctx context.Context, patientID uuid.UUID) ([]*model.ChatMessage, error) {
	return s.repo.ListByPatient(ctx, patientID, false)
}

// Stream subscribes to the live fan-out of one patient's conversation.
func (s *Service) Stream(ctx context.Context, patientID uuid.UUID) (<-chan []byte, error) {
	return s.broker.Subscribe(ctx, ChannelFor(patientID))
}
