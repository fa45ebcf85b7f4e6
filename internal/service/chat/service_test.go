package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teraclinic/clinic-api/internal/model"
	"github.com/teraclinic/clinic-api/internal/repository"
)

type fakeChatRepo struct {
	messages []*model.ChatMessage
}

func (f *fakeChatRepo) Create(_ context.Context, m *model.ChatMessage) error {
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakeChatRepo) ListByPatient(_ context.Context, patientID uuid.UUID, includeInternal bool) ([]*model.ChatMessage, error) {
	var out []*model.ChatMessage
	for _, m := range f.messages {
		if m.PatientID != patientID {
			continue
		}
		if !includeInternal && m.IsInternal {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

type fakePatientRepo struct {
	patient *model.Patient
}

func (f *fakePatientRepo) Create(_ context.Context, _ *model.Patient) error { return nil }

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	if f.patient != nil && f.patient.ID == id {
		return f.patient, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakePatientRepo) FindByCPFAndDOB(_ context.Context, _, _ string) ([]*model.Patient, error) {
	return nil, nil
}

func (f *fakePatientRepo) Update(_ context.Context, _ *model.Patient) error { return nil }
func (f *fakePatientRepo) Delete(_ context.Context, _ uuid.UUID) error      { return nil }

func (f *fakePatientRepo) List(_ context.Context, _ *model.PatientFilters) ([]*model.Patient, error) {
	return nil, nil
}

type fakeBroker struct {
	published []string
	err       error
}

func (f *fakeBroker) Publish(_ context.Context, channel string, _ interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, channel)
	return nil
}

func (f *fakeBroker) Subscribe(_ context.Context, _ string) (<-chan []byte, error) {
	ch := make(chan []byte)
	close(ch)
	return ch, nil
}

func (f *fakeBroker) Close() error { return nil }

func newTestService(broker *fakeBroker) (*Service, *fakeChatRepo, *model.Patient) {
	repo := &fakeChatRepo{}
	patient := &model.Patient{Base: model.Base{ID: uuid.New()}, ClinicID: uuid.New()}
	svc := NewService(repo, &fakePatientRepo{patient: patient}, broker, nil)
	return svc, repo, patient
}

func TestSendPersistsAndPublishes(t *testing.T) {
	broker := &fakeBroker{}
	svc, repo, patient := newTestService(broker)

	sender := model.StaffParticipant(uuid.New())
	msg, err := svc.Send(context.Background(), patient.ClinicID, sender, &model.CreateChatMessageRequest{
		PatientID: patient.ID,
		Receiver:  "guardian",
		Content:   "Session went well today.",
	})
	require.NoError(t, err)

	assert.False(t, msg.Timestamp.IsZero())
	assert.Equal(t, model.ParticipantGuardian, msg.Receiver.Kind)
	assert.Len(t, repo.messages, 1)
	assert.Equal(t, []string{ChannelFor(patient.ID)}, broker.published)
}

func TestSendSurvivesBrokerFailure(t *testing.T) {
	broker := &fakeBroker{err: errors.New("broker down")}
	svc, repo, patient := newTestService(broker)

	_, err := svc.Send(context.Background(), patient.ClinicID, model.GroupParticipant(), &model.CreateChatMessageRequest{
		PatientID: patient.ID,
		Receiver:  "guardian",
		Content:   "hello",
	})
	require.NoError(t, err)
	assert.Len(t, repo.messages, 1)
}

func TestSendValidatesParticipants(t *testing.T) {
	svc, repo, patient := newTestService(&fakeBroker{})
	ctx := context.Background()

	// Staff sender without a user id.
	_, err := svc.Send(ctx, patient.ClinicID, model.Participant{Kind: model.ParticipantStaff}, &model.CreateChatMessageRequest{
		PatientID: patient.ID,
		Receiver:  "guardian",
		Content:   "hello",
	})
	assert.Error(t, err)

	// Guardian receiver carrying a user id.
	badID := uuid.New()
	_, err = svc.Send(ctx, patient.ClinicID, model.StaffParticipant(uuid.New()), &model.CreateChatMessageRequest{
		PatientID:  patient.ID,
		Receiver:   "guardian",
		ReceiverID: &badID,
		Content:    "hello",
	})
	assert.Error(t, err)

	assert.Empty(t, repo.messages)
}

func TestSendRejectsInternalPortalMessage(t *testing.T) {
	svc, _, patient := newTestService(&fakeBroker{})

	_, err := svc.Send(context.Background(), patient.ClinicID, model.GuardianParticipant(), &model.CreateChatMessageRequest{
		PatientID:  patient.ID,
		Receiver:   "group",
		Content:    "hello",
		IsInternal: true,
	})
	assert.Error(t, err)
}

func TestListForPortalHidesInternalMessages(t *testing.T) {
	svc, repo, patient := newTestService(&fakeBroker{})
	ctx := context.Background()

	sender := model.StaffParticipant(uuid.New())
	_, err := svc.Send(ctx, patient.ClinicID, sender, &model.CreateChatMessageRequest{
		PatientID: patient.ID, Receiver: "guardian", Content: "shared",
	})
	require.NoError(t, err)
	_, err = svc.Send(ctx, patient.ClinicID, sender, &model.CreateChatMessageRequest{
		PatientID: patient.ID, Receiver: "group", Content: "internal", IsInternal: true,
	})
	require.NoError(t, err)
	require.Len(t, repo.messages, 2)

	staff, err := svc.ListForStaff(ctx, patient.ID)
	require.NoError(t, err)
	assert.Len(t, staff, 2)

	portal, err := svc.ListForPortal(ctx, patient.ID)
	require.NoError(t, err)
	require.Len(t, portal, 1)
	assert.Equal(t, "shared", portal[0].Content)
}
