package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/interview-list/internal/logger"
)

type mockNATSClient struct {
	subject string
	data    any
	err     error
}

func (m *mockNATSClient) Publish(_ context.Context, subject string, data any) error {
	m.subject = subject
	m.data = data
	return m.err
}

type recordingHub struct {
	mu   sync.Mutex
	sent map[string][][]byte
}

func (h *recordingHub) BroadcastToUser(userID string, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sent == nil {
		h.sent = map[string][][]byte{}
	}
	h.sent[userID] = append(h.sent[userID], message)
}

func TestNATSPublisher_PublishChange(t *testing.T) {
	client := &mockNATSClient{}
	pub := NewNATSPublisher(client)
	change := Change{UserID: "u1", InterviewID: "i1", Op: OpSet, At: time.Now()}

	require.NoError(t, pub.PublishChange(context.Background(), change))
	assert.Equal(t, SubjectChanged, client.subject)
	assert.Equal(t, change, client.data)
}

func TestNATSPublisher_Error(t *testing.T) {
	pub := NewNATSPublisher(&mockNATSClient{err: errors.New("no responders")})

	err := pub.PublishChange(context.Background(), Change{UserID: "u1"})
	assert.ErrorContains(t, err, "publish change")
}

func TestRelay_Handle(t *testing.T) {
	hub := &recordingHub{}
	relay := NewRelay(hub, logger.Get())

	payload, err := json.Marshal(Change{UserID: "u1", InterviewID: "i1", Op: OpDelete})
	require.NoError(t, err)
	require.NoError(t, relay.Handle(payload))

	require.Len(t, hub.sent["u1"], 1)

	var msg struct {
		Type    string `json:"type"`
		Payload Change `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(hub.sent["u1"][0], &msg))
	assert.Equal(t, MessageType, msg.Type)
	assert.Equal(t, "i1", msg.Payload.InterviewID)
	assert.Equal(t, OpDelete, msg.Payload.Op)
}

func TestRelay_HandleMalformed(t *testing.T) {
	hub := &recordingHub{}
	relay := NewRelay(hub, logger.Get())

	assert.Error(t, relay.Handle([]byte("{not json")))
	assert.NoError(t, relay.Handle([]byte(`{"interview_id":"x"}`)))
	assert.Empty(t, hub.sent)
}

func TestRelay_PublishChangeBroadcastsDirectly(t *testing.T) {
	hub := &recordingHub{}
	relay := NewRelay(hub, logger.Get())

	require.NoError(t, relay.PublishChange(context.Background(), Change{UserID: "u2", InterviewID: "i9", Op: OpUpdate}))
	assert.Len(t, hub.sent["u2"], 1)
}
