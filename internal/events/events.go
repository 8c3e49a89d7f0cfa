// Package events carries interview change notifications from the document
// handlers to connected websocket clients, through NATS when available.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blockedby/interview-list/internal/logger"
)

// Stream and subject names on NATS.
const (
	StreamName     = "INTERVIEWS"
	SubjectChanged = "interviews.changed"
)

// Change operations.
const (
	OpSet    = "set"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Change describes a write to one interview document.
type Change struct {
	UserID      string    `json:"user_id"`
	InterviewID string    `json:"interview_id"`
	Op          string    `json:"op"`
	At          time.Time `json:"at"`
}

// Publisher announces changes.
type Publisher interface {
	PublishChange(ctx context.Context, c Change) error
}

// Broadcaster delivers a message to one user's websocket clients.
type Broadcaster interface {
	BroadcastToUser(userID string, message []byte)
}

// NATSClient is the subset of the nats client the publisher needs.
type NATSClient interface {
	Publish(ctx context.Context, subject string, data any) error
}

// NATSPublisher publishes changes on SubjectChanged.
type NATSPublisher struct {
	client NATSClient
}

// NewNATSPublisher creates a new publisher
func NewNATSPublisher(client NATSClient) *NATSPublisher {
	return &NATSPublisher{client: client}
}

// PublishChange implements Publisher.
func (p *NATSPublisher) PublishChange(ctx context.Context, c Change) error {
	if err := p.client.Publish(ctx, SubjectChanged, c); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

// Relay turns changes into websocket messages for the owning user.
type Relay struct {
	hub Broadcaster
	log *logger.Logger
}

// NewRelay creates a Relay writing to hub.
func NewRelay(hub Broadcaster, log *logger.Logger) *Relay {
	return &Relay{hub: hub, log: log.Component("relay")}
}

// PublishChange implements Publisher by broadcasting directly. The server
// uses it when NATS is not configured.
func (r *Relay) PublishChange(_ context.Context, c Change) error {
	r.hub.BroadcastToUser(c.UserID, Message(c))
	return nil
}

// Handle decodes a NATS payload and broadcasts it.
func (r *Relay) Handle(data []byte) error {
	var c Change
	if err := json.Unmarshal(data, &c); err != nil {
		r.log.Warn().Err(err).Msg("dropping malformed change event")
		return fmt.Errorf("decode change: %w", err)
	}
	if c.UserID == "" {
		return nil
	}
	r.hub.BroadcastToUser(c.UserID, Message(c))
	return nil
}

// MessageType is the websocket event type for a change.
const MessageType = "interview.changed"

type wsMessage struct {
	Type    string `json:"type"`
	Payload Change `json:"payload"`
}

// Message encodes c as a websocket event.
func Message(c Change) []byte {
	b, _ := json.Marshal(wsMessage{Type: MessageType, Payload: c})
	return b
}
