// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/cartsense/internal/orchestrator"
)

// Metadata keys set on every state message.
const (
	MetadataSessionID = "session_id"
	MetadataPhase     = "phase"
)

// StateEvent is one published RecommendationState for one session.
type StateEvent struct {
	EventID    string                           `json:"eventId"`
	SessionID  string                           `json:"sessionId"`
	OccurredAt time.Time                        `json:"occurredAt"`
	State      orchestrator.RecommendationState `json:"state"`
}

// NewStateEvent stamps state with a fresh event id.
//
//nolint:gocritic // state is copied into the event
func NewStateEvent(sessionID string, state orchestrator.RecommendationState) StateEvent {
	return StateEvent{
		EventID:    uuid.NewString(),
		SessionID:  sessionID,
		OccurredAt: time.Now().UTC(),
		State:      state,
	}
}

// toMessage serializes the event. The event id doubles as the message UUID.
func (e *StateEvent) toMessage() (*message.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal state event: %w", err)
	}
	msg := message.NewMessage(e.EventID, payload)
	msg.Metadata.Set(MetadataSessionID, e.SessionID)
	msg.Metadata.Set(MetadataPhase, e.State.Phase.String())
	return msg, nil
}

func fromMessage(msg *message.Message) (StateEvent, error) {
	var e StateEvent
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		return StateEvent{}, fmt.Errorf("unmarshal state event %s: %w", msg.UUID, err)
	}
	if e.SessionID == "" {
		e.SessionID = msg.Metadata.Get(MetadataSessionID)
	}
	if e.SessionID == "" {
		return StateEvent{}, fmt.Errorf("state event %s has no session id", msg.UUID)
	}
	return e, nil
}
