// Package analytics tracks conversation turns and interactions, publishing
// them to the ingest stream without blocking turn handling.
package analytics

import (
	"errors"
	"fmt"
	"time"
)

// Event is the kind of analytics record being tracked.
type Event string

const (
	// EventTurn opens a new turn record and yields its id.
	EventTurn Event = "turn"
	// EventInteract appends an interaction to an existing turn.
	EventInteract Event = "interact"
)

// RequestKind classifies the interaction within a turn.
type RequestKind string

const (
	RequestLaunch   RequestKind = "launch"
	RequestRequest  RequestKind = "request"
	RequestResponse RequestKind = "response"
)

// ErrMissingTurnID is returned when an interact event is tracked without the
// turn it belongs to.
var ErrMissingTurnID = errors.New("analytics: interact event requires a turn id")

// UnknownEventError is returned for event kinds the dispatcher does not know.
type UnknownEventError struct {
	Event Event
}

func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("analytics: unknown event %q", e.Event)
}

// TrackBody is what callers hand to the dispatcher.
type TrackBody struct {
	ProjectID string
	VersionID string
	Event     Event
	Request   RequestKind
	Payload   any
	SessionID string
	Metadata  map[string]any
	Timestamp time.Time
	// TurnID ties interact events to their turn. Empty for turn events.
	TurnID string
}

// TurnRecord is the wire shape of a turn event on the ingest stream.
type TurnRecord struct {
	TurnID    string         `json:"turnID"`
	ProjectID string         `json:"projectID"`
	VersionID string         `json:"versionID"`
	SessionID string         `json:"sessionID"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// InteractRecord is the wire shape of an interact event on the ingest stream.
type InteractRecord struct {
	TurnID    string      `json:"turnID"`
	VersionID string      `json:"versionID"`
	SessionID string      `json:"sessionID"`
	Request   RequestKind `json:"type"`
	Payload   any         `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
