package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/capitalize-ai/assistant-gateway/internal/natsclient"
	"github.com/capitalize-ai/assistant-gateway/pkg/metrics"
)

// Publisher is the slice of the stream manager the dispatcher publishes
// through.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) (uint64, error)
}

// Dispatcher routes track calls onto the ingest stream. Sessions on the
// blocklist are silently dropped.
type Dispatcher struct {
	publisher Publisher
	blocklist map[string]struct{}
}

// NewDispatcher creates a dispatcher. blocklist holds session ids whose
// events are discarded.
func NewDispatcher(publisher Publisher, blocklist []string) *Dispatcher {
	blocked := make(map[string]struct{}, len(blocklist))
	for _, id := range blocklist {
		blocked[id] = struct{}{}
	}
	return &Dispatcher{publisher: publisher, blocklist: blocked}
}

// Track records one analytics event. Turn events mint and return the new
// turn id; interact events require body.TurnID and return it unchanged.
// Blocklisted sessions return an empty id and no error.
func (d *Dispatcher) Track(ctx context.Context, body TrackBody) (string, error) {
	if _, blocked := d.blocklist[body.SessionID]; blocked {
		return "", nil
	}

	timestamp := body.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	switch body.Event {
	case EventTurn:
		turnID := uuid.New().String()
		record := TurnRecord{
			TurnID:    turnID,
			ProjectID: body.ProjectID,
			VersionID: body.VersionID,
			SessionID: body.SessionID,
			Metadata:  body.Metadata,
			Timestamp: timestamp,
		}
		if err := d.publish(ctx, body, record); err != nil {
			return "", err
		}
		return turnID, nil

	case EventInteract:
		if body.TurnID == "" {
			return "", ErrMissingTurnID
		}
		record := InteractRecord{
			TurnID:    body.TurnID,
			VersionID: body.VersionID,
			SessionID: body.SessionID,
			Request:   body.Request,
			Payload:   body.Payload,
			Timestamp: timestamp,
		}
		if err := d.publish(ctx, body, record); err != nil {
			return "", err
		}
		return body.TurnID, nil

	default:
		return "", &UnknownEventError{Event: body.Event}
	}
}

func (d *Dispatcher) publish(ctx context.Context, body TrackBody, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", body.Event, err)
	}

	subject := natsclient.EventSubject(string(body.Event), body.VersionID)
	if _, err := d.publisher.Publish(ctx, subject, data); err != nil {
		metrics.AnalyticsFailures.Inc()
		return fmt.Errorf("publishing %s event: %w", body.Event, err)
	}

	metrics.AnalyticsEvents.WithLabelValues(string(body.Event), string(body.Request)).Inc()
	return nil
}
