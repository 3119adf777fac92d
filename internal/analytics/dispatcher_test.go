package analytics

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePublisher records published events.
type fakePublisher struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, subject string, data []byte) (uint64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return uint64(len(f.subjects)), nil
}

func TestDispatcher_Track(t *testing.T) {
	ctx := context.Background()

	t.Run("turn event mints a turn id", func(t *testing.T) {
		pub := &fakePublisher{}
		d := NewDispatcher(pub, nil)

		turnID, err := d.Track(ctx, TrackBody{
			VersionID: "v1",
			Event:     EventTurn,
			Request:   RequestLaunch,
			SessionID: "s1",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, turnID)

		require.Len(t, pub.subjects, 1)
		assert.Equal(t, "analytics.turn.v1", pub.subjects[0])

		var record TurnRecord
		require.NoError(t, json.Unmarshal(pub.payloads[0], &record))
		assert.Equal(t, turnID, record.TurnID)
		assert.Equal(t, "s1", record.SessionID)
		assert.False(t, record.Timestamp.IsZero())
	})

	t.Run("interact event requires a turn id", func(t *testing.T) {
		d := NewDispatcher(&fakePublisher{}, nil)

		_, err := d.Track(ctx, TrackBody{
			VersionID: "v1",
			Event:     EventInteract,
			Request:   RequestResponse,
			SessionID: "s1",
		})
		assert.ErrorIs(t, err, ErrMissingTurnID)
	})

	t.Run("interact event echoes its turn id", func(t *testing.T) {
		pub := &fakePublisher{}
		d := NewDispatcher(pub, nil)

		turnID, err := d.Track(ctx, TrackBody{
			VersionID: "v1",
			Event:     EventInteract,
			Request:   RequestResponse,
			SessionID: "s1",
			TurnID:    "t-42",
		})
		require.NoError(t, err)
		assert.Equal(t, "t-42", turnID)
		assert.Equal(t, []string{"analytics.interact.v1"}, pub.subjects)
	})

	t.Run("unknown event kind", func(t *testing.T) {
		d := NewDispatcher(&fakePublisher{}, nil)

		_, err := d.Track(ctx, TrackBody{Event: Event("mystery"), SessionID: "s1"})

		var unknown *UnknownEventError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, Event("mystery"), unknown.Event)
	})

	t.Run("blocklisted sessions are dropped silently", func(t *testing.T) {
		pub := &fakePublisher{}
		d := NewDispatcher(pub, []string{"blocked-session"})

		turnID, err := d.Track(ctx, TrackBody{
			VersionID: "v1",
			Event:     EventTurn,
			SessionID: "blocked-session",
		})
		require.NoError(t, err)
		assert.Empty(t, turnID)
		assert.Empty(t, pub.subjects)
	})
}

func TestTrackAsync(t *testing.T) {
	t.Run("handle resolves to the turn id", func(t *testing.T) {
		d := NewDispatcher(&fakePublisher{}, nil)

		handle := TrackAsync(d, TrackBody{VersionID: "v1", Event: EventTurn, SessionID: "s1"})
		assert.NotEmpty(t, handle.Await(time.Second))
	})

	t.Run("failures resolve to an empty id", func(t *testing.T) {
		d := NewDispatcher(&fakePublisher{}, nil)

		handle := TrackAsync(d, TrackBody{VersionID: "v1", Event: EventInteract, SessionID: "s1"})
		assert.Empty(t, handle.Await(time.Second))
	})

	t.Run("nil handle awaits to empty", func(t *testing.T) {
		var handle *TurnHandle
		assert.Empty(t, handle.Await(time.Millisecond))
	})
}
