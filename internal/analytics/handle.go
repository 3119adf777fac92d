package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/capitalize-ai/assistant-gateway/pkg/logger"
)

// Tracker is what consumers depend on; Dispatcher is the production
// implementation.
type Tracker interface {
	Track(ctx context.Context, body TrackBody) (string, error)
}

// TurnHandle is the future for an in-flight turn event. Response tracking
// awaits it to obtain the turn id without serializing the turn on analytics
// latency.
type TurnHandle struct {
	ch chan string
}

// Await blocks for the turn id until the timeout elapses. It returns an
// empty id on timeout or tracking failure; analytics never fails a turn.
func (h *TurnHandle) Await(timeout time.Duration) string {
	if h == nil {
		return ""
	}
	select {
	case id := <-h.ch:
		return id
	case <-time.After(timeout):
		return ""
	}
}

// TrackAsync fires a track call in the background and returns a handle that
// resolves to the turn id. Failures are logged and swallowed: the handle
// resolves to an empty id.
func TrackAsync(tracker Tracker, body TrackBody) *TurnHandle {
	handle := &TurnHandle{ch: make(chan string, 1)}

	go func() {
		// detached from the request context: the event outlives the response
		id, err := tracker.Track(context.Background(), body)
		if err != nil {
			logger.Global().Warn("analytics tracking failed",
				zap.String("event", string(body.Event)),
				zap.String("session_id", body.SessionID),
				zap.Error(err))
		}
		handle.ch <- id
	}()

	return handle
}
