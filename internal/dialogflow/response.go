package dialogflow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/capitalize-ai/assistant-gateway/internal/analytics"
	"github.com/capitalize-ai/assistant-gateway/internal/dialog"
	"github.com/capitalize-ai/assistant-gateway/internal/model"
	"github.com/capitalize-ai/assistant-gateway/internal/runtime"
)

// buildResponse shapes the webhook response from the runtime's final state,
// persists the session and tracks the response interaction.
func (m *Manager) buildResponse(ctx context.Context, r *runtime.Runtime, userID string, handle *analytics.TurnHandle) (*model.WebhookResponse, error) {
	if r.Stack.IsEmpty() {
		r.Turn.Set(dialog.TurnEnd, true)
	}

	rawOutput := r.Storage.GetString(dialog.StorageOutput)

	output := rawOutput
	if !r.Turn.GetBool(dialog.TurnTextEnabled) && output != "" {
		// no text response was produced, hence a voice project
		output = "<speak>" + output + "</speak>"
	}

	var res *model.WebhookResponse
	if gotoIntent := r.Turn.GetString(dialog.TurnGoTo); gotoIntent != "" {
		// output cannot ride along with a followup event; park it for the
		// slot filling response that follows
		if rawOutput != "" {
			r.Storage.Set(dialog.StoragePriorOutput, rawOutput)
		}
		res = &model.WebhookResponse{
			FulfillmentMessages: []model.ResponseMessage{},
			FollowupEventInput:  &model.FollowupEventInput{Name: gotoIntent + "_event"},
		}
	} else {
		res = &model.WebhookResponse{
			FulfillmentText:     output,
			FulfillmentMessages: []model.ResponseMessage{model.NewTextMessage(output)},
		}
	}

	res.EndInteraction = r.Turn.GetBool(dialog.TurnEnd)

	addChips(r, res)

	userKey := r.Storage.GetString(dialog.StorageUser)
	if userKey == "" {
		userKey = userID
	}

	final := r.GetFinalState()
	if err := m.sessions.Save(ctx, userKey, final); err != nil {
		return nil, err
	}

	m.trackResponse(r, res, userKey, handle)

	return res, nil
}

// addChips renders the turn's collected chips as quick replies.
func addChips(r *runtime.Runtime, res *model.WebhookResponse) {
	v, ok := r.Turn.Get(dialog.TurnChips)
	if !ok {
		return
	}
	chips, ok := v.([]string)
	if !ok || len(chips) == 0 {
		return
	}

	res.FulfillmentMessages = append(res.FulfillmentMessages, model.ResponseMessage{
		QuickReplies: &model.QuickRepliesMessage{QuickReplies: chips},
	})
}

// trackResponse records the response interaction against the turn opened at
// the start of the request. Analytics never fails a turn.
func (m *Manager) trackResponse(r *runtime.Runtime, res *model.WebhookResponse, userKey string, handle *analytics.TurnHandle) {
	turnID := handle.Await(m.cfg.AnalyticsTimeout)
	if turnID == "" {
		m.log.Warn("turn id unresolved, skipping response tracking",
			zap.String("session_id", userKey))
		return
	}

	analytics.TrackAsync(m.tracker, analytics.TrackBody{
		VersionID: r.VersionID(),
		Event:     analytics.EventInteract,
		Request:   analytics.RequestResponse,
		Payload:   res,
		SessionID: userKey,
		Metadata:  turnMetadata(r.GetFinalState()),
		Timestamp: time.Now().UTC(),
		TurnID:    turnID,
	})
}
