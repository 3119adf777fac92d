package dialogflow

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/capitalize-ai/assistant-gateway/internal/dialog"
	"github.com/capitalize-ai/assistant-gateway/internal/model"
)

// canSlotFill reports whether the platform is still collecting required
// parameters; such turns are answered without touching the runtime.
func (m *Manager) canSlotFill(req *model.WebhookRequest) bool {
	return !req.QueryResult.AllRequiredParamsPresent
}

// slotFillingResponse echoes the platform's own slot prompt, prepending any
// output held over from a followup-event turn (the platform cannot deliver
// output alongside a followup event, so it waits here).
func (m *Manager) slotFillingResponse(ctx context.Context, req *model.WebhookRequest, userID string) (*model.WebhookResponse, error) {
	res := &model.WebhookResponse{
		FulfillmentMessages: []model.ResponseMessage{},
	}

	state, err := m.sessions.Get(ctx, userID)
	if err != nil {
		m.log.Warn("loading state for slot filling failed", zap.Error(err))
	} else if prior, ok := state.Storage[dialog.StoragePriorOutput].(string); ok && prior != "" {
		addResponseMessage(res, prior, nil)

		delete(state.Storage, dialog.StoragePriorOutput)
		if err := m.sessions.Save(ctx, userID, state); err != nil {
			m.log.Warn("clearing prior output failed", zap.Error(err))
		}
	}

	addResponseMessage(res, req.QueryResult.FulfillmentText, req.QueryResult.FulfillmentMessages)

	return res, nil
}

// addResponseMessage appends text and messages to the response; with nil
// messages the text is wrapped in a plain text message.
func addResponseMessage(res *model.WebhookResponse, text string, messages []model.ResponseMessage) {
	res.FulfillmentText = strings.TrimSpace(res.FulfillmentText + " " + text)
	if messages == nil {
		messages = []model.ResponseMessage{model.NewTextMessage(text)}
	}
	res.FulfillmentMessages = append(res.FulfillmentMessages, messages...)
}
