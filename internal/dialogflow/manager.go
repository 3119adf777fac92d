// Package dialogflow orchestrates the Dialogflow ES fulfillment lifecycle:
// build the runtime from persisted state, classify the turn, run the node
// engine and shape the webhook response.
package dialogflow

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/capitalize-ai/assistant-gateway/internal/analytics"
	"github.com/capitalize-ai/assistant-gateway/internal/config"
	"github.com/capitalize-ai/assistant-gateway/internal/dialog"
	"github.com/capitalize-ai/assistant-gateway/internal/model"
	"github.com/capitalize-ai/assistant-gateway/internal/runtime"
	"github.com/capitalize-ai/assistant-gateway/internal/session"
	"github.com/capitalize-ai/assistant-gateway/pkg/logger"
	"github.com/capitalize-ai/assistant-gateway/pkg/metrics"
)

const platformES = "dialogflow-es"

// Welcome intents open a session rather than carrying a user utterance.
const (
	intentMain           = "actions.intent.MAIN"
	intentDefaultWelcome = "Default Welcome Intent"
)

// Manager handles one webhook turn end to end.
type Manager struct {
	sessions session.Store
	tracker  analytics.Tracker
	api      runtime.DataAPI
	interp   runtime.Interpreter
	cfg      *config.Config
	log      *logger.Logger
}

// NewManager wires a turn manager.
func NewManager(sessions session.Store, tracker analytics.Tracker, api runtime.DataAPI, interp runtime.Interpreter, cfg *config.Config, log *logger.Logger) *Manager {
	return &Manager{
		sessions: sessions,
		tracker:  tracker,
		api:      api,
		interp:   interp,
		cfg:      cfg,
		log:      log,
	}
}

// HandleES executes one Dialogflow ES fulfillment turn.
func (m *Manager) HandleES(ctx context.Context, req *model.WebhookRequest, versionID string) (*model.WebhookResponse, error) {
	start := time.Now()
	metrics.RecordInvocation(platformES)

	userID := req.Session
	log := m.log.WithTurn(versionID, userID)

	// slot filling turns never reach the runtime
	if m.canSlotFill(req) {
		res, err := m.slotFillingResponse(ctx, req, userID)
		metrics.RecordTurn(platformES, "slot_filling", time.Since(start).Seconds())
		return res, err
	}

	// conversations keyed before the session-path change carry over
	if err := session.MigrateLegacy(ctx, m.sessions, userID); err != nil {
		log.Warn("legacy session migration failed", zap.Error(err))
	}

	r, err := m.buildRuntime(ctx, versionID, userID)
	if err != nil {
		metrics.RecordTurn(platformES, "error", time.Since(start).Seconds())
		return nil, err
	}

	intentName := req.QueryResult.Intent.DisplayName
	request := &model.IntentRequest{
		Type: model.RequestTypeIntent,
		Payload: model.IntentRequestPayload{
			Intent: intentName,
			Input:  req.QueryResult.QueryText,
			Action: req.QueryResult.Action,
			Slots:  req.QueryResult.Parameters,
		},
	}

	isWelcome := intentName == intentMain || intentName == intentDefaultWelcome

	var handle *analytics.TurnHandle

	if isWelcome || r.Stack.IsEmpty() {
		if err := m.initialize(ctx, r, req, userID); err != nil {
			metrics.RecordTurn(platformES, "error", time.Since(start).Seconds())
			return nil, err
		}

		if isWelcome {
			handle = analytics.TrackAsync(m.tracker, m.turnBody(r, analytics.RequestLaunch, request, userID))
		}
	}

	if !isWelcome {
		r.Turn.Set(dialog.TurnRequest, request)
		handle = analytics.TrackAsync(m.tracker, m.turnBody(r, analytics.RequestRequest, request, userID))
	}

	r.Variables.Set(dialog.VarTimestamp, time.Now().Unix())
	r.Variables.Set(dialog.VarChannel, inferChannel(req))

	if err := r.Update(ctx); err != nil {
		metrics.RecordTurn(platformES, "error", time.Since(start).Seconds())
		return nil, err
	}

	res, err := m.buildResponse(ctx, r, userID, handle)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	} else if res.EndInteraction {
		outcome = "end"
	}
	metrics.RecordTurn(platformES, outcome, time.Since(start).Seconds())
	return res, err
}

// buildRuntime loads persisted state and version metadata into a fresh
// runtime, snapshotting the previous turn's output before clearing it.
func (m *Manager) buildRuntime(ctx context.Context, versionID, userID string) (*runtime.Runtime, error) {
	state, err := m.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	version, err := m.api.GetVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}

	r := runtime.New(versionID, state, version, m.api, m.interp)

	r.Turn.Set(dialog.TurnPreviousOutput, r.Storage.GetString(dialog.StorageOutput))
	r.Storage.Set(dialog.StorageOutput, "")

	return r, nil
}

func (m *Manager) turnBody(r *runtime.Runtime, kind analytics.RequestKind, payload any, sessionID string) analytics.TrackBody {
	var projectID string
	if v := r.Version(); v != nil {
		projectID = v.ProjectID
	}

	return analytics.TrackBody{
		ProjectID: projectID,
		VersionID: r.VersionID(),
		Event:     analytics.EventTurn,
		Request:   kind,
		Payload:   payload,
		SessionID: sessionID,
		Metadata:  turnMetadata(r.GetRawState()),
		Timestamp: time.Now().UTC(),
	}
}

func turnMetadata(state model.State) map[string]any {
	return map[string]any{
		"stack":     state.Stack,
		"storage":   state.Storage,
		"variables": state.Variables,
		"platform":  platformES,
	}
}

// inferChannel resolves the surface the user is talking through. The
// platform leaves the source field empty for some channels, but those embed
// a marker in the session path.
func inferChannel(req *model.WebhookRequest) string {
	if req.OriginalDetectIntentRequest.Source != "" {
		return req.OriginalDetectIntentRequest.Source
	}

	for _, ch := range []string{"webdemo", "dfMessenger"} {
		if strings.Contains(req.Session, ch) {
			return ch
		}
	}

	return "unknown"
}
