package session

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/capitalize-ai/assistant-gateway/internal/model"
	"github.com/capitalize-ai/assistant-gateway/pkg/logger"
)

// NormalizeSessionID reduces a platform session path to its bare id. The
// platform sends "projects/<p>/agent/sessions/<id>"; older records were keyed
// by the bare id.
func NormalizeSessionID(sessionID string) string {
	const marker = "sessions/"
	if i := strings.LastIndex(sessionID, marker); i >= 0 {
		return sessionID[i+len(marker):]
	}
	return sessionID
}

// MigrateLegacy moves state stored under the bare session id to the full
// session path key. Used when a conversation started before the keying
// change continues after it.
func MigrateLegacy(ctx context.Context, store Store, sessionID string) error {
	bare := NormalizeSessionID(sessionID)
	if bare == sessionID {
		return nil
	}

	state, err := store.Get(ctx, bare)
	if err != nil || state.IsEmpty() {
		return err
	}

	if err := store.Save(ctx, sessionID, state); err != nil {
		return err
	}
	return store.Delete(ctx, bare)
}

// legacyState is the old flat persistence format.
type legacyState struct {
	LineID   string           `json:"line_id"`
	Output   string           `json:"output"`
	LastSpeak string          `json:"last_speak"`
	Sessions int              `json:"sessions"`
	Repeat   int              `json:"repeat"`
	Locale   string           `json:"locale"`
	User     string           `json:"user"`
	Randoms  map[string][]string `json:"randoms"`
	Globals  []map[string]any `json:"globals"`
	Diagrams []legacyDiagram  `json:"diagrams"`
}

type legacyDiagram struct {
	Line          json.RawMessage          `json:"line"` // string or false
	ID            string                   `json:"id"`
	VariableState map[string]any           `json:"variable_state"`
	OutputMap     [][2]string              `json:"output_map"`
	Commands      map[string]legacyCommand `json:"commands"`
	Speak         string                   `json:"speak"`
}

type legacyCommand struct {
	Mappings  []model.SlotMapping `json:"mappings"`
	DiagramID string              `json:"diagram_id"`
	End       bool                `json:"end"`
	Next      string              `json:"next"`
}

// AdaptLegacyState converts an old flat record into the stack-based state.
// Any conversion failure degrades to a zero State: the user restarts rather
// than being stuck on an undecodable record.
func AdaptLegacyState(data []byte) model.State {
	var old legacyState
	if err := json.Unmarshal(data, &old); err != nil {
		logger.Global().Warn("legacy state adaptation failed", zap.Error(err))
		return model.State{}
	}

	stack := make([]model.FrameState, 0, len(old.Diagrams))
	for _, d := range old.Diagrams {
		frame := model.FrameState{
			ProgramID: d.ID,
			Variables: d.VariableState,
			Storage:   map[string]any{},
		}

		// "line" is the cursor node id, or false at program start
		var line string
		if err := json.Unmarshal(d.Line, &line); err == nil && line != "" {
			frame.NodeID = &line
		}

		if d.Speak != "" {
			frame.Storage["speak"] = d.Speak
		}
		if len(d.OutputMap) > 0 {
			frame.Storage["outputMap"] = d.OutputMap
		}

		for intent, cmd := range d.Commands {
			frame.Commands = append(frame.Commands, model.Command{
				Intent:        intent,
				PushProgramID: cmd.DiagramID,
				Next:          cmd.Next,
				Mappings:      cmd.Mappings,
				End:           cmd.End,
			})
		}

		stack = append(stack, frame)
	}

	storage := map[string]any{
		"output":   old.Output,
		"sessions": old.Sessions,
		"repeat":   old.Repeat,
		"locale":   old.Locale,
		"user":     old.User,
	}
	if old.Randoms != nil {
		storage["randoms"] = old.Randoms
	}

	variables := map[string]any{}
	if len(old.Globals) > 0 {
		variables = old.Globals[0]
	}

	return model.State{
		Stack:     stack,
		Storage:   storage,
		Variables: variables,
	}
}
