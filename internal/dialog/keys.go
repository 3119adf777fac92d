// Package dialog implements command/slot resolution and the no-match /
// no-input retry policies that plug into the conversation runtime.
package dialog

import (
	"github.com/capitalize-ai/assistant-gateway/internal/model"
	"github.com/capitalize-ai/assistant-gateway/internal/runtime"
)

// Session storage keys. These survive across turns.
const (
	StorageOutput         = "output"
	StorageSessions       = "sessions"
	StorageLocale         = "locale"
	StorageUser           = "user"
	StorageRepeat         = "repeat"
	StorageReprompt       = "reprompt"
	StoragePriorOutput    = "priorOutput"
	StorageModelVersion   = "modelVersion"
	StorageNoMatchCounter = "noMatchesCounter"
	StorageNoInputCounter = "noInputsCounter"
)

// Turn storage keys. These live for a single webhook call.
const (
	TurnRequest        = "request"
	TurnPreviousOutput = "previousOutput"
	TurnEnd            = "end"
	TurnGoTo           = "goto"
	TurnChips          = "chips"
	TurnTextEnabled    = "textEnabled"
)

// Frame storage keys.
const (
	FrameCalledCommand = "calledCommand"
	FrameSpeak         = "speak"
)

// Variable keys reserved for system values.
const (
	VarTimestamp = "timestamp"
	VarChannel   = "channel"
	VarUserID    = "user_id"
	VarSessions  = "sessions"
	VarLocale    = "locale"
	VarPlatform  = "platform"
)

// IntentCatchAll is the reserved catch-all sentinel intent the platform
// routes unmatched utterances to. It must never match a declared command.
const IntentCatchAll = "CatchAllIntent"

// NoInputPrefix marks platform-signaled silence/timeout intents.
const NoInputPrefix = "actions.intent.NO_INPUT"

// RequestFromTurn returns the turn-scoped intent request, or nil when the
// turn carries none (session start, or already consumed).
func RequestFromTurn(r *runtime.Runtime) *model.IntentRequest {
	v, ok := r.Turn.Get(TurnRequest)
	if !ok {
		return nil
	}
	req, ok := v.(*model.IntentRequest)
	if !ok {
		return nil
	}
	return req
}
