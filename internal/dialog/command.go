package dialog

import (
	"github.com/capitalize-ai/assistant-gateway/internal/model"
	"github.com/capitalize-ai/assistant-gateway/internal/runtime"
	"github.com/capitalize-ai/assistant-gateway/pkg/metrics"
)

// CommandOptions tunes command resolution.
type CommandOptions struct {
	// ProgramID restricts matching to commands targeting this program.
	ProgramID string
	// MatchAction additionally matches the platform action field. Intent-only
	// matching is the canonical behavior.
	MatchAction bool
}

// CommandMatch describes a resolved command: which frame declared it and the
// request it matched.
type CommandMatch struct {
	FrameIndex int
	Command    model.Command
	Intent     string
	Slots      map[string]any
}

// GetCommand scans the call stack, newest frame first, for a command whose
// declared intent matches the turn's pending request. Within a frame commands
// are scanned in declaration order; recency of frame wins over command
// position. Returns nil when nothing matches.
func GetCommand(r *runtime.Runtime, opts CommandOptions) *CommandMatch {
	request := RequestFromTurn(r)
	if request == nil || request.Type != model.RequestTypeIntent {
		return nil
	}

	intent := request.Payload.Intent
	action := request.Payload.Action

	// the catch-all intent must never match a declared command
	if intent == IntentCatchAll {
		return nil
	}

	matches := func(c model.Command) bool {
		if c.Intent == "" {
			return false
		}
		if c.Intent == intent {
			return true
		}
		return opts.MatchAction && action != "" && c.Intent == action
	}

	frames := r.Stack.GetFrames()
	for index := len(frames) - 1; index >= 0; index-- {
		for _, command := range frames[index].Commands() {
			target := command.PushProgramID
			if target == "" {
				target = command.ProgramID
			}
			if opts.ProgramID != "" && target != "" && opts.ProgramID != target {
				continue
			}

			if matches(command) {
				return &CommandMatch{
					FrameIndex: index,
					Command:    command,
					Intent:     intent,
					Slots:      request.Payload.Slots,
				}
			}
		}
	}

	return nil
}

// CommandHandler resolves stack commands for the turn's pending request. It
// is meant to be consulted from other node handlers and never owns a node
// directly. Absence of a match is its only negative outcome; it never fails.
type CommandHandler struct {
	opts CommandOptions
}

// NewCommandHandler creates a command handler with the given options.
func NewCommandHandler(opts CommandOptions) *CommandHandler {
	return &CommandHandler{opts: opts}
}

// CanHandle reports whether the turn's request matches any stack command.
func (h *CommandHandler) CanHandle(r *runtime.Runtime) bool {
	return GetCommand(r, h.opts) != nil
}

// Handle applies the matched command to the stack, consumes the request and
// merges declared slot mappings into the variable store. It always returns
// nil so the cycle continues from the frame the command repositioned.
func (h *CommandHandler) Handle(r *runtime.Runtime, variables *runtime.Store) *string {
	match := GetCommand(r, h.opts)
	if match == nil {
		return nil
	}

	command := match.Command

	switch {
	case command.IsPush():
		// remember the interrupted frame was left via a command so session
		// resume can pick it back up
		r.Stack.Top().Storage().Set(FrameCalledCommand, true)
		r.Stack.Push(runtime.NewFrame(command.PushProgramID))
		metrics.CommandMatches.WithLabelValues("push").Inc()

	case command.IsIntent():
		if match.FrameIndex == r.Stack.GetSize()-1 {
			// the matched frame is being re-entered; drop partial output
			// accumulated on the way out
			r.Storage.Set(StorageOutput, "")
		}
		r.Stack.PopTo(match.FrameIndex + 1)

		if command.ProgramID != "" && command.ProgramID != r.Stack.Top().ProgramID() {
			r.Stack.Push(runtime.NewFrame(command.ProgramID))
		}

		next := command.Next
		r.Stack.Top().SetNodeID(&next)
		metrics.CommandMatches.WithLabelValues("intent").Inc()
	}

	// exactly-once consumption
	r.Turn.Delete(TurnRequest)

	if len(command.Mappings) > 0 && match.Slots != nil {
		variables.Merge(MapSlots(command.Mappings, match.Slots, false))
	}

	return nil
}
