package dialog

import (
	"github.com/capitalize-ai/assistant-gateway/internal/runtime"

	"github.com/capitalize-ai/assistant-gateway/internal/model"
)

// NoMatchHandler speaks a node's configured no-match reprompts one per failed
// turn, then falls through to the node's failure target. The counter lives in
// session storage and is deleted on exhaustion or whenever a turn matches.
type NoMatchHandler struct{}

// NewNoMatchHandler creates a no-match handler.
func NewNoMatchHandler() *NoMatchHandler {
	return &NoMatchHandler{}
}

// Handle runs one step of the retry policy for the given node. It returns the
// node's own id while reprompts remain (self-loop: the platform re-prompts
// without ending the session), the configured failure target once exhausted,
// or nil to end the interaction.
func (h *NoMatchHandler) Handle(nodeID string, noMatch *model.Reprompt, r *runtime.Runtime, variables *runtime.Store) *string {
	var prompts []string
	randomize := false
	target := ""
	if noMatch != nil {
		prompts = RemoveEmptyPrompts(noMatch.Prompts)
		randomize = noMatch.Randomize
		target = noMatch.NodeID
	}

	counter := r.Storage.GetInt(StorageNoMatchCounter)

	if counter >= len(prompts) {
		if global := globalNoMatchPrompt(r); global != "" {
			// keep the session alive on the current node; the counter stays
			// at its cap so the global prompt repeats on subsequent failures
			r.Storage.Append(StorageOutput, ProcessOutput(global, variables))
			return &nodeID
		}

		r.Storage.Delete(StorageNoMatchCounter)
		if target != "" {
			return &target
		}
		return nil
	}

	r.Storage.Set(StorageNoMatchCounter, counter+1)

	speak := prompts[counter]
	if randomize {
		speak = samplePrompt(prompts)
	}
	r.Storage.Append(StorageOutput, ProcessOutput(speak, variables))

	return &nodeID
}

func globalNoMatchPrompt(r *runtime.Runtime) string {
	if v := r.Version(); v != nil {
		return v.Settings.GlobalNoMatch
	}
	return ""
}
