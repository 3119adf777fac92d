package dialog

import (
	"strings"

	"github.com/capitalize-ai/assistant-gateway/internal/model"
	"github.com/capitalize-ai/assistant-gateway/internal/runtime"
)

// NoInputHandler mirrors NoMatchHandler for platform-signaled silence. The
// two counters are independent; a turn is only ever one of the two.
type NoInputHandler struct{}

// NewNoInputHandler creates a no-input handler.
func NewNoInputHandler() *NoInputHandler {
	return &NoInputHandler{}
}

// CanHandle reports whether the turn's request is a platform no-input signal.
func (h *NoInputHandler) CanHandle(r *runtime.Runtime) bool {
	request := RequestFromTurn(r)
	if request == nil {
		return false
	}
	return strings.HasPrefix(request.Payload.Action, NoInputPrefix) ||
		strings.HasPrefix(request.Payload.Intent, NoInputPrefix)
}

// Handle runs one step of the no-input retry policy. The request is consumed
// on every path; see NoMatchHandler.Handle for the return contract.
func (h *NoInputHandler) Handle(nodeID string, noReply *model.Reprompt, r *runtime.Runtime, variables *runtime.Store) *string {
	var prompts []string
	randomize := false
	target := ""
	if noReply != nil {
		prompts = RemoveEmptyPrompts(noReply.Prompts)
		randomize = noReply.Randomize
		target = noReply.NodeID
	}

	counter := r.Storage.GetInt(StorageNoInputCounter)

	if counter >= len(prompts) {
		if global := globalNoReplyPrompt(r); global != "" {
			r.Storage.Append(StorageOutput, ProcessOutput(global, variables))
			r.Turn.Delete(TurnRequest)
			return &nodeID
		}

		r.Storage.Delete(StorageNoInputCounter)
		r.Turn.Delete(TurnRequest)
		if target != "" {
			return &target
		}
		return nil
	}

	speak := prompts[counter]
	if randomize {
		speak = samplePrompt(prompts)
	}

	r.Storage.Set(StorageNoInputCounter, counter+1)
	r.Storage.Append(StorageOutput, ProcessOutput(speak, variables))
	r.Turn.Delete(TurnRequest)

	return &nodeID
}

func globalNoReplyPrompt(r *runtime.Runtime) string {
	if v := r.Version(); v != nil {
		return v.Settings.GlobalNoReply
	}
	return ""
}
