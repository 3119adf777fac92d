package dialog

import (
	"github.com/capitalize-ai/assistant-gateway/internal/model"
	"github.com/capitalize-ai/assistant-gateway/internal/runtime"
)

// InteractionHandler executes choice nodes: on the first visit it renders
// chips and reprompts and yields the turn; on re-entry with a pending request
// it routes buttons and declared choices, then consults the command resolver
// and the retry policies.
type InteractionHandler struct {
	command *CommandHandler
	noMatch *NoMatchHandler
	noInput *NoInputHandler
}

// NewInteractionHandler wires an interaction handler with its collaborators.
func NewInteractionHandler(command *CommandHandler, noMatch *NoMatchHandler, noInput *NoInputHandler) *InteractionHandler {
	return &InteractionHandler{
		command: command,
		noMatch: noMatch,
		noInput: noInput,
	}
}

// CanHandle reports whether the node is an interaction node.
func (h *InteractionHandler) CanHandle(node *model.InteractionNode) bool {
	return node != nil && len(node.Interactions) > 0
}

// Handle executes one visit of the node. Returning the node's own id keeps
// the session parked on it; nil ends the frame.
func (h *InteractionHandler) Handle(node *model.InteractionNode, r *runtime.Runtime, variables *runtime.Store) *string {
	request := RequestFromTurn(r)

	if request == nil || request.Type != model.RequestTypeIntent {
		// fresh arrival at the node: prepare the prompt surface and stop
		// the cycle on ourselves so the platform collects input
		r.Storage.Delete(StorageReprompt)

		AddChipsIfExists(node, r, variables)
		AddRepromptIfExists(node.NoReply, r, variables)

		// a new interaction resets both retry counters
		r.Storage.Delete(StorageNoMatchCounter)
		r.Storage.Delete(StorageNoInputCounter)

		return &node.ID
	}

	var nextID *string
	var variableMap []model.SlotMapping

	input := request.Payload.Input

	for _, button := range node.Buttons {
		if ReplaceVariables(button.Name, variables.GetState()) != input {
			continue
		}

		switch button.Type {
		case "PATH", "INTENT_PATH":
			next := button.NextID
			nextID = &next
		case "INTENT":
			// an intent button is never a local choice; rewrite the pending
			// request so the command resolver sees the bound intent
			rewritten := *request
			rewritten.Payload.Intent = button.IntentName
			r.Turn.Set(TurnRequest, &rewritten)
		}
	}

	// an intent button may have rewritten the pending request
	request = RequestFromTurn(r)
	intent := request.Payload.Intent
	slots := request.Payload.Slots

	if nextID == nil {
		for i, choice := range node.Interactions {
			if choice.Intent == "" || choice.Intent != intent {
				continue
			}

			if choice.GoTo != nil {
				r.Turn.Set(TurnGoTo, choice.GoTo.IntentName)
				id := node.ID
				nextID = &id
			} else {
				variableMap = choice.Mappings

				index := i
				if choice.NextIDIndex != nil {
					index = *choice.NextIDIndex
				}
				if index >= 0 && index < len(node.NextIDs) {
					next := node.NextIDs[index]
					nextID = &next
				} else {
					nextID = nil
				}
			}
		}
	}

	if variableMap != nil && slots != nil {
		variables.Merge(MapSlots(variableMap, slots, false))
	}

	if nextID != nil {
		r.Turn.Delete(TurnRequest)
		return nextID
	}

	// fall through to a stack command that fulfills the intent
	if h.command.CanHandle(r) {
		return h.command.Handle(r, variables)
	}

	if h.noInput.CanHandle(r) {
		return h.noInput.Handle(node.ID, node.NoReply, r, variables)
	}

	// request for this turn has been processed
	r.Turn.Delete(TurnRequest)

	return h.noMatch.Handle(node.ID, node.NoMatch, r, variables)
}
