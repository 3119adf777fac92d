// Package interp provides a small node-graph cycler for the built-in node
// types. It walks the active frame line by line, delegating choice nodes to
// the dialog handlers, until a node parks the turn or the stack drains.
package interp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/capitalize-ai/assistant-gateway/internal/dialog"
	"github.com/capitalize-ai/assistant-gateway/internal/model"
	"github.com/capitalize-ai/assistant-gateway/internal/runtime"
)

// maxIterations caps a single turn's traversal so a malformed graph cannot
// spin the handler forever.
const maxIterations = 1000

// line is the decoded superset of the built-in node shapes. Unknown types
// fall through to their nextId.
type line struct {
	ID      string     `json:"id"`
	Type    string     `json:"type"`
	Speak   string     `json:"speak"`
	NextID  string     `json:"nextId"`
	Inputs  [][]string `json:"inputs"`
	NextIDs []string   `json:"nextIds"`
	ElseID  string     `json:"elseId"`
	Reset   bool       `json:"reset"`
	End     bool       `json:"end"`
}

// Cycler executes turns over the built-in node types.
type Cycler struct {
	interaction *dialog.InteractionHandler
}

// New creates a cycler that delegates interaction nodes to the given handler.
func New(interaction *dialog.InteractionHandler) *Cycler {
	return &Cycler{interaction: interaction}
}

// Cycle runs one turn of traversal. It returns when a node parks the session
// awaiting input, when a node ends the interaction, or when the stack drains.
func (c *Cycler) Cycle(ctx context.Context, r *runtime.Runtime) error {
	for i := 0; i < maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame := r.Stack.Top()
		if frame == nil {
			return nil
		}

		program, err := c.program(ctx, r, frame.ProgramID())
		if err != nil {
			return err
		}

		nodeID := program.StartID
		if frame.NodeID() != nil {
			nodeID = *frame.NodeID()
		}

		raw, ok := program.Lines[nodeID]
		if !ok {
			// cursor points past the end of the program
			r.Stack.Pop()
			continue
		}

		next, park, err := c.step(r, frame, raw, nodeID)
		if err != nil {
			return err
		}

		if r.Stack.Top() != frame {
			// a command or reset repositioned the stack; resume from the new top
			continue
		}

		if park {
			frame.SetNodeID(next)
			return nil
		}
		if next != nil {
			frame.SetNodeID(next)
			continue
		}

		r.Stack.Pop()
	}

	program := "<empty>"
	if top := r.Stack.Top(); top != nil {
		program = top.ProgramID()
	}
	return fmt.Errorf("node traversal exceeded %d steps in program %s", maxIterations, program)
}

func (c *Cycler) program(ctx context.Context, r *runtime.Runtime, programID string) (*model.Program, error) {
	if programID == dialog.ResumeProgramID {
		return dialog.ResumeProgram(), nil
	}
	program, err := r.API().GetProgram(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("fetching program %s: %w", programID, err)
	}
	return program, nil
}

// step executes a single node. It returns the next cursor position and
// whether the turn should stop there.
func (c *Cycler) step(r *runtime.Runtime, frame *runtime.Frame, raw json.RawMessage, nodeID string) (*string, bool, error) {
	var ln line
	if err := json.Unmarshal(raw, &ln); err != nil {
		return nil, false, fmt.Errorf("decoding node %s: %w", nodeID, err)
	}
	if ln.ID == "" {
		ln.ID = nodeID
	}

	switch {
	case ln.Type == "speak" || (ln.Speak != "" && ln.Type == ""):
		variables := combinedVariables(r, frame)
		r.Storage.Append(dialog.StorageOutput, dialog.ProcessOutput(ln.Speak, variables))
		return optional(ln.NextID), false, nil

	case len(ln.Inputs) > 0:
		return c.stepRawChoice(r, ln)

	case ln.Type == "interaction" || ln.Type == "choice":
		return c.stepInteraction(r, frame, raw)

	case ln.Type == "reset" || ln.Reset:
		return nil, false, c.reset(r)

	case ln.Type == "end" || ln.End:
		r.Turn.Set(dialog.TurnEnd, true)
		return nil, true, nil

	default:
		return optional(ln.NextID), false, nil
	}
}

// stepRawChoice matches the user's raw utterance against literal input lists,
// the shape the built-in resume program uses.
func (c *Cycler) stepRawChoice(r *runtime.Runtime, ln line) (*string, bool, error) {
	request := dialog.RequestFromTurn(r)
	if request == nil {
		// park awaiting input
		id := ln.ID
		return &id, true, nil
	}
	r.Turn.Delete(dialog.TurnRequest)

	input := strings.ToLower(request.Payload.Input)
	for i, group := range ln.Inputs {
		for _, utterance := range group {
			if !strings.Contains(input, strings.ToLower(utterance)) {
				continue
			}
			if i < len(ln.NextIDs) {
				return optional(ln.NextIDs[i]), false, nil
			}
			return nil, false, nil
		}
	}

	return optional(ln.ElseID), false, nil
}

func (c *Cycler) stepInteraction(r *runtime.Runtime, frame *runtime.Frame, raw json.RawMessage) (*string, bool, error) {
	var node model.InteractionNode
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, false, fmt.Errorf("decoding interaction node: %w", err)
	}
	node.Normalize()

	if !c.interaction.CanHandle(&node) {
		return optional(node.ElseID), false, nil
	}

	before := snapshot(r)
	// slot mappings must write through to session variables
	next := c.interaction.Handle(&node, r, r.Variables)

	if next != nil {
		// the node's own id parks the session on it awaiting the next turn
		park := *next == node.ID
		return next, park, nil
	}

	if before != snapshot(r) && r.Stack.Top() == frame {
		// a stack command moved the cursor within this frame
		return currentCursor(r), false, nil
	}

	return nil, false, nil
}

// reset restarts the conversation at the root program.
func (c *Cycler) reset(r *runtime.Runtime) error {
	version := r.Version()
	if version == nil {
		return fmt.Errorf("reset without version metadata")
	}
	r.Stack.Flush()
	r.Stack.Push(runtime.NewFrame(version.RootProgramID))
	return nil
}

// snapshot captures enough of the stack position to detect repositioning by a
// command during interaction handling.
func snapshot(r *runtime.Runtime) string {
	top := r.Stack.Top()
	if top == nil {
		return "empty"
	}
	cursor := "<start>"
	if top.NodeID() != nil {
		cursor = *top.NodeID()
	}
	return fmt.Sprintf("%d|%s|%s", r.Stack.GetSize(), top.ProgramID(), cursor)
}

func currentCursor(r *runtime.Runtime) *string {
	top := r.Stack.Top()
	if top == nil {
		return nil
	}
	return top.NodeID()
}

// combinedVariables merges session variables with the frame's locals, locals
// winning, into a store for prompt rendering and slot mapping.
func combinedVariables(r *runtime.Runtime, frame *runtime.Frame) *runtime.Store {
	merged := runtime.NewStoreFrom(r.Variables.GetState())
	merged.Merge(frame.Variables().GetState())
	return merged
}

func optional(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
