// Package model defines the data shapes shared across the gateway.
package model

import "encoding/json"

// State is the persisted conversation state for one user/session.
type State struct {
	Stack     []FrameState   `json:"stack"`
	Storage   map[string]any `json:"storage"`
	Variables map[string]any `json:"variables"`
}

// FrameState is the serialized form of one call-stack entry.
type FrameState struct {
	NodeID    *string        `json:"nodeID"`
	ProgramID string         `json:"programID"`
	Storage   map[string]any `json:"storage,omitempty"`
	Commands  []Command      `json:"commands,omitempty"`
	Variables map[string]any `json:"variables,omitempty"`
}

// IsEmpty reports whether the state carries no stack, storage or variables.
func (s State) IsEmpty() bool {
	return len(s.Stack) == 0 && len(s.Storage) == 0 && len(s.Variables) == 0
}

// Clone returns a deep copy of the state. Persisted state is read-modify-write
// per turn; cloning at the store boundary keeps callers from aliasing the
// stored maps.
func (s State) Clone() State {
	data, err := json.Marshal(s)
	if err != nil {
		return State{}
	}

	var out State
	if err := json.Unmarshal(data, &out); err != nil {
		return State{}
	}
	return out
}
