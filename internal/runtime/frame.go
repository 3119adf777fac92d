package runtime

import "github.com/capitalize-ai/assistant-gateway/internal/model"

// Frame is one call-stack entry: a program binding, a cursor position, local
// storage and the commands visible while the frame is active. Frames are
// owned exclusively by the stack that holds them.
type Frame struct {
	programID string
	nodeID    *string
	storage   *Store
	variables *Store
	commands  []model.Command
}

// NewFrame creates a frame positioned at the start of a program.
func NewFrame(programID string) *Frame {
	return &Frame{
		programID: programID,
		storage:   NewStore(),
		variables: NewStore(),
	}
}

// NewFrameWithVariables creates a frame seeded with local variables.
func NewFrameWithVariables(programID string, variables map[string]any) *Frame {
	f := NewFrame(programID)
	f.variables.Merge(variables)
	return f
}

// FrameFromState rebuilds a frame from its serialized form.
func FrameFromState(state model.FrameState) *Frame {
	return &Frame{
		programID: state.ProgramID,
		nodeID:    state.NodeID,
		storage:   NewStoreFrom(state.Storage),
		variables: NewStoreFrom(state.Variables),
		commands:  state.Commands,
	}
}

// State serializes the frame.
func (f *Frame) State() model.FrameState {
	return model.FrameState{
		NodeID:    f.nodeID,
		ProgramID: f.programID,
		Storage:   f.storage.GetState(),
		Variables: f.variables.GetState(),
		Commands:  f.commands,
	}
}

// ProgramID returns the program this frame executes.
func (f *Frame) ProgramID() string {
	return f.programID
}

// NodeID returns the frame's current position, nil when at program start.
func (f *Frame) NodeID() *string {
	return f.nodeID
}

// SetNodeID moves the frame's cursor. A nil id resets it to program start.
func (f *Frame) SetNodeID(id *string) {
	f.nodeID = id
}

// Storage returns the frame-local storage.
func (f *Frame) Storage() *Store {
	return f.storage
}

// Variables returns the frame-local variables.
func (f *Frame) Variables() *Store {
	return f.variables
}

// Commands returns the commands declared on this frame.
func (f *Frame) Commands() []model.Command {
	return f.commands
}

// SetCommands replaces the frame's declared commands.
func (f *Frame) SetCommands(commands []model.Command) {
	f.commands = commands
}
