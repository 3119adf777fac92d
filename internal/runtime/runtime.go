package runtime

import (
	"context"

	"github.com/capitalize-ai/assistant-gateway/internal/model"
)

// DataAPI fetches version and program definitions. Implementations are
// external collaborators (local files, remote project service).
type DataAPI interface {
	GetVersion(ctx context.Context, versionID string) (*model.Version, error)
	GetProgram(ctx context.Context, programID string) (*model.Program, error)
}

// Interpreter executes one turn of node-graph traversal over a runtime. The
// production engine is externally owned; this repo only consumes it.
type Interpreter interface {
	Cycle(ctx context.Context, r *Runtime) error
}

// Runtime is the in-memory conversation runtime for a single turn. It owns
// its stores exclusively until GetFinalState is called.
type Runtime struct {
	Stack     *Stack
	Storage   *Store
	Turn      *Store
	Variables *Store

	versionID string
	version   *model.Version
	rawState  model.State
	api       DataAPI
	interp    Interpreter
}

// New builds a runtime from persisted raw state.
func New(versionID string, state model.State, version *model.Version, api DataAPI, interp Interpreter) *Runtime {
	stack := NewStack()
	for _, fs := range state.Stack {
		stack.Push(FrameFromState(fs))
	}

	return &Runtime{
		Stack:     stack,
		Storage:   NewStoreFrom(state.Storage),
		Turn:      NewStore(),
		Variables: NewStoreFrom(state.Variables),
		versionID: versionID,
		version:   version,
		rawState:  state,
		api:       api,
		interp:    interp,
	}
}

// Update runs one turn of node-graph traversal.
func (r *Runtime) Update(ctx context.Context) error {
	if r.interp == nil {
		return nil
	}
	return r.interp.Cycle(ctx, r)
}

// GetFinalState serializes the runtime back into persistable state. Turn
// storage is ephemeral and not included.
func (r *Runtime) GetFinalState() model.State {
	frames := r.Stack.GetFrames()
	stack := make([]model.FrameState, len(frames))
	for i, f := range frames {
		stack[i] = f.State()
	}

	return model.State{
		Stack:     stack,
		Storage:   r.Storage.GetState(),
		Variables: r.Variables.GetState(),
	}
}

// GetRawState returns the state the runtime was built from.
func (r *Runtime) GetRawState() model.State {
	return r.rawState
}

// VersionID returns the executing version id.
func (r *Runtime) VersionID() string {
	return r.versionID
}

// Version returns the version metadata, or nil if it was not resolved.
func (r *Runtime) Version() *model.Version {
	return r.version
}

// API returns the data API the runtime fetches programs through.
func (r *Runtime) API() DataAPI {
	return r.api
}
