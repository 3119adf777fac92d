package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/assistant-gateway/internal/model"
	"github.com/capitalize-ai/assistant-gateway/internal/runtime"
)

func newTestRuntime(state model.State) *runtime.Runtime {
	return runtime.New("version-1", state, &model.Version{ID: "version-1", RootProgramID: "root"}, nil, nil)
}

func setIntentRequest(r *runtime.Runtime, intent string, slots map[string]any) {
	r.Turn.Set(TurnRequest, &model.IntentRequest{
		Type: model.RequestTypeIntent,
		Payload: model.IntentRequestPayload{
			Intent: intent,
			Slots:  slots,
		},
	})
}

func frameWithCommands(programID string, commands ...model.Command) model.FrameState {
	return model.FrameState{ProgramID: programID, Commands: commands}
}

func TestGetCommand(t *testing.T) {
	t.Run("no request", func(t *testing.T) {
		r := newTestRuntime(model.State{Stack: []model.FrameState{
			frameWithCommands("root", model.Command{Intent: "help", Next: "n1"}),
		}})
		assert.Nil(t, GetCommand(r, CommandOptions{}))
	})

	t.Run("catch-all never matches", func(t *testing.T) {
		r := newTestRuntime(model.State{Stack: []model.FrameState{
			frameWithCommands("root", model.Command{Intent: IntentCatchAll, Next: "n1"}),
		}})
		setIntentRequest(r, IntentCatchAll, nil)
		assert.Nil(t, GetCommand(r, CommandOptions{}))
	})

	t.Run("newest frame wins", func(t *testing.T) {
		r := newTestRuntime(model.State{Stack: []model.FrameState{
			frameWithCommands("root", model.Command{Intent: "help", Next: "old"}),
			frameWithCommands("child", model.Command{Intent: "help", Next: "new"}),
		}})
		setIntentRequest(r, "help", nil)

		match := GetCommand(r, CommandOptions{})
		require.NotNil(t, match)
		assert.Equal(t, 1, match.FrameIndex)
		assert.Equal(t, "new", match.Command.Next)
	})

	t.Run("declaration order within a frame", func(t *testing.T) {
		r := newTestRuntime(model.State{Stack: []model.FrameState{
			frameWithCommands("root",
				model.Command{Intent: "help", Next: "first"},
				model.Command{Intent: "help", Next: "second"},
			),
		}})
		setIntentRequest(r, "help", nil)

		match := GetCommand(r, CommandOptions{})
		require.NotNil(t, match)
		assert.Equal(t, "first", match.Command.Next)
	})

	t.Run("action matching is opt-in", func(t *testing.T) {
		r := newTestRuntime(model.State{Stack: []model.FrameState{
			frameWithCommands("root", model.Command{Intent: "order.pizza", Next: "n1"}),
		}})
		r.Turn.Set(TurnRequest, &model.IntentRequest{
			Type:    model.RequestTypeIntent,
			Payload: model.IntentRequestPayload{Intent: "other", Action: "order.pizza"},
		})

		assert.Nil(t, GetCommand(r, CommandOptions{}))
		assert.NotNil(t, GetCommand(r, CommandOptions{MatchAction: true}))
	})
}

func TestCommandHandler_Push(t *testing.T) {
	r := newTestRuntime(model.State{Stack: []model.FrameState{
		frameWithCommands("root", model.Command{Intent: "help", PushProgramID: "help-flow"}),
	}})
	setIntentRequest(r, "help", nil)

	h := NewCommandHandler(CommandOptions{})
	require.True(t, h.CanHandle(r))

	next := h.Handle(r, r.Variables)
	assert.Nil(t, next)

	require.Equal(t, 2, r.Stack.GetSize())
	assert.Equal(t, "help-flow", r.Stack.Top().ProgramID())

	// interrupted frame is flagged for resume
	assert.True(t, r.Stack.GetFrames()[0].Storage().GetBool(FrameCalledCommand))

	// request consumed exactly once
	assert.Nil(t, RequestFromTurn(r))
}

func TestCommandHandler_Intent(t *testing.T) {
	t.Run("pops above the matched frame and repositions", func(t *testing.T) {
		r := newTestRuntime(model.State{Stack: []model.FrameState{
			frameWithCommands("root", model.Command{Intent: "restart", Next: "n5"}),
			{ProgramID: "child"},
		}})
		setIntentRequest(r, "restart", nil)

		h := NewCommandHandler(CommandOptions{})
		next := h.Handle(r, r.Variables)
		assert.Nil(t, next)

		require.Equal(t, 1, r.Stack.GetSize())
		require.NotNil(t, r.Stack.Top().NodeID())
		assert.Equal(t, "n5", *r.Stack.Top().NodeID())
	})

	t.Run("clears partial output when matched frame is top", func(t *testing.T) {
		r := newTestRuntime(model.State{Stack: []model.FrameState{
			frameWithCommands("root", model.Command{Intent: "again", Next: "n1"}),
		}})
		r.Storage.Set(StorageOutput, "half finished ")
		setIntentRequest(r, "again", nil)

		NewCommandHandler(CommandOptions{}).Handle(r, r.Variables)
		assert.Equal(t, "", r.Storage.GetString(StorageOutput))
	})

	t.Run("pushes target program when it differs", func(t *testing.T) {
		r := newTestRuntime(model.State{Stack: []model.FrameState{
			frameWithCommands("root", model.Command{Intent: "jump", Next: "n1", ProgramID: "other"}),
		}})
		setIntentRequest(r, "jump", nil)

		NewCommandHandler(CommandOptions{}).Handle(r, r.Variables)
		require.Equal(t, 2, r.Stack.GetSize())
		assert.Equal(t, "other", r.Stack.Top().ProgramID())
	})

	t.Run("command with no target only consumes the request", func(t *testing.T) {
		r := newTestRuntime(model.State{Stack: []model.FrameState{
			{
				ProgramID: "root",
				NodeID:    strPtr("somewhere"),
				Commands: []model.Command{{
					Intent:   "capture",
					Mappings: []model.SlotMapping{{Slot: "name", Variable: "name"}},
				}},
			},
		}})
		setIntentRequest(r, "capture", map[string]any{"name": "ada"})

		NewCommandHandler(CommandOptions{}).Handle(r, r.Variables)
		assert.Equal(t, "somewhere", *r.Stack.Top().NodeID())
		assert.Equal(t, "ada", r.Variables.GetString("name"))
		assert.Nil(t, RequestFromTurn(r))
	})
}

func TestCommandHandler_Mappings(t *testing.T) {
	r := newTestRuntime(model.State{Stack: []model.FrameState{
		frameWithCommands("root", model.Command{
			Intent:   "book",
			Next:     "n1",
			Mappings: []model.SlotMapping{{Slot: "city", Variable: "destination"}},
		}),
	}})
	setIntentRequest(r, "book", map[string]any{"city": "tokyo"})

	NewCommandHandler(CommandOptions{}).Handle(r, r.Variables)
	assert.Equal(t, "tokyo", r.Variables.GetString("destination"))
}

func strPtr(s string) *string { return &s }
