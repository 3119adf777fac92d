package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/assistant-gateway/internal/model"
)

func TestStack(t *testing.T) {
	s := NewStack()
	assert.True(t, s.IsEmpty())
	assert.Nil(t, s.Top())
	assert.Nil(t, s.Pop())

	s.Push(NewFrame("a"))
	s.Push(NewFrame("b"))
	s.Push(NewFrame("c"))

	assert.Equal(t, 3, s.GetSize())
	assert.Equal(t, "c", s.Top().ProgramID())

	s.PopTo(1)
	assert.Equal(t, 1, s.GetSize())
	assert.Equal(t, "a", s.Top().ProgramID())

	s.Flush()
	assert.True(t, s.IsEmpty())
}

func TestStore(t *testing.T) {
	s := NewStore()

	s.Set("count", 2)
	assert.Equal(t, 2, s.GetInt("count"))

	// JSON decoding produces float64
	s.Set("sessions", float64(5))
	assert.Equal(t, 5, s.GetInt("sessions"))

	s.Append("output", "hello ")
	s.Append("output", "world")
	assert.Equal(t, "hello world", s.GetString("output"))

	s.Initialize([]string{"a", "count"}, 0)
	assert.Equal(t, 0, s.GetInt("a"))
	assert.Equal(t, 2, s.GetInt("count")) // existing keys untouched

	s.Delete("count")
	_, ok := s.Get("count")
	assert.False(t, ok)

	// GetState is a copy
	state := s.GetState()
	state["output"] = "mutated"
	assert.Equal(t, "hello world", s.GetString("output"))
}

func TestRuntimeStateRoundTrip(t *testing.T) {
	nodeID := "n2"
	state := model.State{
		Stack: []model.FrameState{
			{ProgramID: "root"},
			{ProgramID: "child", NodeID: &nodeID, Storage: map[string]any{"speak": "hi"}},
		},
		Storage:   map[string]any{"output": "hello"},
		Variables: map[string]any{"name": "sam"},
	}

	r := New("v1", state, &model.Version{ID: "v1"}, nil, nil)

	require.Equal(t, 2, r.Stack.GetSize())
	assert.Equal(t, "child", r.Stack.Top().ProgramID())
	assert.Equal(t, "hello", r.Storage.GetString("output"))
	assert.Equal(t, "sam", r.Variables.GetString("name"))

	r.Storage.Set("output", "changed")
	r.Stack.Pop()

	final := r.GetFinalState()
	assert.Len(t, final.Stack, 1)
	assert.Equal(t, "changed", final.Storage["output"])

	// raw state still reflects what the runtime was built from
	assert.Equal(t, "hello", r.GetRawState().Storage["output"])
}
