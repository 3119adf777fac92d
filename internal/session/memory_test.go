package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/assistant-gateway/internal/model"
)

func sampleState() model.State {
	nodeID := "n1"
	return model.State{
		Stack: []model.FrameState{{
			ProgramID: "root",
			NodeID:    &nodeID,
			Storage:   map[string]any{"speak": "hi"},
		}},
		Storage:   map[string]any{"output": "hello", "user": "u1"},
		Variables: map[string]any{"name": "sam"},
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("unknown user yields zero state", func(t *testing.T) {
		state, err := store.Get(ctx, "nobody")
		require.NoError(t, err)
		assert.True(t, state.IsEmpty())
	})

	t.Run("save and get round trip", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "u1", sampleState()))

		state, err := store.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "hello", state.Storage["output"])
		require.Len(t, state.Stack, 1)
		assert.Equal(t, "root", state.Stack[0].ProgramID)
	})

	t.Run("returned state is isolated", func(t *testing.T) {
		state, err := store.Get(ctx, "u1")
		require.NoError(t, err)
		state.Storage["output"] = "mutated"

		fresh, err := store.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "hello", fresh.Storage["output"])
	})

	t.Run("delete removes the state", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "u1"))

		state, err := store.Get(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, state.IsEmpty())
	})
}
