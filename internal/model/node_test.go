package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractionNodeNormalize(t *testing.T) {
	t.Run("flat fields fold into the nested shape", func(t *testing.T) {
		node := InteractionNode{
			ID:        "n1",
			ElseID:    "fallback",
			NoMatches: []string{"again?"},
			Randomize: true,
			Reprompt:  "still there?",
		}
		node.Normalize()

		require.NotNil(t, node.NoMatch)
		assert.Equal(t, []string{"again?"}, node.NoMatch.Prompts)
		assert.True(t, node.NoMatch.Randomize)
		assert.Equal(t, "fallback", node.NoMatch.NodeID)

		require.NotNil(t, node.NoReply)
		assert.Equal(t, []string{"still there?"}, node.NoReply.Prompts)
	})

	t.Run("nested fields take precedence", func(t *testing.T) {
		node := InteractionNode{
			ID:        "n1",
			ElseID:    "old-fallback",
			NoMatches: []string{"old prompt"},
			NoMatch: &Reprompt{
				Prompts: []string{"new prompt"},
				NodeID:  "new-fallback",
			},
		}
		node.Normalize()

		assert.Equal(t, []string{"new prompt"}, node.NoMatch.Prompts)
		assert.Equal(t, "new-fallback", node.NoMatch.NodeID)
	})

	t.Run("normalize is idempotent", func(t *testing.T) {
		node := InteractionNode{ID: "n1", NoMatches: []string{"a"}}
		node.Normalize()
		first := *node.NoMatch
		node.Normalize()
		assert.Equal(t, first, *node.NoMatch)
	})
}

func TestCommandKinds(t *testing.T) {
	push := Command{Intent: "help", PushProgramID: "help-flow"}
	assert.True(t, push.IsPush())
	assert.False(t, push.IsIntent())

	intent := Command{Intent: "restart", Next: "n1"}
	assert.False(t, intent.IsPush())
	assert.True(t, intent.IsIntent())

	capture := Command{Intent: "capture"}
	assert.False(t, capture.IsPush())
	assert.False(t, capture.IsIntent())
}

func TestStateClone(t *testing.T) {
	nodeID := "n1"
	state := State{
		Stack: []FrameState{{
			NodeID:    &nodeID,
			ProgramID: "root",
			Storage:   map[string]any{"speak": "hi"},
		}},
		Storage:   map[string]any{"output": "hello"},
		Variables: map[string]any{"count": float64(2)},
	}

	clone := state.Clone()
	clone.Storage["output"] = "mutated"
	clone.Stack[0].Storage["speak"] = "mutated"

	assert.Equal(t, "hello", state.Storage["output"])
	assert.Equal(t, "hi", state.Stack[0].Storage["speak"])
}

func TestProgramLinesDecode(t *testing.T) {
	data := []byte(`{"id":"p1","startId":"1","lines":{"1":{"id":"1","type":"speak","speak":"hi"}}}`)

	var program Program
	require.NoError(t, json.Unmarshal(data, &program))
	assert.Equal(t, "p1", program.ID)
	assert.Contains(t, program.Lines, "1")
}
