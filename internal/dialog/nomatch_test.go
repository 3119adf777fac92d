package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/assistant-gateway/internal/model"
	"github.com/capitalize-ai/assistant-gateway/internal/runtime"
)

func TestNoMatchHandler(t *testing.T) {
	h := NewNoMatchHandler()

	reprompt := &model.Reprompt{
		Prompts: []string{"first try", "second try"},
		NodeID:  "fallback",
	}

	t.Run("speaks prompts in order and loops on the node", func(t *testing.T) {
		r := newTestRuntime(model.State{})

		next := h.Handle("node-1", reprompt, r, r.Variables)
		require.NotNil(t, next)
		assert.Equal(t, "node-1", *next)
		assert.Equal(t, 1, r.Storage.GetInt(StorageNoMatchCounter))
		assert.Equal(t, "first try", r.Storage.GetString(StorageOutput))

		next = h.Handle("node-1", reprompt, r, r.Variables)
		require.NotNil(t, next)
		assert.Equal(t, 2, r.Storage.GetInt(StorageNoMatchCounter))
		assert.Equal(t, "first trysecond try", r.Storage.GetString(StorageOutput))
	})

	t.Run("falls through to the target once exhausted", func(t *testing.T) {
		r := newTestRuntime(model.State{})
		r.Storage.Set(StorageNoMatchCounter, 2)

		next := h.Handle("node-1", reprompt, r, r.Variables)
		require.NotNil(t, next)
		assert.Equal(t, "fallback", *next)

		_, present := r.Storage.Get(StorageNoMatchCounter)
		assert.False(t, present)
	})

	t.Run("ends the frame when exhausted without a target", func(t *testing.T) {
		r := newTestRuntime(model.State{})
		r.Storage.Set(StorageNoMatchCounter, 1)

		next := h.Handle("node-1", &model.Reprompt{Prompts: []string{"only"}}, r, r.Variables)
		assert.Nil(t, next)
	})

	t.Run("no reprompt configured falls through immediately", func(t *testing.T) {
		r := newTestRuntime(model.State{})
		assert.Nil(t, h.Handle("node-1", nil, r, r.Variables))
	})

	t.Run("empty prompts are skipped", func(t *testing.T) {
		r := newTestRuntime(model.State{})
		rp := &model.Reprompt{Prompts: []string{"", EmptyAudio, "real"}}

		next := h.Handle("node-1", rp, r, r.Variables)
		require.NotNil(t, next)
		assert.Equal(t, "real", r.Storage.GetString(StorageOutput))
	})

	t.Run("global fallback keeps the session alive", func(t *testing.T) {
		r := runtimeWithSettings(model.VersionSettings{GlobalNoMatch: "still here"})
		r.Storage.Set(StorageNoMatchCounter, 2)

		next := h.Handle("node-1", reprompt, r, r.Variables)
		require.NotNil(t, next)
		assert.Equal(t, "node-1", *next)
		assert.Equal(t, "still here", r.Storage.GetString(StorageOutput))

		// counter stays capped so the global prompt repeats
		assert.Equal(t, 2, r.Storage.GetInt(StorageNoMatchCounter))
	})

	t.Run("renders variables in prompts", func(t *testing.T) {
		r := newTestRuntime(model.State{})
		r.Variables.Set("name", "sam")

		h.Handle("node-1", &model.Reprompt{Prompts: []string{"try again {name}"}}, r, r.Variables)
		assert.Equal(t, "try again sam", r.Storage.GetString(StorageOutput))
	})
}

func runtimeWithSettings(settings model.VersionSettings) *runtime.Runtime {
	return runtime.New("version-1", model.State{}, &model.Version{
		ID:            "version-1",
		RootProgramID: "root",
		Settings:      settings,
	}, nil, nil)
}
