// Package session persists conversation state between turns. Three backends
// share one interface: an in-process map for tests and single-node use, Redis
// for shared deployments and DynamoDB for serverless ones.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/capitalize-ai/assistant-gateway/internal/model"
)

// Store reads and writes per-user conversation state. Get on an unknown user
// returns a zero State and no error; a fresh conversation is not an error
// condition.
type Store interface {
	Get(ctx context.Context, userID string) (model.State, error)
	Save(ctx context.Context, userID string, state model.State) error
	Delete(ctx context.Context, userID string) error
}

// decodeState deserializes persisted state, transparently upgrading records
// written in the old flat format. Corrupt or unconvertible payloads degrade
// to a zero State so the user restarts instead of erroring forever.
func decodeState(data []byte) (model.State, error) {
	if len(data) == 0 {
		return model.State{}, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return model.State{}, fmt.Errorf("decoding session state: %w", err)
	}

	if _, legacy := probe["diagrams"]; legacy {
		return AdaptLegacyState(data), nil
	}

	var state model.State
	if err := json.Unmarshal(data, &state); err != nil {
		return model.State{}, fmt.Errorf("decoding session state: %w", err)
	}
	return state, nil
}
