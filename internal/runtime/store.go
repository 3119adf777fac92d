// Package runtime holds the conversation runtime primitives: the key-value
// stores, the frame stack and the Runtime object the orchestrator and node
// handlers operate on. The node-graph engine itself is an external
// collaborator behind the Interpreter interface.
package runtime

// Store is a flat key-value bag. One Runtime owns each Store exclusively for
// the duration of a turn, so plain mutation is safe; copies are taken only at
// the serialization boundary.
type Store struct {
	values map[string]any
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{values: make(map[string]any)}
}

// NewStoreFrom returns a store seeded with a copy of the given values.
func NewStoreFrom(values map[string]any) *Store {
	s := NewStore()
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

// Get returns the value for key and whether it was present.
func (s *Store) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the string value for key, or "" if absent or not a string.
func (s *Store) GetString(key string) string {
	if v, ok := s.values[key].(string); ok {
		return v
	}
	return ""
}

// GetInt returns the integer value for key, tolerating the float64 values
// JSON decoding produces. Absent or non-numeric values yield 0.
func (s *Store) GetInt(key string) int {
	switch v := s.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// GetBool returns the boolean value for key, or false.
func (s *Store) GetBool(key string) bool {
	if v, ok := s.values[key].(bool); ok {
		return v
	}
	return false
}

// Set stores a value under key.
func (s *Store) Set(key string, value any) {
	s.values[key] = value
}

// Delete removes key.
func (s *Store) Delete(key string) {
	delete(s.values, key)
}

// Append concatenates text onto the string stored under key.
func (s *Store) Append(key, text string) {
	s.values[key] = s.GetString(key) + text
}

// Merge stores every entry of values, overwriting existing keys.
func (s *Store) Merge(values map[string]any) {
	for k, v := range values {
		s.values[k] = v
	}
}

// Initialize sets every named key to def if it is not already present.
func (s *Store) Initialize(keys []string, def any) {
	for _, k := range keys {
		if _, ok := s.values[k]; !ok {
			s.values[k] = def
		}
	}
}

// GetState returns a copy of the underlying map.
func (s *Store) GetState() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	return len(s.values)
}
