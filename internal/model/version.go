package model

// SessionType selects the session start behavior for a version.
type SessionType string

const (
	SessionRestart SessionType = "restart"
	SessionResume  SessionType = "resume"
)

// Prompt is a spoken prompt with an optional voice override.
type Prompt struct {
	Content string `json:"content"`
	Voice   string `json:"voice,omitempty"`
}

// SessionSettings controls what happens when a user returns mid-flow.
type SessionSettings struct {
	Type   SessionType `json:"type"`
	Resume *Prompt     `json:"resume,omitempty"`
	Follow *Prompt     `json:"follow,omitempty"`
}

// VersionSettings holds per-version platform settings.
type VersionSettings struct {
	Session       *SessionSettings `json:"session,omitempty"`
	GlobalNoMatch string           `json:"globalNoMatch,omitempty"`
	GlobalNoReply string           `json:"globalNoReply,omitempty"`
}

// Slot is a declared NLU slot on the version's interaction model.
type Slot struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Version is the project version metadata the runtime executes against.
type Version struct {
	ID            string          `json:"id"`
	ProjectID     string          `json:"projectID"`
	RootProgramID string          `json:"rootDiagramID"`
	ModelVersion  int             `json:"modelVersion"`
	Variables     map[string]any  `json:"variables,omitempty"`
	Slots         []Slot          `json:"slots,omitempty"`
	Settings      VersionSettings `json:"settings"`
}
