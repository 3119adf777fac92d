package model

// SlotMapping declares a slot-to-variable binding on a command or choice.
type SlotMapping struct {
	Slot     string `json:"slot"`
	Variable string `json:"variable"`
}

// Command is an intent-to-action binding declared on a frame. It comes in two
// variants, tagged by which field is present: a push command carries
// diagram_id and starts a new frame; an intent command carries next (and an
// optional diagramID) and jumps within or above the current stack.
type Command struct {
	Intent        string        `json:"intent"`
	PushProgramID string        `json:"diagram_id,omitempty"`
	Next          string        `json:"next,omitempty"`
	ProgramID     string        `json:"diagramID,omitempty"`
	Mappings      []SlotMapping `json:"mappings,omitempty"`
	End           bool          `json:"end,omitempty"`
}

// IsPush reports whether invoking the command pushes a new frame.
func (c Command) IsPush() bool {
	return c.PushProgramID != ""
}

// IsIntent reports whether invoking the command jumps within the stack.
func (c Command) IsIntent() bool {
	return !c.IsPush() && c.Next != ""
}
