package model

import "encoding/json"

// Program is one flow/diagram: a set of nodes addressed by id.
type Program struct {
	ID      string                     `json:"id"`
	StartID string                     `json:"startId"`
	Lines   map[string]json.RawMessage `json:"lines"`
}

// Reprompt is the canonical no-match / no-reply configuration on a node.
type Reprompt struct {
	Prompts   []string `json:"prompts"`
	Randomize bool     `json:"randomize,omitempty"`
	NodeID    string   `json:"nodeID,omitempty"`
}

// Button is a tappable suggestion attached to an interaction node.
type Button struct {
	Name       string `json:"name"`
	Type       string `json:"type"` // PATH | INTENT_PATH | INTENT
	NextID     string `json:"nextID,omitempty"`
	IntentName string `json:"intentName,omitempty"`
}

// GoTo redirects a matched choice to another intent.
type GoTo struct {
	IntentName string `json:"intentName"`
}

// Choice is one declared intent path on an interaction node.
type Choice struct {
	Intent      string        `json:"intent,omitempty"`
	Mappings    []SlotMapping `json:"mappings,omitempty"`
	NextIDIndex *int          `json:"nextIdIndex,omitempty"`
	GoTo        *GoTo         `json:"goTo,omitempty"`
}

// InteractionNode is a choice node: it waits for an intent and routes it.
// Older exports express the no-match configuration as flat fields (elseId,
// noMatches, randomize) and the reprompt as a bare string; Normalize folds
// those into the nested shape once, with nested fields taking precedence.
type InteractionNode struct {
	ID           string   `json:"id"`
	Interactions []Choice `json:"interactions"`
	NextIDs      []string `json:"nextIds"`
	Buttons      []Button `json:"buttons,omitempty"`
	Chips        []string `json:"chips,omitempty"`

	NoMatch *Reprompt `json:"noMatch,omitempty"`
	NoReply *Reprompt `json:"noReply,omitempty"`

	// deprecated flat schema
	ElseID    string   `json:"elseId,omitempty"`
	NoMatches []string `json:"noMatches,omitempty"`
	Randomize bool     `json:"randomize,omitempty"`
	Reprompt  string   `json:"reprompt,omitempty"`
}

// Normalize merges the deprecated flat fields into the nested noMatch/noReply
// shapes. Downstream logic only ever sees the nested form.
func (n *InteractionNode) Normalize() {
	noMatch := Reprompt{}
	if n.NoMatch != nil {
		noMatch = *n.NoMatch
	}
	if noMatch.Prompts == nil {
		noMatch.Prompts = n.NoMatches
	}
	if n.NoMatch == nil || !n.NoMatch.Randomize {
		noMatch.Randomize = noMatch.Randomize || n.Randomize
	}
	if noMatch.NodeID == "" {
		noMatch.NodeID = n.ElseID
	}
	n.NoMatch = &noMatch

	noReply := Reprompt{}
	if n.NoReply != nil {
		noReply = *n.NoReply
	}
	if noReply.Prompts == nil && n.Reprompt != "" {
		noReply.Prompts = []string{n.Reprompt}
	}
	n.NoReply = &noReply
}
