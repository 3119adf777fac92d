package dialog

import (
	"encoding/json"
	"math/rand"
	"regexp"
	"strconv"

	"github.com/capitalize-ai/assistant-gateway/internal/model"
	"github.com/capitalize-ai/assistant-gateway/internal/runtime"
)

// EmptyAudio is the placeholder an empty audio prompt serializes to; it
// counts as a blank prompt.
const EmptyAudio = `<audio src=""/>`

var variablePattern = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// ReplaceVariables substitutes {name} tokens with values from the variable
// state. Unknown names are left as the bare name.
func ReplaceVariables(input string, variables map[string]any) string {
	return variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		name := match[1 : len(match)-1]
		if v, ok := variables[name]; ok && v != nil {
			return stringify(v)
		}
		return name
	})
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// ProcessOutput renders a prompt against the current variable state.
func ProcessOutput(prompt string, variables *runtime.Store) string {
	if prompt == "" {
		return ""
	}
	return ReplaceVariables(prompt, variables.GetState())
}

// RemoveEmptyPrompts filters blank and empty-audio prompts.
func RemoveEmptyPrompts(prompts []string) []string {
	out := make([]string, 0, len(prompts))
	for _, p := range prompts {
		if p != "" && p != EmptyAudio {
			out = append(out, p)
		}
	}
	return out
}

// samplePrompt picks a random prompt. Callers guarantee prompts is non-empty.
func samplePrompt(prompts []string) string {
	return prompts[rand.Intn(len(prompts))]
}

// AddRepromptIfExists stores a rendered reprompt in session storage so the
// platform can re-ask on silence.
func AddRepromptIfExists(noReply *model.Reprompt, r *runtime.Runtime, variables *runtime.Store) {
	if noReply == nil || len(noReply.Prompts) == 0 {
		return
	}

	prompt := samplePrompt(noReply.Prompts)
	if prompt == "" {
		return
	}
	r.Storage.Set(StorageReprompt, ReplaceVariables(prompt, variables.GetState()))
}

// AddChipsIfExists renders a node's buttons (or bare chips) into turn storage
// for the response builder.
func AddChipsIfExists(node *model.InteractionNode, r *runtime.Runtime, variables *runtime.Store) {
	state := variables.GetState()

	if len(node.Buttons) > 0 {
		chips := make([]string, 0, len(node.Buttons))
		for _, b := range node.Buttons {
			chips = append(chips, ReplaceVariables(b.Name, state))
		}
		r.Turn.Set(TurnChips, chips)
		return
	}

	if len(node.Chips) > 0 {
		chips := make([]string, 0, len(node.Chips))
		for _, c := range node.Chips {
			chips = append(chips, ReplaceVariables(c, state))
		}
		r.Turn.Set(TurnChips, chips)
	}
}
