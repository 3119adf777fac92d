package dialog

import (
	"encoding/json"
	"fmt"

	"github.com/capitalize-ai/assistant-gateway/internal/model"
	"github.com/capitalize-ai/assistant-gateway/internal/runtime"
)

// ResumeProgramID identifies the synthetic program that asks a returning
// user whether to continue where they left off.
const ResumeProgramID = "__RESUME_FLOW__"

// Variables local to the resume program.
const (
	ResumeVarContent       = "__content0__"
	ResumeVarFollowContent = "__content1__"
)

// PromptToSSML renders a configured prompt, wrapping audio prompts in an
// audio tag.
func PromptToSSML(prompt *model.Prompt) string {
	if prompt == nil {
		return ""
	}
	if prompt.Voice == "audio" {
		return fmt.Sprintf(`<audio src=%q/>`, prompt.Content)
	}
	return prompt.Content
}

// CreateResumeFrame builds the synthetic frame that runs the resume program
// with the configured prompts bound as local variables.
func CreateResumeFrame(resume, follow *model.Prompt) *runtime.Frame {
	return runtime.NewFrameWithVariables(ResumeProgramID, map[string]any{
		ResumeVarContent:       PromptToSSML(resume),
		ResumeVarFollowContent: PromptToSSML(follow),
	})
}

// ResumeProgram returns the built-in resume program: speak the resume prompt,
// offer a yes/no choice, then either speak the follow-up or reset the
// conversation.
func ResumeProgram() *model.Program {
	lines := map[string]any{
		"1": map[string]any{
			"id":     "1",
			"type":   "speak",
			"speak":  fmt.Sprintf("{%s}", ResumeVarContent),
			"nextId": "2",
		},
		"2": map[string]any{
			"id":   "2",
			"type": "choice",
			"inputs": [][]string{
				{"yes", "yea", "ok", "okay", "yup", "ya", "sure"},
				{"no", "nope", "nay", "nah", "no way", "negative"},
			},
			"nextIds": []string{"3", "4"},
			"elseId":  "3",
		},
		"3": map[string]any{
			"id":    "3",
			"type":  "speak",
			"speak": fmt.Sprintf("{%s}", ResumeVarFollowContent),
		},
		"4": map[string]any{
			"id":    "4",
			"type":  "reset",
			"reset": true,
		},
	}

	raw := make(map[string]json.RawMessage, len(lines))
	for id, line := range lines {
		data, err := json.Marshal(line)
		if err != nil {
			continue
		}
		raw[id] = data
	}

	return &model.Program{
		ID:      ResumeProgramID,
		StartID: "1",
		Lines:   raw,
	}
}
