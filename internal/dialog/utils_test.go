package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/assistant-gateway/internal/model"
)

func TestReplaceVariables(t *testing.T) {
	variables := map[string]any{
		"name":  "sam",
		"count": float64(3),
		"done":  true,
	}

	assert.Equal(t, "hi sam, you have 3 items", ReplaceVariables("hi {name}, you have {count} items", variables))
	assert.Equal(t, "done: true", ReplaceVariables("done: {done}", variables))

	// unknown names degrade to the bare name
	assert.Equal(t, "hello stranger", ReplaceVariables("hello {stranger}", variables))
}

func TestRemoveEmptyPrompts(t *testing.T) {
	prompts := RemoveEmptyPrompts([]string{"", "a", EmptyAudio, "b"})
	assert.Equal(t, []string{"a", "b"}, prompts)
}

func TestPromptToSSML(t *testing.T) {
	assert.Equal(t, "", PromptToSSML(nil))
	assert.Equal(t, "welcome back", PromptToSSML(&model.Prompt{Content: "welcome back"}))
	assert.Equal(t, `<audio src="https://cdn.example.com/hi.mp3"/>`,
		PromptToSSML(&model.Prompt{Content: "https://cdn.example.com/hi.mp3", Voice: "audio"}))
}

func TestResumeProgram(t *testing.T) {
	program := ResumeProgram()

	require.Equal(t, ResumeProgramID, program.ID)
	assert.Equal(t, "1", program.StartID)
	assert.Len(t, program.Lines, 4)
}

func TestCreateResumeFrame(t *testing.T) {
	frame := CreateResumeFrame(
		&model.Prompt{Content: "welcome back"},
		&model.Prompt{Content: "picking up where we left off"},
	)

	assert.Equal(t, ResumeProgramID, frame.ProgramID())
	assert.Equal(t, "welcome back", frame.Variables().GetString(ResumeVarContent))
	assert.Equal(t, "picking up where we left off", frame.Variables().GetString(ResumeVarFollowContent))
}
