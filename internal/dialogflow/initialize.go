package dialogflow

import (
	"context"

	"github.com/google/uuid"

	"github.com/capitalize-ai/assistant-gateway/internal/dialog"
	"github.com/capitalize-ai/assistant-gateway/internal/model"
	"github.com/capitalize-ai/assistant-gateway/internal/runtime"
)

// initialize prepares a runtime for a session start: bump the session
// counter, seed system variables and decide whether to restart, resume or
// replay the last prompt.
func (m *Manager) initialize(ctx context.Context, r *runtime.Runtime, req *model.WebhookRequest, userID string) error {
	version := r.Version()
	if version == nil {
		var err error
		version, err = m.api.GetVersion(ctx, r.VersionID())
		if err != nil {
			return err
		}
	}

	storage := r.Storage

	storage.Set(dialog.StorageSessions, storage.GetInt(dialog.StorageSessions)+1)
	storage.Set(dialog.StorageLocale, req.QueryResult.LanguageCode)

	if storage.GetString(dialog.StorageUser) == "" {
		if userID == "" {
			userID = uuid.New().String()
		}
		storage.Set(dialog.StorageUser, userID)
	}

	storage.Set(dialog.StorageModelVersion, version.ModelVersion)

	r.Variables.Merge(map[string]any{
		dialog.VarTimestamp: 0,
		dialog.VarLocale:    storage.GetString(dialog.StorageLocale),
		dialog.VarUserID:    storage.GetString(dialog.StorageUser),
		dialog.VarSessions:  storage.GetInt(dialog.StorageSessions),
		dialog.VarPlatform:  "dialogflow",
	})

	// declared project variables and slot names default to 0
	varNames := make([]string, 0, len(version.Variables)+len(version.Slots))
	for name := range version.Variables {
		varNames = append(varNames, name)
	}
	for _, slot := range version.Slots {
		varNames = append(varNames, slot.Name)
	}
	r.Variables.Initialize(varNames, 0)

	settings := version.Settings.Session
	if settings == nil {
		settings = &model.SessionSettings{Type: model.SessionRestart}
	}

	stack := r.Stack

	switch {
	case stack.IsEmpty() || settings.Type == model.SessionRestart:
		stack.Flush()
		stack.Push(runtime.NewFrame(version.RootProgramID))

	case settings.Type == model.SessionResume && settings.Resume != nil:
		// resume prompt flow reuses the command interruption mechanics
		stack.Top().Storage().Set(dialog.FrameCalledCommand, true)

		// drop any resume flow already on the stack before pushing a new one
		for i, frame := range stack.GetFrames() {
			if frame.ProgramID() == dialog.ResumeProgramID {
				stack.PopTo(i)
				break
			}
		}

		stack.Push(dialog.CreateResumeFrame(settings.Resume, settings.Follow))

	default:
		// drop the user where they left off, replaying the last prompt
		stack.Top().Storage().Delete(dialog.FrameCalledCommand)
		storage.Set(dialog.StorageOutput, stack.Top().Storage().GetString(dialog.FrameSpeak))
	}

	return nil
}
