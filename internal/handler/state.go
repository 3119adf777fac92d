package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/capitalize-ai/assistant-gateway/internal/middleware"
	"github.com/capitalize-ai/assistant-gateway/internal/session"
	"github.com/capitalize-ai/assistant-gateway/pkg/logger"
)

// StateHandler exposes session state management endpoints.
type StateHandler struct {
	sessions session.Store
	logger   *logger.Logger
}

// NewStateHandler creates a new state handler.
func NewStateHandler(sessions session.Store, log *logger.Logger) *StateHandler {
	return &StateHandler{
		sessions: sessions,
		logger:   log,
	}
}

// Get handles GET /api/v1/state/{userID}
func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")
	if err := middleware.ValidateUserID(userID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.sessions.Get(ctx, userID)
	if err != nil {
		h.logger.Error("failed to load state", zap.String("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load state")
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// Delete handles DELETE /api/v1/state/{userID}
func (h *StateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")
	if err := middleware.ValidateUserID(userID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.sessions.Delete(ctx, userID); err != nil {
		h.logger.Error("failed to delete state", zap.String("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete state")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
