// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/capitalize-ai/assistant-gateway/internal/dialogflow"
	"github.com/capitalize-ai/assistant-gateway/internal/middleware"
	"github.com/capitalize-ai/assistant-gateway/internal/model"
	"github.com/capitalize-ai/assistant-gateway/pkg/logger"
)

// WebhookHandler handles Dialogflow fulfillment webhooks.
type WebhookHandler struct {
	manager *dialogflow.Manager
	logger  *logger.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(manager *dialogflow.Manager, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		manager: manager,
		logger:  log,
	}
}

// HandleES handles POST /webhook/{versionID}
func (h *WebhookHandler) HandleES(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	versionID := chi.URLParam(r, "versionID")
	if err := middleware.ValidateVersionID(versionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.manager.HandleES(ctx, &req, versionID)
	if err != nil {
		status, message := errorResponse(err)
		h.logger.Error("webhook turn failed",
			zap.String("version_id", versionID),
			zap.String("session_id", req.Session),
			zap.Error(err))
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusOK, res)
}
