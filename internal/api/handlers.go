package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ahmetozturk/brandsite/internal/buildinfo"
	"github.com/ahmetozturk/brandsite/internal/chat"
	"github.com/ahmetozturk/brandsite/pkg/types"
	"github.com/ahmetozturk/brandsite/pkg/utils"
)

type Handlers struct {
	log  *slog.Logger
	chat *chat.Controller

	// provider status for the ops endpoint
	ProviderConfigured bool
	ProviderModel      string
}

func NewHandlers(log *slog.Logger, chatCtrl *chat.Controller) *Handlers {
	return &Handlers{log: log, chat: chatCtrl}
}

type chatRequest struct {
	Message             string               `json:"message"`
	ConversationHistory []types.HistoryEntry `json:"conversationHistory"`
}

// Health is a basic liveness endpoint.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]any{
		"status":    true,
		"message":   "brandsite-assistant",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handlers) Version(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]any{
		"version":  buildinfo.Version,
		"commit":   buildinfo.Commit,
		"built_at": buildinfo.BuiltAt,
	})
}

// AssistantStatus reports provider wiring for operational checks.
func (h *Handlers) AssistantStatus(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]any{
		"configured": h.ProviderConfigured,
		"model":      h.ProviderModel,
	})
}

func (h *Handlers) decodeAndValidate(w http.ResponseWriter, r *http.Request) (chatRequest, bool) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "invalid request body",
		})
		return req, false
	}
	if err := h.chat.Validate(req.Message); err != nil {
		msg := "message is required"
		if errors.Is(err, chat.ErrMessageTooLong) {
			msg = "message is too long"
		}
		utils.JSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": msg,
		})
		return req, false
	}
	return req, true
}

// Chat POST /api/chat is the non-streaming fallback path: one JSON payload
// per turn.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAndValidate(w, r)
	if !ok {
		return
	}

	text, err := h.chat.Respond(r.Context(), req.Message, req.ConversationHistory)
	if err != nil {
		utils.JSON(w, http.StatusInternalServerError, map[string]any{
			"success":  false,
			"message":  chat.ApologyMessage,
			"fallback": true,
		})
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"response":  text,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ChatStream POST /api/chat/stream republishes provider tokens as SSE.
// Validation failures answer with plain JSON before any streaming headers;
// after headers are set the connection always ends with either the [DONE]
// sentinel or an error event.
func (h *Handlers) ChatStream(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAndValidate(w, r)
	if !ok {
		return
	}

	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		utils.JSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "streaming not supported",
		})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	emit := func(delta string) error {
		payload, err := json.Marshal(types.StreamEvent{Delta: delta})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if err := h.chat.StreamReply(r.Context(), req.Message, req.ConversationHistory, emit); err != nil {
		h.log.Error("chat stream failed", "err", err.Error())
		payload, _ := json.Marshal(types.StreamError{Message: "the assistant was interrupted, please try again"})
		fmt.Fprintf(w, "event: error\ndata: %s\n\n", payload)
		flusher.Flush()
		return
	}

	fmt.Fprintf(w, "data: %s\n\n", types.DoneSentinel)
	flusher.Flush()
}
