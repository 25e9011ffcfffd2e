package handlers

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"

	"chat-relay/internal/models"
	"chat-relay/internal/services"
)

type chatCompleter interface {
	Complete(ctx context.Context, messages models.PromptMessages) (*models.ChatResponse, error)
}

// ChatHandler serves the chat endpoint on top of an upstream completer.
type ChatHandler struct {
	relay chatCompleter
}

// NewChatHandler returns a ChatHandler that relays prompts through relay.
func NewChatHandler(relay chatCompleter) *ChatHandler {
	return &ChatHandler{relay: relay}
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if isJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			// Anything that is not an object with a string message has no message.
			req = models.ChatRequest{}
		}
	}

	messages, err := services.BuildPrompt(req)
	if err != nil {
		handleRelayError(w, r, err)
		return
	}

	resp, err := h.relay.Complete(r.Context(), messages)
	if err != nil {
		handleRelayError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// isJSONRequest reports whether the body is declared as application/json.
// Other bodies are left unparsed and the request has no message.
func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
