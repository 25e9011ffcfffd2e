package services

import (
	"encoding/json"

	"chat-relay/internal/models"
)

// SystemPrompt is prepended to every conversation sent upstream.
const SystemPrompt = "You are a helpful assistant. Keep answers concise and user-friendly."

// MaxHistoryTurns is how many of the most recent client-supplied turns are kept.
const MaxHistoryTurns = 10

// BuildPrompt validates req and assembles the ordered message list:
// the system turn, at most the last MaxHistoryTurns history entries, then the user message.
// History entries are forwarded untouched, whatever fields they carry.
func BuildPrompt(req models.ChatRequest) (models.PromptMessages, error) {
	if req.Message == "" {
		return nil, &MissingFieldError{Field: "message"}
	}

	history := decodeHistory(req.History)
	if len(history) > MaxHistoryTurns {
		history = history[len(history)-MaxHistoryTurns:]
	}

	messages := make(models.PromptMessages, 0, len(history)+2)
	messages = append(messages, turnJSON("system", SystemPrompt))
	messages = append(messages, history...)
	messages = append(messages, turnJSON("user", req.Message))
	return messages, nil
}

// decodeHistory returns nil unless raw is a JSON array. Elements are not inspected.
func decodeHistory(raw json.RawMessage) []json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	return entries
}

func turnJSON(role, content string) json.RawMessage {
	// Marshalling two strings cannot fail.
	raw, _ := json.Marshal(models.Turn{Role: role, Content: content})
	return raw
}
