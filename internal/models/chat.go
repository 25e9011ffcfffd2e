package models

import "encoding/json"

// Turn is one role-tagged message in a conversation.
type Turn struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// PromptMessages is the ordered message list sent upstream for one request.
// Client history entries stay exactly as received; only the system and user
// turns are built server-side.
type PromptMessages []json.RawMessage

// ChatRequest is the payload sent to the chat endpoint.
// History is kept raw so a malformed or non-array value can be ignored
// instead of rejecting the whole request.
type ChatRequest struct {
	Message string          `json:"message"`
	History json.RawMessage `json:"history,omitempty"`
}

// ChatResponse is the reply relayed from the completion API.
type ChatResponse struct {
	Reply string          `json:"reply"`
	Raw   json.RawMessage `json:"raw"`
}
