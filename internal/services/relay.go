package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"chat-relay/internal/models"
)

const completionsPath = "/chat/completions"

// defaultReply is used when the upstream body has no choices[0].message.content string.
const defaultReply = ""

// RelayConfig holds the per-deployment settings of the upstream call.
type RelayConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Relay forwards assembled prompts to an OpenAI-compatible chat completion API.
type Relay struct {
	client      *resty.Client
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

// NewRelay builds a Relay with retries disabled and no client timeout.
func NewRelay(cfg RelayConfig) *Relay {
	return &Relay{
		client:      resty.New().SetBaseURL(cfg.BaseURL),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

type completionRequest struct {
	Model       string                `json:"model"`
	Messages    models.PromptMessages `json:"messages"`
	MaxTokens   int                   `json:"max_tokens"`
	Temperature float64               `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete performs one completion call. Failures are *UpstreamError for
// non-2xx answers and *ServerError for everything else. The call is sent
// even when no API key is configured.
func (r *Relay) Complete(ctx context.Context, messages models.PromptMessages) (*models.ChatResponse, error) {
	res, err := r.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+r.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(completionRequest{
			Model:       r.model,
			Messages:    messages,
			MaxTokens:   r.maxTokens,
			Temperature: r.temperature,
		}).
		Post(completionsPath)
	if err != nil {
		return nil, &ServerError{Err: err}
	}

	// res.String() trims whitespace; the error body must pass through untouched.
	body := res.Body()
	if !res.IsSuccess() {
		return nil, &UpstreamError{StatusCode: res.StatusCode(), Body: string(body)}
	}

	reply, err := extractReply(body)
	if err != nil {
		return nil, &ServerError{Err: err}
	}

	return &models.ChatResponse{Reply: reply, Raw: json.RawMessage(body)}, nil
}

// extractReply fails only on invalid JSON. A valid body without a string at
// choices[0].message.content yields defaultReply.
func extractReply(body []byte) (string, error) {
	if !json.Valid(body) {
		return "", fmt.Errorf("invalid json response body from completion API")
	}

	var resp completionResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Choices) == 0 {
		return defaultReply, nil
	}

	var content string
	if err := json.Unmarshal(resp.Choices[0].Message.Content, &content); err != nil {
		return defaultReply, nil
	}
	return content, nil
}
