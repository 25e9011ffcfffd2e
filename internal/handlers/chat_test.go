package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-relay/internal/middleware"
	"chat-relay/internal/models"
	"chat-relay/internal/services"
)

type stubCompleter struct {
	resp *models.ChatResponse
	err  error

	calls    int
	messages models.PromptMessages
}

func (s *stubCompleter) Complete(ctx context.Context, messages models.PromptMessages) (*models.ChatResponse, error) {
	s.calls++
	s.messages = messages
	return s.resp, s.err
}

func postChat(t *testing.T, h *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	return postChatAs(t, h, "application/json", body)
}

func postChatAs(t *testing.T, h *ChatHandler, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set(middleware.RequestIDHeader, "req-1")

	rr := httptest.NewRecorder()
	h.Chat(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestChatHandler_MissingMessage(t *testing.T) {
	bodies := []string{
		`{}`,
		`{"message":""}`,
		`{"message":null}`,
		`{"history":[{"role":"user","content":"hi"}]}`,
		`null`,
		`[]`,
		`not json`,
		``,
	}

	for _, body := range bodies {
		t.Run(fmt.Sprintf("%q", body), func(t *testing.T) {
			relay := &stubCompleter{}
			rr := postChat(t, NewChatHandler(relay), body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, `Missing "message" in request body.`, decodeBody(t, rr)["error"])
			assert.Zero(t, relay.calls, "no upstream call expected")
		})
	}
}

func TestChatHandler_Success(t *testing.T) {
	raw := `{"choices":[{"message":{"content":"hi"}}]}`
	relay := &stubCompleter{resp: &models.ChatResponse{Reply: "hi", Raw: json.RawMessage(raw)}}

	rr := postChat(t, NewChatHandler(relay), `{"message":"hello"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp struct {
		Reply string          `json:"reply"`
		Raw   json.RawMessage `json:"raw"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "hi", resp.Reply)
	assert.JSONEq(t, raw, string(resp.Raw))

	require.Len(t, relay.messages, 2)
	assert.JSONEq(t, `{"role":"user","content":"hello"}`, string(relay.messages[1]))
}

func TestChatHandler_ForwardsTrimmedHistory(t *testing.T) {
	relay := &stubCompleter{resp: &models.ChatResponse{Raw: json.RawMessage(`{}`)}}

	var turns []string
	for i := 0; i < 12; i++ {
		turns = append(turns, fmt.Sprintf(`{"role":"user","content":"h%d"}`, i))
	}
	body := fmt.Sprintf(`{"message":"now","history":[%s]}`, strings.Join(turns, ","))

	rr := postChat(t, NewChatHandler(relay), body)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, relay.messages, 12)
	assert.Equal(t, `{"role":"user","content":"h2"}`, string(relay.messages[1]))
	assert.Equal(t, `{"role":"user","content":"h11"}`, string(relay.messages[10]))
}

func TestChatHandler_HistoryEntriesPassThrough(t *testing.T) {
	relay := &stubCompleter{resp: &models.ChatResponse{Raw: json.RawMessage(`{}`)}}

	entry := `{"role":"user","content":[{"type":"text","text":"look"}],"name":"bob"}`
	rr := postChat(t, NewChatHandler(relay), `{"message":"hi","history":[`+entry+`,{"role":"assistant","content":"ok"}]}`)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, relay.messages, 4)
	assert.Equal(t, entry, string(relay.messages[1]))
}

func TestChatHandler_RequiresJSONContentType(t *testing.T) {
	for _, contentType := range []string{"", "text/plain", "application/x-www-form-urlencoded"} {
		t.Run(contentType, func(t *testing.T) {
			relay := &stubCompleter{}
			rr := postChatAs(t, NewChatHandler(relay), contentType, `{"message":"hello"}`)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Zero(t, relay.calls)
		})
	}
}

func TestChatHandler_AcceptsJSONWithCharset(t *testing.T) {
	relay := &stubCompleter{resp: &models.ChatResponse{Raw: json.RawMessage(`{}`)}}

	rr := postChatAs(t, NewChatHandler(relay), "application/json; charset=utf-8", `{"message":"hello"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, relay.calls)
}

func TestChatHandler_NonArrayHistoryIgnored(t *testing.T) {
	relay := &stubCompleter{resp: &models.ChatResponse{Raw: json.RawMessage(`{}`)}}

	rr := postChat(t, NewChatHandler(relay), `{"message":"hi","history":"yesterday"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, relay.messages, 2)
}

func TestChatHandler_UpstreamError(t *testing.T) {
	relay := &stubCompleter{err: &services.UpstreamError{StatusCode: http.StatusTooManyRequests, Body: "rate limited"}}

	rr := postChat(t, NewChatHandler(relay), `{"message":"hello"}`)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "OpenAI error", body["error"])
	assert.Equal(t, "rate limited", body["details"])
	assert.Equal(t, "req-1", body["request_id"])
}

func TestChatHandler_ServerErrorIsLogged(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	relay := &stubCompleter{err: &services.ServerError{Err: errors.New("dial tcp: connection refused")}}

	rr := postChat(t, NewChatHandler(relay), `{"message":"hello"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "Server error", body["error"])
	assert.Equal(t, "dial tcp: connection refused", body["message"])
	assert.Contains(t, logs.String(), "dial tcp: connection refused")
	assert.Contains(t, logs.String(), "req-1")
}

func TestChatHandler_UnknownErrorIsServerError(t *testing.T) {
	relay := &stubCompleter{err: errors.New("boom")}

	rr := postChat(t, NewChatHandler(relay), `{"message":"hello"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "boom", decodeBody(t, rr)["message"])
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}
