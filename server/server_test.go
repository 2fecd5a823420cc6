package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/attendeeguide/locale"
	"github.com/hupe1980/attendeeguide/supervisor"
)

type stubProcessor struct {
	sessions []string
	prompts  []string
}

func (p *stubProcessor) ProcessMessage(_ context.Context, sessionID, text string) supervisor.Envelope {
	p.sessions = append(p.sessions, sessionID)
	p.prompts = append(p.prompts, text)
	return supervisor.Envelope{Messages: []supervisor.Entry{{Content: "reply to " + text, ChatType: "0", Agent: "Supervisor"}}}
}

var fixedNow = time.Date(2025, 12, 1, 8, 30, 0, 0, time.UTC)

func newTestServer() (*Server, *stubProcessor) {
	proc := &stubProcessor{}
	return New(proc, WithSessionID("session_123456789"), WithClock(func() time.Time { return fixedNow })), proc
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestInvocations(t *testing.T) {
	s, proc := newTestServer()

	rec := do(t, s.Handler(), http.MethodPost, "/invocations", `{"input":{"prompt":"weather in Austin"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got struct {
		Output struct {
			Message struct {
				Messages []supervisor.Entry `json:"messages"`
			} `json:"message"`
			Timestamp string `json:"timestamp"`
			Model     string `json:"model"`
		} `json:"output"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, ModelTag, got.Output.Model)
	assert.Equal(t, "2025-12-01T08:30:00Z", got.Output.Timestamp)
	require.Len(t, got.Output.Message.Messages, 1)
	assert.Equal(t, "reply to weather in Austin", got.Output.Message.Messages[0].Content)
	assert.NotContains(t, rec.Body.String(), "Routes")

	assert.Equal(t, []string{"session_123456789"}, proc.sessions)
}

func TestInvocations_SessionFromRequest(t *testing.T) {
	s, proc := newTestServer()

	rec := do(t, s.Handler(), http.MethodPost, "/invocations", `{"input":{"prompt":"hi","session_id":"abc"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"abc"}, proc.sessions)
}

func TestInvocations_BadRequests(t *testing.T) {
	s, proc := newTestServer()

	for _, body := range []string{`{"input":{}}`, `{"input":{"prompt":""}}`, `{}`} {
		rec := do(t, s.Handler(), http.MethodPost, "/invocations", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, rec.Body.String(), "No prompt found in input", body)
	}

	rec := do(t, s.Handler(), http.MethodPost, "/invocations/markdown", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid request body")

	assert.Empty(t, proc.prompts)
}

func TestInvocations_WhitespacePromptIsForwarded(t *testing.T) {
	s, proc := newTestServer()

	rec := do(t, s.Handler(), http.MethodPost, "/invocations", `{"input":{"prompt":"  "}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"  "}, proc.prompts)
}

func TestInvocationsMarkdown(t *testing.T) {
	s, _ := newTestServer()

	rec := do(t, s.Handler(), http.MethodPost, "/invocations/markdown", `{"input":{"prompt":"plan my Tuesday"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "# re:Invent 参会规划\n\n**生成时间**: 2025-12-01 08:30:00 UTC\n"))
	assert.Contains(t, body, "## 您的问题\n\nplan my Tuesday\n")
	assert.Contains(t, body, "## 规划建议\n\nreply to plan my Tuesday\n\n*由 Supervisor 提供*\n")
	assert.True(t, strings.HasSuffix(body, "*本规划由 re:Invent 参会指南 AI Agent 自动生成*\n"))
}

func TestFormatMarkdown_Empty(t *testing.T) {
	out := FormatMarkdown(locale.Default(), supervisor.Envelope{}, "?", fixedNow)
	assert.Contains(t, out, "未获取到响应内容")
	assert.NotContains(t, out, "提供*")
}

func TestRootAndPing(t *testing.T) {
	s, _ := newTestServer()

	rec := do(t, s.Handler(), http.MethodGet, "/ping", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = do(t, s.Handler(), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"invoke_markdown":"POST /invocations/markdown"`)

	rec = do(t, s.Handler(), http.MethodGet, "/invocations", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, s.Handler(), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNew_GeneratesSessionID(t *testing.T) {
	s := New(&stubProcessor{})
	assert.True(t, strings.HasPrefix(s.SessionID(), "session_"))
}
