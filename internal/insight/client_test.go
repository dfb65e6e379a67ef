package insight

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/summsync/stats-api/internal/models"
)

func newTestClient(ts *httptest.Server) *Client {
	return NewClient(Config{
		ModelID: "test-model",
		BaseURL: ts.URL,
		APIKey:  "test-key",
		Logger:  zap.NewNop(),
	})
}

func answerResponse(answer string) string {
	return `{"choices": [{"message": {"role": "assistant", "content": "` + answer + `"}}]}`
}

func TestGenerate(t *testing.T) {
	var captured chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Write([]byte(answerResponse("Ban Riven")))
	}))
	defer ts.Close()

	players := []*models.SessionRecord{
		{PlayerName: "Alpha", GameTag: "NA1", Stats: &models.NormalizedStats{WinRate: 0.6}},
	}
	answer, err := newTestClient(ts).Generate(context.Background(), "what should we ban?", players)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "Ban Riven" {
		t.Errorf("unexpected answer %q", answer)
	}

	if captured.Model != "test-model" || captured.MaxTokens != 3000 || captured.Temperature != 0.3 || captured.TopP != 0.9 {
		t.Errorf("inference parameters not applied: %+v", captured)
	}
	if len(captured.Messages) != 3 {
		t.Fatalf("expected system + context + user messages, got %d", len(captured.Messages))
	}
	if captured.Messages[0].Content != "Be concise and precise" {
		t.Errorf("unexpected system directive %q", captured.Messages[0].Content)
	}
	if !strings.HasPrefix(captured.Messages[1].Content, "Context JSON:\n") || !strings.Contains(captured.Messages[1].Content, "Alpha") {
		t.Errorf("session context not forwarded: %q", captured.Messages[1].Content)
	}
	if captured.Messages[2].Role != "user" || captured.Messages[2].Content != "what should we ban?" {
		t.Errorf("unexpected user message: %+v", captured.Messages[2])
	}
}

func TestGenerateWithoutPlayersSkipsContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Errorf("expected system + user only, got %d messages", len(req.Messages))
		}
		w.Write([]byte(answerResponse("ok")))
	}))
	defer ts.Close()

	if _, err := newTestClient(ts).Generate(context.Background(), "hello", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(answerResponse("third time lucky")))
	}))
	defer ts.Close()

	answer, err := newTestClient(ts).Generate(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if answer != "third time lucky" {
		t.Errorf("unexpected answer %q", answer)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestGenerateGivesUpAfterThreeAttempts(t *testing.T) {
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	if _, err := newTestClient(ts).Generate(context.Background(), "hello", nil); err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", got)
	}
}

func TestGenerateClientErrorIsTerminal(t *testing.T) {
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, `{"error": "bad request"}`, http.StatusBadRequest)
	}))
	defer ts.Close()

	if _, err := newTestClient(ts).Generate(context.Background(), "hello", nil); err == nil {
		t.Fatal("expected an error on 400")
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("400 must not be retried, got %d attempts", got)
	}
}

func TestGenerateUnconfigured(t *testing.T) {
	c := NewClient(Config{Logger: zap.NewNop()})
	if c.Configured() {
		t.Error("client without model id must not report configured")
	}

	_, err := c.Generate(context.Background(), "hello", nil)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
