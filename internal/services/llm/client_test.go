package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, serverURL string, opts ...Option) *Client {
	t.Helper()
	cfg := Config{
		APIKey:  "test-key",
		BaseURL: serverURL,
		Model:   "test-model",
	}
	base := []Option{
		WithRetryBackoff(time.Millisecond, 5*time.Millisecond),
		WithSleeper(func(time.Duration) {}),
	}
	return NewClient(cfg, append(base, opts...)...)
}

func completionBody(content string) string {
	payload := map[string]any{
		"choices": []map[string]any{
			{
				"message":       map[string]any{"content": content},
				"finish_reason": "stop",
			},
		},
	}
	encoded, _ := json.Marshal(payload)
	return string(encoded)
}

func TestCompleteReturnsContent(t *testing.T) {
	var gotAuth string
	var gotBody chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("polished text")))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	content, err := client.Complete(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if content != "polished text" {
		t.Fatalf("content = %q, want %q", content, "polished text")
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotBody.Model != "test-model" {
		t.Fatalf("model = %q", gotBody.Model)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" || gotBody.Messages[1].Role != "user" {
		t.Fatalf("unexpected messages: %+v", gotBody.Messages)
	}
	if gotBody.MaxTokens != defaultMaxTokens {
		t.Fatalf("max_tokens = %d, want %d", gotBody.MaxTokens, defaultMaxTokens)
	}
}

func TestCompleteRequiresPrompt(t *testing.T) {
	client := newTestClient(t, "http://unused.invalid")
	if _, err := client.Complete(context.Background(), "sys", "   "); err == nil {
		t.Fatal("expected error for empty user prompt")
	}
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://unused.invalid", Model: "m"})
	if _, err := client.Complete(context.Background(), "", "hello"); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestCompleteRetriesServerErrors(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "upstream failure", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(completionBody("eventually fine")))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	content, err := client.Complete(context.Background(), "", "hello")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if content != "eventually fine" {
		t.Fatalf("content = %q", content)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("calls = %d, want 3", got)
	}
}

func TestCompleteDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Complete(context.Background(), "", "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	var statusErr *httpStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
}

func TestCompleteRetriesEmptyContent(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(completionBody("")))
			return
		}
		_, _ = w.Write([]byte(completionBody("second try")))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	content, err := client.Complete(context.Background(), "", "hello")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if content != "second try" {
		t.Fatalf("content = %q", content)
	}
}

func TestCompleteExhaustsRetriesOnEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionBody("")))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithRetryMaxAttempts(2))
	_, err := client.Complete(context.Background(), "", "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "empty content") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCompleteToleratesDeltaSchema(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"delta":{"content":"from delta"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	content, err := client.Complete(context.Background(), "", "hello")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if content != "from delta" {
		t.Fatalf("content = %q", content)
	}
}

func TestCompleteHonorsRetryAfter(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(completionBody("after backoff")))
	}))
	defer server.Close()

	var slept []time.Duration
	client := newTestClient(t, server.URL, WithSleeper(func(d time.Duration) {
		slept = append(slept, d)
	}))
	content, err := client.Complete(context.Background(), "", "hello")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if content != "after backoff" {
		t.Fatalf("content = %q", content)
	}
	if len(slept) != 1 {
		t.Fatalf("sleeps = %v, want one entry", slept)
	}
	// Retry-After of 1s is capped by the configured max delay.
	if slept[0] != 5*time.Millisecond {
		t.Fatalf("slept %v, want capped 5ms", slept[0])
	}
}

func TestCompleteStopsOnContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "failure", http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := newTestClient(t, server.URL, WithSleeper(func(time.Duration) { cancel() }))
	_, err := client.Complete(ctx, "", "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionBody("OK")))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestHealthCheckReportsAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if err := client.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseRetryAfterSeconds(t *testing.T) {
	delay, ok := parseRetryAfter("7")
	if !ok || delay != 7*time.Second {
		t.Fatalf("parseRetryAfter = %v, %v", delay, ok)
	}
	if _, ok := parseRetryAfter("not-a-number"); ok {
		t.Fatal("expected parse failure")
	}
	if _, ok := parseRetryAfter(""); ok {
		t.Fatal("expected parse failure for empty value")
	}
}

func TestSummarizePayloadSnippet(t *testing.T) {
	if got := summarizePayloadSnippet("  "); got != "<empty>" {
		t.Fatalf("snippet = %q", got)
	}
	long := strings.Repeat("a", 500)
	got := summarizePayloadSnippet(long)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncation, got %q", got)
	}
}
