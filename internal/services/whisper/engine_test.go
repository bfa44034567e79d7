package whisper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewEngineSelectsVariant(t *testing.T) {
	cases := []struct {
		mode     string
		wantName string
	}{
		{mode: "", wantName: "whisper-api"},
		{mode: "remote", wantName: "whisper-api"},
		{mode: "Remote", wantName: "whisper-api"},
		{mode: "local", wantName: "whisperx-local"},
	}
	for _, tc := range cases {
		engine, err := NewEngine(Config{Mode: tc.mode, APIKey: "key"})
		if err != nil {
			t.Fatalf("NewEngine(%q): %v", tc.mode, err)
		}
		if engine.Name() != tc.wantName {
			t.Fatalf("mode %q: name = %q, want %q", tc.mode, engine.Name(), tc.wantName)
		}
		if err := engine.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}
}

func TestNewEngineRejectsUnknownMode(t *testing.T) {
	if _, err := NewEngine(Config{Mode: "cloud"}); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func writeTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.mp3")
	if err := os.WriteFile(path, []byte("fake-audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRemoteTranscribe(t *testing.T) {
	var gotAuth, gotModel, gotFormat string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotModel = r.FormValue("model")
		gotFormat = r.FormValue("response_format")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"segments": []map[string]any{
				{"start": 0.0, "end": 4.5, "text": " Hello there. "},
				{"start": 4.5, "end": 6.0, "text": "   "},
				{"start": 6.0, "end": 9.0, "text": "Second part."},
			},
		})
	}))
	defer server.Close()

	engine := NewRemoteEngine(Config{APIKey: "key", BaseURL: server.URL, Model: "whisper-1"})
	segments, err := engine.Transcribe(context.Background(), writeTempAudio(t))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("segments = %+v, want 2 (blank dropped)", segments)
	}
	if segments[0].Text != "Hello there." || segments[0].Start != 0 || segments[0].End != 4.5 {
		t.Fatalf("first segment = %+v", segments[0])
	}
	if gotAuth != "Bearer key" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotModel != "whisper-1" || gotFormat != "verbose_json" {
		t.Fatalf("model = %q, response_format = %q", gotModel, gotFormat)
	}
}

func TestRemoteTranscribeRequiresAPIKey(t *testing.T) {
	engine := NewRemoteEngine(Config{})
	if _, err := engine.Transcribe(context.Background(), writeTempAudio(t)); err == nil {
		t.Fatal("expected error")
	}
}

func TestRemoteTranscribeReportsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	}))
	defer server.Close()

	engine := NewRemoteEngine(Config{APIKey: "bad", BaseURL: server.URL})
	_, err := engine.Transcribe(context.Background(), writeTempAudio(t))
	if err == nil || !strings.Contains(err.Error(), "http 401") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRemoteTranscribeRejectsEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"segments":[]}`))
	}))
	defer server.Close()

	engine := NewRemoteEngine(Config{APIKey: "key", BaseURL: server.URL})
	if _, err := engine.Transcribe(context.Background(), writeTempAudio(t)); err == nil {
		t.Fatal("expected error for empty transcription")
	}
}

func TestLocalTranscribe(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "audio.mp3")
	if err := os.WriteFile(audioPath, []byte("fake"), 0o644); err != nil {
		t.Fatal(err)
	}

	var gotName string
	var gotArgs []string
	engine := NewLocalEngine(Config{LocalModel: "small"})
	engine.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		payload := `{"segments":[{"text":" first ","start":0,"end":3},{"text":"second","start":3,"end":7}]}`
		return os.WriteFile(filepath.Join(dir, "audio.json"), []byte(payload), 0o644)
	})

	segments, err := engine.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(segments) != 2 || segments[0].Text != "first" || segments[1].End != 7 {
		t.Fatalf("segments = %+v", segments)
	}
	if gotName != "uvx" {
		t.Fatalf("command = %q", gotName)
	}
	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{"whisperx", audioPath, "--model small", "--output_format json", "--device cpu"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %v", want, gotArgs)
		}
	}
}

func TestLocalTranscribeMissingOutput(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "audio.mp3")
	if err := os.WriteFile(audioPath, []byte("fake"), 0o644); err != nil {
		t.Fatal(err)
	}

	engine := NewLocalEngine(Config{})
	engine.WithCommandRunner(func(context.Context, string, ...string) error { return nil })
	if _, err := engine.Transcribe(context.Background(), audioPath); err == nil {
		t.Fatal("expected error when whisperx wrote no JSON")
	}
}
