package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatal("reported a file that does not exist")
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Workflow.MaxAttempts != defaultMaxAttempts {
		t.Fatalf("MaxAttempts = %d", cfg.Workflow.MaxAttempts)
	}
	if cfg.Download.Binary != "yt-dlp" {
		t.Fatalf("Download.Binary = %q", cfg.Download.Binary)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
base_dir = "` + dir + `/work"

[llm]
api_key = "sk-test"
model = "test-model"

[whisper]
mode = "LOCAL"

[workflow]
max_attempts = 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Fatal("file not detected")
	}
	if cfg.Whisper.Mode != "local" {
		t.Fatalf("mode not normalized: %q", cfg.Whisper.Mode)
	}
	if cfg.Workflow.MaxAttempts != 5 {
		t.Fatalf("MaxAttempts = %d", cfg.Workflow.MaxAttempts)
	}
	if !filepath.IsAbs(cfg.Paths.BaseDir) {
		t.Fatalf("BaseDir not absolute: %q", cfg.Paths.BaseDir)
	}
	if cfg.LLM.TimeoutSeconds != defaultLLMTimeoutSeconds {
		t.Fatalf("LLM timeout default missing: %d", cfg.LLM.TimeoutSeconds)
	}
}

func TestLoadRejectsBadWhisperMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[whisper]\nmode = \"cloud\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[llm]") {
		t.Fatalf("sample missing llm section")
	}
	// Rewriting an existing file succeeds; the CLI guards overwrites.
	if err := WriteSample(path); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/x")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "x") {
		t.Fatalf("ExpandPath = %q", got)
	}
}
