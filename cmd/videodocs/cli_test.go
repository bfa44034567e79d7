package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"videodocs/internal/queue"
)

func writeCLIConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	content := fmt.Sprintf(
		"[paths]\nbase_dir = %q\nlog_dir = %q\n",
		filepath.Join(base, "tasks"),
		filepath.Join(base, "logs"),
	)
	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	configPath := writeCLIConfig(t)

	out, _, err := runCLI(t, configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, _, err := runCLI(t, "", "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestTasksListEmpty(t *testing.T) {
	configPath := writeCLIConfig(t)

	out, _, err := runCLI(t, configPath, "tasks", "list")
	if err != nil {
		t.Fatalf("tasks list: %v", err)
	}
	requireContains(t, out, "No tasks yet.")
}

func TestTasksListAndShow(t *testing.T) {
	configPath := writeCLIConfig(t)

	// Resolve the store path the way the CLI does.
	cfg, err := newCommandContextForTest(configPath).ensureConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	store, err := queue.Open(filepath.Join(cfg.Paths.LogDir, "tasks.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	task, err := store.NewTask(context.Background(), "https://example.com/watch?v=abc")
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	task.Title = "Kubernetes Networking Deep Dive"
	task.Status = queue.StatusCompleted
	task.Attempt = 1
	task.ImageCount = 4
	task.MarkdownPath = "/tmp/out.md"
	if err := store.Update(context.Background(), task); err != nil {
		t.Fatalf("update task: %v", err)
	}
	store.Close()

	out, _, err := runCLI(t, configPath, "tasks", "list")
	if err != nil {
		t.Fatalf("tasks list: %v", err)
	}
	requireContains(t, out, "Kubernetes Networking Deep Dive")
	requireContains(t, out, "completed")
	requireContains(t, out, "1 completed")

	out, _, err = runCLI(t, configPath, "tasks", "show", fmt.Sprint(task.ID))
	if err != nil {
		t.Fatalf("tasks show: %v", err)
	}
	requireContains(t, out, "https://example.com/watch?v=abc")
	requireContains(t, out, "/tmp/out.md")
}

func TestTasksShowUnknownID(t *testing.T) {
	configPath := writeCLIConfig(t)

	if _, _, err := runCLI(t, configPath, "tasks", "show", "999"); err == nil {
		t.Fatal("expected error for unknown task id")
	}
	if _, _, err := runCLI(t, configPath, "tasks", "show", "abc"); err == nil {
		t.Fatal("expected error for malformed task id")
	}
}

func TestTruncateTitle(t *testing.T) {
	if got := truncateTitle("", 10); got != "-" {
		t.Fatalf("empty title: got %q", got)
	}
	if got := truncateTitle("short", 10); got != "short" {
		t.Fatalf("short title: got %q", got)
	}
	long := strings.Repeat("a", 60)
	got := truncateTitle(long, 48)
	if len([]rune(got)) != 48 {
		t.Fatalf("expected 48 runes, got %d (%q)", len([]rune(got)), got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
}

func TestSummarizeCounts(t *testing.T) {
	if got := summarizeCounts(map[queue.Status]int{}); got != "No completed or failed tasks yet." {
		t.Fatalf("empty counts: got %q", got)
	}
	got := summarizeCounts(map[queue.Status]int{
		queue.StatusCompleted:    3,
		queue.StatusFailed:       1,
		queue.StatusTranscribing: 2,
	})
	requireContains(t, got, "3 completed")
	requireContains(t, got, "1 failed")
	requireContains(t, got, "2 in progress")
}

func newCommandContextForTest(configPath string) *commandContext {
	return newCommandContext(&configPath)
}
