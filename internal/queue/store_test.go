package queue

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestNewTaskDefaults(t *testing.T) {
	store := openTestStore(t)
	task, err := store.NewTask(context.Background(), "https://example.com/v/1")
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	if task.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if task.Status != StatusPending {
		t.Fatalf("status = %q", task.Status)
	}
	if task.Attempt != 1 {
		t.Fatalf("attempt = %d", task.Attempt)
	}
	if task.CreatedAt.IsZero() {
		t.Fatal("expected created_at")
	}
}

func TestNewTaskRequiresURL(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.NewTask(context.Background(), "  "); err == nil {
		t.Fatal("expected error")
	}
}

func TestUpdateRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	task, err := store.NewTask(ctx, "https://example.com/v/1")
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}

	task.Title = "Demo"
	task.Status = StatusTranscribed
	task.Attempt = 2
	task.WorkspacePath = "/base/task_3"
	task.VideoPath = "/base/task_3/temp/clip.mp4"
	task.TranscriptPath = "/base/task_3/temp/transcript.json"
	task.ImageCount = 4
	if err := store.Update(ctx, task); err != nil {
		t.Fatalf("Update: %v", err)
	}

	loaded, err := store.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if loaded.Title != "Demo" || loaded.Status != StatusTranscribed || loaded.Attempt != 2 {
		t.Fatalf("loaded = %+v", loaded)
	}
	if loaded.TranscriptPath != "/base/task_3/temp/transcript.json" || loaded.ImageCount != 4 {
		t.Fatalf("loaded = %+v", loaded)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	store := openTestStore(t)
	_, err := store.GetByID(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	for _, url := range []string{"https://a", "https://b", "https://c"} {
		if _, err := store.NewTask(ctx, url); err != nil {
			t.Fatalf("NewTask: %v", err)
		}
	}

	tasks, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len = %d", len(tasks))
	}
	if tasks[0].URL != "https://c" || tasks[1].URL != "https://b" {
		t.Fatalf("order = %q, %q", tasks[0].URL, tasks[1].URL)
	}
}

func TestCounts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	first, _ := store.NewTask(ctx, "https://a")
	if _, err := store.NewTask(ctx, "https://b"); err != nil {
		t.Fatal(err)
	}
	first.Status = StatusCompleted
	if err := store.Update(ctx, first); err != nil {
		t.Fatal(err)
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts[StatusPending] != 1 || counts[StatusCompleted] != 1 {
		t.Fatalf("counts = %+v", counts)
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := ParseStatus(" Transcribing "); !ok || status != StatusTranscribing {
		t.Fatalf("ParseStatus = %q, %v", status, ok)
	}
	if _, ok := ParseStatus("ripping"); ok {
		t.Fatal("expected unknown status")
	}
}

func TestTaskStateHelpers(t *testing.T) {
	task := Task{Status: StatusPolishing}
	if !task.IsProcessing() {
		t.Fatal("polishing should be processing")
	}
	task.Status = StatusCompleted
	if task.IsProcessing() || !task.IsTerminal() {
		t.Fatal("completed should be terminal, not processing")
	}
	task.SetFailed("boom")
	if task.Status != StatusFailed || task.ErrorMessage != "boom" {
		t.Fatalf("task = %+v", task)
	}
}
