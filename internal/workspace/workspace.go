// Package workspace manages the numbered task directories that hold one
// conversion attempt's intermediate and final artifacts.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const taskPrefix = "task_"

// Task is a numbered working directory with temp/ for intermediate
// artifacts and output/ for the final document tree.
type Task struct {
	ID   int
	Root string
}

// TempDir is where downloads, extracted audio, and the transcript land.
func (t *Task) TempDir() string {
	return filepath.Join(t.Root, "temp")
}

// OutputDir holds the final Markdown, PDF, and images.
func (t *Task) OutputDir() string {
	return filepath.Join(t.Root, "output")
}

// ImagesDir holds the extracted frames under output/.
func (t *Task) ImagesDir() string {
	return filepath.Join(t.Root, "output", "images")
}

// NextTaskID scans baseDir for task_N directories and returns max+1.
// Numbers are never reused; directories that do not parse are ignored.
// The scan is not locked against other processes creating tasks in the
// same base directory.
func NextTaskID(baseDir string) (int, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return 0, fmt.Errorf("scan task directories: %w", err)
	}
	max := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), taskPrefix) {
			continue
		}
		id, err := strconv.Atoi(strings.TrimPrefix(entry.Name(), taskPrefix))
		if err != nil || id <= 0 {
			continue
		}
		if id > max {
			max = id
		}
	}
	return max + 1, nil
}

// CreateTask allocates the next task number under baseDir and creates the
// temp/ and output/ subtrees.
func CreateTask(baseDir string) (*Task, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure base directory: %w", err)
	}
	id, err := NextTaskID(baseDir)
	if err != nil {
		return nil, err
	}
	task := &Task{ID: id, Root: filepath.Join(baseDir, fmt.Sprintf("%s%d", taskPrefix, id))}
	for _, dir := range []string{task.TempDir(), task.OutputDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create task directory: %w", err)
		}
	}
	return task, nil
}
