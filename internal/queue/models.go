package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a conversion task.
type Status string

const (
	StatusPending      Status = "pending"
	StatusDownloading  Status = "downloading"
	StatusDownloaded   Status = "downloaded"
	StatusTranscribing Status = "transcribing"
	StatusTranscribed  Status = "transcribed"
	StatusPolishing    Status = "polishing"
	StatusPolished     Status = "polished"
	StatusMarking      Status = "marking"
	StatusMarked       Status = "marked"
	StatusExtracting   Status = "extracting"
	StatusExtracted    Status = "extracted"
	StatusRendering    Status = "rendering"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusDownloading,
	StatusDownloaded,
	StatusTranscribing,
	StatusTranscribed,
	StatusPolishing,
	StatusPolished,
	StatusMarking,
	StatusMarked,
	StatusExtracting,
	StatusExtracted,
	StatusRendering,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusDownloading:  {},
	StatusTranscribing: {},
	StatusPolishing:    {},
	StatusMarking:      {},
	StatusExtracting:   {},
	StatusRendering:    {},
}

// Task represents a persisted conversion task.
type Task struct {
	ID             int64
	URL            string
	Title          string
	Status         Status
	Attempt        int
	WorkspacePath  string
	VideoPath      string
	TranscriptPath string
	MarkdownPath   string
	PDFPath        string
	ImageCount     int
	ErrorMessage   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing reports whether the status is a mid-stage state.
func (s Status) IsProcessing() bool {
	_, ok := processingStatuses[s]
	return ok
}

// IsProcessing reports whether the task is mid-stage.
func (t Task) IsProcessing() bool {
	return t.Status.IsProcessing()
}

// IsTerminal reports whether the task reached an end state.
func (t Task) IsTerminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed
}

// SetFailed marks the task as failed with the given error message.
func (t *Task) SetFailed(message string) {
	t.Status = StatusFailed
	t.ErrorMessage = message
}
