package pipeline

import (
	"videodocs/internal/download"
	"videodocs/internal/markers"
	"videodocs/internal/queue"
	"videodocs/internal/segment"
	"videodocs/internal/workspace"
)

// Attempt carries the runtime state of one pipeline run. The persisted
// task row records durable progress; the rest lives only for the length
// of the attempt and is rebuilt from scratch on retry.
type Attempt struct {
	Task      *queue.Task
	Workspace *workspace.Task
	RequestID string

	Info      download.VideoInfo
	VideoPath string
	AudioPath string
	Segments  []segment.Segment
	Intro     string
	Polished  string
	Marked    string
	Plans     []markers.Plan
	Frames    markers.FrameMap

	MarkdownPath string
	PDFPath      string
}
