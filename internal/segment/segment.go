package segment

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Segment is a single timestamped span of recognized speech.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Duration returns the span length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Timestamp returns the span's start formatted as MM:SS.
func (s Segment) Timestamp() string {
	return FormatTimestamp(s.Start)
}

// FormatTimestamp renders seconds as a zero-padded MM:SS string.
// Minutes are not wrapped at 60, matching the frame filenames written by
// the extractor.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// TimestampedText renders segments as "[MM:SS] text" lines, the shape the
// LLM prompts consume.
func TimestampedText(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString("[")
		b.WriteString(seg.Timestamp())
		b.WriteString("] ")
		b.WriteString(seg.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// Timestamps returns the MM:SS start stamp of every segment in order.
func Timestamps(segments []Segment) []string {
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		out = append(out, seg.Timestamp())
	}
	return out
}

// WriteTranscript persists segments as an indented UTF-8 JSON array so the
// merged transcript stays human-diffable in the task workspace.
func WriteTranscript(path string, segments []Segment) error {
	if segments == nil {
		segments = []Segment{}
	}
	data, err := json.MarshalIndent(segments, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure transcript dir: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// ReadTranscript loads a transcript previously written by WriteTranscript.
func ReadTranscript(path string) ([]Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var segments []Segment
	if err := json.Unmarshal(data, &segments); err != nil {
		return nil, fmt.Errorf("parse transcript: %w", err)
	}
	return segments, nil
}
