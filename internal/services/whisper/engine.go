package whisper

import (
	"context"
	"fmt"
	"strings"

	"videodocs/internal/segment"
)

// Engine modes accepted in configuration.
const (
	ModeRemote = "remote"
	ModeLocal  = "local"
)

// Config captures the settings shared by both engine variants.
type Config struct {
	Mode       string
	APIKey     string
	BaseURL    string
	Model      string
	LocalModel string
}

// Engine transcribes one audio file into ordered transcript segments.
// Engines may hold expensive state (a loaded model, a warm HTTP client)
// and must be closed when the session ends.
type Engine interface {
	// Transcribe converts the audio file at audioPath into segments
	// ordered by start time.
	Transcribe(ctx context.Context, audioPath string) ([]segment.Segment, error)
	// Name identifies the engine variant for logging and prompts.
	Name() string
	// Close releases any resources the engine holds. Safe to call more
	// than once.
	Close() error
}

// NewEngine constructs the engine selected by cfg.Mode. An empty mode
// defaults to remote.
func NewEngine(cfg Config) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case "", ModeRemote:
		return NewRemoteEngine(cfg), nil
	case ModeLocal:
		return NewLocalEngine(cfg), nil
	default:
		return nil, fmt.Errorf("whisper: unknown mode %q (want %q or %q)", cfg.Mode, ModeRemote, ModeLocal)
	}
}
