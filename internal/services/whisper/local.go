package whisper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"videodocs/internal/segment"
)

const (
	uvxCommand        = "uvx"
	defaultLocalModel = "base"
	localBatchSize    = "4"
	localComputeType  = "int8"
)

// LocalEngine runs whisperx as a subprocess through uvx. The first
// transcription downloads and loads the model; later calls in the same
// session reuse the uv cache, so the engine should be kept open across
// retries.
type LocalEngine struct {
	model         string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewLocalEngine constructs a local engine from the shared config.
func NewLocalEngine(cfg Config) *LocalEngine {
	model := strings.TrimSpace(cfg.LocalModel)
	if model == "" {
		model = defaultLocalModel
	}
	return &LocalEngine{model: model}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *LocalEngine) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	e.commandRunner = runner
}

// Name implements Engine.
func (e *LocalEngine) Name() string { return "whisperx-local" }

// Close implements Engine.
func (e *LocalEngine) Close() error { return nil }

// Transcribe runs whisperx on the audio file and loads the JSON output it
// writes next to the source.
func (e *LocalEngine) Transcribe(ctx context.Context, audioPath string) ([]segment.Segment, error) {
	if audioPath == "" {
		return nil, errors.New("whisperx: audio path required")
	}
	outputDir := filepath.Dir(audioPath)
	args := e.buildArgs(audioPath, outputDir)
	if err := e.run(ctx, uvxCommand, args...); err != nil {
		return nil, fmt.Errorf("whisperx: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(outputDir, baseName+".json")
	segments, err := loadSegments(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("whisperx: %w", err)
	}
	if len(segments) == 0 {
		return nil, errors.New("whisperx: transcription returned no segments")
	}
	return segments, nil
}

func (e *LocalEngine) buildArgs(source, outputDir string) []string {
	return []string{
		"whisperx",
		source,
		"--model", e.model,
		"--batch_size", localBatchSize,
		"--output_dir", outputDir,
		"--output_format", "json",
		"--device", "cpu",
		"--compute_type", localComputeType,
	}
}

func (e *LocalEngine) run(ctx context.Context, name string, args ...string) error {
	if e.commandRunner != nil {
		return e.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

type whisperXPayload struct {
	Segments []struct {
		Text  string  `json:"text"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"segments"`
}

func loadSegments(jsonPath string) ([]segment.Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload whisperXPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	segments := make([]segment.Segment, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, segment.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
		})
	}
	return segments, nil
}
