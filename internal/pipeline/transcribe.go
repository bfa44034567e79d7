package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"videodocs/internal/logging"
	"videodocs/internal/segment"
	"videodocs/internal/services"
	"videodocs/internal/services/whisper"
)

type audioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
}

// transcribeStage extracts the audio track, runs the transcription
// engine, and merges the raw segments into readable chunks.
type transcribeStage struct {
	audio  audioExtractor
	engine whisper.Engine
	logger *slog.Logger
}

func newTranscribeStage(audio audioExtractor, engine whisper.Engine, logger *slog.Logger) *transcribeStage {
	return &transcribeStage{audio: audio, engine: engine, logger: logger}
}

// Prepare extracts the mono 16kHz audio the engine consumes.
func (s *transcribeStage) Prepare(ctx context.Context, attempt *Attempt) error {
	if attempt.VideoPath == "" {
		return services.Wrap(services.ErrTranscription, "transcribe", "extract audio", "no video file", nil)
	}
	audioPath := filepath.Join(attempt.Workspace.TempDir(), "temp_audio.mp3")
	if err := s.audio.ExtractAudio(ctx, attempt.VideoPath, audioPath); err != nil {
		return services.Wrap(services.ErrTranscription, "transcribe", "extract audio", "", err)
	}
	attempt.AudioPath = audioPath
	return nil
}

// Execute transcribes the audio, merges segments, and persists the
// transcript for inspection. The audio file is removed afterwards.
func (s *transcribeStage) Execute(ctx context.Context, attempt *Attempt) error {
	s.logger.Info("transcribing audio", logging.String("engine", s.engine.Name()))
	raw, err := s.engine.Transcribe(ctx, attempt.AudioPath)
	if err != nil {
		return services.Wrap(services.ErrTranscription, "transcribe", s.engine.Name(), "", err)
	}
	if len(raw) == 0 {
		return services.Wrap(services.ErrTranscription, "transcribe", s.engine.Name(), "no segments produced", errors.New("empty transcription"))
	}

	merged := segment.Merge(raw, segment.DefaultMergeOptions())
	s.logger.Info("segments merged",
		logging.Int("raw", len(raw)),
		logging.Int("merged", len(merged)))

	transcriptPath := filepath.Join(attempt.Workspace.TempDir(), "transcript.json")
	if err := segment.WriteTranscript(transcriptPath, merged); err != nil {
		return services.Wrap(services.ErrTranscription, "transcribe", "write transcript", "", err)
	}
	attempt.Segments = merged
	attempt.Task.TranscriptPath = transcriptPath

	if err := os.Remove(attempt.AudioPath); err != nil {
		s.logger.Debug("audio cleanup failed", logging.Error(err))
	}
	attempt.AudioPath = ""
	return nil
}

var _ Handler = (*transcribeStage)(nil)
