package pipeline

import (
	"context"
	"log/slog"
	"os"

	"videodocs/internal/logging"
	"videodocs/internal/markers"
	"videodocs/internal/media"
	"videodocs/internal/services"
)

type frameExtractor interface {
	ExtractFrames(ctx context.Context, videoPath, imagesDir string, timestamps []markers.Timestamp) (media.FrameResult, error)
}

// extractStage captures one frame per planned timestamp. A partial result
// is not a failure; unresolvable references degrade to comments at render
// time.
type extractStage struct {
	frames frameExtractor
	logger *slog.Logger
}

func newExtractStage(frames frameExtractor, logger *slog.Logger) *extractStage {
	return &extractStage{frames: frames, logger: logger}
}

func (s *extractStage) Prepare(_ context.Context, attempt *Attempt) error {
	if err := os.MkdirAll(attempt.Workspace.ImagesDir(), 0o755); err != nil {
		return services.Wrap(services.ErrExtraction, "extract", "ensure images dir", "", err)
	}
	return nil
}

func (s *extractStage) Execute(ctx context.Context, attempt *Attempt) error {
	timestamps := markers.Timestamps(attempt.Plans)
	if len(timestamps) == 0 {
		s.logger.Info("no image markers to extract")
		attempt.Frames = markers.FrameMap{}
		return nil
	}

	result, err := s.frames.ExtractFrames(ctx, attempt.VideoPath, attempt.Workspace.ImagesDir(), timestamps)
	if err != nil {
		// Only context cancellation reaches here; per-frame failures are
		// folded into result.Failed.
		return services.Wrap(services.ErrExtraction, "extract", "capture frames", "", err)
	}
	attempt.Frames = result.Frames
	attempt.Task.ImageCount = len(result.Frames)
	if len(result.Failed) > 0 {
		s.logger.Warn("some frames were not captured",
			logging.Int("requested", len(timestamps)),
			logging.Int("captured", len(result.Frames)))
	}
	return nil
}

var _ Handler = (*extractStage)(nil)
