package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"videodocs/internal/download"
	"videodocs/internal/logging"
	"videodocs/internal/services"
)

// videoSource is the slice of the downloader the stage needs.
type videoSource interface {
	Info(ctx context.Context, url string) (download.VideoInfo, error)
	Download(ctx context.Context, url, destDir string) (string, error)
}

type durationProber interface {
	Duration(ctx context.Context, videoPath string) (float64, error)
}

// downloadStage fetches metadata and the media file for the task URL.
type downloadStage struct {
	source videoSource
	prober durationProber
	logger *slog.Logger
}

func newDownloadStage(source videoSource, prober durationProber, logger *slog.Logger) *downloadStage {
	return &downloadStage{source: source, prober: prober, logger: logger}
}

// Prepare fetches metadata so the title is persisted before the long
// download starts.
func (s *downloadStage) Prepare(ctx context.Context, attempt *Attempt) error {
	info, err := s.source.Info(ctx, attempt.Task.URL)
	if err != nil {
		return services.Wrap(services.ErrAcquisition, "download", "fetch metadata", "", err)
	}
	attempt.Info = info
	attempt.Task.Title = strings.TrimSpace(info.Title)
	s.logger.Info("video metadata fetched",
		logging.String("title", attempt.Task.Title),
		logging.Float64("duration", info.Duration))
	return nil
}

// Execute downloads the media file into the attempt's temp directory.
func (s *downloadStage) Execute(ctx context.Context, attempt *Attempt) error {
	videoPath, err := s.source.Download(ctx, attempt.Task.URL, attempt.Workspace.TempDir())
	if err != nil {
		return services.Wrap(services.ErrAcquisition, "download", "fetch video", "", err)
	}
	attempt.VideoPath = videoPath
	attempt.Task.VideoPath = videoPath

	// Some extractors report no duration in metadata; fall back to the
	// container.
	if attempt.Info.Duration <= 0 && s.prober != nil {
		if duration, probeErr := s.prober.Duration(ctx, videoPath); probeErr == nil {
			attempt.Info.Duration = duration
		} else {
			s.logger.Warn("duration probe failed", logging.Error(probeErr))
		}
	}
	return nil
}

var _ Handler = (*downloadStage)(nil)
