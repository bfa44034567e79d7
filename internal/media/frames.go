package media

import (
	"context"
	"path/filepath"

	"videodocs/internal/logging"
	"videodocs/internal/markers"
)

// FrameResult reports one batch of frame captures. Failures are recorded
// rather than aborting the batch so the document can still render with the
// frames that succeeded.
type FrameResult struct {
	Frames markers.FrameMap
	Failed []markers.Timestamp
}

// ExtractFrames captures one frame per timestamp into imagesDir. A frame
// that fails or times out is skipped; the error return is reserved for
// context cancellation.
func (f *FFmpeg) ExtractFrames(ctx context.Context, videoPath, imagesDir string, timestamps []markers.Timestamp) (FrameResult, error) {
	result := FrameResult{Frames: make(markers.FrameMap, len(timestamps))}
	total := len(timestamps)
	f.logger.Info("extracting frames", logging.Int("count", total))

	for i, ts := range timestamps {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		outputPath := filepath.Join(imagesDir, ts.FileName())
		if err := f.ExtractFrame(ctx, videoPath, ts, outputPath); err != nil {
			f.logger.Warn("frame capture failed",
				logging.String("timestamp", ts.Key()),
				logging.Int("index", i+1),
				logging.Int("total", total),
				logging.Error(err))
			result.Failed = append(result.Failed, ts)
			continue
		}
		result.Frames[ts.Key()] = outputPath
	}

	f.logger.Info("frame extraction finished",
		logging.Int("captured", len(result.Frames)),
		logging.Int("failed", len(result.Failed)))
	return result, nil
}
