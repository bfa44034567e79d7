package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"videodocs/internal/logging"
	"videodocs/internal/markers"
)

const (
	defaultAudioTimeout = 300 * time.Second
	defaultFrameTimeout = 30 * time.Second
)

// Options configures the ffmpeg wrapper.
type Options struct {
	// FFmpegBinary is the ffmpeg executable name or path.
	FFmpegBinary string
	// AudioTimeout bounds one audio extraction run.
	AudioTimeout time.Duration
	// FrameTimeout bounds one frame capture run.
	FrameTimeout time.Duration
}

// FFmpeg wraps the ffmpeg binary.
type FFmpeg struct {
	binary        string
	audioTimeout  time.Duration
	frameTimeout  time.Duration
	logger        *slog.Logger
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewFFmpeg constructs an ffmpeg wrapper.
func NewFFmpeg(opts Options, logger *slog.Logger) *FFmpeg {
	binary := strings.TrimSpace(opts.FFmpegBinary)
	if binary == "" {
		binary = "ffmpeg"
	}
	audioTimeout := opts.AudioTimeout
	if audioTimeout <= 0 {
		audioTimeout = defaultAudioTimeout
	}
	frameTimeout := opts.FrameTimeout
	if frameTimeout <= 0 {
		frameTimeout = defaultFrameTimeout
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FFmpeg{
		binary:       binary,
		audioTimeout: audioTimeout,
		frameTimeout: frameTimeout,
		logger:       logger,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (f *FFmpeg) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	f.commandRunner = runner
}

func (f *FFmpeg) run(ctx context.Context, timeout time.Duration, args ...string) error {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if f.commandRunner != nil {
		return f.commandRunner(runCtx, f.binary, args...)
	}
	cmd := exec.CommandContext(runCtx, f.binary, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%s: timed out after %s", f.binary, timeout)
		}
		return fmt.Errorf("%s: %w: %s", f.binary, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// ExtractAudio writes a mono 16kHz MP3 suitable for transcription.
func (f *FFmpeg) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	args := []string{
		"-y",
		"-i", videoPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-q:a", "2",
		"-ar", "16000",
		"-ac", "1",
		audioPath,
	}
	if err := f.run(ctx, f.audioTimeout, args...); err != nil {
		return fmt.Errorf("extract audio: %w", err)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return fmt.Errorf("extract audio: output missing: %w", err)
	}
	return nil
}

// ExtractFrame captures one still frame at the timestamp, scaled to a
// 1280px width.
func (f *FFmpeg) ExtractFrame(ctx context.Context, videoPath string, ts markers.Timestamp, outputPath string) error {
	args := []string{
		"-y",
		"-ss", ts.FFmpegPosition(),
		"-i", videoPath,
		"-vframes", "1",
		"-q:v", "2",
		"-vf", "scale=1280:-1",
		outputPath,
	}
	if err := f.run(ctx, f.frameTimeout, args...); err != nil {
		return fmt.Errorf("extract frame %s: %w", ts, err)
	}
	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("extract frame %s: output missing: %w", ts, err)
	}
	return nil
}
