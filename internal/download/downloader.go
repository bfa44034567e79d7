package download

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"videodocs/internal/logging"
)

const (
	defaultBinary  = "yt-dlp"
	defaultTimeout = 30 * time.Minute

	// Some extractors (bilibili in particular) refuse requests without a
	// browser user agent and referer.
	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultReferer   = "https://www.bilibili.com/"
)

// VideoInfo is the metadata yt-dlp reports for a URL.
type VideoInfo struct {
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	Description string  `json:"description"`
	Uploader    string  `json:"uploader"`
	URL         string  `json:"url"`
}

// Options configures the downloader.
type Options struct {
	// Binary is the yt-dlp executable name or path.
	Binary string
	// MaxHeight caps the selected video resolution.
	MaxHeight int
	// Timeout bounds one download run.
	Timeout time.Duration
}

// Downloader wraps the yt-dlp binary.
type Downloader struct {
	binary        string
	maxHeight     int
	timeout       time.Duration
	logger        *slog.Logger
	commandOutput func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewDownloader constructs a yt-dlp wrapper.
func NewDownloader(opts Options, logger *slog.Logger) *Downloader {
	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		binary = defaultBinary
	}
	maxHeight := opts.MaxHeight
	if maxHeight <= 0 {
		maxHeight = 1080
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Downloader{
		binary:    binary,
		maxHeight: maxHeight,
		timeout:   timeout,
		logger:    logger,
	}
}

// WithCommandOutput sets a custom command runner (for testing).
func (d *Downloader) WithCommandOutput(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	d.commandOutput = runner
}

func (d *Downloader) output(ctx context.Context, args ...string) ([]byte, error) {
	runCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	if d.commandOutput != nil {
		return d.commandOutput(runCtx, d.binary, args...)
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, d.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", d.binary, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

func (d *Downloader) headerArgs() []string {
	return []string{
		"--user-agent", browserUserAgent,
		"--referer", defaultReferer,
		"--no-check-certificates",
		"--no-warnings",
	}
}

// Info fetches metadata for the URL without downloading.
func (d *Downloader) Info(ctx context.Context, url string) (VideoInfo, error) {
	var info VideoInfo
	if strings.TrimSpace(url) == "" {
		return info, errors.New("download info: url required")
	}
	args := append(d.headerArgs(), "--dump-json", "--skip-download", url)
	output, err := d.output(ctx, args...)
	if err != nil {
		return info, fmt.Errorf("download info: %w", err)
	}
	if err := json.Unmarshal(output, &info); err != nil {
		return info, fmt.Errorf("download info: decode metadata: %w", err)
	}
	info.URL = url
	return info, nil
}

// Download fetches the video into destDir and returns the path of the
// downloaded file.
func (d *Downloader) Download(ctx context.Context, url, destDir string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", errors.New("download: url required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("download: ensure dest dir: %w", err)
	}

	format := fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", d.maxHeight, d.maxHeight)
	args := append(d.headerArgs(),
		"--format", format,
		"--merge-output-format", "mp4",
		"--output", filepath.Join(destDir, "%(title)s.%(ext)s"),
		"--quiet",
		url,
	)
	d.logger.Info("downloading video", logging.String("url", url))
	if _, err := d.output(ctx, args...); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}

	videoPath, err := largestMediaFile(destDir)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	d.logger.Info("download finished", logging.String("file", filepath.Base(videoPath)))
	return videoPath, nil
}

var mediaExtensions = []string{".mp4", ".mkv", ".webm"}

// largestMediaFile picks the biggest file in dir, preferring known video
// container extensions. Partial fragments left by a merge step are smaller
// than the final output, so size is the tiebreaker.
func largestMediaFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", dir, err)
	}

	for _, ext := range mediaExtensions {
		if path := largestWithExt(dir, entries, ext); path != "" {
			return path, nil
		}
	}
	if path := largestWithExt(dir, entries, ""); path != "" {
		return path, nil
	}
	return "", fmt.Errorf("no downloaded file found in %s", dir)
}

func largestWithExt(dir string, entries []os.DirEntry, ext string) string {
	var best string
	var bestSize int64 = -1
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ext != "" && !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Size() > bestSize {
			bestSize = info.Size()
			best = filepath.Join(dir, entry.Name())
		}
	}
	return best
}
