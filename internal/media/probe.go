package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const defaultProbeTimeout = 10 * time.Second

// Prober wraps ffprobe for container metadata.
type Prober struct {
	binary        string
	timeout       time.Duration
	commandOutput func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewProber constructs an ffprobe wrapper.
func NewProber(binary string, timeout time.Duration) *Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &Prober{binary: binary, timeout: timeout}
}

// WithCommandOutput sets a custom command runner (for testing).
func (p *Prober) WithCommandOutput(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	p.commandOutput = runner
}

// Duration returns the container duration in seconds.
func (p *Prober) Duration(ctx context.Context, videoPath string) (float64, error) {
	runCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	}
	var output []byte
	var err error
	if p.commandOutput != nil {
		output, err = p.commandOutput(runCtx, p.binary, args...)
	} else {
		var stdout, stderr bytes.Buffer
		cmd := exec.CommandContext(runCtx, p.binary, args...)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if runErr := cmd.Run(); runErr != nil {
			err = fmt.Errorf("%s: %w: %s", p.binary, runErr, strings.TrimSpace(stderr.String()))
		}
		output = stdout.Bytes()
	}
	if err != nil {
		return 0, fmt.Errorf("probe duration: %w", err)
	}

	value := strings.TrimSpace(string(output))
	duration, parseErr := strconv.ParseFloat(value, 64)
	if parseErr != nil {
		return 0, fmt.Errorf("probe duration: parse %q: %w", value, parseErr)
	}
	return duration, nil
}
