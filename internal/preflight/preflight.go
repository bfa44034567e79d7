package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sys/unix"

	"videodocs/internal/config"
	"videodocs/internal/services/llm"
	"videodocs/internal/services/whisper"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes the checks applicable to the given configuration.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Base directory", cfg.Paths.BaseDir),
		CheckBinary("yt-dlp", cfg.Download.Binary, false),
		CheckBinary("ffmpeg", cfg.FFmpegBinary(), false),
		CheckBinary("ffprobe", cfg.FFprobeBinary(), false),
		CheckBinary("pandoc", cfg.Render.PandocBinary, true),
	}
	if cfg.Whisper.Mode == whisper.ModeLocal {
		results = append(results, CheckBinary("uvx", "uvx", false))
	}
	results = append(results, CheckLLM(ctx, cfg))
	return results
}

// Failed returns the first required check that did not pass, if any.
func Failed(results []Result) (Result, bool) {
	for _, result := range results {
		if !result.Passed && !result.Optional {
			return result, true
		}
	}
	return Result{}, false
}

// CheckDirectoryAccess verifies the directory exists and is usable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckBinary verifies the executable can be found on PATH.
func CheckBinary(name, command string, optional bool) Result {
	if command == "" {
		command = name
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return Result{Name: name, Optional: optional, Detail: fmt.Sprintf("%s not found on PATH", command)}
	}
	return Result{Name: name, Passed: true, Optional: optional, Detail: path}
}

// CheckLLM verifies the LLM API is reachable and the key is valid. One
// attempt, 30-second timeout; generation cannot work without it, so this
// check is required.
func CheckLLM(ctx context.Context, cfg *config.Config) Result {
	const name = "LLM API"
	if cfg.LLM.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := llm.NewClient(llm.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
	}, llm.WithRetryMaxAttempts(1))

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeLLMError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

func summarizeLLMError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (LLM API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (LLM API unreachable)"
	}
	return err.Error()
}
