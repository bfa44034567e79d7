package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Paths contains directory configuration.
type Paths struct {
	// BaseDir is where numbered task_N workspaces are created.
	BaseDir string `toml:"base_dir"`
	LogDir  string `toml:"log_dir"`
}

// LLM contains the chat completion connection settings. All three document
// generation calls (intro, polish, marker placement) go through this
// endpoint. These credentials are a pre-flight fatal requirement.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Whisper contains speech-to-text settings. Mode selects the engine once
// per session; the remote engine needs its own endpoint credentials
// (separate from the LLM), the local engine runs a whisper CLI.
type Whisper struct {
	// Mode is "remote", "local", or "" to prompt interactively.
	Mode    string `toml:"mode"`
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
	// LocalModel is the model name passed to the local whisper CLI.
	LocalModel string `toml:"local_model"`
}

// Download contains yt-dlp settings.
type Download struct {
	Binary string `toml:"binary"`
	// MaxHeight caps the requested video resolution.
	MaxHeight int `toml:"max_height"`
	// TimeoutSeconds bounds the whole download call.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Render contains document rendering settings. PDF generation is
// best-effort; an empty pandoc binary name disables it.
type Render struct {
	PandocBinary   string `toml:"pandoc_binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Workflow contains retry and subprocess timing settings.
type Workflow struct {
	// MaxAttempts caps automatic retries for one URL.
	MaxAttempts int `toml:"max_attempts"`
	// AudioTimeoutSeconds bounds the ffmpeg audio extraction subprocess.
	AudioTimeoutSeconds int `toml:"audio_timeout_seconds"`
	// FrameTimeoutSeconds bounds each per-frame ffmpeg invocation.
	FrameTimeoutSeconds int `toml:"frame_timeout_seconds"`
	// ProbeTimeoutSeconds bounds ffprobe metadata calls.
	ProbeTimeoutSeconds int `toml:"probe_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for videodocs.
type Config struct {
	Paths    Paths    `toml:"paths"`
	LLM      LLM      `toml:"llm"`
	Whisper  Whisper  `toml:"whisper"`
	Download Download `toml:"download"`
	Render   Render   `toml:"render"`
	Workflow Workflow `toml:"workflow"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/videodocs/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file was actually found.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("videodocs.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the base and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.BaseDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
