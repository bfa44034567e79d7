package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed sample_config.toml
var sampleConfig string

const (
	defaultBaseDir             = "."
	defaultLogDir              = "~/.local/share/videodocs/logs"
	defaultLLMBaseURL          = "https://api.openai.com/v1/chat/completions"
	defaultLLMTimeoutSeconds   = 120
	defaultWhisperBaseURL      = "https://api.openai.com/v1"
	defaultWhisperModel        = "whisper-1"
	defaultWhisperLocalModel   = "base"
	defaultDownloadBinary      = "yt-dlp"
	defaultDownloadMaxHeight   = 1080
	defaultDownloadTimeout     = 1800
	defaultPandocBinary        = "pandoc"
	defaultRenderTimeout       = 300
	defaultMaxAttempts         = 3
	defaultAudioTimeoutSeconds = 300
	defaultFrameTimeoutSeconds = 30
	defaultProbeTimeoutSeconds = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			BaseDir: defaultBaseDir,
			LogDir:  defaultLogDir,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Whisper: Whisper{
			BaseURL:    defaultWhisperBaseURL,
			Model:      defaultWhisperModel,
			LocalModel: defaultWhisperLocalModel,
		},
		Download: Download{
			Binary:         defaultDownloadBinary,
			MaxHeight:      defaultDownloadMaxHeight,
			TimeoutSeconds: defaultDownloadTimeout,
		},
		Render: Render{
			PandocBinary:   defaultPandocBinary,
			TimeoutSeconds: defaultRenderTimeout,
		},
		Workflow: Workflow{
			MaxAttempts:         defaultMaxAttempts,
			AudioTimeoutSeconds: defaultAudioTimeoutSeconds,
			FrameTimeoutSeconds: defaultFrameTimeoutSeconds,
			ProbeTimeoutSeconds: defaultProbeTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// WriteSample writes the embedded sample configuration to path, replacing
// any existing file. Callers that must not clobber an existing config check
// before calling (the `config init` command does).
func WriteSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
