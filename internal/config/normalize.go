package config

import "strings"

// normalize expands path fields and fills zero values with defaults.
func (c *Config) normalize() error {
	var err error
	if c.Paths.BaseDir, err = expandPath(valueOr(c.Paths.BaseDir, defaultBaseDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(valueOr(c.Paths.LogDir, defaultLogDir)); err != nil {
		return err
	}

	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.BaseURL = valueOr(c.LLM.BaseURL, defaultLLMBaseURL)
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}

	c.Whisper.Mode = strings.ToLower(strings.TrimSpace(c.Whisper.Mode))
	c.Whisper.APIKey = strings.TrimSpace(c.Whisper.APIKey)
	c.Whisper.BaseURL = valueOr(c.Whisper.BaseURL, defaultWhisperBaseURL)
	c.Whisper.Model = valueOr(c.Whisper.Model, defaultWhisperModel)
	c.Whisper.LocalModel = valueOr(c.Whisper.LocalModel, defaultWhisperLocalModel)

	c.Download.Binary = valueOr(c.Download.Binary, defaultDownloadBinary)
	if c.Download.MaxHeight <= 0 {
		c.Download.MaxHeight = defaultDownloadMaxHeight
	}
	if c.Download.TimeoutSeconds <= 0 {
		c.Download.TimeoutSeconds = defaultDownloadTimeout
	}

	if c.Render.TimeoutSeconds <= 0 {
		c.Render.TimeoutSeconds = defaultRenderTimeout
	}

	if c.Workflow.MaxAttempts <= 0 {
		c.Workflow.MaxAttempts = defaultMaxAttempts
	}
	if c.Workflow.AudioTimeoutSeconds <= 0 {
		c.Workflow.AudioTimeoutSeconds = defaultAudioTimeoutSeconds
	}
	if c.Workflow.FrameTimeoutSeconds <= 0 {
		c.Workflow.FrameTimeoutSeconds = defaultFrameTimeoutSeconds
	}
	if c.Workflow.ProbeTimeoutSeconds <= 0 {
		c.Workflow.ProbeTimeoutSeconds = defaultProbeTimeoutSeconds
	}

	c.Logging.Format = valueOr(c.Logging.Format, defaultLogFormat)
	c.Logging.Level = valueOr(c.Logging.Level, defaultLogLevel)

	return nil
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
