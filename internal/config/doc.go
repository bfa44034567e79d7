// Package config loads and validates the videodocs TOML configuration.
//
// Configuration sections by subsystem:
//   - Paths: base directory for task workspaces and the log directory
//   - LLM: chat completion endpoint used for intro, polish, and markers
//   - Whisper: speech-to-text settings for the remote and local engines
//   - Download: yt-dlp binary and format selection
//   - Render: pandoc binary for the best-effort PDF pass
//   - Workflow: retry cap and subprocess timeouts
//   - Logging: log format and level
package config
