// Package session drives interactive conversion runs. A session owns the
// base-directory lock, the speech-to-text engine handle (created lazily,
// reused across every attempt and video in the session), and the bounded
// retry loop around the pipeline orchestrator.
package session
