// Package whisper turns an extracted audio file into timestamped
// transcript segments. Two engines implement the same interface: a remote
// engine that calls an OpenAI-compatible transcription API, and a local
// engine that runs whisperx through uvx. Callers hold one engine for the
// lifetime of a session so the local model loads once.
package whisper
