// Package media shells out to ffmpeg and ffprobe for the audio and frame
// work the pipeline needs: extracting a mono 16kHz audio track for
// transcription, capturing still frames at planned timestamps, and probing
// container duration.
package media
