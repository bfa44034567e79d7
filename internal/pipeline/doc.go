// Package pipeline drives one conversion attempt through its six ordered
// stages: download, transcribe, polish, mark, extract frames, render.
// Each stage persists a processing and a done status to the task store so
// a crash leaves an accurate record of how far the attempt got. Stages
// are non-skippable; the first failed stage aborts the attempt.
package pipeline
