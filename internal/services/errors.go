package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers classifying attempt failures. Stage code wraps its errors
// with one of these so the pipeline can branch on errors.Is without parsing
// messages.
var (
	// ErrAcquisition covers metadata fetch and download failures.
	ErrAcquisition = errors.New("acquisition failure")
	// ErrTranscription marks an engine that produced no usable segments.
	ErrTranscription = errors.New("transcription failure")
	// ErrGeneration marks LLM call failures.
	ErrGeneration = errors.New("generation failure")
	// ErrExtraction marks a frame-extraction shortfall. Partial or zero
	// frames degrade the document but never fail the attempt.
	ErrExtraction = errors.New("extraction shortfall")
	// ErrRender marks a Markdown write failure. PDF failures are reported
	// separately and tolerated.
	ErrRender = errors.New("render failure")
	// ErrConfiguration marks missing or invalid configuration detected
	// before any stage runs.
	ErrConfiguration = errors.New("configuration error")
	// ErrExternalTool marks a subprocess that exited abnormally.
	ErrExternalTool = errors.New("external tool error")
	// ErrTimeout marks a subprocess killed after exceeding its deadline.
	ErrTimeout = errors.New("timeout")
)

// Wrap builds an error carrying stage context, tagged with the provided
// marker for later classification.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether an error ends the current attempt. Extraction
// shortfalls are explicitly tolerated; everything else is fatal to the
// attempt (not to the process).
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrExtraction)
}

// Details carries the decomposed pieces of a wrapped stage error.
type Details struct {
	Kind    error
	Message string
	Cause   error
}

// ErrorDetails classifies err against the sentinel markers and extracts a
// display message.
func ErrorDetails(err error) Details {
	d := Details{Cause: err}
	if err == nil {
		return d
	}
	for _, marker := range []error{
		ErrAcquisition,
		ErrTranscription,
		ErrGeneration,
		ErrExtraction,
		ErrRender,
		ErrConfiguration,
		ErrTimeout,
		ErrExternalTool,
	} {
		if errors.Is(err, marker) {
			d.Kind = marker
			break
		}
	}
	d.Message = strings.TrimSpace(err.Error())
	if d.Kind != nil {
		d.Message = strings.TrimSpace(strings.TrimPrefix(d.Message, d.Kind.Error()+":"))
	}
	return d
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
