package markers

import (
	"fmt"
	"regexp"
	"strings"
)

// Timestamp is a canonical MM:SS video position. The colon form is the
// lookup key used by the frame map; the underscore form is the
// filesystem-safe name the extractor writes. Both derive from the same
// value so the two representations cannot drift apart.
type Timestamp string

var timestampPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ParseTimestamp validates a colon-separated MM:SS string.
func ParseTimestamp(value string) (Timestamp, error) {
	value = strings.TrimSpace(value)
	if !timestampPattern.MatchString(value) {
		return "", fmt.Errorf("timestamp %q: expected MM:SS", value)
	}
	return Timestamp(value), nil
}

// FromSeconds builds the timestamp for a position in seconds.
func FromSeconds(seconds float64) Timestamp {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return Timestamp(fmt.Sprintf("%02d:%02d", total/60, total%60))
}

// Key returns the colon-separated lookup key ("01:30").
func (t Timestamp) Key() string {
	return string(t)
}

// FileName returns the filesystem-safe image name ("01_30.jpg").
func (t Timestamp) FileName() string {
	return strings.ReplaceAll(string(t), ":", "_") + ".jpg"
}

// FFmpegPosition returns the seek argument for ffmpeg, which accepts the
// colon form directly.
func (t Timestamp) FFmpegPosition() string {
	return string(t)
}
