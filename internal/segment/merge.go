package segment

import "strings"

// MergeOptions holds the duration and gap thresholds for the merge sweep.
type MergeOptions struct {
	// MinDuration is the span length below which a segment always tries to
	// absorb its successor.
	MinDuration float64
	// MaxDuration caps the combined length of a gap-based merge.
	MaxDuration float64
	// MergeGap is the largest silence between two spans that still allows a
	// gap-based merge.
	MergeGap float64
}

// DefaultMergeOptions are the thresholds used by the transcription stage.
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{MinDuration: 8, MaxDuration: 20, MergeGap: 0.5}
}

// endPunctuation holds the sentence-final marks that stop a merge. Both the
// CJK fullwidth and ASCII variants appear in real transcripts.
const endPunctuation = "。！？.!?"

// Merge combines adjacent segments under the duration/gap rules. The input
// order is preserved and never mutated; merged spans are new values covering
// [current.Start, next.End] with texts joined by a single space.
//
// A segment is merged into the accumulator when it is shorter than
// MinDuration, or when the gap to the next segment is at most MergeGap and
// the combined span stays under MaxDuration. A completed sentence (text
// ending in 。！？.!?) is never glued to the next span, whatever the
// durations say.
func Merge(segments []Segment, opts MergeOptions) []Segment {
	if len(segments) == 0 {
		return nil
	}

	merged := make([]Segment, 0, len(segments))
	current := segments[0]

	for _, next := range segments[1:] {
		gap := next.Start - current.End
		combined := next.End - current.Start

		shouldMerge := current.Duration() < opts.MinDuration ||
			(gap <= opts.MergeGap && combined < opts.MaxDuration)

		if endsSentence(current.Text) {
			shouldMerge = false
		}

		if shouldMerge {
			current = Segment{
				Start: current.Start,
				End:   next.End,
				Text:  current.Text + " " + next.Text,
			}
		} else {
			merged = append(merged, current)
			current = next
		}
	}

	return append(merged, current)
}

// endsSentence reports whether trimmed text ends in a sentence-final mark.
// Empty or whitespace-only text never does.
func endsSentence(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	runes := []rune(trimmed)
	return strings.ContainsRune(endPunctuation, runes[len(runes)-1])
}
