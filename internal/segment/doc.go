// Package segment models timestamped transcript spans and the rule-based
// merging that turns raw speech-recognition output into paragraph-sized
// pieces.
//
// Merging is a single left-to-right sweep: a span is glued to its successor
// when it is shorter than the minimum duration, or when the gap between the
// two is small and the combined span stays under the maximum duration. A
// span whose text already ends in sentence-final punctuation is never the
// left half of a merge.
package segment
