// Package markers extracts image-insertion plans from LLM-marked prose and
// resolves those markers against the frames actually extracted from the
// video.
//
// The model writes references keyed by a colon-separated MM:SS stamp while
// the extractor names files with an underscore (01:30 -> 01_30.jpg). The
// Timestamp type owns both representations so callers never thread the two
// string forms independently.
package markers
