package markers

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
)

// FrameMap maps a colon-form MM:SS key to the extracted frame file on disk.
// Keys for frames the extractor failed to produce are simply absent.
type FrameMap map[string]string

// Resolve rewrites every recognized image marker in content to either a
// relative image reference or an explicit unresolved comment. Three passes
// run in order, each feeding the next:
//
//  1. legacy frame_N references are canonicalized to a zero-padded
//     three-digit index (no lookup),
//  2. canonical images/MM:SS.jpg references are looked up in frames,
//  3. inline [IMAGE: MM:SS] markers are looked up, gaining an italic
//     timestamp caption on success.
//
// Markers missing from the frame map become <!-- [IMAGE: MM:SS] --> comments
// and a warning, never a silent deletion. The frame map is not mutated.
func Resolve(content string, frames FrameMap, logger *slog.Logger) string {
	content = canonicalizeLegacyRefs(content)
	content = resolveCanonicalRefs(content, frames, logger)
	content = resolveInlineMarkers(content, frames, logger)
	return content
}

// canonicalizeLegacyRefs rewrites frame_N image references to the
// zero-padded three-digit form. Applying it twice is a no-op.
func canonicalizeLegacyRefs(content string) string {
	return legacyImagePattern.ReplaceAllStringFunc(content, func(match string) string {
		m := legacyImagePattern.FindStringSubmatch(match)
		index, err := strconv.Atoi(m[2])
		if err != nil {
			return match
		}
		return fmt.Sprintf("![%s](images/frame_%03d.jpg)", m[1], index)
	})
}

func resolveCanonicalRefs(content string, frames FrameMap, logger *slog.Logger) string {
	return canonicalImagePattern.ReplaceAllStringFunc(content, func(match string) string {
		m := canonicalImagePattern.FindStringSubmatch(match)
		desc, key := m[1], m[2]
		path, ok := frames[key]
		if !ok {
			warnUnresolved(logger, key)
			return unresolvedComment(key)
		}
		return fmt.Sprintf("![%s](images/%s)", desc, filepath.Base(path))
	})
}

func resolveInlineMarkers(content string, frames FrameMap, logger *slog.Logger) string {
	return inlineMarkerPattern.ReplaceAllStringFunc(content, func(match string) string {
		m := inlineMarkerPattern.FindStringSubmatch(match)
		key := m[1]
		// An empty capture means the comment alternative matched: the
		// marker is already an unresolved comment from an earlier pass.
		if key == "" {
			return match
		}
		path, ok := frames[key]
		if !ok {
			warnUnresolved(logger, key)
			return unresolvedComment(key)
		}
		return fmt.Sprintf("![%s](images/%s)\n*%s*", key, filepath.Base(path), key)
	})
}

// unresolvedComment keeps a machine-greppable trace of a marker whose frame
// was never extracted.
func unresolvedComment(key string) string {
	return fmt.Sprintf("<!-- [IMAGE: %s] -->", key)
}

func warnUnresolved(logger *slog.Logger, key string) {
	if logger == nil {
		return
	}
	logger.Warn("no extracted frame for timestamp", slog.String("timestamp", key))
}
