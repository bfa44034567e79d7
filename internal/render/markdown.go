package render

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"videodocs/internal/logging"
	"videodocs/internal/markers"
	"videodocs/internal/segment"
	"videodocs/internal/textutil"
)

// Document carries everything the Markdown assembly needs.
type Document struct {
	Title           string
	URL             string
	DurationSeconds float64
	Uploader        string
	Intro           string
	// Content is the marked document produced by generation; image
	// references in it are resolved against Frames.
	Content string
	Frames  markers.FrameMap
}

// WriteMarkdown assembles the document, resolves image references, and
// writes `<sanitized title>.md` into outputDir. It returns the written
// path.
func WriteMarkdown(doc Document, outputDir string, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if strings.TrimSpace(doc.Content) == "" {
		return "", fmt.Errorf("render markdown: empty content")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("render markdown: ensure output dir: %w", err)
	}

	assembled := buildHeader(doc) + doc.Content
	resolved := markers.Resolve(assembled, doc.Frames, logger)

	name := textutil.SanitizeFileName(doc.Title) + ".md"
	outputPath := filepath.Join(outputDir, name)
	if err := os.WriteFile(outputPath, []byte(resolved), 0o644); err != nil {
		return "", fmt.Errorf("render markdown: write %s: %w", name, err)
	}
	logger.Info("markdown written", logging.String("file", name))
	return outputPath, nil
}

func buildHeader(doc Document) string {
	uploader := strings.TrimSpace(doc.Uploader)
	if uploader == "" {
		uploader = "unknown"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", strings.TrimSpace(doc.Title))
	fmt.Fprintf(&b, "> Source: [%s](%s)\n", doc.URL, doc.URL)
	fmt.Fprintf(&b, "> Duration: %s\n", segment.FormatTimestamp(doc.DurationSeconds))
	fmt.Fprintf(&b, "> Uploader: %s\n\n", uploader)
	b.WriteString("---\n\n")
	if intro := strings.TrimSpace(doc.Intro); intro != "" {
		b.WriteString(intro)
		b.WriteString("\n\n---\n\n")
	}
	return b.String()
}
