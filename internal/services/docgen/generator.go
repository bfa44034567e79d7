package docgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"videodocs/internal/logging"
	"videodocs/internal/markers"
	"videodocs/internal/segment"
)

// Completer issues a free-text chat completion.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// VideoDetails carries the metadata used to write the introduction.
type VideoDetails struct {
	Title           string
	DurationSeconds float64
	Uploader        string
	URL             string
}

// Generator produces the document content for one video.
type Generator struct {
	client Completer
	logger *slog.Logger
}

// NewGenerator wires a generator to an LLM client.
func NewGenerator(client Completer, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Generator{client: client, logger: logger}
}

// Intro writes a short introduction from the video metadata.
func (g *Generator) Intro(ctx context.Context, info VideoDetails) (string, error) {
	title := strings.TrimSpace(info.Title)
	if title == "" {
		title = "unknown"
	}
	uploader := strings.TrimSpace(info.Uploader)
	if uploader == "" {
		uploader = "unknown"
	}
	prompt := fmt.Sprintf(introPrompt,
		title,
		segment.FormatTimestamp(info.DurationSeconds),
		uploader,
		info.URL,
	)
	g.logger.Info("generating video introduction", logging.String("title", title))
	intro, err := g.client.Complete(ctx, "", prompt)
	if err != nil {
		return "", fmt.Errorf("generate intro: %w", err)
	}
	return strings.TrimSpace(intro), nil
}

// Polish rewrites the merged transcript into a structured Markdown document.
func (g *Generator) Polish(ctx context.Context, segments []segment.Segment) (string, error) {
	if len(segments) == 0 {
		return "", errors.New("polish: empty transcript")
	}
	prompt := fmt.Sprintf(polishPrompt, segment.TimestampedText(segments))
	g.logger.Info("polishing transcript", logging.Int("segments", len(segments)))
	polished, err := g.client.Complete(ctx, "", prompt)
	if err != nil {
		return "", fmt.Errorf("polish transcript: %w", err)
	}
	polished = strings.TrimSpace(polished)
	if polished == "" {
		return "", errors.New("polish: empty response")
	}
	return polished, nil
}

// PlaceMarkers asks the model to insert image references into the polished
// document and extracts the resulting capture plans. A document with no
// markers is valid output.
func (g *Generator) PlaceMarkers(ctx context.Context, segments []segment.Segment, polished string) (string, []markers.Plan, error) {
	if strings.TrimSpace(polished) == "" {
		return "", nil, errors.New("place markers: empty document")
	}
	prompt := fmt.Sprintf(markersPrompt, segment.TimestampedText(segments), polished)
	g.logger.Info("placing image markers", logging.Int("segments", len(segments)))
	marked, err := g.client.Complete(ctx, "", prompt)
	if err != nil {
		return "", nil, fmt.Errorf("place markers: %w", err)
	}
	marked = strings.TrimSpace(marked)
	if marked == "" {
		return "", nil, errors.New("place markers: empty response")
	}
	plans := markers.ExtractPlans(marked)
	g.logger.Info("image markers placed", logging.Int("images", len(plans)))
	return marked, plans, nil
}
