package pipeline

import (
	"context"
	"log/slog"

	"videodocs/internal/logging"
	"videodocs/internal/markers"
	"videodocs/internal/segment"
	"videodocs/internal/services"
	"videodocs/internal/services/docgen"
)

type contentGenerator interface {
	Intro(ctx context.Context, info docgen.VideoDetails) (string, error)
	Polish(ctx context.Context, segments []segment.Segment) (string, error)
	PlaceMarkers(ctx context.Context, segments []segment.Segment, polished string) (string, []markers.Plan, error)
}

// polishStage writes the introduction and rewrites the transcript into a
// structured document.
type polishStage struct {
	generator contentGenerator
	logger    *slog.Logger
}

func newPolishStage(generator contentGenerator, logger *slog.Logger) *polishStage {
	return &polishStage{generator: generator, logger: logger}
}

func (s *polishStage) Prepare(ctx context.Context, attempt *Attempt) error {
	intro, err := s.generator.Intro(ctx, docgen.VideoDetails{
		Title:           attempt.Info.Title,
		DurationSeconds: attempt.Info.Duration,
		Uploader:        attempt.Info.Uploader,
		URL:             attempt.Info.URL,
	})
	if err != nil {
		return services.Wrap(services.ErrGeneration, "polish", "intro", "", err)
	}
	attempt.Intro = intro
	return nil
}

func (s *polishStage) Execute(ctx context.Context, attempt *Attempt) error {
	polished, err := s.generator.Polish(ctx, attempt.Segments)
	if err != nil {
		return services.Wrap(services.ErrGeneration, "polish", "rewrite transcript", "", err)
	}
	attempt.Polished = polished
	return nil
}

var _ Handler = (*polishStage)(nil)

// markStage asks the model to place image references in the polished
// document and extracts the capture plans.
type markStage struct {
	generator contentGenerator
	logger    *slog.Logger
}

func newMarkStage(generator contentGenerator, logger *slog.Logger) *markStage {
	return &markStage{generator: generator, logger: logger}
}

func (s *markStage) Prepare(context.Context, *Attempt) error { return nil }

func (s *markStage) Execute(ctx context.Context, attempt *Attempt) error {
	marked, plans, err := s.generator.PlaceMarkers(ctx, attempt.Segments, attempt.Polished)
	if err != nil {
		return services.Wrap(services.ErrGeneration, "mark", "place markers", "", err)
	}
	attempt.Marked = marked
	attempt.Plans = plans
	s.logger.Info("capture plans extracted", logging.Int("plans", len(plans)))
	return nil
}

var _ Handler = (*markStage)(nil)
