package pipeline

import (
	"context"
	"log/slog"

	"videodocs/internal/logging"
	"videodocs/internal/render"
	"videodocs/internal/services"
)

type pdfRenderer interface {
	Available() bool
	Render(ctx context.Context, markdownPath string) (string, error)
}

// renderStage assembles the final Markdown document and attempts a PDF
// copy. The Markdown artifact is authoritative; PDF failures degrade the
// result without failing the attempt.
type renderStage struct {
	pdf    pdfRenderer
	logger *slog.Logger
}

func newRenderStage(pdf pdfRenderer, logger *slog.Logger) *renderStage {
	return &renderStage{pdf: pdf, logger: logger}
}

func (s *renderStage) Prepare(context.Context, *Attempt) error { return nil }

func (s *renderStage) Execute(ctx context.Context, attempt *Attempt) error {
	doc := render.Document{
		Title:           attempt.Info.Title,
		URL:             attempt.Info.URL,
		DurationSeconds: attempt.Info.Duration,
		Uploader:        attempt.Info.Uploader,
		Intro:           attempt.Intro,
		Content:         attempt.Marked,
		Frames:          attempt.Frames,
	}
	markdownPath, err := render.WriteMarkdown(doc, attempt.Workspace.OutputDir(), s.logger)
	if err != nil {
		return services.Wrap(services.ErrRender, "render", "write markdown", "", err)
	}
	attempt.MarkdownPath = markdownPath
	attempt.Task.MarkdownPath = markdownPath

	if s.pdf == nil || !s.pdf.Available() {
		s.logger.Warn("pandoc not available, skipping pdf")
		return nil
	}
	pdfPath, err := s.pdf.Render(ctx, markdownPath)
	if err != nil {
		s.logger.Warn("pdf rendering failed", logging.Error(err))
		return nil
	}
	attempt.PDFPath = pdfPath
	attempt.Task.PDFPath = pdfPath
	return nil
}

var _ Handler = (*renderStage)(nil)
