package render

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"videodocs/internal/logging"
)

const defaultPandocTimeout = 120 * time.Second

// PDFRenderer converts the Markdown output into a PDF with pandoc.
type PDFRenderer struct {
	binary        string
	timeout       time.Duration
	logger        *slog.Logger
	commandRunner func(ctx context.Context, dir, name string, args ...string) error
}

// NewPDFRenderer constructs a pandoc wrapper.
func NewPDFRenderer(binary string, timeout time.Duration, logger *slog.Logger) *PDFRenderer {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "pandoc"
	}
	if timeout <= 0 {
		timeout = defaultPandocTimeout
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &PDFRenderer{binary: binary, timeout: timeout, logger: logger}
}

// WithCommandRunner sets a custom command runner (for testing).
func (r *PDFRenderer) WithCommandRunner(runner func(ctx context.Context, dir, name string, args ...string) error) {
	r.commandRunner = runner
}

// Available reports whether the pandoc binary can be found.
func (r *PDFRenderer) Available() bool {
	if r.commandRunner != nil {
		return true
	}
	_, err := exec.LookPath(r.binary)
	return err == nil
}

// Render converts markdownPath to a PDF next to it and returns the PDF
// path. Pandoc runs with the document directory as working directory so
// relative image paths resolve.
func (r *PDFRenderer) Render(ctx context.Context, markdownPath string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	dir := filepath.Dir(markdownPath)
	name := filepath.Base(markdownPath)
	pdfName := strings.TrimSuffix(name, filepath.Ext(name)) + ".pdf"
	args := []string{
		name,
		"-o", pdfName,
		"--resource-path=.:images",
		"-V", "geometry:margin=1in",
	}

	var err error
	if r.commandRunner != nil {
		err = r.commandRunner(runCtx, dir, r.binary, args...)
	} else {
		cmd := exec.CommandContext(runCtx, r.binary, args...)
		cmd.Dir = dir
		var output []byte
		if output, err = cmd.CombinedOutput(); err != nil {
			err = fmt.Errorf("%s: %w: %s", r.binary, err, strings.TrimSpace(string(output)))
		}
	}
	if err != nil {
		return "", fmt.Errorf("render pdf: %w", err)
	}

	pdfPath := filepath.Join(dir, pdfName)
	r.logger.Info("pdf written", logging.String("file", pdfName))
	return pdfPath, nil
}
