package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"videodocs/internal/config"
	"videodocs/internal/download"
	"videodocs/internal/logging"
	"videodocs/internal/media"
	"videodocs/internal/queue"
	"videodocs/internal/render"
	"videodocs/internal/services"
	"videodocs/internal/services/docgen"
	"videodocs/internal/services/whisper"
	"videodocs/internal/workspace"
)

// Orchestrator runs the six-stage pipeline for one task. Stages are
// ordered and non-skippable; the transcription engine is supplied per run
// so a session can reuse one engine across attempts.
type Orchestrator struct {
	store  *queue.Store
	logger *slog.Logger

	source videoSource
	audio  audioExtractor
	frames frameExtractor
	prober durationProber
	gen    contentGenerator
	pdf    pdfRenderer
}

// NewOrchestrator wires the pipeline's collaborators from configuration.
func NewOrchestrator(cfg *config.Config, store *queue.Store, generator *docgen.Generator, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	ffmpeg := media.NewFFmpeg(media.Options{
		FFmpegBinary: cfg.FFmpegBinary(),
		AudioTimeout: time.Duration(cfg.Workflow.AudioTimeoutSeconds) * time.Second,
		FrameTimeout: time.Duration(cfg.Workflow.FrameTimeoutSeconds) * time.Second,
	}, logger)
	return &Orchestrator{
		store:  store,
		logger: logger,
		source: download.NewDownloader(download.Options{
			Binary:    cfg.Download.Binary,
			MaxHeight: cfg.Download.MaxHeight,
			Timeout:   time.Duration(cfg.Download.TimeoutSeconds) * time.Second,
		}, logger),
		audio:  ffmpeg,
		frames: ffmpeg,
		prober: media.NewProber(cfg.FFprobeBinary(), time.Duration(cfg.Workflow.ProbeTimeoutSeconds)*time.Second),
		gen:    generator,
		pdf:    render.NewPDFRenderer(cfg.Render.PandocBinary, time.Duration(cfg.Render.TimeoutSeconds)*time.Second, logger),
	}
}

func (o *Orchestrator) stages(engine whisper.Engine) []stageDef {
	return []stageDef{
		{
			name:       "download",
			processing: queue.StatusDownloading,
			done:       queue.StatusDownloaded,
			handler:    newDownloadStage(o.source, o.prober, o.logger),
		},
		{
			name:       "transcribe",
			processing: queue.StatusTranscribing,
			done:       queue.StatusTranscribed,
			handler:    newTranscribeStage(o.audio, engine, o.logger),
		},
		{
			name:       "polish",
			processing: queue.StatusPolishing,
			done:       queue.StatusPolished,
			handler:    newPolishStage(o.gen, o.logger),
		},
		{
			name:       "mark",
			processing: queue.StatusMarking,
			done:       queue.StatusMarked,
			handler:    newMarkStage(o.gen, o.logger),
		},
		{
			name:       "extract",
			processing: queue.StatusExtracting,
			done:       queue.StatusExtracted,
			handler:    newExtractStage(o.frames, o.logger),
		},
		{
			name:       "render",
			processing: queue.StatusRendering,
			done:       queue.StatusCompleted,
			handler:    newRenderStage(o.pdf, o.logger),
		},
	}
}

// Run executes one attempt for the task inside the given workspace using
// the supplied transcription engine. A panic in any stage is recovered
// and reported as a failure of the attempt, never of the process.
func (o *Orchestrator) Run(ctx context.Context, task *queue.Task, ws *workspace.Task, engine whisper.Engine) (attempt *Attempt, err error) {
	attempt = &Attempt{
		Task:      task,
		Workspace: ws,
		RequestID: uuid.NewString(),
	}
	task.WorkspacePath = ws.Root

	runCtx := services.WithTaskID(ctx, task.ID)
	runCtx = services.WithRequestID(runCtx, attempt.RequestID)
	logger := logging.WithContext(runCtx, o.logger)

	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("pipeline panic",
				logging.Any("panic", recovered),
				logging.String("stack", string(debug.Stack())))
			err = fmt.Errorf("attempt panicked: %v", recovered)
			task.SetFailed(err.Error())
			if updateErr := o.store.Update(runCtx, task); updateErr != nil {
				logger.Error("failed to persist panic failure", logging.Error(updateErr))
			}
		}
	}()

	logger.Info("attempt started",
		logging.Int("attempt", task.Attempt),
		logging.String("url", task.URL))

	for _, stage := range o.stages(engine) {
		if err := runStage(runCtx, runOptions{
			logger:  o.logger,
			store:   o.store,
			stage:   stage,
			attempt: attempt,
		}); err != nil {
			return attempt, err
		}
	}

	logger.Info("attempt completed",
		logging.String("markdown", attempt.MarkdownPath),
		logging.Int("images", len(attempt.Frames)))
	return attempt, nil
}
