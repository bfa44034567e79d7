package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"videodocs/internal/logging"
	"videodocs/internal/queue"
	"videodocs/internal/services"
)

// Handler is the stage contract used by the orchestrator.
type Handler interface {
	Prepare(context.Context, *Attempt) error
	Execute(context.Context, *Attempt) error
}

type stageDef struct {
	name       string
	processing queue.Status
	done       queue.Status
	handler    Handler
}

type runOptions struct {
	logger  *slog.Logger
	store   *queue.Store
	stage   stageDef
	attempt *Attempt
}

// runStage executes one stage and applies the queue transition semantics:
// processing status before Prepare, intermediate persist between Prepare
// and Execute, done status after success, failed status on error.
func runStage(ctx context.Context, opts runOptions) error {
	if opts.stage.handler == nil {
		return fmt.Errorf("stage handler unavailable: %s", opts.stage.name)
	}
	if opts.store == nil {
		return fmt.Errorf("task store is required")
	}
	if opts.attempt == nil || opts.attempt.Task == nil {
		return fmt.Errorf("attempt is required")
	}
	task := opts.attempt.Task

	stageCtx := logging.WithStage(ctx, opts.stage.name)
	stageLogger := logging.WithContext(stageCtx, opts.logger)

	stageLogger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("processing_status", string(opts.stage.processing)),
		logging.String("url", strings.TrimSpace(task.URL)),
	)

	task.Status = opts.stage.processing
	task.ErrorMessage = ""
	if err := opts.store.Update(stageCtx, task); err != nil {
		return fmt.Errorf("persist processing transition: %w", err)
	}

	if err := opts.stage.handler.Prepare(stageCtx, opts.attempt); err != nil {
		return handleFailure(stageCtx, stageLogger, opts.store, task, err)
	}
	if err := opts.store.Update(stageCtx, task); err != nil {
		return fmt.Errorf("persist stage preparation: %w", err)
	}

	if err := opts.stage.handler.Execute(stageCtx, opts.attempt); err != nil {
		return handleFailure(stageCtx, stageLogger, opts.store, task, err)
	}

	if task.Status == opts.stage.processing || task.Status == "" {
		task.Status = opts.stage.done
	}
	if err := opts.store.Update(stageCtx, task); err != nil {
		return fmt.Errorf("persist stage result: %w", err)
	}

	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("next_status", string(task.Status)),
	)
	return nil
}

func handleFailure(ctx context.Context, logger *slog.Logger, store *queue.Store, task *queue.Task, stageErr error) error {
	message := "stage failed"
	if stageErr != nil {
		details := services.ErrorDetails(stageErr)
		if trimmed := strings.TrimSpace(details.Message); trimmed != "" {
			message = trimmed
		}
	}
	task.SetFailed(message)

	logger.Error("stage failed",
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.String("resolved_status", string(queue.StatusFailed)),
		logging.Error(stageErr),
	)
	if err := store.Update(ctx, task); err != nil {
		logger.Error("failed to persist stage failure", logging.Error(err))
	}
	return stageErr
}
