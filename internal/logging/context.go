package logging

import (
	"context"
	"log/slog"

	"videodocs/internal/services"
)

const (
	// FieldComponent is the standardized key for component names.
	FieldComponent = "component"
	// FieldTaskID is the standardized key for task identifiers.
	FieldTaskID = "task_id"
	// FieldStage is the standardized key for pipeline stage names.
	FieldStage = "stage"
	// FieldCorrelationID is the standardized key for attempt correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldEventType tags lifecycle events (stage_start, stage_complete, stage_failure).
	FieldEventType = "event_type"
	// FieldErrorKind carries the classified error taxonomy kind.
	FieldErrorKind = "error_kind"
)

// WithStage annotates the context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	return services.WithStage(ctx, stage)
}

// WithTaskID annotates the context with the task identifier.
func WithTaskID(ctx context.Context, id int64) context.Context {
	return services.WithTaskID(ctx, id)
}

// WithRequestID annotates the context with the attempt correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	return services.WithRequestID(ctx, id)
}

// ContextFields extracts standardized slog attributes from the context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.TaskIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldTaskID, id))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext folds the context's standardized fields into the logger.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
