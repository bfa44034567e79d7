// Package logging builds the slog loggers used across videodocs and carries
// the standardized attribute keys for stage, task, and correlation fields.
//
// Two output formats exist: a console handler for interactive sessions and a
// JSON handler for machine-readable logs. Context annotations set by the
// pipeline (stage name, task ID, request ID) are folded into every record
// via WithContext.
package logging
