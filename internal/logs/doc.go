// Package logs provides bounded-memory log file tailing for the CLI.
//
// It supports a negative offset for "last N lines" reads and a follow mode
// that polls for appended lines until the caller's context is done. The
// `videodocs logs` command is the only consumer; conversion stages write to
// the same file through the logging package.
package logs
