// Package queue persists conversion tasks in SQLite. Each task records
// the source URL, its position in the staged workflow, and the artifact
// paths produced so far, so history survives restarts and the CLI can
// show past runs.
package queue
