// Package preflight validates the environment before a session starts:
// directory permissions, external binaries, and LLM API reachability.
// A failed required check blocks the run; optional checks only warn.
package preflight
