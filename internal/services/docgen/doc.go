// Package docgen turns a timestamped transcript into polished document
// content through three LLM calls: a short video introduction, a full
// rewrite of the transcript into Markdown, and a pass that places image
// markers at visually significant moments.
package docgen
