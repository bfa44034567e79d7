// Package llm wraps an OpenAI-compatible chat completion API with bounded
// retries and transient-failure backoff. The document generation calls
// (intro, polish, marker placement) all go through this client.
package llm
