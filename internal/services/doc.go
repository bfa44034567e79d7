// Package services defines the error taxonomy and context annotations shared
// by the external collaborators (download, transcription, LLM, frame
// extraction, rendering) and the pipeline that drives them.
package services
