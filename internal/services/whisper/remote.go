package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"videodocs/internal/segment"
)

const (
	defaultRemoteBaseURL = "https://api.openai.com/v1"
	defaultRemoteModel   = "whisper-1"
	defaultRemoteTimeout = 10 * time.Minute
)

// RemoteEngine transcribes audio through an OpenAI-compatible
// /audio/transcriptions endpoint.
type RemoteEngine struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewRemoteEngine constructs a remote engine from the shared config.
func NewRemoteEngine(cfg Config) *RemoteEngine {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultRemoteBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultRemoteModel
	}
	return &RemoteEngine{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: defaultRemoteTimeout},
	}
}

// WithHTTPClient overrides the HTTP client (for testing).
func (e *RemoteEngine) WithHTTPClient(client *http.Client) {
	if client != nil {
		e.httpClient = client
	}
}

// Name implements Engine.
func (e *RemoteEngine) Name() string { return "whisper-api" }

// Close implements Engine. The remote engine holds no persistent state.
func (e *RemoteEngine) Close() error { return nil }

type verboseTranscription struct {
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Transcribe uploads the audio file and parses the verbose_json response.
func (e *RemoteEngine) Transcribe(ctx context.Context, audioPath string) ([]segment.Segment, error) {
	if e.apiKey == "" {
		return nil, errors.New("whisper api: api key required")
	}
	audio, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("whisper api: open audio: %w", err)
	}
	defer audio.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("whisper api: build form: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, fmt.Errorf("whisper api: copy audio: %w", err)
	}
	fields := [][2]string{
		{"model", e.model},
		{"response_format", "verbose_json"},
		{"timestamp_granularities[]", "segment"},
	}
	for _, field := range fields {
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return nil, fmt.Errorf("whisper api: write field %s: %w", field[0], err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("whisper api: finish form: %w", err)
	}

	endpoint := e.baseURL + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("whisper api: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper api: http error: %w", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("whisper api: read response: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("whisper api: http %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var decoded verboseTranscription
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("whisper api: decode response: %w", err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("whisper api: %s", strings.TrimSpace(decoded.Error.Message))
	}

	segments := make([]segment.Segment, 0, len(decoded.Segments))
	for _, seg := range decoded.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, segment.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
		})
	}
	if len(segments) == 0 {
		return nil, errors.New("whisper api: transcription returned no segments")
	}
	return segments, nil
}
