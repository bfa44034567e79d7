package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"videodocs/internal/config"
	"videodocs/internal/logging"
	"videodocs/internal/pipeline"
	"videodocs/internal/queue"
	"videodocs/internal/services/whisper"
	"videodocs/internal/workspace"
)

// State is the session's position in its lifecycle.
type State string

const (
	StateIdle                     State = "idle"
	StateRunningStage             State = "running_stage"
	StateAwaitingRetryDecision    State = "awaiting_retry_decision"
	StateAwaitingContinueDecision State = "awaiting_continue_decision"
	StateFinished                 State = "finished"
)

const defaultMaxAttempts = 3

// ErrLocked is returned when another session holds the base directory.
var ErrLocked = errors.New("session: base directory is locked by another instance")

type runner interface {
	Run(ctx context.Context, task *queue.Task, ws *workspace.Task, engine whisper.Engine) (*pipeline.Attempt, error)
}

type engineFactory func(cfg whisper.Config) (whisper.Engine, error)

// Session coordinates attempts across one interactive run.
type Session struct {
	cfg      *config.Config
	store    *queue.Store
	orch     runner
	logger   *slog.Logger
	prompter Prompter
	out      io.Writer

	interactive bool
	maxAttempts int

	lock *flock.Flock

	newEngine engineFactory
	engine    whisper.Engine
	mode      string

	state State
}

// Options customizes session construction.
type Options struct {
	// Prompter supplies user input; required when Interactive is set.
	Prompter Prompter
	// Out receives user-facing messages.
	Out io.Writer
	// Interactive enables retry and continue prompts.
	Interactive bool
	// EngineFactory overrides engine construction (for testing).
	EngineFactory func(cfg whisper.Config) (whisper.Engine, error)
}

// New constructs a session.
func New(cfg *config.Config, store *queue.Store, orch runner, logger *slog.Logger, opts Options) *Session {
	if logger == nil {
		logger = logging.NewNop()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	maxAttempts := cfg.Workflow.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	factory := opts.EngineFactory
	if factory == nil {
		factory = whisper.NewEngine
	}
	return &Session{
		cfg:         cfg,
		store:       store,
		orch:        orch,
		logger:      logger,
		prompter:    opts.Prompter,
		out:         out,
		interactive: opts.Interactive,
		maxAttempts: maxAttempts,
		lock:        flock.New(filepath.Join(cfg.Paths.BaseDir, ".videodocs.lock")),
		newEngine:   factory,
		mode:        cfg.Whisper.Mode,
		state:       StateIdle,
	}
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Acquire takes the base-directory lock. Two cooperating sessions never
// share a base directory; task numbering stays sequential within the lock.
func (s *Session) Acquire() error {
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("session: acquire lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	return nil
}

// Release closes the engine handle and drops the lock. Safe to call even
// when Acquire failed.
func (s *Session) Release() {
	if s.engine != nil {
		if err := s.engine.Close(); err != nil {
			s.logger.Warn("engine close failed", logging.Error(err))
		}
		s.engine = nil
	}
	if err := s.lock.Unlock(); err != nil {
		s.logger.Debug("lock release failed", logging.Error(err))
	}
	s.state = StateFinished
}

// ensureEngine creates the engine on first use. The handle is reused for
// every later attempt so a local model loads only once per session.
func (s *Session) ensureEngine() (whisper.Engine, error) {
	if s.engine != nil {
		return s.engine, nil
	}
	engine, err := s.newEngine(whisper.Config{
		Mode:       s.mode,
		APIKey:     s.cfg.Whisper.APIKey,
		BaseURL:    s.cfg.Whisper.BaseURL,
		Model:      s.cfg.Whisper.Model,
		LocalModel: s.cfg.Whisper.LocalModel,
	})
	if err != nil {
		return nil, err
	}
	s.engine = engine
	s.logger.Info("transcription engine ready", logging.String("engine", engine.Name()))
	return engine, nil
}

// ProcessURL runs the pipeline for one URL with bounded retries. Each
// retry reuses the session's engine handle but gets a fresh numbered
// workspace; partial artifacts are never reused.
func (s *Session) ProcessURL(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return errors.New("session: url required")
	}
	engine, err := s.ensureEngine()
	if err != nil {
		return fmt.Errorf("session: engine: %w", err)
	}

	task, err := s.store.NewTask(ctx, url)
	if err != nil {
		return fmt.Errorf("session: enqueue: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		task.Attempt = attempt
		task.Status = queue.StatusPending
		task.ErrorMessage = ""

		ws, err := workspace.CreateTask(s.cfg.Paths.BaseDir)
		if err != nil {
			return fmt.Errorf("session: workspace: %w", err)
		}

		s.state = StateRunningStage
		result, runErr := s.orch.Run(ctx, task, ws, engine)
		if runErr == nil {
			s.state = StateIdle
			fmt.Fprintf(s.out, "Document written: %s\n", result.MarkdownPath)
			if result.PDFPath != "" {
				fmt.Fprintf(s.out, "PDF written: %s\n", result.PDFPath)
			}
			return nil
		}
		lastErr = runErr
		s.logger.Error("attempt failed",
			logging.Int("attempt", attempt),
			logging.Error(runErr))

		if ctx.Err() != nil {
			break
		}
		if attempt == s.maxAttempts {
			fmt.Fprintf(s.out, "Giving up after %d attempts: %v\n", s.maxAttempts, runErr)
			break
		}
		if !s.askRetry(attempt, runErr) {
			break
		}
	}
	s.state = StateIdle
	return lastErr
}

func (s *Session) askRetry(attempt int, runErr error) bool {
	if !s.interactive || s.prompter == nil {
		return false
	}
	s.state = StateAwaitingRetryDecision
	fmt.Fprintf(s.out, "Attempt %d failed: %v\n", attempt, runErr)
	answer, err := s.prompter.ReadLine("Retry? [y/N]: ")
	if err != nil {
		return false
	}
	return isYes(answer)
}

// RunInteractive loops over URLs until the user quits. The transcription
// mode is chosen once at the start and carried across every video.
func (s *Session) RunInteractive(ctx context.Context) error {
	if s.prompter == nil {
		return errors.New("session: prompter required for interactive mode")
	}
	fmt.Fprintln(s.out, "videodocs: turn a video into an illustrated document")
	fmt.Fprintln(s.out, "Enter a video URL to convert, or press Enter to quit.")

	if err := s.chooseMode(); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			break
		}
		s.state = StateAwaitingContinueDecision
		url, err := s.prompter.ReadLine("URL: ")
		if err != nil {
			break
		}
		if url == "" || strings.EqualFold(url, "q") || strings.EqualFold(url, "quit") {
			break
		}
		if err := s.ProcessURL(ctx, url); err != nil {
			s.logger.Error("conversion failed", logging.Error(err))
		}
	}
	s.state = StateFinished
	return nil
}

// chooseMode asks for the speech-to-text mode when configuration leaves
// it unset.
func (s *Session) chooseMode() error {
	if s.mode != "" {
		return nil
	}
	fmt.Fprintln(s.out, "Transcription mode:")
	fmt.Fprintln(s.out, "  1) remote Whisper API (default)")
	fmt.Fprintln(s.out, "  2) local whisperx model")
	answer, err := s.prompter.ReadLine("Choose [1/2]: ")
	if err != nil {
		return err
	}
	switch strings.TrimSpace(answer) {
	case "2":
		s.mode = whisper.ModeLocal
	default:
		s.mode = whisper.ModeRemote
	}
	return nil
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
