package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a task ID has no row.
var ErrNotFound = errors.New("queue: task not found")

// Store manages task persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the task database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const taskColumns = `id, url, title, status, attempt, workspace_path, video_path,
	transcript_path, markdown_path, pdf_path, image_count, error_message,
	created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (*Task, error) {
	var task Task
	var status string
	var createdAt, updatedAt string
	err := row.Scan(
		&task.ID,
		&task.URL,
		&task.Title,
		&status,
		&task.Attempt,
		&task.WorkspacePath,
		&task.VideoPath,
		&task.TranscriptPath,
		&task.MarkdownPath,
		&task.PDFPath,
		&task.ImageCount,
		&task.ErrorMessage,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	task.Status = Status(status)
	task.CreatedAt = parseStoredTime(createdAt)
	task.UpdatedAt = parseStoredTime(updatedAt)
	return &task, nil
}

func parseStoredTime(value string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05Z"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// NewTask inserts a pending task for the URL and returns it.
func (s *Store) NewTask(ctx context.Context, url string) (*Task, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("queue: url required")
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO tasks (url, status) VALUES (?, ?)", url, string(StatusPending))
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("task id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Update persists the mutable fields of a task.
func (s *Store) Update(ctx context.Context, task *Task) error {
	if task == nil {
		return errors.New("queue: nil task")
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET
			title = ?, status = ?, attempt = ?, workspace_path = ?,
			video_path = ?, transcript_path = ?, markdown_path = ?,
			pdf_path = ?, image_count = ?, error_message = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		task.Title,
		string(task.Status),
		task.Attempt,
		task.WorkspacePath,
		task.VideoPath,
		task.TranscriptPath,
		task.MarkdownPath,
		task.PDFPath,
		task.ImageCount,
		task.ErrorMessage,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task %d: %w", task.ID, err)
	}
	return nil
}

// GetByID loads one task.
func (s *Store) GetByID(ctx context.Context, id int64) (*Task, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load task %d: %w", id, err)
	}
	return task, nil
}

// List returns tasks newest first, up to limit (0 means no limit).
func (s *Store) List(ctx context.Context, limit int) ([]*Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Counts returns the number of tasks per status.
func (s *Store) Counts(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT status, COUNT(1) FROM tasks GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[Status(status)] = count
	}
	return counts, rows.Err()
}
