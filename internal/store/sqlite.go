package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jasonisamilehigh/taskme/internal/task"
)

// SQLiteStore keeps tasks in a local SQLite database. It serves the
// same row contract as the sheet backend, for development and for
// running without Google credentials.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			text TEXT NOT NULL,
			priority TEXT NOT NULL,
			status TEXT NOT NULL,
			due_date TEXT,
			created_at DATETIME NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// List returns all tasks in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT text, priority, status, due_date
		FROM tasks
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []task.Task
	i := 0
	for rows.Next() {
		var text, priority, status string
		var due sql.NullString
		if err := rows.Scan(&text, &priority, &status, &due); err != nil {
			return nil, err
		}
		if strings.TrimSpace(status) == "" {
			status = task.DefaultStatus
		}
		// Row numbering matches the sheet layout: data from row 2.
		tasks = append(tasks, task.Task{
			Text:     text,
			Priority: task.ParsePriority(priority),
			Status:   status,
			DueDate:  due.String,
			Row:      i + 2,
		})
		i++
	}
	return tasks, rows.Err()
}

// Append inserts the draft as a new task row.
func (s *SQLiteStore) Append(ctx context.Context, d task.Draft) error {
	status := d.Status
	if strings.TrimSpace(status) == "" {
		status = task.DefaultStatus
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (text, priority, status, due_date, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, d.Text, d.Priority.String(), status, d.DueDate, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}
