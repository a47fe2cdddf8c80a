package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"homework_bot/internal/model"
	"homework_bot/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer, and every ":memory:" connection would otherwise be its own database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// RecordChange appends a status change and populates its ID.
// A zero DetectedAt is set to the current time.
func (s *SQLite) RecordChange(ctx context.Context, change *model.StatusChange) error {
	if change.DetectedAt.IsZero() {
		change.DetectedAt = time.Now()
	}
	detected := change.DetectedAt.UTC().Format(timeLayout)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO status_changes (lesson_name, status, message, detected_at) VALUES (?, ?, ?, ?)`,
		change.LessonName, string(change.Status), change.Message, detected,
	)
	if err != nil {
		return fmt.Errorf("insert status change: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	change.ID = id
	change.DetectedAt, _ = time.Parse(timeLayout, detected)
	return nil
}

// ListChanges returns up to limit most recent status changes, newest first.
func (s *SQLite) ListChanges(ctx context.Context, limit int) ([]model.StatusChange, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lesson_name, status, message, detected_at
		 FROM status_changes ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query status changes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var changes []model.StatusChange
	for rows.Next() {
		var c model.StatusChange
		var status, detected string
		if err := rows.Scan(&c.ID, &c.LessonName, &status, &c.Message, &detected); err != nil {
			return nil, fmt.Errorf("scan status change: %w", err)
		}
		c.Status = model.Status(status)
		c.DetectedAt, _ = time.Parse(timeLayout, detected)
		changes = append(changes, c)
	}
	return changes, rows.Err()
}
