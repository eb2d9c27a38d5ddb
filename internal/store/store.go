// Package store persists a log of handled messages in SQLite. The log is
// operational, not functional: lookups never read from it, and the bot works
// with logging disabled.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// MessageLog records one row per handled inbound message.
type MessageLog struct {
	db     *sql.DB
	logger *slog.Logger
}

// Entry is one handled message.
type Entry struct {
	ID        string
	Channel   string
	Body      string
	Command   string // parsed command kind
	Outcome   string // found | not_found | help | unknown | error
	ReplyLen  int
	CreatedAt time.Time
}

func Open(dbPath string, logger *slog.Logger) (*MessageLog, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	// Single connection; SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	log := &MessageLog{db: db, logger: logger}
	if err := log.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	return log, nil
}

func (l *MessageLog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS messages (
		id         TEXT PRIMARY KEY,
		channel    TEXT NOT NULL,
		body       TEXT,
		command    TEXT NOT NULL,
		outcome    TEXT NOT NULL,
		reply_len  INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_messages_time ON messages(created_at);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Record appends one entry. A zero ID or timestamp is filled in.
func (l *MessageLog) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO messages (id, channel, body, command, outcome, reply_len, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Channel, e.Body, e.Command, e.Outcome, e.ReplyLen, e.CreatedAt,
	)
	return err
}

// Recent returns the newest entries, newest first.
func (l *MessageLog) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, channel, body, command, outcome, reply_len, created_at
		 FROM messages ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Channel, &e.Body, &e.Command, &e.Outcome, &e.ReplyLen, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes entries older than the retention window and returns the
// number removed.
func (l *MessageLog) Prune(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	res, err := l.db.ExecContext(ctx, `DELETE FROM messages WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// StartPruner runs Prune once a day until the context is cancelled.
func (l *MessageLog) StartPruner(ctx context.Context, retentionDays int) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := l.Prune(ctx, retentionDays)
			if err != nil {
				l.logger.Error("message log prune failed", "err", err)
			} else if n > 0 {
				l.logger.Info("message log pruned", "removed", n)
			}
		}
	}
}

func (l *MessageLog) Close() error {
	return l.db.Close()
}
