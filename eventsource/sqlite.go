package eventsource

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a durable Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite-backed store at the given
// path. Use ":memory:" for an in-process database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("eventsource: open database: %w", err)
	}

	// Serialize writers at the connection level; SQLite allows only one
	// writer per database anyway.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("eventsource: migrate: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	PRAGMA journal_mode = WAL;
	PRAGMA synchronous = NORMAL;

	CREATE TABLE IF NOT EXISTS events (
		id        TEXT NOT NULL,
		stream_id TEXT NOT NULL,
		type      TEXT NOT NULL,
		version   INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		data      TEXT,
		PRIMARY KEY (stream_id, version)
	);

	CREATE INDEX IF NOT EXISTS idx_events_stream ON events(stream_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append implements Store.
func (s *SQLiteStore) Append(ctx context.Context, streamID string, expectedVersion int, events []*Event) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("eventsource: begin append: %w", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), -1) FROM events WHERE stream_id = ?`, streamID,
	).Scan(&current)
	if err != nil {
		return 0, fmt.Errorf("eventsource: read stream version: %w", err)
	}

	if current != expectedVersion {
		return 0, fmt.Errorf("%w: stream %s is at version %d, expected %d",
			ErrVersionConflict, streamID, current, expectedVersion)
	}

	version := current
	for _, event := range events {
		version++
		var data any
		if len(event.Data) > 0 {
			data = string(event.Data)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO events (id, stream_id, type, version, timestamp, data)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			event.ID, streamID, event.Type, version,
			event.Timestamp.UTC().Format(time.RFC3339Nano), data,
		)
		if err != nil {
			return 0, fmt.Errorf("eventsource: insert event: %w", err)
		}
		event.StreamID = streamID
		event.Version = version
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("eventsource: commit append: %w", err)
	}
	return version, nil
}

// Read implements Store.
func (s *SQLiteStore) Read(ctx context.Context, streamID string, fromVersion int) ([]*Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, stream_id, type, version, timestamp, data
		 FROM events
		 WHERE stream_id = ? AND version >= ?
		 ORDER BY version`,
		streamID, fromVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("eventsource: query stream: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			event Event
			ts    string
			data  sql.NullString
		)
		if err := rows.Scan(&event.ID, &event.StreamID, &event.Type, &event.Version, &ts, &data); err != nil {
			return nil, fmt.Errorf("eventsource: scan event: %w", err)
		}
		event.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("eventsource: parse timestamp: %w", err)
		}
		if data.Valid {
			event.Data = json.RawMessage(data.String)
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("eventsource: iterate stream: %w", err)
	}

	if events == nil {
		var n int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM events WHERE stream_id = ?`, streamID,
		).Scan(&n); err != nil {
			return nil, fmt.Errorf("eventsource: check stream: %w", err)
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: %s", ErrStreamNotFound, streamID)
		}
	}

	return events, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
