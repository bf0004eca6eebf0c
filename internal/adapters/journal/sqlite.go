package journal

// sqlite.go — append-only trade history.
//
// One row per trade event (order posted, completed, cancelled). The journal
// is a side channel: the trade cycle keeps running if a write fails, and
// nothing in the cycle ever reads it back. The -report mode aggregates it
// for the operator.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/bigsaw04/mercury/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS trade_events (
    id          TEXT PRIMARY KEY,
    recorded_at DATETIME NOT NULL,
    coin        TEXT NOT NULL,
    fiat        TEXT NOT NULL,
    side        TEXT NOT NULL,
    event       TEXT NOT NULL,
    price       TEXT NOT NULL,
    size        TEXT NOT NULL DEFAULT '',
    order_ref   TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_events_at ON trade_events(recorded_at DESC);
`

// SQLite implements ports.Journal on a local SQLite database (pure Go, no
// CGo).
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the journal database at the given path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal.NewSQLite: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal.NewSQLite: apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Record appends one trade event, filling in the id and timestamp when the
// caller left them empty.
func (j *SQLite) Record(ctx context.Context, event domain.TradeEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.RecordedAt.IsZero() {
		event.RecordedAt = time.Now().UTC()
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO trade_events (id, recorded_at, coin, fiat, side, event, price, size, order_ref)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.RecordedAt, event.Coin, event.Fiat,
		string(event.Side), event.Event, event.Price, event.Size, event.OrderRef,
	)
	if err != nil {
		return fmt.Errorf("journal.Record: %w", err)
	}
	return nil
}

// Events returns the most recent events, newest first.
func (j *SQLite) Events(ctx context.Context, limit int) ([]domain.TradeEvent, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, recorded_at, coin, fiat, side, event, price, size, order_ref
		FROM trade_events
		ORDER BY recorded_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal.Events: %w", err)
	}
	defer rows.Close()

	var events []domain.TradeEvent
	for rows.Next() {
		var ev domain.TradeEvent
		var side string
		if err := rows.Scan(&ev.ID, &ev.RecordedAt, &ev.Coin, &ev.Fiat, &side, &ev.Event, &ev.Price, &ev.Size, &ev.OrderRef); err != nil {
			return nil, fmt.Errorf("journal.Events: scan: %w", err)
		}
		ev.Side = domain.Side(side)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Stats aggregates the journal for the report mode.
func (j *SQLite) Stats(ctx context.Context) (domain.JournalStats, error) {
	var stats domain.JournalStats

	rows, err := j.db.QueryContext(ctx, `
		SELECT event, side, COUNT(*)
		FROM trade_events
		GROUP BY event, side`)
	if err != nil {
		return stats, fmt.Errorf("journal.Stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var event, side string
		var count int
		if err := rows.Scan(&event, &side, &count); err != nil {
			return stats, fmt.Errorf("journal.Stats: scan: %w", err)
		}
		switch event {
		case domain.EventPosted:
			stats.Posted += count
		case domain.EventCompleted:
			stats.Completed += count
		case domain.EventCancelled:
			stats.Cancelled += count
		}
		switch domain.Side(side) {
		case domain.SideBuy:
			stats.Buys += count
		case domain.SideSell:
			stats.Sells += count
		}
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("journal.Stats: %w", err)
	}

	var first, last sql.NullTime
	err = j.db.QueryRowContext(ctx,
		`SELECT MIN(recorded_at), MAX(recorded_at) FROM trade_events`).Scan(&first, &last)
	if err != nil {
		return stats, fmt.Errorf("journal.Stats: range: %w", err)
	}
	if first.Valid {
		stats.First = first.Time
	}
	if last.Valid {
		stats.Last = last.Time
	}
	return stats, nil
}

// Close closes the database.
func (j *SQLite) Close() error {
	return j.db.Close()
}
