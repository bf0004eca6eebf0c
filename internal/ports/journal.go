package ports

import (
	"context"

	"github.com/bigsaw04/mercury/internal/domain"
)

// Journal is the append-only trade history. Journal failures are never
// allowed to affect the trade cycle; callers log and move on.
type Journal interface {
	Record(ctx context.Context, event domain.TradeEvent) error

	// Events returns the most recent events, newest first.
	Events(ctx context.Context, limit int) ([]domain.TradeEvent, error)

	Stats(ctx context.Context) (domain.JournalStats, error)

	Close() error
}
