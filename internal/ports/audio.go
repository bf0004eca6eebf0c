package ports

import "context"

// Cue names played on completed trades.
const (
	CueBuyComplete  = "buy-complete"
	CueSellComplete = "sell-complete"
)

// CuePlayer plays a short audio cue. A failure to play is logged by the
// caller, never surfaced to the trade cycle.
type CuePlayer interface {
	PlayCue(ctx context.Context, name string) error
}
