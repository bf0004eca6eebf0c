package domain

import "time"

// Trade event names recorded in the journal.
const (
	EventPosted    = "posted"
	EventCompleted = "completed"
	EventCancelled = "cancelled"
)

// TradeEvent is one journal row: an order the cycle posted, saw complete, or
// saw cancelled. Prices and sizes are kept as the strings sent to or read
// from the exchange.
type TradeEvent struct {
	ID         string
	RecordedAt time.Time
	Coin       string
	Fiat       string
	Side       Side
	Event      string
	Price      string
	Size       string
	OrderRef   string
}

// JournalStats is the aggregate view printed by the report mode.
type JournalStats struct {
	Posted    int
	Completed int
	Cancelled int
	Buys      int
	Sells     int
	First     time.Time
	Last      time.Time
}
