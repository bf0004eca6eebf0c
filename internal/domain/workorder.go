package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Action is the current lifecycle state of the work order.
type Action string

const (
	ActionBuy       Action = "BUY"
	ActionSell      Action = "SELL"
	ActionAwaitBuy  Action = "WFB" // waiting for a posted buy to fill
	ActionAwaitSell Action = "WFS" // waiting for a posted sell to fill
)

// NoOrderRef marks a work order with no order posted on the exchange yet.
const NoOrderRef = "NONE"

// ErrMalformedOrder indicates a record that cannot be parsed into a WorkOrder.
var ErrMalformedOrder = errors.New("malformed work order record")

// WorkOrder is the single durable record describing the trading pair's
// position in the buy/sell cycle. It is the program's only mutable business
// state and its crash-recovery anchor.
type WorkOrder struct {
	Coin     string
	Action   Action
	Fiat     string
	Price    string // decimal string; buy target in BUY/WFB, sell target in SELL/WFS
	OrderRef string // exchange order id, or NoOrderRef
}

// ParseWorkOrder parses a colon-delimited record of the form
// COIN:ACTION:FIAT:PRICE:ORDERREF. Anything other than exactly five fields
// fails with ErrMalformedOrder; no partial WorkOrder is ever returned.
func ParseWorkOrder(record string) (WorkOrder, error) {
	fields := strings.Split(record, ":")
	if len(fields) != 5 {
		return WorkOrder{}, fmt.Errorf("expected 5 fields, got %d: %w", len(fields), ErrMalformedOrder)
	}
	return WorkOrder{
		Coin:     fields[0],
		Action:   Action(fields[1]),
		Fiat:     fields[2],
		Price:    fields[3],
		OrderRef: fields[4],
	}, nil
}

// Record returns the persisted form of the work order.
func (o WorkOrder) Record() string {
	return strings.Join([]string{o.Coin, string(o.Action), o.Fiat, o.Price, o.OrderRef}, ":")
}

// Pair returns the trading pair as COIN-FIAT, e.g. "BTC-USD".
func (o WorkOrder) Pair() string {
	return o.Coin + "-" + o.Fiat
}
