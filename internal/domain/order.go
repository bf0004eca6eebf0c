package domain

// Side of an exchange order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// OrderKind is the order type posted to the exchange. Only limit orders are
// used; the cycle always names its price.
type OrderKind string

const KindLimit OrderKind = "limit"

// OrderStatus is the exchange's verdict on a posted or polled order. It is
// the single input to the cycle's retry policy: every failure mode the
// exchange can report maps to exactly one status, and every status has a
// fixed next delay (or stops the cycle).
type OrderStatus int

const (
	// StatusUnknown covers unrecognized post/poll failures; retried shortly.
	StatusUnknown OrderStatus = iota
	StatusInProgress
	StatusCompleted
	StatusCancelled
	StatusNetworkError
	StatusInsufficientFunds
	StatusFatal
)

func (s OrderStatus) String() string {
	switch s {
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusNetworkError:
		return "network_error"
	case StatusInsufficientFunds:
		return "insufficient_funds"
	case StatusFatal:
		return "fatal_error"
	default:
		return "unknown"
	}
}
