package ports

import "context"

// Notifier pushes a message to the operator. Fire-and-forget: delivery
// failures are logged by the caller and never affect trading state.
type Notifier interface {
	SendMessage(ctx context.Context, title, body string) error
}
