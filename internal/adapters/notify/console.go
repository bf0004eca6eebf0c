package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// Console implements ports.Notifier by printing to stdout. Used when no
// push token is configured.
type Console struct {
	out io.Writer
}

// NewConsole creates a notifier that writes to stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter creates a notifier for tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// SendMessage prints the message with a timestamp.
func (c *Console) SendMessage(_ context.Context, title, body string) error {
	_, err := fmt.Fprintf(c.out, "[%s] %s: %s\n", time.Now().Format("15:04:05"), title, body)
	return err
}
