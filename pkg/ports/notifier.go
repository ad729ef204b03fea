package ports

import "context"

// Notifier delivers a message to a recipient.
// Implementations must honor ctx cancellation and must not retry on their own.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}
