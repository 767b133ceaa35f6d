package mail

import "context"

// Message is a plain outbound email.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Sender delivers messages. Delivery is best effort: callers must never
// fail a committed operation because a send failed.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
