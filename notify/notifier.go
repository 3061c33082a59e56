// Package notify delivers customer notifications over email and WhatsApp.
// Callers treat delivery as best effort.
package notify

import "context"

type Message struct {
	Subject string
	Body    string
}

type Notifier interface {
	Send(ctx context.Context, to string, msg Message) error
}

// Nop drops every message. Used when a channel is not configured.
type Nop struct{}

func (Nop) Send(context.Context, string, Message) error { return nil }
