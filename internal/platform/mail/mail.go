// Package mail provides outbound email delivery. The Sender interface is
// what the notification dispatcher consumes; SMTPSender is the production
// implementation.
package mail

import (
	"context"
	"errors"
)

// Validation errors for outbound messages.
var (
	ErrNoRecipients = errors.New("message has no recipients")
	ErrNoSender     = errors.New("message has no sender address")
)

// Message is one outbound email with both plain-text and HTML variants.
type Message struct {
	From     string
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Validate checks the message has the fields required for transmission.
func (m Message) Validate() error {
	if m.From == "" {
		return ErrNoSender
	}
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	return nil
}

// Sender defines the interface for transmitting email. Implementations
// must treat Send as a single blocking attempt with no internal retries;
// retry policy belongs to the caller.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
