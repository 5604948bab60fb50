package email

import (
	"context"
	"log"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a single message. The sequence processor treats a returned
// error as a delivery failure for that step only.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config holds delivery configuration.
type Config struct {
	APIKey    string
	FromName  string
	FromEmail string
}

// LogSender logs instead of delivering. Used when email is disabled so the
// sequence processor still advances state in development.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	log.Printf("[EMAIL] delivery disabled, would send to %s: %q", msg.To, msg.Subject)
	return nil
}
