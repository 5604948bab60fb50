package email

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// ResendSender implements Sender using Resend
type ResendSender struct {
	client *resend.Client
	config *Config
}

// NewResendSender creates a new Resend email sender
func NewResendSender(config *Config) (*ResendSender, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	if config.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	client := resend.NewClient(config.APIKey)

	return &ResendSender{
		client: client,
		config: config,
	}, nil
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.Body,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		log.Printf("[EMAIL] Failed to send to %s: %v", msg.To, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("[EMAIL] Sent to %s (ID: %s)", msg.To, sent.Id)
	return nil
}
