package noop

import (
	"context"
	"log"

	"docbridge/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs summaries to stdout.
// Used in development and whenever no recipient is configured.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendBatchSummary(_ context.Context, toEmail, subject, body string) error {
	log.Printf("[NOOP EMAIL] Batch summary for %s: %s\n%s", toEmail, subject, body)
	return nil
}
