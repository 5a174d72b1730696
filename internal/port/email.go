package port

import "context"

// EmailSender delivers the batch summary report.
type EmailSender interface {
	SendBatchSummary(ctx context.Context, toEmail, subject, body string) error
}
