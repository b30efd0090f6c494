package worker

// email_worker.go
// Processes email jobs from QueueEmail: SMTP delivery with up to
// MaxEmailAttempts tries, then DLQ.

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path,omitempty"`
}

// MailSender is the delivery dependency (infra.Mailer in production).
type MailSender interface {
	Send(to, subject, body, pdfPath string) error
}

// EmailWorker processes email jobs from QueueEmail.
type EmailWorker struct {
	sender MailSender
	rdb    *redis.Client
}

// NewEmailWorker creates an EmailWorker with the provided SMTP mailer.
func NewEmailWorker(sender MailSender, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{sender: sender, rdb: rdb}
}

// Process delivers one mail. Exhausted retries park the job in the DLQ so an
// SMTP outage never loses a notification.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return
	}

	err := withRetry(ctx, MaxEmailAttempts, func(attempt int) error {
		if err := w.sender.Send(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath); err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).Str("to", payload.ToEmail).
				Msg("email_worker: send attempt failed")
			return err
		}
		return nil
	})
	if err != nil {
		if w.rdb != nil {
			SendToDLQ(ctx, w.rdb, QueueEmail, "email", raw, err.Error(), MaxEmailAttempts)
		}
		return
	}
	log.Info().Str("to", payload.ToEmail).Str("subject", payload.Subject).Msg("email_worker: mail sent")
}
