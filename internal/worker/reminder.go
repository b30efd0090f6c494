package worker

// reminder.go
// Overdue sweep: flips open invoices past their due date to overdue and
// enqueues payment reminder events for invoices that stayed unpaid. Runs
// from the in-server cron schedule and from the remind CLI. Both paths are
// idempotent on invoice status; reminders themselves are not de-duplicated
// per day — each sweep run mails every qualifying invoice once.

import (
	"context"
	"time"

	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ReminderReport summarizes one sweep run.
type ReminderReport struct {
	MarkedOverdue int
	Reminders     int
	Failures      int
}

// EventDispatcher is the enqueue dependency (*Dispatcher in production).
type EventDispatcher interface {
	EnqueueEvent(ctx context.Context, eventType string, payload interface{}) error
}

// ReminderSweep marks overdue invoices and dispatches reminder events.
type ReminderSweep struct {
	invoiceRepo repository.InvoiceRepository
	dispatcher  EventDispatcher
}

func NewReminderSweep(invoiceRepo repository.InvoiceRepository, dispatcher EventDispatcher) *ReminderSweep {
	return &ReminderSweep{invoiceRepo: invoiceRepo, dispatcher: dispatcher}
}

// Run executes one sweep as of the given instant. minDays is how many days an
// invoice must be past due before a reminder goes out. In dry-run mode the
// sweep only counts — no status change, no events. A failure on one invoice
// is logged and counted; the sweep continues with the rest.
func (s *ReminderSweep) Run(ctx context.Context, asOf time.Time, minDays int, dryRun bool) ReminderReport {
	var report ReminderReport

	// Phase 1: open → overdue for everything past due. Re-running is a no-op
	// because marked invoices leave the candidate set.
	candidates, err := s.invoiceRepo.ListOverdueCandidates(ctx, asOf)
	if err != nil {
		log.Error().Err(err).Msg("reminder_sweep: failed to query overdue candidates")
		report.Failures++
	}
	for i := range candidates {
		inv := &candidates[i]
		if dryRun {
			report.MarkedOverdue++
			continue
		}
		inv.Status = model.InvoiceStatusOverdue
		if err := s.invoiceRepo.Update(ctx, inv); err != nil {
			log.Error().Err(err).Str("invoice_id", inv.ID.String()).
				Msg("reminder_sweep: failed to mark invoice overdue")
			report.Failures++
			continue
		}
		report.MarkedOverdue++
		log.Info().Str("invoice_id", inv.ID.String()).Msg("reminder_sweep: invoice marked overdue")
	}

	// Phase 2: reminder events for invoices overdue longer than minDays.
	overdue, err := s.invoiceRepo.ListOverdueOlderThan(ctx, asOf, minDays)
	if err != nil {
		log.Error().Err(err).Msg("reminder_sweep: failed to query overdue invoices")
		report.Failures++
		return report
	}
	for i := range overdue {
		inv := &overdue[i]
		// Open rows only appear in dry-run (phase 1 marks them in real runs);
		// they count as would-be reminders.
		days := 0
		if inv.DueAt != nil {
			days = int(asOf.Sub(*inv.DueAt).Hours() / 24)
		}
		if dryRun {
			report.Reminders++
			continue
		}
		payload := ReminderEventPayload{InvoiceID: inv.ID.String(), DaysOverdue: days}
		if err := s.dispatcher.EnqueueEvent(ctx, EventPaymentReminder, payload); err != nil {
			log.Error().Err(err).Str("invoice_id", inv.ID.String()).
				Msg("reminder_sweep: failed to enqueue reminder")
			report.Failures++
			continue
		}
		report.Reminders++
	}

	log.Info().
		Int("marked_overdue", report.MarkedOverdue).
		Int("reminders", report.Reminders).
		Int("failures", report.Failures).
		Bool("dry_run", dryRun).
		Msg("reminder_sweep: run finished")
	return report
}

// StartReminderCron schedules the sweep inside the server process.
// cronSpec uses standard 5-field cron syntax (default "0 8 * * *").
func StartReminderCron(ctx context.Context, sweep *ReminderSweep, cronSpec string, minDays int) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(cronSpec, func() {
		sweep.Run(ctx, time.Now(), minDays, false)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	log.Info().Str("schedule", cronSpec).Msg("reminder cron started")

	go func() {
		<-ctx.Done()
		c.Stop()
	}()
	return c, nil
}
