package worker

// notification_worker.go
// Turns domain events into customer mails. Each handler reloads the entity
// from the database so the rendered mail reflects current data, composes the
// German text, and enqueues an email job. Handler failures are logged with
// the entity id and swallowed — the operation that raised the event already
// committed.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wlmost/dog-school-app-sub001/internal/billing"
	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MailEnqueuer is the outbound side of the pipeline (*Dispatcher in
// production).
type MailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload interface{}) error
}

// NotificationWorker processes domain events from QueueNotification.
type NotificationWorker struct {
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
	dispatcher  MailEnqueuer
}

func NewNotificationWorker(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	dispatcher MailEnqueuer,
) *NotificationWorker {
	return &NotificationWorker{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
	}
}

// Process routes one event to its handler.
func (w *NotificationWorker) Process(ctx context.Context, eventType string, raw json.RawMessage) {
	switch eventType {
	case EventInvoiceCreated:
		w.handleInvoiceEvent(ctx, raw, w.composeInvoiceCreated)
	case EventInvoicePaid:
		w.handleInvoiceEvent(ctx, raw, w.composeInvoicePaid)
	case EventBookingCreated:
		w.handleBookingCreated(ctx, raw)
	case EventUserRegistered:
		w.handleUserRegistered(ctx, raw)
	case EventPaymentReminder:
		w.handlePaymentReminder(ctx, raw)
	default:
		log.Warn().Str("type", eventType).Msg("notification_worker: unknown event type")
	}
}

func (w *NotificationWorker) handleInvoiceEvent(ctx context.Context, raw json.RawMessage, compose func(*model.Invoice) EmailJobPayload) {
	inv, ok := w.loadInvoice(ctx, raw)
	if !ok {
		return
	}
	mail := compose(inv)
	mail.ToEmail = invoiceRecipient(inv)
	w.enqueueMail(ctx, mail, "invoice_id", inv.ID.String())
}

func (w *NotificationWorker) composeInvoiceCreated(inv *model.Invoice) EmailJobPayload {
	number := ""
	if inv.Number != nil {
		number = *inv.Number
	}
	mail := EmailJobPayload{
		Subject: fmt.Sprintf("Ihre Rechnung %s", number),
		Body: fmt.Sprintf(
			"Guten Tag,\n\nanbei erhalten Sie Ihre Rechnung %s über %s EUR.\n\nVielen Dank und viele Grüße\nIhre Hundeschule",
			number, inv.TotalGross.StringFixed(2)),
	}
	if inv.PDFPath != nil {
		mail.PDFPath = *inv.PDFPath
	}
	return mail
}

func (w *NotificationWorker) composeInvoicePaid(inv *model.Invoice) EmailJobPayload {
	number := ""
	if inv.Number != nil {
		number = *inv.Number
	}
	return EmailJobPayload{
		Subject: fmt.Sprintf("Zahlungseingang zu Rechnung %s", number),
		Body: fmt.Sprintf(
			"Guten Tag,\n\nwir haben Ihre Zahlung zu Rechnung %s erhalten. Vielen Dank!\n\nViele Grüße\nIhre Hundeschule",
			number),
	}
}

func (w *NotificationWorker) handleBookingCreated(ctx context.Context, raw json.RawMessage) {
	var payload BookingEventPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid booking payload")
		return
	}
	id, err := uuid.Parse(payload.BookingID)
	if err != nil {
		log.Error().Str("booking_id", payload.BookingID).Msg("notification_worker: invalid booking id")
		return
	}
	booking, err := w.bookingRepo.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("booking_id", payload.BookingID).Msg("notification_worker: booking not found")
		return
	}

	courseName := ""
	when := ""
	if booking.Session != nil {
		when = booking.Session.StartsAt.Format("02.01.2006 15:04")
		if booking.Session.Course != nil {
			courseName = booking.Session.Course.Name
		}
	}
	dogName := ""
	if booking.Dog != nil {
		dogName = booking.Dog.Name
	}

	mail := EmailJobPayload{
		Subject: "Buchungsbestätigung — " + courseName,
		Body: fmt.Sprintf(
			"Guten Tag,\n\nIhre Buchung für %s mit %s am %s ist bestätigt.\n\nViele Grüße\nIhre Hundeschule",
			courseName, dogName, when),
	}
	if booking.Customer != nil && booking.Customer.User != nil {
		mail.ToEmail = booking.Customer.User.Email
	}
	w.enqueueMail(ctx, mail, "booking_id", booking.ID.String())
}

func (w *NotificationWorker) handleUserRegistered(ctx context.Context, raw json.RawMessage) {
	var payload UserEventPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid user payload")
		return
	}
	id, err := uuid.Parse(payload.UserID)
	if err != nil {
		log.Error().Str("user_id", payload.UserID).Msg("notification_worker: invalid user id")
		return
	}
	user, err := w.userRepo.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("user_id", payload.UserID).Msg("notification_worker: user not found")
		return
	}

	mail := EmailJobPayload{
		ToEmail: user.Email,
		Subject: "Willkommen bei Ihrer Hundeschule",
		Body: fmt.Sprintf(
			"Hallo %s,\n\nIhr Konto wurde erfolgreich angelegt. Wir freuen uns auf Sie und Ihren Hund!\n\nViele Grüße\nIhre Hundeschule",
			user.Name),
	}
	w.enqueueMail(ctx, mail, "user_id", user.ID.String())
}

func (w *NotificationWorker) handlePaymentReminder(ctx context.Context, raw json.RawMessage) {
	var payload ReminderEventPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid reminder payload")
		return
	}
	inv, ok := w.loadInvoice(ctx, []byte(fmt.Sprintf(`{"invoice_id":%q}`, payload.InvoiceID)))
	if !ok {
		return
	}
	// The sweep enqueues by candidate list; re-check the status after reload
	// so an invoice paid in the meantime gets no reminder.
	if inv.Status != model.InvoiceStatusOverdue {
		log.Info().Str("invoice_id", inv.ID.String()).Str("status", inv.Status).
			Msg("notification_worker: invoice no longer overdue, skipping reminder")
		return
	}

	number := ""
	if inv.Number != nil {
		number = *inv.Number
	}
	// Dun for the remaining balance, not the gross total — the invoice may be
	// partially paid. If the ledger is unreadable, fall back to the gross.
	open := inv.TotalGross
	if paid, err := w.paymentRepo.SumCompleted(ctx, inv.ID); err == nil {
		open = billing.RemainingBalance(inv.TotalGross, paid)
	} else {
		log.Warn().Err(err).Str("invoice_id", inv.ID.String()).
			Msg("notification_worker: ledger sum failed, reminder uses gross total")
	}
	mail := EmailJobPayload{
		ToEmail: invoiceRecipient(inv),
		Subject: fmt.Sprintf("Zahlungserinnerung — Rechnung %s", number),
		Body: fmt.Sprintf(
			"Guten Tag,\n\nzu Ihrer Rechnung %s ist seit %d Tagen keine Zahlung eingegangen. "+
				"Bitte überweisen Sie den offenen Betrag von %s EUR.\n\nViele Grüße\nIhre Hundeschule",
			number, payload.DaysOverdue, open.StringFixed(2)),
	}
	w.enqueueMail(ctx, mail, "invoice_id", inv.ID.String())
}

func (w *NotificationWorker) loadInvoice(ctx context.Context, raw json.RawMessage) (*model.Invoice, bool) {
	var payload InvoiceEventPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid invoice payload")
		return nil, false
	}
	id, err := uuid.Parse(payload.InvoiceID)
	if err != nil {
		log.Error().Str("invoice_id", payload.InvoiceID).Msg("notification_worker: invalid invoice id")
		return nil, false
	}
	inv, err := w.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("invoice_id", payload.InvoiceID).Msg("notification_worker: invoice not found")
		return nil, false
	}
	return inv, true
}

func (w *NotificationWorker) enqueueMail(ctx context.Context, mail EmailJobPayload, idKey, idVal string) {
	if mail.ToEmail == "" {
		log.Warn().Str(idKey, idVal).Msg("notification_worker: no recipient email, skipping")
		return
	}
	if err := w.dispatcher.EnqueueEmail(ctx, mail); err != nil {
		log.Error().Err(err).Str(idKey, idVal).Msg("notification_worker: failed to enqueue email")
	}
}

func invoiceRecipient(inv *model.Invoice) string {
	if inv.Customer != nil && inv.Customer.User != nil {
		return inv.Customer.User.Email
	}
	return ""
}
