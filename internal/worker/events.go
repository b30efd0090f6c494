package worker

// events.go
// Domain event names and their payloads. Services enqueue these after a
// successful state change; the notification worker turns them into mails.
// A failed enqueue or a failed handler never propagates back into the
// operation that raised the event.

// Event types carried on QueueNotification.
const (
	EventInvoiceCreated  = "invoice.created"
	EventInvoicePaid     = "invoice.paid"
	EventBookingCreated  = "booking.created"
	EventUserRegistered  = "user.registered"
	EventPaymentReminder = "payment.reminder"
)

// InvoiceEventPayload references an invoice by id; the handler reloads the
// invoice so the mail always reflects current data.
type InvoiceEventPayload struct {
	InvoiceID string `json:"invoice_id"`
}

// BookingEventPayload references a booking by id.
type BookingEventPayload struct {
	BookingID string `json:"booking_id"`
}

// UserEventPayload references a user by id.
type UserEventPayload struct {
	UserID string `json:"user_id"`
}

// ReminderEventPayload carries the overdue context for a payment reminder.
type ReminderEventPayload struct {
	InvoiceID   string `json:"invoice_id"`
	DaysOverdue int    `json:"days_overdue"`
}
