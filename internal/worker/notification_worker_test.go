package worker

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubPaymentLedger answers SumCompleted from a fixed per-invoice sum.
type stubPaymentLedger struct {
	completed map[uuid.UUID]decimal.Decimal
	err       error
}

func (r *stubPaymentLedger) Create(_ context.Context, _ *gorm.DB, p *model.Payment) error {
	return nil
}

func (r *stubPaymentLedger) FindByID(_ context.Context, _ uuid.UUID) (*model.Payment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPaymentLedger) FindByMethodAndTransactionID(_ context.Context, _, _ string) (*model.Payment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPaymentLedger) Update(_ context.Context, _ *model.Payment) error { return nil }

func (r *stubPaymentLedger) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (r *stubPaymentLedger) UpdateStatus(_ context.Context, _ uuid.UUID, _ string) error { return nil }

func (r *stubPaymentLedger) List(_ context.Context, _ *uuid.UUID) ([]model.Payment, error) {
	return nil, nil
}

func (r *stubPaymentLedger) SumCompleted(_ context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	if r.err != nil {
		return decimal.Zero, r.err
	}
	return r.completed[invoiceID], nil
}

func (r *stubPaymentLedger) DB() *gorm.DB { return nil }

var _ repository.PaymentRepository = (*stubPaymentLedger)(nil)

// stubMailbox captures enqueued mails.
type stubMailbox struct {
	mails []EmailJobPayload
}

func (m *stubMailbox) EnqueueEmail(_ context.Context, payload interface{}) error {
	m.mails = append(m.mails, payload.(EmailJobPayload))
	return nil
}

func overdueInvoice(repo *stubInvoiceRepo, gross string) *model.Invoice {
	number := "RE-2026-00042"
	inv := &model.Invoice{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Status:     model.InvoiceStatusOverdue,
		Number:     &number,
		TotalGross: decimal.RequireFromString(gross),
		Customer: &model.Customer{
			User: &model.User{Email: "anna@example.com"},
		},
	}
	repo.invoices[inv.ID] = inv
	return inv
}

func reminderEvent(t *testing.T, invoiceID uuid.UUID, days int) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(ReminderEventPayload{InvoiceID: invoiceID.String(), DaysOverdue: days})
	require.NoError(t, err)
	return raw
}

func TestPaymentReminder_DunsRemainingBalance(t *testing.T) {
	invoices := newStubInvoiceRepo()
	inv := overdueInvoice(invoices, "119.00")
	ledger := &stubPaymentLedger{completed: map[uuid.UUID]decimal.Decimal{
		inv.ID: decimal.RequireFromString("19.00"),
	}}
	mailbox := &stubMailbox{}
	w := NewNotificationWorker(invoices, ledger, nil, nil, mailbox)

	w.Process(context.Background(), EventPaymentReminder, reminderEvent(t, inv.ID, 10))

	require.Len(t, mailbox.mails, 1)
	mail := mailbox.mails[0]
	assert.Equal(t, "anna@example.com", mail.ToEmail)
	assert.Contains(t, mail.Body, "100.00", "reminder must name the open amount, not the gross total")
	assert.NotContains(t, mail.Body, "119.00")
}

func TestPaymentReminder_LedgerFailureFallsBackToGross(t *testing.T) {
	invoices := newStubInvoiceRepo()
	inv := overdueInvoice(invoices, "119.00")
	ledger := &stubPaymentLedger{err: gorm.ErrInvalidDB}
	mailbox := &stubMailbox{}
	w := NewNotificationWorker(invoices, ledger, nil, nil, mailbox)

	w.Process(context.Background(), EventPaymentReminder, reminderEvent(t, inv.ID, 10))

	require.Len(t, mailbox.mails, 1)
	assert.Contains(t, mailbox.mails[0].Body, "119.00")
}

func TestPaymentReminder_SkipsNoLongerOverdueInvoice(t *testing.T) {
	invoices := newStubInvoiceRepo()
	inv := overdueInvoice(invoices, "119.00")
	inv.Status = model.InvoiceStatusPaid
	mailbox := &stubMailbox{}
	w := NewNotificationWorker(invoices, &stubPaymentLedger{}, nil, nil, mailbox)

	w.Process(context.Background(), EventPaymentReminder, reminderEvent(t, inv.ID, 10))

	assert.Empty(t, mailbox.mails)
}

func TestInvoicePaid_MailsConfirmation(t *testing.T) {
	invoices := newStubInvoiceRepo()
	inv := overdueInvoice(invoices, "119.00")
	inv.Status = model.InvoiceStatusPaid
	mailbox := &stubMailbox{}
	w := NewNotificationWorker(invoices, &stubPaymentLedger{}, nil, nil, mailbox)

	raw, err := json.Marshal(InvoiceEventPayload{InvoiceID: inv.ID.String()})
	require.NoError(t, err)
	w.Process(context.Background(), EventInvoicePaid, raw)

	require.Len(t, mailbox.mails, 1)
	assert.True(t, strings.Contains(mailbox.mails[0].Subject, "Zahlungseingang"))
	assert.Contains(t, mailbox.mails[0].Body, *inv.Number)
}
