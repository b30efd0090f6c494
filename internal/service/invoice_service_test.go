package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/config"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invoiceFixture struct {
	svc        InvoiceService
	invoices   *stubInvoiceRepo
	payments   *stubPaymentRepo
	customers  *stubCustomerRepo
	notifier   *stubNotifier
	customerID uuid.UUID
}

func newInvoiceFixture(t *testing.T, smallBusiness bool) *invoiceFixture {
	t.Helper()
	invoices := newStubInvoiceRepo()
	payments := &stubPaymentRepo{}
	customers := newStubCustomerRepo()
	notifier := &stubNotifier{}

	customer := &model.Customer{FirstName: "Anna", LastName: "Schmidt"}
	require.NoError(t, customers.Create(context.Background(), customer))

	cfg := &config.Config{InvoiceDueDays: 14}
	svc := NewInvoiceService(invoices, payments, customers, &stubSettings{smallBusiness: smallBusiness}, notifier, cfg)
	return &invoiceFixture{
		svc:        svc,
		invoices:   invoices,
		payments:   payments,
		customers:  customers,
		notifier:   notifier,
		customerID: customer.ID,
	}
}

func singleItem(qty, price, rate string) []dto.InvoiceItemRequest {
	return []dto.InvoiceItemRequest{{
		Description: "Einzeltraining",
		Quantity:    mustDecimal(qty),
		UnitPrice:   mustDecimal(price),
		TaxRate:     mustDecimal(rate),
	}}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (f *invoiceFixture) createDraft(t *testing.T, items []dto.InvoiceItemRequest) *model.Invoice {
	t.Helper()
	inv, err := f.svc.Create(context.Background(), dto.CreateInvoiceRequest{
		CustomerID: f.customerID.String(),
		Items:      items,
	})
	require.NoError(t, err)
	return inv
}

func (f *invoiceFixture) createIssued(t *testing.T, items []dto.InvoiceItemRequest) *model.Invoice {
	t.Helper()
	inv := f.createDraft(t, items)
	issued, err := f.svc.Issue(context.Background(), inv.ID)
	require.NoError(t, err)
	return issued
}

func TestInvoiceCreate_ComputesTotals(t *testing.T) {
	f := newInvoiceFixture(t, false)
	inv := f.createDraft(t, singleItem("1", "100.00", "19"))

	assert.Equal(t, model.InvoiceStatusDraft, inv.Status)
	assert.Nil(t, inv.Number)
	assert.False(t, inv.SmallBusiness)
	assert.True(t, inv.TotalNet.Equal(mustDecimal("100.00")), "net: %s", inv.TotalNet)
	assert.True(t, inv.TotalTax.Equal(mustDecimal("19.00")), "tax: %s", inv.TotalTax)
	assert.True(t, inv.TotalGross.Equal(mustDecimal("119.00")), "gross: %s", inv.TotalGross)
}

func TestInvoiceCreate_SmallBusinessZeroTax(t *testing.T) {
	f := newInvoiceFixture(t, true)
	inv := f.createDraft(t, singleItem("1", "100.00", "19"))

	assert.True(t, inv.SmallBusiness)
	assert.True(t, inv.TotalTax.IsZero())
	assert.True(t, inv.TotalGross.Equal(mustDecimal("100.00")))
	// Line rates survive for a later setting change.
	assert.True(t, inv.Items[0].TaxRate.Equal(mustDecimal("19")))
}

func TestInvoiceCreate_UnknownCustomer(t *testing.T) {
	f := newInvoiceFixture(t, false)
	_, err := f.svc.Create(context.Background(), dto.CreateInvoiceRequest{
		CustomerID: uuid.NewString(),
		Items:      singleItem("1", "50.00", "19"),
	})
	var ve *apierror.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestInvoiceIssue_AssignsNumberAndDueDate(t *testing.T) {
	f := newInvoiceFixture(t, false)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))

	require.NotNil(t, inv.Number)
	assert.Equal(t, fmt.Sprintf("RE-%d-00001", time.Now().Year()), *inv.Number)
	assert.Equal(t, model.InvoiceStatusOpen, inv.Status)
	require.NotNil(t, inv.IssuedAt)
	require.NotNil(t, inv.DueAt)
	assert.WithinDuration(t, inv.IssuedAt.AddDate(0, 0, 14), *inv.DueAt, time.Second)
	assert.Equal(t, []string{worker.EventInvoiceCreated}, f.notifier.events)
}

func TestInvoiceIssue_NumbersAreSequential(t *testing.T) {
	f := newInvoiceFixture(t, false)
	first := f.createIssued(t, singleItem("1", "10.00", "19"))
	second := f.createIssued(t, singleItem("1", "20.00", "19"))

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("RE-%d-00001", year), *first.Number)
	assert.Equal(t, fmt.Sprintf("RE-%d-00002", year), *second.Number)
}

func TestInvoiceIssue_RejectsNonDraft(t *testing.T) {
	f := newInvoiceFixture(t, false)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))

	_, err := f.svc.Issue(context.Background(), inv.ID)
	var se *apierror.InvalidStateError
	assert.ErrorAs(t, err, &se)
}

func TestInvoiceIssue_RejectsEmptyItems(t *testing.T) {
	f := newInvoiceFixture(t, false)
	inv := &model.Invoice{CustomerID: f.customerID, Status: model.InvoiceStatusDraft}
	require.NoError(t, f.invoices.Create(context.Background(), nil, inv))

	_, err := f.svc.Issue(context.Background(), inv.ID)
	var ve *apierror.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestRecordPayment_PartialKeepsOpen(t *testing.T) {
	f := newInvoiceFixture(t, false)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))

	p, err := f.svc.RecordPayment(context.Background(), inv.ID, mustDecimal("50.00"), model.PaymentMethodCash, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, p.Status)

	reloaded, err := f.svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusOpen, reloaded.Status)
	assert.NotContains(t, f.notifier.events, worker.EventInvoicePaid)
}

func TestRecordPayment_FullAmountSettles(t *testing.T) {
	f := newInvoiceFixture(t, false)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))

	_, err := f.svc.RecordPayment(context.Background(), inv.ID, mustDecimal("119.00"), model.PaymentMethodBankTransfer, nil, nil)
	require.NoError(t, err)

	reloaded, err := f.svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, reloaded.Status)
	assert.Contains(t, f.notifier.events, worker.EventInvoicePaid)
}

func TestRecordPayment_SettlesWithinEpsilon(t *testing.T) {
	f := newInvoiceFixture(t, false)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))

	// One cent short still counts as settled.
	_, err := f.svc.RecordPayment(context.Background(), inv.ID, mustDecimal("118.99"), model.PaymentMethodCash, nil, nil)
	require.NoError(t, err)

	reloaded, err := f.svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, reloaded.Status)
}

func TestRecordPayment_IdempotentByTransactionID(t *testing.T) {
	f := newInvoiceFixture(t, false)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))

	txnID := "CAPTURE-1"
	first, err := f.svc.RecordPayment(context.Background(), inv.ID, mustDecimal("119.00"), model.PaymentMethodPayPal, &txnID, nil)
	require.NoError(t, err)

	// The replay arrives after the invoice is already paid.
	second, err := f.svc.RecordPayment(context.Background(), inv.ID, mustDecimal("119.00"), model.PaymentMethodPayPal, &txnID, nil)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.payments.payments, 1)

	paidEvents := 0
	for _, e := range f.notifier.events {
		if e == worker.EventInvoicePaid {
			paidEvents++
		}
	}
	assert.Equal(t, 1, paidEvents)
}

func TestRecordPayment_RejectsDraft(t *testing.T) {
	f := newInvoiceFixture(t, false)
	inv := f.createDraft(t, singleItem("1", "100.00", "19"))

	_, err := f.svc.RecordPayment(context.Background(), inv.ID, mustDecimal("10.00"), model.PaymentMethodCash, nil, nil)
	var se *apierror.InvalidStateError
	assert.ErrorAs(t, err, &se)
	assert.Empty(t, f.payments.payments)
}

func TestRecordPayment_RejectsCancelled(t *testing.T) {
	f := newInvoiceFixture(t, false)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))
	_, err := f.svc.Cancel(context.Background(), inv.ID)
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(context.Background(), inv.ID, mustDecimal("10.00"), model.PaymentMethodCash, nil, nil)
	var se *apierror.InvalidStateError
	assert.ErrorAs(t, err, &se)
}

func TestRecordPayment_RejectsNonPositiveAmount(t *testing.T) {
	f := newInvoiceFixture(t, false)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))

	_, err := f.svc.RecordPayment(context.Background(), inv.ID, decimal.Zero, model.PaymentMethodCash, nil, nil)
	var ve *apierror.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestRecordPayment_AcceptsOverdue(t *testing.T) {
	f := newInvoiceFixture(t, false)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))
	inv.Status = model.InvoiceStatusOverdue
	require.NoError(t, f.invoices.Update(context.Background(), inv))

	_, err := f.svc.RecordPayment(context.Background(), inv.ID, mustDecimal("119.00"), model.PaymentMethodBankTransfer, nil, nil)
	require.NoError(t, err)

	reloaded, err := f.svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, reloaded.Status)
}

func TestCancel_RejectsPaid(t *testing.T) {
	f := newInvoiceFixture(t, false)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))
	_, err := f.svc.RecordPayment(context.Background(), inv.ID, mustDecimal("119.00"), model.PaymentMethodCash, nil, nil)
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), inv.ID)
	var se *apierror.InvalidStateError
	assert.ErrorAs(t, err, &se)
}

func TestCancel_IsIdempotent(t *testing.T) {
	f := newInvoiceFixture(t, false)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))

	first, err := f.svc.Cancel(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusCancelled, first.Status)

	second, err := f.svc.Cancel(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusCancelled, second.Status)
}

func TestDelete_OnlyDrafts(t *testing.T) {
	f := newInvoiceFixture(t, false)
	draft := f.createDraft(t, singleItem("1", "100.00", "19"))
	issued := f.createIssued(t, singleItem("1", "50.00", "19"))

	require.NoError(t, f.svc.Delete(context.Background(), draft.ID))

	err := f.svc.Delete(context.Background(), issued.ID)
	var se *apierror.InvalidStateError
	assert.ErrorAs(t, err, &se)
}

func TestMarkAsPaid_RecordsRemainder(t *testing.T) {
	f := newInvoiceFixture(t, false)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))
	_, err := f.svc.RecordPayment(context.Background(), inv.ID, mustDecimal("19.00"), model.PaymentMethodCash, nil, nil)
	require.NoError(t, err)

	settled, err := f.svc.MarkAsPaid(context.Background(), inv.ID, model.PaymentMethodBankTransfer, nil)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, settled.Status)

	require.Len(t, f.payments.payments, 2)
	assert.True(t, f.payments.payments[1].Amount.Equal(mustDecimal("100.00")))
}
