package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/infra"
	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/worker"

	"github.com/google/uuid"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGateway returns canned orders and records what was requested.
type stubGateway struct {
	createResp     *infra.PayPalOrder
	captureResp    *infra.PayPalOrder
	err            error
	createdAmounts []decimal.Decimal
	capturedOrders []string
}

func (g *stubGateway) CreateOrder(_ context.Context, amount decimal.Decimal, _, _ string) (*infra.PayPalOrder, error) {
	g.createdAmounts = append(g.createdAmounts, amount)
	if g.err != nil {
		return nil, g.err
	}
	return g.createResp, nil
}

func (g *stubGateway) CaptureOrder(_ context.Context, orderID string) (*infra.PayPalOrder, error) {
	g.capturedOrders = append(g.capturedOrders, orderID)
	if g.err != nil {
		return nil, g.err
	}
	return g.captureResp, nil
}

func (g *stubGateway) GetOrder(_ context.Context, _ string) (*infra.PayPalOrder, error) {
	return g.captureResp, g.err
}

type stubVerifier struct{ ok bool }

func (v *stubVerifier) Verify(_ context.Context, _ infra.WebhookHeaders, _ []byte) bool { return v.ok }

var (
	_ PayPalGateway   = (*stubGateway)(nil)
	_ WebhookVerifier = (*stubVerifier)(nil)
)

func orderFromJSON(t *testing.T, s string) *infra.PayPalOrder {
	t.Helper()
	var o infra.PayPalOrder
	require.NoError(t, json.Unmarshal([]byte(s), &o))
	return &o
}

// capturedOrder builds an order response whose first purchase unit carries a
// capture in the given state.
func capturedOrder(t *testing.T, invoiceRef, captureID, status, value string) *infra.PayPalOrder {
	t.Helper()
	return orderFromJSON(t, fmt.Sprintf(`{
		"id": "ORDER-1",
		"status": "COMPLETED",
		"purchase_units": [{
			"invoice_id": %q,
			"payments": {"captures": [{
				"id": %q,
				"status": %q,
				"amount": {"currency_code": "EUR", "value": %q}
			}]}
		}]
	}`, invoiceRef, captureID, status, value))
}

type paymentFixture struct {
	*invoiceFixture
	svc      PaymentService
	gateway  *stubGateway
	verifier *stubVerifier
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	inner := newInvoiceFixture(t, false)
	gateway := &stubGateway{}
	verifier := &stubVerifier{ok: true}
	svc := NewPaymentService(inner.invoices, inner.payments, inner.svc, gateway, verifier)
	return &paymentFixture{invoiceFixture: inner, svc: svc, gateway: gateway, verifier: verifier}
}

func TestCreatePayPalOrder_UsesRemainingBalance(t *testing.T) {
	f := newPaymentFixture(t)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))
	_, err := f.invoiceFixture.svc.RecordPayment(context.Background(), inv.ID, mustDecimal("19.00"), model.PaymentMethodCash, nil, nil)
	require.NoError(t, err)

	f.gateway.createResp = orderFromJSON(t, `{
		"id": "ORDER-1",
		"status": "CREATED",
		"links": [{"href": "https://paypal.example/approve", "rel": "approve", "method": "GET"}]
	}`)

	resp, err := f.svc.CreatePayPalOrder(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", resp.OrderID)
	assert.Equal(t, "https://paypal.example/approve", resp.ApproveURL)
	require.Len(t, f.gateway.createdAmounts, 1)
	assert.True(t, f.gateway.createdAmounts[0].Equal(mustDecimal("100.00")))
}

func TestCreatePayPalOrder_RejectsSettledInvoice(t *testing.T) {
	f := newPaymentFixture(t)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))
	_, err := f.invoiceFixture.svc.RecordPayment(context.Background(), inv.ID, mustDecimal("119.00"), model.PaymentMethodCash, nil, nil)
	require.NoError(t, err)

	_, err = f.svc.CreatePayPalOrder(context.Background(), inv.ID)
	var se *apierror.InvalidStateError
	assert.ErrorAs(t, err, &se)
	assert.Empty(t, f.gateway.createdAmounts)
}

func TestCreatePayPalOrder_GatewayFailureLeavesNoTrace(t *testing.T) {
	f := newPaymentFixture(t)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))
	f.gateway.err = errors.New("connection reset")

	_, err := f.svc.CreatePayPalOrder(context.Background(), inv.ID)
	var ge *apierror.GatewayError
	assert.ErrorAs(t, err, &ge)
	assert.Empty(t, f.payments.payments)

	reloaded, err := f.invoiceFixture.svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusOpen, reloaded.Status)
}

func TestCapturePayPalOrder_CompletedSettlesInvoice(t *testing.T) {
	f := newPaymentFixture(t)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))
	f.gateway.captureResp = capturedOrder(t, *inv.Number, "CAP-1", "COMPLETED", "119.00")

	payment, err := f.svc.CapturePayPalOrder(context.Background(), "ORDER-1", inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, payment.Status)
	assert.Equal(t, model.PaymentMethodPayPal, payment.Method)
	require.NotNil(t, payment.TransactionID)
	assert.Equal(t, "CAP-1", *payment.TransactionID)

	reloaded, err := f.invoiceFixture.svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, reloaded.Status)
}

func TestCapturePayPalOrder_ReplayResolvesToSameRow(t *testing.T) {
	f := newPaymentFixture(t)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))
	f.gateway.captureResp = capturedOrder(t, *inv.Number, "CAP-1", "COMPLETED", "119.00")

	first, err := f.svc.CapturePayPalOrder(context.Background(), "ORDER-1", inv.ID)
	require.NoError(t, err)
	second, err := f.svc.CapturePayPalOrder(context.Background(), "ORDER-1", inv.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.payments.payments, 1)
}

func TestCapturePayPalOrder_DeclinedRecordsFailedEntry(t *testing.T) {
	f := newPaymentFixture(t)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))
	f.gateway.captureResp = capturedOrder(t, *inv.Number, "CAP-1", "DECLINED", "119.00")

	_, err := f.svc.CapturePayPalOrder(context.Background(), "ORDER-1", inv.ID)
	var pe *apierror.PaymentFailedError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "ORDER-1", pe.OrderID)

	require.Len(t, f.payments.payments, 1)
	assert.Equal(t, model.PaymentStatusFailed, f.payments.payments[0].Status)

	reloaded, err := f.invoiceFixture.svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusOpen, reloaded.Status)
}

func TestCapturePayPalOrder_WrongInvoiceRejected(t *testing.T) {
	f := newPaymentFixture(t)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))
	f.gateway.captureResp = capturedOrder(t, *inv.Number, "CAP-1", "COMPLETED", "119.00")

	_, err := f.svc.CapturePayPalOrder(context.Background(), "ORDER-1", uuid.New())
	var ve *apierror.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, f.payments.payments)

	reloaded, err := f.invoiceFixture.svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusOpen, reloaded.Status)
}

func (f *paymentFixture) createPending(t *testing.T, invoiceID uuid.UUID, amount string) *model.Payment {
	t.Helper()
	payment, err := f.svc.Create(context.Background(), dto.CreatePaymentRequest{
		InvoiceID: invoiceID.String(),
		Amount:    mustDecimal(amount),
		Method:    model.PaymentMethodBankTransfer,
	})
	require.NoError(t, err)
	return payment
}

func TestCreatePayment_PendingLeavesInvoiceOpen(t *testing.T) {
	f := newPaymentFixture(t)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))

	payment := f.createPending(t, inv.ID, "119.00")
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
	assert.Nil(t, payment.PaidAt)

	reloaded, err := f.invoiceFixture.svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusOpen, reloaded.Status)
}

func TestCreatePayment_CompletedSettlesImmediately(t *testing.T) {
	f := newPaymentFixture(t)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))

	payment, err := f.svc.Create(context.Background(), dto.CreatePaymentRequest{
		InvoiceID: inv.ID.String(),
		Amount:    mustDecimal("119.00"),
		Method:    model.PaymentMethodCash,
		Status:    model.PaymentStatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, payment.Status)

	reloaded, err := f.invoiceFixture.svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, reloaded.Status)
}

func TestMarkCompleted_SettlesCoveringPayment(t *testing.T) {
	f := newPaymentFixture(t)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))
	payment := f.createPending(t, inv.ID, "119.00")

	completed, err := f.svc.MarkCompleted(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, completed.Status)
	require.NotNil(t, completed.PaidAt)

	reloaded, err := f.invoiceFixture.svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, reloaded.Status)
	assert.Contains(t, f.notifier.events, worker.EventInvoicePaid)
}

func TestMarkCompleted_PartialPaymentKeepsInvoiceOpen(t *testing.T) {
	f := newPaymentFixture(t)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))
	payment := f.createPending(t, inv.ID, "50.00")

	_, err := f.svc.MarkCompleted(context.Background(), payment.ID)
	require.NoError(t, err)

	reloaded, err := f.invoiceFixture.svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusOpen, reloaded.Status)
	assert.NotContains(t, f.notifier.events, worker.EventInvoicePaid)
}

func TestMarkCompleted_TwiceRejected(t *testing.T) {
	f := newPaymentFixture(t)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))
	payment := f.createPending(t, inv.ID, "119.00")

	_, err := f.svc.MarkCompleted(context.Background(), payment.ID)
	require.NoError(t, err)
	_, err = f.svc.MarkCompleted(context.Background(), payment.ID)
	var se *apierror.InvalidStateError
	assert.ErrorAs(t, err, &se)
}

func TestUpdatePayment_CompletedEntryImmutable(t *testing.T) {
	f := newPaymentFixture(t)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))
	payment := f.createPending(t, inv.ID, "119.00")
	_, err := f.svc.MarkCompleted(context.Background(), payment.ID)
	require.NoError(t, err)

	amount := mustDecimal("1.00")
	_, err = f.svc.Update(context.Background(), payment.ID, dto.UpdatePaymentRequest{Amount: &amount})
	var se *apierror.InvalidStateError
	assert.ErrorAs(t, err, &se)
}

func TestDeletePayment_CompletedRefused(t *testing.T) {
	f := newPaymentFixture(t)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))

	pending := f.createPending(t, inv.ID, "20.00")
	completed := f.createPending(t, inv.ID, "119.00")
	_, err := f.svc.MarkCompleted(context.Background(), completed.ID)
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), completed.ID)
	var se *apierror.InvalidStateError
	assert.ErrorAs(t, err, &se)

	require.NoError(t, f.svc.Delete(context.Background(), pending.ID))
	_, err = f.svc.Get(context.Background(), pending.ID)
	assert.Error(t, err)
}

func webhookBody(eventType, captureID, invoiceRef, value string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "WH-1",
		"event_type": %q,
		"resource": {
			"id": %q,
			"status": "COMPLETED",
			"amount": {"currency_code": "EUR", "value": %q},
			"invoice_id": %q
		}
	}`, eventType, captureID, value, invoiceRef))
}

func TestHandleWebhook_RejectsInvalidSignature(t *testing.T) {
	f := newPaymentFixture(t)
	f.verifier.ok = false

	err := f.svc.HandleWebhook(context.Background(), infra.WebhookHeaders{}, webhookBody("PAYMENT.CAPTURE.COMPLETED", "CAP-1", "RE-2026-00001", "119.00"))
	var ve *apierror.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Empty(t, f.payments.payments)
}

func TestHandleWebhook_CompletedBooksPayment(t *testing.T) {
	f := newPaymentFixture(t)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))

	err := f.svc.HandleWebhook(context.Background(), infra.WebhookHeaders{}, webhookBody("PAYMENT.CAPTURE.COMPLETED", "CAP-1", *inv.Number, "119.00"))
	require.NoError(t, err)

	require.Len(t, f.payments.payments, 1)
	reloaded, err := f.invoiceFixture.svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, reloaded.Status)
}

func TestHandleWebhook_DuplicateDeliveryBooksOnce(t *testing.T) {
	f := newPaymentFixture(t)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))
	body := webhookBody("PAYMENT.CAPTURE.COMPLETED", "CAP-1", *inv.Number, "119.00")

	require.NoError(t, f.svc.HandleWebhook(context.Background(), infra.WebhookHeaders{}, body))
	require.NoError(t, f.svc.HandleWebhook(context.Background(), infra.WebhookHeaders{}, body))
	assert.Len(t, f.payments.payments, 1)
}

func TestHandleWebhook_RefundReopensInvoice(t *testing.T) {
	f := newPaymentFixture(t)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))

	require.NoError(t, f.svc.HandleWebhook(context.Background(), infra.WebhookHeaders{},
		webhookBody("PAYMENT.CAPTURE.COMPLETED", "CAP-1", *inv.Number, "119.00")))
	require.NoError(t, f.svc.HandleWebhook(context.Background(), infra.WebhookHeaders{},
		webhookBody("PAYMENT.CAPTURE.REFUNDED", "CAP-1", *inv.Number, "119.00")))

	require.Len(t, f.payments.payments, 1)
	assert.Equal(t, model.PaymentStatusRefunded, f.payments.payments[0].Status)

	reloaded, err := f.invoiceFixture.svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusOpen, reloaded.Status)
}

func TestHandleWebhook_UnknownInvoiceIsAcknowledged(t *testing.T) {
	f := newPaymentFixture(t)

	err := f.svc.HandleWebhook(context.Background(), infra.WebhookHeaders{},
		webhookBody("PAYMENT.CAPTURE.COMPLETED", "CAP-1", "RE-2026-99999", "119.00"))
	assert.NoError(t, err)
	assert.Empty(t, f.payments.payments)
}

func TestHandleWebhook_IgnoresUnrelatedEvents(t *testing.T) {
	f := newPaymentFixture(t)
	inv := f.createIssued(t, singleItem("1", "100.00", "19"))

	err := f.svc.HandleWebhook(context.Background(), infra.WebhookHeaders{},
		webhookBody("CHECKOUT.ORDER.APPROVED", "CAP-1", *inv.Number, "119.00"))
	assert.NoError(t, err)
	assert.Empty(t, f.payments.payments)
}
