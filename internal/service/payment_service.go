package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/billing"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/infra"
	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PayPalGateway is the slice of the PayPal REST client the service needs.
// *infra.PayPalClient satisfies it.
type PayPalGateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, invoiceNumber, description string) (*infra.PayPalOrder, error)
	CaptureOrder(ctx context.Context, orderID string) (*infra.PayPalOrder, error)
	GetOrder(ctx context.Context, orderID string) (*infra.PayPalOrder, error)
}

// WebhookVerifier checks a webhook's transmission signature.
type WebhookVerifier interface {
	Verify(ctx context.Context, h infra.WebhookHeaders, body []byte) bool
}

// PayPal webhook event types this service reacts to. Everything else is
// acknowledged and dropped.
const (
	webhookCaptureCompleted = "PAYMENT.CAPTURE.COMPLETED"
	webhookCaptureDenied    = "PAYMENT.CAPTURE.DENIED"
	webhookCaptureDeclined  = "PAYMENT.CAPTURE.DECLINED"
	webhookCaptureRefunded  = "PAYMENT.CAPTURE.REFUNDED"
)

type PaymentService interface {
	// Create books a manual ledger entry. Pending entries (an announced bank
	// transfer) do not touch the invoice; completed entries settle it.
	Create(ctx context.Context, req dto.CreatePaymentRequest) (*model.Payment, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdatePaymentRequest) (*model.Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// MarkCompleted completes a pending entry and re-derives the invoice
	// status from the ledger.
	MarkCompleted(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	List(ctx context.Context, invoiceID *uuid.UUID) ([]model.Payment, error)

	CreatePayPalOrder(ctx context.Context, invoiceID uuid.UUID) (*dto.CreatePayPalOrderResponse, error)
	// CapturePayPalOrder captures an approved order and books the result into
	// the ledger. Safe to call twice with the same order id.
	CapturePayPalOrder(ctx context.Context, orderID string, invoiceID uuid.UUID) (*model.Payment, error)
	// HandleWebhook verifies and processes a raw PayPal webhook delivery.
	HandleWebhook(ctx context.Context, headers infra.WebhookHeaders, body []byte) error
	GatewayState() string
}

type paymentService struct {
	invoices repository.InvoiceRepository
	payments repository.PaymentRepository
	invoice  InvoiceService
	gateway  PayPalGateway
	verifier WebhookVerifier
	cb       *infra.CircuitBreaker
}

func NewPaymentService(
	invoices repository.InvoiceRepository,
	payments repository.PaymentRepository,
	invoiceSvc InvoiceService,
	gateway PayPalGateway,
	verifier WebhookVerifier,
) PaymentService {
	return &paymentService{
		invoices: invoices,
		payments: payments,
		invoice:  invoiceSvc,
		gateway:  gateway,
		verifier: verifier,
		cb:       infra.NewCircuitBreaker(infra.DefaultCBConfig()),
	}
}

func (s *paymentService) Create(ctx context.Context, req dto.CreatePaymentRequest) (*model.Payment, error) {
	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		return nil, apierror.Validation("Ungültige Rechnungs-ID")
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apierror.Validation("Zahlbetrag muss größer als null sein")
	}

	// Completed entries go through the invoice service so the settle logic
	// and the idempotency rules apply in one place.
	if req.Status == model.PaymentStatusCompleted {
		return s.invoice.RecordPayment(ctx, invoiceID, req.Amount, req.Method, req.TransactionID, req.Notes)
	}

	inv, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.AcceptsPayment() {
		return nil, apierror.InvalidState("Rechnung im Status %q akzeptiert keine Zahlungen", inv.Status)
	}
	if req.TransactionID != nil && *req.TransactionID != "" {
		if existing, err := s.payments.FindByMethodAndTransactionID(ctx, req.Method, *req.TransactionID); err == nil {
			return existing, nil
		}
	}

	payment := &model.Payment{
		InvoiceID:     invoiceID,
		Amount:        req.Amount,
		Method:        req.Method,
		Status:        model.PaymentStatusPending,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	}
	if err := s.payments.Create(ctx, nil, payment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("Zahlung mit dieser Transaktions-ID existiert bereits")
		}
		return nil, err
	}
	return payment, nil
}

// Update edits a pending entry. The ledger is append-only once an entry has
// reached a terminal status.
func (s *paymentService) Update(ctx context.Context, id uuid.UUID, req dto.UpdatePaymentRequest) (*model.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != model.PaymentStatusPending {
		return nil, apierror.InvalidState("Nur offene Zahlungen können bearbeitet werden")
	}
	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, apierror.Validation("Zahlbetrag muss größer als null sein")
		}
		payment.Amount = *req.Amount
	}
	if req.Method != nil {
		payment.Method = *req.Method
	}
	if req.TransactionID != nil {
		payment.TransactionID = req.TransactionID
	}
	if req.Notes != nil {
		payment.Notes = req.Notes
	}
	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) Delete(ctx context.Context, id uuid.UUID) error {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if payment.Status == model.PaymentStatusCompleted {
		return apierror.InvalidState("Abgeschlossene Zahlungen können nicht gelöscht werden")
	}
	return s.payments.Delete(ctx, id)
}

func (s *paymentService) MarkCompleted(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status == model.PaymentStatusCompleted {
		return nil, apierror.InvalidState("Zahlung ist bereits abgeschlossen")
	}

	now := time.Now()
	payment.Status = model.PaymentStatusCompleted
	payment.PaidAt = &now
	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, err
	}
	if err := s.invoice.RefreshSettlement(ctx, payment.InvoiceID); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) Get(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	return s.payments.FindByID(ctx, id)
}

// CreatePayPalOrder opens a gateway order over the invoice's remaining
// balance. Nothing is written locally: the ledger entry appears only when the
// capture succeeds.
func (s *paymentService) CreatePayPalOrder(ctx context.Context, invoiceID uuid.UUID) (*dto.CreatePayPalOrderResponse, error) {
	if s.gateway == nil {
		return nil, apierror.Gateway(nil, "PayPal ist nicht konfiguriert")
	}

	inv, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.AcceptsPayment() {
		return nil, apierror.InvalidState("Rechnung im Status %q akzeptiert keine Zahlungen", inv.Status)
	}

	paid, err := s.payments.SumCompleted(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	remaining := billing.RemainingBalance(inv.TotalGross, paid)
	if billing.IsSettled(remaining) {
		return nil, apierror.InvalidState("Rechnung ist bereits vollständig bezahlt")
	}

	number := inv.ID.String()
	if inv.Number != nil {
		number = *inv.Number
	}

	var order *infra.PayPalOrder
	err = s.cb.Execute(func() error {
		var err error
		order, err = s.gateway.CreateOrder(ctx, remaining, number, "Rechnung "+number)
		return err
	})
	if err != nil {
		return nil, apierror.Gateway(err, "PayPal-Bestellung konnte nicht angelegt werden")
	}

	return &dto.CreatePayPalOrderResponse{
		OrderID:    order.ID,
		ApproveURL: order.ApproveLink(),
		Amount:     remaining,
	}, nil
}

// CapturePayPalOrder captures an approved order. A completed capture is booked
// as a completed ledger entry keyed by the capture id, so a repeated call (or
// a webhook racing the return URL) resolves to the same payment. A denied
// capture is booked as failed and surfaces as PaymentFailedError. The caller
// names the invoice it expects the order to pay; a mismatch is rejected.
func (s *paymentService) CapturePayPalOrder(ctx context.Context, orderID string, invoiceID uuid.UUID) (*model.Payment, error) {
	if s.gateway == nil {
		return nil, apierror.Gateway(nil, "PayPal ist nicht konfiguriert")
	}
	if orderID == "" {
		return nil, apierror.Validation("Bestell-ID darf nicht leer sein")
	}

	var order *infra.PayPalOrder
	err := s.cb.Execute(func() error {
		var err error
		order, err = s.gateway.CaptureOrder(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, apierror.Gateway(err, "PayPal-Zahlung konnte nicht eingezogen werden")
	}

	capture := order.FirstCapture()
	if capture == nil {
		return nil, apierror.Gateway(nil, "PayPal-Antwort enthält keine Zahlung")
	}

	inv, err := s.invoiceForOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	if inv.ID != invoiceID {
		return nil, apierror.Validation("Bestellung gehört nicht zu dieser Rechnung")
	}

	amount, err := decimal.NewFromString(capture.Amount.Value)
	if err != nil {
		return nil, apierror.Gateway(err, "PayPal-Betrag %q ist ungültig", capture.Amount.Value)
	}

	switch capture.Status {
	case "COMPLETED":
		return s.invoice.RecordPayment(ctx, inv.ID, amount, model.PaymentMethodPayPal, &capture.ID, nil)
	case "DECLINED", "DENIED", "FAILED":
		s.recordFailed(ctx, inv.ID, amount, capture.ID)
		return nil, &apierror.PaymentFailedError{OrderID: orderID, Msg: "PayPal hat die Zahlung abgelehnt"}
	default:
		// PENDING and friends: nothing to book yet, the webhook will follow up.
		return nil, apierror.Gateway(nil, "PayPal-Zahlung ist noch nicht abgeschlossen (%s)", capture.Status)
	}
}

// HandleWebhook verifies the transmission signature and books the carried
// capture state. Unverified deliveries are rejected; deliveries for unknown
// invoices are acknowledged so PayPal stops retrying them.
func (s *paymentService) HandleWebhook(ctx context.Context, headers infra.WebhookHeaders, body []byte) error {
	if s.verifier == nil {
		return apierror.Gateway(nil, "Webhook-Verifizierung ist nicht konfiguriert")
	}
	if !s.verifier.Verify(ctx, headers, body) {
		return apierror.Validation("Webhook-Signatur ungültig")
	}

	var event struct {
		ID        string `json:"id"`
		EventType string `json:"event_type"`
		Resource  struct {
			ID     string `json:"id"`
			Status string `json:"status"`
			Amount struct {
				CurrencyCode string `json:"currency_code"`
				Value        string `json:"value"`
			} `json:"amount"`
			InvoiceID string `json:"invoice_id"`
			// Refund resources carry the original capture in links; the
			// invoice_id custom field survives into the refund resource.
		} `json:"resource"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		return apierror.Validation("Webhook-Payload ist kein gültiges JSON")
	}

	switch event.EventType {
	case webhookCaptureCompleted, webhookCaptureDenied, webhookCaptureDeclined, webhookCaptureRefunded:
	default:
		log.Debug().Str("event_type", event.EventType).Msg("paypal webhook: ignored event type")
		return nil
	}

	inv, err := s.invoiceByReference(ctx, event.Resource.InvoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Str("event_id", event.ID).Str("reference", event.Resource.InvoiceID).
				Msg("paypal webhook: no matching invoice, acknowledging")
			return nil
		}
		return err
	}

	amount, err := decimal.NewFromString(event.Resource.Amount.Value)
	if err != nil {
		return apierror.Validation("Webhook-Betrag %q ist ungültig", event.Resource.Amount.Value)
	}

	switch event.EventType {
	case webhookCaptureCompleted:
		_, err := s.invoice.RecordPayment(ctx, inv.ID, amount, model.PaymentMethodPayPal, &event.Resource.ID, nil)
		return err
	case webhookCaptureDenied, webhookCaptureDeclined:
		s.recordFailed(ctx, inv.ID, amount, event.Resource.ID)
		return nil
	case webhookCaptureRefunded:
		return s.handleRefund(ctx, inv, event.Resource.ID)
	}
	return nil
}

// handleRefund flips the original capture's ledger entry to refunded and, if
// the invoice no longer covers its gross total, reopens it.
func (s *paymentService) handleRefund(ctx context.Context, inv *model.Invoice, captureID string) error {
	payment, err := s.payments.FindByMethodAndTransactionID(ctx, model.PaymentMethodPayPal, captureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Str("capture_id", captureID).Msg("paypal webhook: refund for unknown capture, acknowledging")
			return nil
		}
		return err
	}
	if payment.Status == model.PaymentStatusRefunded {
		return nil
	}
	if err := s.payments.UpdateStatus(ctx, payment.ID, model.PaymentStatusRefunded); err != nil {
		return err
	}

	paid, err := s.payments.SumCompleted(ctx, inv.ID)
	if err != nil {
		return err
	}
	if inv.Status == model.InvoiceStatusPaid && !billing.IsSettled(billing.RemainingBalance(inv.TotalGross, paid)) {
		inv.Status = model.InvoiceStatusOpen
		return s.invoices.Update(ctx, inv)
	}
	return nil
}

// recordFailed books a failed ledger entry for audit. Failures here are logged
// only — the caller's error (or webhook ack) must not depend on it.
func (s *paymentService) recordFailed(ctx context.Context, invoiceID uuid.UUID, amount decimal.Decimal, transactionID string) {
	payment := &model.Payment{
		InvoiceID:     invoiceID,
		Amount:        amount,
		Method:        model.PaymentMethodPayPal,
		Status:        model.PaymentStatusFailed,
		TransactionID: &transactionID,
	}
	if _, err := s.payments.FindByMethodAndTransactionID(ctx, model.PaymentMethodPayPal, transactionID); err == nil {
		return
	}
	if err := s.payments.Create(ctx, nil, payment); err != nil {
		log.Warn().Err(err).Str("transaction_id", transactionID).Msg("payment: failed entry not recorded")
	}
}

// invoiceForOrder resolves the invoice referenced by an order's purchase unit.
// Orders carry either the formal invoice number or, for unissued invoices,
// the invoice UUID.
func (s *paymentService) invoiceForOrder(ctx context.Context, order *infra.PayPalOrder) (*model.Invoice, error) {
	if len(order.PurchaseUnits) == 0 {
		return nil, apierror.Gateway(nil, "PayPal-Bestellung ohne Rechnungsbezug")
	}
	return s.invoiceByReference(ctx, order.PurchaseUnits[0].InvoiceID)
}

func (s *paymentService) invoiceByReference(ctx context.Context, ref string) (*model.Invoice, error) {
	if ref == "" {
		return nil, gorm.ErrRecordNotFound
	}
	if id, err := uuid.Parse(ref); err == nil {
		return s.invoices.FindByID(ctx, id)
	}
	return s.invoices.FindByNumber(ctx, ref)
}

func (s *paymentService) List(ctx context.Context, invoiceID *uuid.UUID) ([]model.Payment, error) {
	return s.payments.List(ctx, invoiceID)
}

// GatewayState exposes the circuit breaker state for the health endpoint.
func (s *paymentService) GatewayState() string {
	return s.cb.State().String()
}
