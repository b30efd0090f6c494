package handler

import (
	"io"
	"net/http"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/infra"
	"github.com/wlmost/dog-school-app-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentsHandler struct{ svc service.PaymentService }

func NewPaymentsHandler(svc service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{svc: svc}
}

// Create godoc
// @Summary      Zahlung erfassen
// @Description  Erfasst eine Zahlung zu einer Rechnung. Ohne Status wird sie als offen (pending) angelegt, z.B. für eine angekündigte Überweisung; mit Status completed wird sie sofort verbucht.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreatePaymentRequest true "Zahlung"
// @Success      201  {object} dto.PaymentResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /api/v1/payments [post]
func (h *PaymentsHandler) Create(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	payment, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPaymentResponse(payment))
}

// Get godoc
// @Summary      Zahlung abrufen
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Zahlungs-UUID"
// @Success      200 {object} dto.PaymentResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/v1/payments/{id} [get]
func (h *PaymentsHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	payment, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(payment))
}

// Update godoc
// @Summary      Offene Zahlung bearbeiten
// @Description  Nur Zahlungen im Status pending sind änderbar; das Hauptbuch ist danach unveränderlich.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Zahlungs-UUID"
// @Param        body body dto.UpdatePaymentRequest true "Änderungen"
// @Success      200  {object} dto.PaymentResponse
// @Failure      409  {object} apierror.APIError
// @Router       /api/v1/payments/{id} [put]
func (h *PaymentsHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	payment, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(payment))
}

// Delete godoc
// @Summary      Zahlung löschen
// @Description  Abgeschlossene Zahlungen können nicht gelöscht werden.
// @Tags         payments
// @Security     BearerAuth
// @Param        id path string true "Zahlungs-UUID"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /api/v1/payments/{id} [delete]
func (h *PaymentsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkCompleted godoc
// @Summary      Zahlung abschließen
// @Description  Setzt eine offene Zahlung auf completed und prüft, ob die Rechnung damit beglichen ist.
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Zahlungs-UUID"
// @Success      200 {object} dto.PaymentResponse
// @Failure      409 {object} apierror.APIError
// @Router       /api/v1/payments/{id}/mark-completed [post]
func (h *PaymentsHandler) MarkCompleted(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	payment, err := h.svc.MarkCompleted(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(payment))
}

// CreatePayPalOrder godoc
// @Summary      PayPal-Bestellung anlegen
// @Description  Eröffnet eine PayPal-Bestellung über den offenen Restbetrag der Rechnung und liefert die Freigabe-URL.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreatePayPalOrderRequest true "Rechnung"
// @Success      201  {object} dto.CreatePayPalOrderResponse
// @Failure      502  {object} apierror.APIError
// @Router       /api/v1/payments/paypal/create-order [post]
func (h *PaymentsHandler) CreatePayPalOrder(c *gin.Context) {
	var req dto.CreatePayPalOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Ungültige Rechnungs-ID"))
		return
	}
	resp, err := h.svc.CreatePayPalOrder(c.Request.Context(), invoiceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CapturePayPalOrder godoc
// @Summary      PayPal-Bestellung einziehen
// @Description  Zieht eine freigegebene Bestellung ein und verbucht das Ergebnis im Hauptbuch. Wiederholte Aufrufe sind unschädlich.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CapturePayPalOrderRequest true "Bestellung"
// @Success      200  {object} dto.PaymentResponse
// @Failure      402  {object} apierror.APIError
// @Failure      502  {object} apierror.APIError
// @Router       /api/v1/payments/paypal/capture-order [post]
func (h *PaymentsHandler) CapturePayPalOrder(c *gin.Context) {
	var req dto.CapturePayPalOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Ungültige Rechnungs-ID"))
		return
	}
	payment, err := h.svc.CapturePayPalOrder(c.Request.Context(), req.OrderID, invoiceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(payment))
}

// Webhook godoc
// @Summary      PayPal-Webhook-Empfänger
// @Description  Nimmt signierte PayPal-Zustellungen entgegen. Unsignierte oder manipulierte Zustellungen werden abgewiesen.
// @Tags         payments
// @Accept       json
// @Success      200
// @Failure      422 {object} apierror.APIError
// @Router       /api/v1/payments/paypal/webhook [post]
func (h *PaymentsHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Anfrage konnte nicht gelesen werden"))
		return
	}

	headers := infra.WebhookHeaders{
		TransmissionID:   c.GetHeader("Paypal-Transmission-Id"),
		TransmissionTime: c.GetHeader("Paypal-Transmission-Time"),
		TransmissionSig:  c.GetHeader("Paypal-Transmission-Sig"),
		CertURL:          c.GetHeader("Paypal-Cert-Url"),
		AuthAlgo:         c.GetHeader("Paypal-Auth-Algo"),
	}

	if err := h.svc.HandleWebhook(c.Request.Context(), headers, body); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// List godoc
// @Summary      Zahlungen auflisten
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        invoice_id query string false "Rechnungs-UUID"
// @Success      200 {array} dto.PaymentResponse
// @Router       /api/v1/payments [get]
func (h *PaymentsHandler) List(c *gin.Context) {
	var invoiceID *uuid.UUID
	if raw := c.Query("invoice_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Ungültige Rechnungs-ID"))
			return
		}
		invoiceID = &id
	}
	payments, err := h.svc.List(c.Request.Context(), invoiceID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.PaymentResponse, len(payments))
	for i := range payments {
		out[i] = toPaymentResponse(&payments[i])
	}
	c.JSON(http.StatusOK, out)
}
