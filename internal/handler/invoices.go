package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoicesHandler struct {
	svc        service.InvoiceService
	pdfStorage string
}

func NewInvoicesHandler(svc service.InvoiceService, pdfStorage string) *InvoicesHandler {
	return &InvoicesHandler{svc: svc, pdfStorage: pdfStorage}
}

// Create godoc
// @Summary      Rechnungsentwurf anlegen
// @Description  Legt eine Rechnung im Status draft an. Beträge und Steuern werden serverseitig aus den Positionen berechnet.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateInvoiceRequest true "Rechnungspositionen"
// @Success      201  {object} dto.InvoiceResponse
// @Failure      422  {object} apierror.APIError
// @Router       /api/v1/invoices [post]
func (h *InvoicesHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	inv, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toInvoiceResponse(inv, decimal.Zero, inv.TotalGross))
}

// Update godoc
// @Summary      Rechnungsentwurf bearbeiten
// @Description  Ersetzt die Positionen eines Entwurfs. Gestellte Rechnungen sind unveränderlich.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Rechnungs-UUID"
// @Param        body body dto.UpdateInvoiceRequest true "Neue Positionen"
// @Success      200  {object} dto.InvoiceResponse
// @Failure      409  {object} apierror.APIError
// @Router       /api/v1/invoices/{id} [put]
func (h *InvoicesHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	inv, err := h.svc.UpdateDraft(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toInvoiceResponse(inv, decimal.Zero, inv.TotalGross))
}

// Issue godoc
// @Summary      Rechnung stellen
// @Description  Vergibt die Rechnungsnummer, setzt Fälligkeit, erzeugt das PDF und versendet die Rechnung per E-Mail.
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Rechnungs-UUID"
// @Success      200 {object} dto.InvoiceResponse
// @Failure      409 {object} apierror.APIError
// @Router       /api/v1/invoices/{id}/issue [post]
func (h *InvoicesHandler) Issue(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	inv, err := h.svc.Issue(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toInvoiceResponse(inv, decimal.Zero, inv.TotalGross))
}

// Get godoc
// @Summary      Rechnung abrufen
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Rechnungs-UUID"
// @Success      200 {object} dto.InvoiceResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/v1/invoices/{id} [get]
func (h *InvoicesHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	inv, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	paid, balance, err := h.svc.Balance(c.Request.Context(), inv)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toInvoiceResponse(inv, paid, balance))
}

// List godoc
// @Summary      Rechnungen auflisten
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        status      query string false "draft | open | paid | overdue | cancelled | all"
// @Param        customer_id query string false "Kunden-UUID"
// @Success      200 {array} dto.InvoiceResponse
// @Router       /api/v1/invoices [get]
func (h *InvoicesHandler) List(c *gin.Context) {
	var customerID *uuid.UUID
	if raw := c.Query("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Ungültige Kunden-ID"))
			return
		}
		customerID = &id
	}

	invoices, err := h.svc.List(c.Request.Context(), c.Query("status"), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.InvoiceResponse, len(invoices))
	for i := range invoices {
		paid, balance, err := h.svc.Balance(c.Request.Context(), &invoices[i])
		if err != nil {
			respondError(c, err)
			return
		}
		out[i] = toInvoiceResponse(&invoices[i], paid, balance)
	}
	c.JSON(http.StatusOK, out)
}

// RecordPayment godoc
// @Summary      Zahlung verbuchen
// @Description  Hängt einen Zahlungseintrag an das Hauptbuch der Rechnung an. Deckt die Summe den Bruttobetrag, wechselt die Rechnung auf paid.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Rechnungs-UUID"
// @Param        body body dto.RecordPaymentRequest true "Zahlung"
// @Success      201  {object} dto.PaymentResponse
// @Failure      409  {object} apierror.APIError
// @Router       /api/v1/invoices/{id}/payments [post]
func (h *InvoicesHandler) RecordPayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	payment, err := h.svc.RecordPayment(c.Request.Context(), id, req.Amount, req.Method, req.TransactionID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPaymentResponse(payment))
}

// MarkAsPaid godoc
// @Summary      Rechnung als bezahlt markieren
// @Description  Verbucht den offenen Restbetrag als manuelle Zahlung (z. B. Überweisung laut Kontoauszug).
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Rechnungs-UUID"
// @Success      200 {object} dto.InvoiceResponse
// @Failure      409 {object} apierror.APIError
// @Router       /api/v1/invoices/{id}/mark-paid [post]
func (h *InvoicesHandler) MarkAsPaid(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	inv, err := h.svc.MarkAsPaid(c.Request.Context(), id, model.PaymentMethodBankTransfer, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	paid, balance, err := h.svc.Balance(c.Request.Context(), inv)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toInvoiceResponse(inv, paid, balance))
}

// Cancel godoc
// @Summary      Rechnung stornieren
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Rechnungs-UUID"
// @Success      200 {object} dto.InvoiceResponse
// @Failure      409 {object} apierror.APIError
// @Router       /api/v1/invoices/{id}/cancel [post]
func (h *InvoicesHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	inv, err := h.svc.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toInvoiceResponse(inv, decimal.Zero, decimal.Zero))
}

// Delete godoc
// @Summary      Rechnungsentwurf löschen
// @Tags         invoices
// @Security     BearerAuth
// @Param        id path string true "Rechnungs-UUID"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /api/v1/invoices/{id} [delete]
func (h *InvoicesHandler) Delete(c *gin.Context) {
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

// DownloadPDF godoc
// @Summary      Rechnungs-PDF herunterladen
// @Tags         invoices
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "Rechnungs-UUID"
// @Success      200 {file} file
// @Failure      404 {object} apierror.APIError
// @Router       /api/v1/invoices/{id}/pdf [get]
func (h *InvoicesHandler) DownloadPDF(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	inv, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if inv.PDFPath == nil {
		c.JSON(http.StatusNotFound, apierror.New("Für diese Rechnung liegt kein PDF vor"))
		return
	}
	path := filepath.Join(h.pdfStorage, filepath.Base(*inv.PDFPath))
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, apierror.New("PDF-Datei nicht gefunden"))
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
