package infra

// pdf.go — Invoice PDF generation using go-pdf/fpdf.
// A4 layout: sender line, customer address block, invoice metadata, item
// table, tax breakdown per rate (or the §19 UStG clause in small-business
// mode), payment terms footer with bank details.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wlmost/dog-school-app-sub001/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// CompanyInfo is the letterhead snapshot passed in by the settings service.
type CompanyInfo struct {
	Name        string
	Street      string
	City        string
	TaxNumber   string
	BankDetails string
}

// InvoiceTaxLine is one row of the rendered tax breakdown.
type InvoiceTaxLine struct {
	Rate decimal.Decimal
	Net  decimal.Decimal
	Tax  decimal.Decimal
}

// GenerateInvoicePDF renders an issued invoice to storagePath/{number}.pdf
// and returns the absolute file path.
func GenerateInvoicePDF(inv *model.Invoice, company CompanyInfo, breakdown []InvoiceTaxLine, storagePath string) (string, error) {
	if inv.Number == nil {
		return "", fmt.Errorf("pdf: invoice has no number yet")
	}
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	filePath := filepath.Join(storagePath, *inv.Number+".pdf")

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("") // cp1252 for German umlauts

	// ── Sender line + customer address ───────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	sender := fmt.Sprintf("%s · %s · %s", company.Name, company.Street, company.City)
	pdf.CellFormat(0, 4, tr(sender), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	if inv.Customer != nil {
		pdf.CellFormat(0, 5, tr(inv.Customer.FirstName+" "+inv.Customer.LastName), "", 1, "L", false, 0, "")
		if inv.Customer.Street != nil {
			pdf.CellFormat(0, 5, tr(*inv.Customer.Street), "", 1, "L", false, 0, "")
		}
		if inv.Customer.PostalCode != nil && inv.Customer.City != nil {
			pdf.CellFormat(0, 5, tr(*inv.Customer.PostalCode+" "+*inv.Customer.City), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(10)

	// ── Invoice metadata ─────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr("Rechnung "+*inv.Number), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if inv.IssuedAt != nil {
		pdf.CellFormat(0, 5, "Rechnungsdatum: "+inv.IssuedAt.Format("02.01.2006"), "", 1, "L", false, 0, "")
	}
	if inv.DueAt != nil {
		pdf.CellFormat(0, 5, tr("Fällig bis: "+inv.DueAt.Format("02.01.2006")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// ── Item table ───────────────────────────────────────────────────────────
	colDesc := 80.0
	colQty := 20.0
	colPrice := 30.0
	colAmount := 40.0

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colDesc, 6, "Beschreibung", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colQty, 6, "Menge", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colPrice, 6, "Einzelpreis", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colAmount, 6, "Betrag", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range inv.Items {
		pdf.CellFormat(colDesc, 6, tr(item.Description), "", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, 6, item.Quantity.String(), "", 0, "R", false, 0, "")
		pdf.CellFormat(colPrice, 6, item.UnitPrice.StringFixed(2)+" EUR", "", 0, "R", false, 0, "")
		pdf.CellFormat(colAmount, 6, item.Amount.StringFixed(2)+" EUR", "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// ── Totals ───────────────────────────────────────────────────────────────
	labelW := colDesc + colQty + colPrice

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(labelW, 6, "Nettobetrag:", "", 0, "R", false, 0, "")
	pdf.CellFormat(colAmount, 6, inv.TotalNet.StringFixed(2)+" EUR", "", 1, "R", false, 0, "")

	if inv.SmallBusiness {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, tr("Gemäß § 19 UStG wird keine Umsatzsteuer berechnet."), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
	} else {
		for _, line := range breakdown {
			label := fmt.Sprintf("zzgl. %s %% MwSt. auf %s EUR:", line.Rate.String(), line.Net.StringFixed(2))
			pdf.CellFormat(labelW, 6, tr(label), "", 0, "R", false, 0, "")
			pdf.CellFormat(colAmount, 6, line.Tax.StringFixed(2)+" EUR", "", 1, "R", false, 0, "")
		}
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(labelW, 8, "Gesamtbetrag:", "T", 0, "R", false, 0, "")
	pdf.CellFormat(colAmount, 8, inv.TotalGross.StringFixed(2)+" EUR", "T", 1, "R", false, 0, "")
	pdf.Ln(10)

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	if inv.DueAt != nil {
		pdf.CellFormat(0, 5, tr("Bitte überweisen Sie den Gesamtbetrag bis zum "+inv.DueAt.Format("02.01.2006")+"."), "", 1, "L", false, 0, "")
	}
	if company.BankDetails != "" {
		pdf.CellFormat(0, 5, tr(company.BankDetails), "", 1, "L", false, 0, "")
	}
	if company.TaxNumber != "" {
		pdf.CellFormat(0, 5, tr("Steuernummer: "+company.TaxNumber), "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
