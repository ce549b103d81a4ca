package invoice

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

type LineItem struct {
	Description string
	Amount      decimal.Decimal
}

type Invoice struct {
	Number          string
	IssuedAt        time.Time
	Status          string
	ClientName      string
	ClientEmail     string
	ClientPhone     string
	ClientAddress   string
	AppointmentDate time.Time
	AppointmentTime string
	Items           []LineItem
	Total           decimal.Decimal
	Currency        string
}

// Renderer turns an invoice into a printable document
type Renderer interface {
	Render(inv *Invoice) ([]byte, error)
}

type pdfRenderer struct {
	clinicName string
}

func NewPDFRenderer(clinicName string) Renderer {
	return &pdfRenderer{clinicName: clinicName}
}

func (r *pdfRenderer) Render(inv *Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(0, 70, 127)
	pdf.CellFormat(0, 10, tr(r.clinicName), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "Payment Receipt", "1", 1, "C", false, 0, "")
	pdf.Ln(2)

	addDetail(pdf, "Receipt No", tr(inv.Number))
	addDetail(pdf, "Issued", inv.IssuedAt.Format("2006-01-02 15:04"))
	addDetail(pdf, "Status", tr(inv.Status))
	addDetail(pdf, "Client", tr(inv.ClientName))
	addDetail(pdf, "Email", tr(inv.ClientEmail))
	addDetail(pdf, "Phone", tr(inv.ClientPhone))
	if inv.ClientAddress != "" {
		addDetail(pdf, "Address", tr(inv.ClientAddress))
	}
	if !inv.AppointmentDate.IsZero() {
		addDetail(pdf, "Appointment", strings.TrimSpace(inv.AppointmentDate.Format("2006-01-02")+" "+inv.AppointmentTime))
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(130, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(0, 8, "Amount ("+inv.Currency+")", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range inv.Items {
		pdf.CellFormat(130, 8, tr(item.Description), "1", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, item.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(130, 9, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(0, 9, inv.Total.StringFixed(2), "1", 1, "R", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(0, 5, "Thank you for choosing us. Please bring this receipt to your appointment.", "", "L", false)
	pdf.CellFormat(0, 8, "This is a computer generated receipt", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.Number, err)
	}
	return buf.Bytes(), nil
}

func addDetail(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(45, 8, label, "1", 0, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 8, value, "1", 1, "", false, 0, "")
}
