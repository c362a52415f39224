// Package render turns an invoice content model into a printable PDF.
// It knows nothing about line items or validation; everything it draws comes
// from billing.Document.
package render

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"formdesk-backend/internal/billing"
)

// ContentType is the MIME type of rendered documents.
const ContentType = "application/pdf"

// Page geometry in millimetres (A4 portrait).
const (
	margin       = 10.0
	tableX       = 15.0
	tableStartY  = 75.0
	rowHeight    = 8.0
	footerY      = 285.0
	tableBottomY = 270.0
)

// Column widths, matching billing.Columns.
var colWidths = []float64{70, 20, 30, 30, 30}

// PDFRenderer draws invoices onto A4 pages.
type PDFRenderer struct {
	// Timestamp pins the PDF creation date so identical documents render to
	// identical bytes. Zero means "now".
	Timestamp time.Time
}

// NewPDFRenderer returns a renderer with default settings.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render writes doc as a PDF to w.
func (r *PDFRenderer) Render(w io.Writer, doc billing.Document) error {
	if len(doc.Columns) != len(colWidths) {
		return fmt.Errorf("render: expected %d columns, got %d", len(colWidths), len(doc.Columns))
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(doc.Header.Title+" "+doc.Meta.ReceiptNo, true)
	pdf.SetCreator(doc.Header.Name, true)
	if !r.Timestamp.IsZero() {
		pdf.SetCreationDate(r.Timestamp)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()

	newPage := func() {
		pdf.AddPage()
		pdf.SetDrawColor(100, 100, 100)
		pdf.SetLineWidth(0.3)
		pdf.Rect(margin, margin, pageW-2*margin, 275, "D")
		drawFooter(pdf, tr, doc.Footer)
	}

	newPage()
	drawHeader(pdf, tr, doc, pageW)

	pdf.SetXY(tableX, tableStartY)
	drawTableHead(pdf, tr, doc.Columns)
	for _, row := range doc.Rows {
		if pdf.GetY()+rowHeight > tableBottomY {
			newPage()
			pdf.SetXY(tableX, margin+10)
			drawTableHead(pdf, tr, doc.Columns)
		}
		drawRow(pdf, tr, row.Cells())
	}

	totalY := pdf.GetY() + 10
	if totalY > tableBottomY {
		newPage()
		totalY = margin + 15
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(120, totalY, tr(doc.TotalLine))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render: write pdf: %w", err)
	}
	return nil
}

func drawHeader(pdf *gofpdf.Fpdf, tr func(string) string, doc billing.Document, pageW float64) {
	// Issuer name, blue with a thin red underline
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(0, 102, 204)
	pdf.Text(45, 20, tr(doc.Header.Name))

	nameW := pdf.GetStringWidth(tr(doc.Header.Name))
	pdf.SetDrawColor(255, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.Line(45, 22, 45+nameW+2, 22)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for i, line := range doc.Header.AddressLines {
		pdf.Text(45, 30+float64(i)*4.5, tr(line))
	}

	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.2)
	pdf.Line(margin, 45, pageW-margin, 45)

	pdf.SetFont("Helvetica", "B", 16)
	titleW := pdf.GetStringWidth(tr(doc.Header.Title))
	pdf.Text((pageW-titleW)/2, 55, tr(doc.Header.Title))

	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(pageW-70, 62, tr("Receipt No: "+doc.Meta.ReceiptNo))
	pdf.Text(pageW-70, 68, tr("Date: "+doc.Meta.Date))
	pdf.Text(15, 65, tr("Customer Name: "+doc.Meta.CustomerName))
	pdf.Text(15, 72, tr("Mobile: "+doc.Meta.Mobile))
}

func drawTableHead(pdf *gofpdf.Fpdf, tr func(string) string, cols []string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(0, 102, 204)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	for i, c := range cols {
		pdf.CellFormat(colWidths[i], rowHeight, tr(c), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetX(tableX)
}

func drawRow(pdf *gofpdf.Fpdf, tr func(string) string, cells []string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for i, c := range cells {
		pdf.CellFormat(colWidths[i], rowHeight, tr(c), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetX(tableX)
}

func drawFooter(pdf *gofpdf.Fpdf, tr func(string) string, footer string) {
	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(15, footerY, tr(footer))
}
