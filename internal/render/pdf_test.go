package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"formdesk-backend/internal/billing"
)

func sampleDocument(rows int) billing.Document {
	doc := billing.Document{
		Header:  billing.DefaultIssuer(),
		Meta:    billing.Meta{ReceiptNo: "#54321", Date: "18/10/2026", CustomerName: "Ravi Kumar", Mobile: "9876543210"},
		Columns: billing.Columns,
		Footer:  billing.Footer,
	}
	for i := 0; i < rows; i++ {
		doc.Rows = append(doc.Rows, billing.Row{
			Label:      "Visa Processing Fee",
			Quantity:   decimal.NewFromInt(1),
			BaseAmount: decimal.NewFromInt(5000),
			Discount:   decimal.Zero,
			Total:      decimal.NewFromInt(5000),
		})
	}
	doc.TotalAmount = decimal.NewFromInt(int64(5000 * rows))
	doc.TotalLine = "Total Bill Amount: INR " + doc.TotalAmount.String()
	return doc
}

func TestRenderProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPDFRenderer().Render(&buf, sampleDocument(2)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF: %q", buf.Bytes()[:8])
	}
}

func TestRenderPaginatesLongTables(t *testing.T) {
	var short, long bytes.Buffer
	r := NewPDFRenderer()
	if err := r.Render(&short, sampleDocument(1)); err != nil {
		t.Fatal(err)
	}
	if err := r.Render(&long, sampleDocument(60)); err != nil {
		t.Fatal(err)
	}
	if n := bytes.Count(long.Bytes(), []byte("/Type /Page\n")); n < 2 {
		t.Errorf("expected at least 2 pages for 60 rows, got %d", n)
	}
	if n := bytes.Count(short.Bytes(), []byte("/Type /Page\n")); n != 1 {
		t.Errorf("expected 1 page for 1 row, got %d", n)
	}
}

func TestRenderIsDeterministicWithTimestamp(t *testing.T) {
	r := &PDFRenderer{Timestamp: time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)}
	var a, b bytes.Buffer
	if err := r.Render(&a, sampleDocument(3)); err != nil {
		t.Fatal(err)
	}
	if err := r.Render(&b, sampleDocument(3)); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("same document rendered to different bytes")
	}
}

func TestRenderRejectsColumnMismatch(t *testing.T) {
	doc := sampleDocument(1)
	doc.Columns = doc.Columns[:3]
	if err := NewPDFRenderer().Render(&bytes.Buffer{}, doc); err == nil {
		t.Error("expected error for wrong column count")
	}
}
