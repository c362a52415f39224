package billing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidInvoice is returned when a document is requested for an invoice
// that does not pass validation.
var ErrInvalidInvoice = errors.New("billing: invoice has validation errors")

const (
	// DateLayout is the issue date format printed on the invoice.
	DateLayout = "02/01/2006"
	// Currency prefixes the total line.
	Currency = "INR"
	// Footer is printed at the bottom of every invoice.
	Footer = "This is an online generated bill. No signature required."
)

// Columns are the table headings, in row order.
var Columns = []string{"Bill Type", "Qty", "Base Amount", "Discount", "Total"}

// Issuer is the fixed header block.
type Issuer struct {
	Name         string   `json:"name"`
	AddressLines []string `json:"addressLines"`
	Title        string   `json:"title"`
}

// DefaultIssuer returns the standard invoice header.
func DefaultIssuer() Issuer {
	return Issuer{
		Name: "AA Global Services",
		AddressLines: []string{
			"Flat No H 903, Ambience Courtyard, Survey No. 4,",
			"Opp. Dream Valley, Tanasha Nagar, Manikonda,",
			"Telangana 500089",
		},
		Title: "Billing Invoice",
	}
}

// ── Content Model ────────────────────────────────────────────────
// Everything a renderer needs and nothing about how it is drawn.

// Meta is the receipt/customer block.
type Meta struct {
	ReceiptNo    string `json:"receiptNo"`
	Date         string `json:"date"`
	CustomerName string `json:"customerName"`
	Mobile       string `json:"mobile"`
}

// Row is one table row.
type Row struct {
	Label      string          `json:"label"`
	Quantity   decimal.Decimal `json:"quantity"`
	BaseAmount decimal.Decimal `json:"baseAmount"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
}

// Cells returns the row formatted in Columns order.
func (r Row) Cells() []string {
	return []string{r.Label, r.Quantity.String(), r.BaseAmount.String(), r.Discount.String(), r.Total.String()}
}

// Document is the content model of an exported invoice.
type Document struct {
	Header      Issuer          `json:"header"`
	Meta        Meta            `json:"meta"`
	Columns     []string        `json:"columns"`
	Rows        []Row           `json:"rows"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TotalLine   string          `json:"totalLine"`
	Footer      string          `json:"footer"`
}

// FileName is the suggested download name.
func (d Document) FileName() string {
	return "Invoice_" + d.Meta.ReceiptNo + ".pdf"
}

// BuildInvoiceDocument derives the document from the current state. It is
// deterministic: the same invoice always yields the same document.
func (inv *Invoice) BuildInvoiceDocument() (Document, error) {
	if !inv.Valid() {
		return Document{}, ErrInvalidInvoice
	}

	doc := Document{
		Header: inv.issuer,
		Meta: Meta{
			ReceiptNo:    inv.ReceiptNo,
			Date:         inv.IssuedAt.Format(DateLayout),
			CustomerName: inv.CustomerName,
			Mobile:       inv.MobileNumber,
		},
		Columns: Columns,
		Rows:    make([]Row, 0, len(inv.Items)),
		Footer:  Footer,
	}

	total := decimal.Zero
	for _, item := range inv.Items {
		q, base, disc := toDecimal(item.Quantity), toDecimal(item.BaseAmount), toDecimal(item.Discount)
		lineTotal := q.Mul(base).Sub(q.Mul(disc))
		doc.Rows = append(doc.Rows, Row{
			Label:      DisplayLabel(item.BillType, item.Description),
			Quantity:   q,
			BaseAmount: base,
			Discount:   disc,
			Total:      lineTotal,
		})
		total = total.Add(lineTotal)
	}

	doc.TotalAmount = total
	doc.TotalLine = "Total Bill Amount: " + Currency + " " + total.String()
	return doc, nil
}

// toDecimal converts an amount exactly as entered. Validation guarantees
// finite inputs here, but a non-finite value still maps to zero.
func toDecimal(a Amount) decimal.Decimal {
	if !a.Finite() {
		return decimal.Zero
	}
	return decimal.NewFromFloat(float64(a))
}
