// Package billing implements the billing aggregator: a dynamic list of line
// items, their totals, and the content model of the exported invoice.
//
// Totals are not reactive. Every mutation point calls RecomputeTotal
// explicitly, mirroring how the form recalculates on each edit.
package billing

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"formdesk-backend/internal/validation"
)

var (
	ErrItemNotFound     = errors.New("billing: no item at that index")
	ErrUnknownItemField = errors.New("billing: unknown item field")
)

// LineItem is one billable row.
type LineItem struct {
	BillType    BillType `json:"billType"`
	Quantity    Amount   `json:"quantity"`
	Discount    Amount   `json:"discount"`
	BaseAmount  Amount   `json:"baseAmount"`
	Description string   `json:"description"`
}

// LineTotal is quantity*baseAmount - quantity*discount. It may be non-finite
// when any input is.
func (li LineItem) LineTotal() Amount {
	return li.Quantity*li.BaseAmount - li.Quantity*li.Discount
}

// FieldError is one failed rule on one invoice field.
type FieldError struct {
	Path    string          `json:"path"`
	Kind    validation.Kind `json:"kind"`
	Code    validation.Code `json:"code"`
	Message string          `json:"message"`
}

// Options configures a new Invoice. Zero values fall back to defaults.
type Options struct {
	Fees   FeeTable
	Issuer Issuer
	Now    func() time.Time
	IntN   func(n int) int
}

// Invoice is one session's billing form.
type Invoice struct {
	CustomerName string
	MobileNumber string
	Items        []LineItem
	ReceiptNo    string
	IssuedAt     time.Time
	TotalAmount  Amount

	fees      FeeTable
	issuer    Issuer
	touched   map[string]bool
	submitted bool
}

// New creates a fresh invoice with one empty item and a new receipt number.
func New(opts Options) *Invoice {
	if opts.Fees == nil {
		opts.Fees = DefaultFees()
	}
	if opts.Issuer.Name == "" {
		opts.Issuer = DefaultIssuer()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IntN == nil {
		opts.IntN = rand.Intn
	}

	inv := &Invoice{
		IssuedAt:  opts.Now(),
		ReceiptNo: GenerateReceiptNumber(opts.IntN),
		fees:      opts.Fees,
		issuer:    opts.Issuer,
		touched:   make(map[string]bool),
	}
	inv.AddItem()
	return inv
}

// GenerateReceiptNumber returns "#" followed by a 5-digit number in
// [10000, 99999]. Receipts are not checked against earlier ones.
func GenerateReceiptNumber(intn func(n int) int) string {
	return "#" + strconv.Itoa(10000+intn(90000))
}

// ── Mutations ────────────────────────────────────────────────────

// AddItem appends an empty line item.
func (inv *Invoice) AddItem() {
	inv.Items = append(inv.Items, LineItem{Quantity: 1})
	inv.RecomputeTotal()
}

// RemoveItem deletes the item at index. Out-of-range indexes are ignored.
func (inv *Invoice) RemoveItem(index int) bool {
	if index < 0 || index >= len(inv.Items) {
		return false
	}
	inv.Items = append(inv.Items[:index], inv.Items[index+1:]...)
	inv.shiftTouched(index)
	inv.RecomputeTotal()
	return true
}

// shiftTouched keeps touched flags attached to the same items after the
// item at removed is deleted: its flags go, later ones move down by one.
func (inv *Invoice) shiftTouched(removed int) {
	shifted := make(map[string]bool, len(inv.touched))
	for path, v := range inv.touched {
		rest, ok := strings.CutPrefix(path, "items.")
		if !ok {
			shifted[path] = v
			continue
		}
		num, name, _ := strings.Cut(rest, ".")
		i, err := strconv.Atoi(num)
		switch {
		case err != nil:
			shifted[path] = v
		case i == removed:
		case i > removed:
			shifted[itemPath(i-1, name)] = v
		default:
			shifted[path] = v
		}
	}
	inv.touched = shifted
}

// OnBillTypeChanged applies the fixed fee for the item's type. Types
// without a fixed fee keep whatever base amount was entered.
func (inv *Invoice) OnBillTypeChanged(index int) {
	if index < 0 || index >= len(inv.Items) {
		return
	}
	item := &inv.Items[index]
	if fee, ok := inv.fees.Lookup(item.BillType); ok {
		item.BaseAmount = Amount(fee)
	}
	inv.RecomputeTotal()
}

// SetCustomer updates the customer block.
func (inv *Invoice) SetCustomer(name, mobile string) {
	inv.CustomerName = name
	inv.MobileNumber = mobile
	inv.touched["customerName"] = true
	inv.touched["mobileNumber"] = true
}

// SetItemField writes raw form input into one field of one item.
func (inv *Invoice) SetItemField(index int, name, raw string) error {
	if index < 0 || index >= len(inv.Items) {
		return fmt.Errorf("set items.%d.%s: %w", index, name, ErrItemNotFound)
	}
	item := &inv.Items[index]

	switch name {
	case "billType":
		item.BillType = BillType(strings.TrimSpace(raw))
	case "quantity":
		item.Quantity = ParseAmount(raw)
	case "discount":
		item.Discount = ParseAmount(raw)
	case "baseAmount":
		item.BaseAmount = ParseAmount(raw)
	case "description":
		item.Description = raw
	default:
		return fmt.Errorf("set items.%d.%s: %w", index, name, ErrUnknownItemField)
	}
	inv.touched[itemPath(index, name)] = true

	if name == "billType" {
		inv.OnBillTypeChanged(index)
		return nil
	}
	inv.RecomputeTotal()
	return nil
}

// RecomputeTotal sums every item's line total. Items whose total is not a
// finite number contribute nothing rather than poisoning the sum.
func (inv *Invoice) RecomputeTotal() Amount {
	var total Amount
	for _, item := range inv.Items {
		if lt := item.LineTotal(); lt.Finite() {
			total += lt
		}
	}
	inv.TotalAmount = total
	return total
}

// ── Validation ───────────────────────────────────────────────────

// Validate marks the invoice submitted and checks every field.
func (inv *Invoice) Validate() (bool, []FieldError) {
	inv.submitted = true
	inv.RecomputeTotal()
	errs := inv.check()
	return len(errs) == 0, errs
}

// Valid checks the invoice without changing any state.
func (inv *Invoice) Valid() bool {
	return len(inv.check()) == 0
}

// Errors returns the errors on fields that were touched, or every error
// once the invoice has been submitted.
func (inv *Invoice) Errors() []FieldError {
	visible := []FieldError{}
	for _, e := range inv.check() {
		if inv.submitted || inv.touched[e.Path] {
			visible = append(visible, e)
		}
	}
	return visible
}

func (inv *Invoice) check() []FieldError {
	var errs []FieldError

	add := func(path string, class validation.Class, kind validation.Kind, msg string) {
		errs = append(errs, FieldError{Path: path, Kind: kind, Code: validation.CodeFor(class, kind), Message: msg})
	}

	for _, k := range validation.Evaluate(inv.CustomerName, validation.RulesFor(validation.ClassRequired, true)) {
		add("customerName", validation.ClassRequired, k, "Customer name is required")
	}
	for _, k := range validation.Evaluate(inv.MobileNumber, validation.RulesFor(validation.ClassMobile, true)) {
		msg := "Mobile number is required"
		if k == validation.KindPattern {
			msg = "Mobile number must be 10 digits starting with 6-9"
		}
		add("mobileNumber", validation.ClassMobile, k, msg)
	}

	for i, item := range inv.Items {
		switch {
		case item.BillType == BillTypeUnset:
			add(itemPath(i, "billType"), validation.ClassRequired, validation.KindRequired, "Bill type is required")
		case !item.BillType.Known():
			add(itemPath(i, "billType"), validation.ClassRequired, validation.KindPattern, "Unknown bill type")
		}
		if !validation.AtLeast(float64(item.Quantity), 1) {
			add(itemPath(i, "quantity"), validation.ClassRequired, validation.KindMin, "Quantity must be at least 1")
		} else if q := float64(item.Quantity); q != math.Trunc(q) {
			add(itemPath(i, "quantity"), validation.ClassRequired, validation.KindPattern, "Quantity must be a whole number")
		}
		if !validation.AtLeast(float64(item.BaseAmount), 0) {
			add(itemPath(i, "baseAmount"), validation.ClassRequired, validation.KindMin, "Base amount cannot be negative")
		}
		if !validation.AtLeast(float64(item.Discount), 0) {
			add(itemPath(i, "discount"), validation.ClassRequired, validation.KindMin, "Discount cannot be negative")
		}
	}
	return errs
}

func itemPath(index int, name string) string {
	return "items." + strconv.Itoa(index) + "." + name
}

// Submitted reports whether Validate has been called.
func (inv *Invoice) Submitted() bool {
	return inv.submitted
}

// State is the read-only view handed to the UI.
type State struct {
	CustomerName string       `json:"customerName"`
	MobileNumber string       `json:"mobileNumber"`
	Items        []ItemState  `json:"items"`
	ReceiptNo    string       `json:"receiptNo"`
	IssuedAt     time.Time    `json:"issuedAt"`
	TotalAmount  Amount       `json:"totalAmount"`
	Submitted    bool         `json:"submitted"`
	Valid        bool         `json:"valid"`
	Errors       []FieldError `json:"errors"`
}

// ItemState is a line item together with its derived total.
type ItemState struct {
	LineItem
	LineTotal Amount `json:"lineTotal"`
}

// State snapshots the invoice for display.
func (inv *Invoice) State() State {
	items := make([]ItemState, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, ItemState{LineItem: item, LineTotal: item.LineTotal()})
	}
	return State{
		CustomerName: inv.CustomerName,
		MobileNumber: inv.MobileNumber,
		Items:        items,
		ReceiptNo:    inv.ReceiptNo,
		IssuedAt:     inv.IssuedAt,
		TotalAmount:  inv.TotalAmount,
		Submitted:    inv.submitted,
		Valid:        inv.Valid(),
		Errors:       inv.Errors(),
	}
}
