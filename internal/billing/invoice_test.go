package billing

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"testing"
	"time"
)

var fixedNow = time.Date(2026, time.October, 18, 10, 30, 0, 0, time.UTC)

func newTestInvoice() *Invoice {
	return New(Options{
		Now:  func() time.Time { return fixedNow },
		IntN: func(n int) int { return 2345 },
	})
}

func TestNewInvoice(t *testing.T) {
	inv := newTestInvoice()

	if len(inv.Items) != 1 {
		t.Fatalf("expected one starter item, got %d", len(inv.Items))
	}
	item := inv.Items[0]
	if item.Quantity != 1 || item.Discount != 0 || item.BaseAmount != 0 || item.BillType != BillTypeUnset {
		t.Errorf("unexpected starter item %+v", item)
	}
	if inv.ReceiptNo != "#12345" {
		t.Errorf("ReceiptNo = %q, want #12345", inv.ReceiptNo)
	}
}

func TestRecomputeTotal(t *testing.T) {
	inv := newTestInvoice()
	inv.Items = []LineItem{
		{BillType: BillTypeVisa, Quantity: 2, Discount: 100, BaseAmount: 5000},
		{BillType: BillTypeOther, Quantity: 1, Discount: 0, BaseAmount: 2000},
	}
	if got := inv.RecomputeTotal(); got != 11800 {
		t.Fatalf("RecomputeTotal() = %v, want 11800", got)
	}
	if inv.TotalAmount != 11800 {
		t.Errorf("TotalAmount = %v, want 11800", inv.TotalAmount)
	}
}

func TestRecomputeTotalSkipsNonFinite(t *testing.T) {
	inv := newTestInvoice()
	inv.Items = []LineItem{
		{BillType: BillTypeSlot, Quantity: 1, BaseAmount: 20000},
		{BillType: BillTypeOther, Quantity: Amount(math.NaN()), BaseAmount: 10},
		{BillType: BillTypeOther, Quantity: 1, BaseAmount: Amount(math.Inf(1))},
	}
	if got := inv.RecomputeTotal(); got != 20000 {
		t.Fatalf("RecomputeTotal() = %v, want 20000", got)
	}
}

func TestOnBillTypeChanged(t *testing.T) {
	tests := []struct {
		name     string
		billType BillType
		prior    Amount
		want     Amount
	}{
		{"visa", BillTypeVisa, 0, 5000},
		{"slot overrides prior", BillTypeSlot, 123, 20000},
		{"dropbox", BillTypeDropbox, 0, 20000},
		{"other keeps entered amount", BillTypeOther, 750, 750},
		{"unknown keeps entered amount", BillType("courier"), 90, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := newTestInvoice()
			inv.Items[0].BillType = tt.billType
			inv.Items[0].BaseAmount = tt.prior
			inv.OnBillTypeChanged(0)

			if got := inv.Items[0].BaseAmount; got != tt.want {
				t.Errorf("BaseAmount = %v, want %v", got, tt.want)
			}
			if inv.TotalAmount != tt.want {
				t.Errorf("TotalAmount = %v, want %v", inv.TotalAmount, tt.want)
			}
		})
	}
}

func TestCustomFeeTable(t *testing.T) {
	inv := New(Options{Fees: FeeTable{BillTypeVisa: 6500}})
	if err := inv.SetItemField(0, "billType", "visa"); err != nil {
		t.Fatal(err)
	}
	if inv.Items[0].BaseAmount != 6500 {
		t.Errorf("BaseAmount = %v, want 6500", inv.Items[0].BaseAmount)
	}
}

func TestAddAndRemoveItem(t *testing.T) {
	inv := newTestInvoice()
	inv.AddItem()
	inv.AddItem()
	if len(inv.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(inv.Items))
	}

	_ = inv.SetItemField(1, "billType", "visa")
	if inv.TotalAmount != 5000 {
		t.Fatalf("TotalAmount = %v, want 5000", inv.TotalAmount)
	}
	if !inv.RemoveItem(1) {
		t.Fatal("RemoveItem(1) reported no-op")
	}
	if len(inv.Items) != 2 || inv.TotalAmount != 0 {
		t.Errorf("after removal: %d items, total %v", len(inv.Items), inv.TotalAmount)
	}
}

func TestRemoveItemOutOfRange(t *testing.T) {
	inv := newTestInvoice()
	before := len(inv.Items)

	for _, idx := range []int{-1, before, 99} {
		if inv.RemoveItem(idx) {
			t.Errorf("RemoveItem(%d) should be a no-op", idx)
		}
	}
	if len(inv.Items) != before {
		t.Errorf("item list changed: %d -> %d", before, len(inv.Items))
	}
}

func TestSetItemField(t *testing.T) {
	inv := newTestInvoice()

	if err := inv.SetItemField(0, "baseAmount", "1500"); err != nil {
		t.Fatal(err)
	}
	if err := inv.SetItemField(0, "quantity", "3"); err != nil {
		t.Fatal(err)
	}
	if err := inv.SetItemField(0, "discount", "100"); err != nil {
		t.Fatal(err)
	}
	if inv.TotalAmount != 4200 {
		t.Errorf("TotalAmount = %v, want 4200", inv.TotalAmount)
	}

	if err := inv.SetItemField(0, "quantity", "three"); err != nil {
		t.Fatal(err)
	}
	if inv.TotalAmount != 0 {
		t.Errorf("non-numeric quantity should contribute 0, got %v", inv.TotalAmount)
	}

	if err := inv.SetItemField(4, "quantity", "1"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
	if err := inv.SetItemField(0, "colour", "red"); !errors.Is(err, ErrUnknownItemField) {
		t.Errorf("expected ErrUnknownItemField, got %v", err)
	}
}

func TestGenerateReceiptNumber(t *testing.T) {
	re := regexp.MustCompile(`^#\d{5}$`)
	for _, n := range []int{0, 1, 45000, 89999} {
		got := GenerateReceiptNumber(func(int) int { return n })
		if !re.MatchString(got) {
			t.Fatalf("receipt %q does not match", got)
		}
		num, _ := strconv.Atoi(got[1:])
		if num < 10000 || num > 99999 {
			t.Errorf("receipt %q out of range", got)
		}
	}

	for i := 0; i < 200; i++ {
		got := New(Options{}).ReceiptNo
		if !re.MatchString(got) {
			t.Fatalf("random receipt %q does not match", got)
		}
	}
}

func validInvoice() *Invoice {
	inv := newTestInvoice()
	inv.SetCustomer("Ravi Kumar", "9876543210")
	_ = inv.SetItemField(0, "billType", "visa")
	_ = inv.SetItemField(0, "quantity", "2")
	_ = inv.SetItemField(0, "discount", "100")
	inv.AddItem()
	_ = inv.SetItemField(1, "billType", "other")
	_ = inv.SetItemField(1, "baseAmount", "2000")
	_ = inv.SetItemField(1, "description", "Courier charges")
	return inv
}

func TestValidate(t *testing.T) {
	if ok, errs := validInvoice().Validate(); !ok {
		t.Fatalf("expected valid invoice, got %+v", errs)
	}

	tests := []struct {
		name   string
		mutate func(inv *Invoice)
		path   string
	}{
		{"missing name", func(inv *Invoice) { inv.SetCustomer("", "9876543210") }, "customerName"},
		{"mobile leading five", func(inv *Invoice) { inv.SetCustomer("Ravi", "5876543210") }, "mobileNumber"},
		{"mobile too short", func(inv *Invoice) { inv.SetCustomer("Ravi", "98765") }, "mobileNumber"},
		{"bill type unset", func(inv *Invoice) { inv.AddItem() }, "items.2.billType"},
		{"zero quantity", func(inv *Invoice) { _ = inv.SetItemField(0, "quantity", "0") }, "items.0.quantity"},
		{"fractional quantity", func(inv *Invoice) { _ = inv.SetItemField(0, "quantity", "1.5") }, "items.0.quantity"},
		{"negative discount", func(inv *Invoice) { _ = inv.SetItemField(1, "discount", "-5") }, "items.1.discount"},
		{"negative base", func(inv *Invoice) { _ = inv.SetItemField(1, "baseAmount", "-1") }, "items.1.baseAmount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := validInvoice()
			tt.mutate(inv)
			ok, errs := inv.Validate()
			if ok {
				t.Fatal("expected invalid invoice")
			}
			found := false
			for _, e := range errs {
				if e.Path == tt.path {
					found = true
				}
			}
			if !found {
				t.Errorf("no error on %s in %+v", tt.path, errs)
			}
		})
	}
}

func TestErrorsHiddenUntilSubmitOrTouch(t *testing.T) {
	inv := newTestInvoice()
	if errs := inv.Errors(); len(errs) != 0 {
		t.Fatalf("fresh invoice should show no errors, got %+v", errs)
	}
	_ = inv.SetItemField(0, "quantity", "0")
	errs := inv.Errors()
	if len(errs) != 1 || errs[0].Path != "items.0.quantity" {
		t.Fatalf("only the touched field should show, got %+v", errs)
	}
	inv.Validate()
	if len(inv.Errors()) < 3 {
		t.Errorf("submit should reveal every error, got %+v", inv.Errors())
	}
}

func TestRemoveItemKeepsTouchedWithItems(t *testing.T) {
	inv := newTestInvoice()
	inv.AddItem()
	inv.AddItem()

	_ = inv.SetItemField(0, "billType", "")
	_ = inv.SetItemField(2, "quantity", "0")
	inv.RemoveItem(0)

	errs := inv.Errors()
	if len(errs) != 1 || errs[0].Path != "items.1.quantity" {
		t.Errorf("touched flags should follow their items, got %+v", errs)
	}
}

func TestStateEncodesNonFiniteAsNull(t *testing.T) {
	inv := newTestInvoice()
	_ = inv.SetItemField(0, "quantity", "abc")

	b, err := json.Marshal(inv.State())
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	var decoded struct {
		Items []struct {
			Quantity  *float64 `json:"quantity"`
			LineTotal *float64 `json:"lineTotal"`
		} `json:"items"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Items[0].Quantity != nil || decoded.Items[0].LineTotal != nil {
		t.Errorf("expected null quantity and line total, got %s", b)
	}
}
