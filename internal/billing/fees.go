package billing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ── Bill Types ───────────────────────────────────────────────────

// BillType is the fee category of a line item.
type BillType string

const (
	BillTypeUnset   BillType = ""
	BillTypeVisa    BillType = "visa"
	BillTypeSlot    BillType = "slot"
	BillTypeDropbox BillType = "dropbox"
	BillTypeOther   BillType = "other"
)

// Known reports whether t is one of the catalog types.
func (t BillType) Known() bool {
	switch t {
	case BillTypeVisa, BillTypeSlot, BillTypeDropbox, BillTypeOther:
		return true
	}
	return false
}

var typeLabels = map[BillType]string{
	BillTypeVisa:    "Visa Processing Fee",
	BillTypeSlot:    "Slot Booking Fee",
	BillTypeDropbox: "Drop Box Fee",
}

// DisplayLabel returns the human-readable row label for an item. Types
// without a fixed label fall back to the free-text description.
func DisplayLabel(t BillType, description string) string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	if description != "" {
		return description
	}
	return "Other Charges"
}

// ── Fee Table ────────────────────────────────────────────────────

// FeeTable maps fixed-price bill types to their per-unit amount (INR).
type FeeTable map[BillType]float64

// DefaultFees is the standard catalog.
func DefaultFees() FeeTable {
	return FeeTable{
		BillTypeVisa:    5000,
		BillTypeSlot:    20000,
		BillTypeDropbox: 20000,
	}
}

// Lookup returns the fixed fee for t, if it has one.
func (f FeeTable) Lookup(t BillType) (float64, bool) {
	v, ok := f[t]
	return v, ok
}

// ── Amount ───────────────────────────────────────────────────────

// Amount is a user-entered number. It may hold NaN when the input did not
// parse, which encodes as JSON null instead of failing the whole response.
type Amount float64

// Finite reports whether a holds a usable number.
func (a Amount) Finite() bool {
	f := float64(a)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Finite() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(a), 'f', -1, 64)), nil
}

// UnmarshalJSON implements json.Unmarshaler; null decodes as NaN.
func (a *Amount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*a = Amount(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

// ParseAmount converts raw form input the way a browser number field does:
// empty input is zero, anything unparseable is NaN.
func ParseAmount(raw string) Amount {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Amount(math.NaN())
	}
	return Amount(f)
}
