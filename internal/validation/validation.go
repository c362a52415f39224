// Package validation provides the pure rule engine shared by the intake form
// and the billing aggregator. Nothing here holds state: rule sets are computed
// from (classification, enabled) and evaluated against a raw value on demand.
package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ── Error Kinds ──────────────────────────────────────────────────
// Kinds match the names a front-end asks about ("required", "pattern", "min").

// Kind identifies which rule a value failed.
type Kind string

const (
	KindRequired Kind = "required"
	KindPattern  Kind = "pattern"
	KindMin      Kind = "min"
)

// ParseKind maps a query string value to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindRequired, KindPattern, KindMin:
		return Kind(s), true
	}
	return "", false
}

// ── Error Taxonomy ───────────────────────────────────────────────

// Code is the user-facing error category attached to a failed rule.
type Code string

const (
	MissingRequiredField Code = "MissingRequiredField"
	PatternMismatch      Code = "PatternMismatch"
	RangeViolation       Code = "RangeViolation"
	SectionIncomplete    Code = "SectionIncomplete"
)

// ── Patterns ─────────────────────────────────────────────────────

var (
	PANPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	PincodePattern = regexp.MustCompile(`^\d{6}$`)
	PhonePattern   = regexp.MustCompile(`^\d{10}$`)
	MobilePattern  = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// ── Classification ───────────────────────────────────────────────

// Class determines which rules a field carries when its section is enabled.
type Class int

const (
	ClassOptional Class = iota // street2, supervisorName, description
	ClassRequired
	ClassPincode
	ClassPhone
	ClassSalary
	ClassPAN    // always enabled
	ClassToggle // always enabled
	ClassMobile // always enabled
)

// ── Rules ────────────────────────────────────────────────────────

// Rule is one active constraint on a field.
type Rule struct {
	Kind    Kind
	Pattern *regexp.Regexp // set when Kind == KindPattern
	Min     float64        // set when Kind == KindMin
}

// RuleSet is the collection of rules active on a field at a point in time.
type RuleSet []Rule

var (
	required = Rule{Kind: KindRequired}
	nonNeg   = Rule{Kind: KindMin, Min: 0}
)

func pattern(re *regexp.Regexp) Rule {
	return Rule{Kind: KindPattern, Pattern: re}
}

// RulesFor returns the rule set a field of the given class carries.
// Disabled sections carry no rules at all; always-on classes ignore enabled.
func RulesFor(class Class, enabled bool) RuleSet {
	switch class {
	case ClassPAN:
		return RuleSet{required, pattern(PANPattern)}
	case ClassToggle:
		return RuleSet{required}
	case ClassMobile:
		return RuleSet{required, pattern(MobilePattern)}
	}

	if !enabled {
		return nil
	}

	switch class {
	case ClassRequired:
		return RuleSet{required}
	case ClassPincode:
		return RuleSet{required, pattern(PincodePattern)}
	case ClassPhone:
		return RuleSet{required, pattern(PhonePattern)}
	case ClassSalary:
		return RuleSet{required, nonNeg}
	default:
		return nil
	}
}

// Evaluate runs every rule against value and returns the kinds that failed.
// An empty value only ever fails "required": pattern and min rules skip it.
func Evaluate(value string, rules RuleSet) []Kind {
	var failed []Kind
	trimmed := strings.TrimSpace(value)

	for _, r := range rules {
		switch r.Kind {
		case KindRequired:
			if trimmed == "" {
				failed = append(failed, KindRequired)
			}
		case KindPattern:
			if trimmed != "" && !r.Pattern.MatchString(value) {
				failed = append(failed, KindPattern)
			}
		case KindMin:
			if trimmed == "" {
				continue
			}
			n, err := strconv.ParseFloat(trimmed, 64)
			if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
				// non-numeric salary is a format problem, not a range one
				failed = append(failed, KindPattern)
				continue
			}
			if n < r.Min {
				failed = append(failed, KindMin)
			}
		}
	}
	return failed
}

// CodeFor maps a failed rule kind to its taxonomy code.
func CodeFor(class Class, kind Kind) Code {
	switch kind {
	case KindPattern:
		return PatternMismatch
	case KindMin:
		return RangeViolation
	}
	if class == ClassToggle {
		return SectionIncomplete
	}
	return MissingRequiredField
}

// ── Numeric Checks ───────────────────────────────────────────────
// Used by billing, where values are already numbers.

// AtLeast reports whether v is a finite number >= min.
func AtLeast(v, min float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= min
}
