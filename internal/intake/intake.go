// Package intake implements the education and employment history form.
//
// Rule sets are never stored on fields. Each section only records whether it
// is enabled; the rules a field carries are derived from that flag and the
// field's class every time they are needed, so flipping a toggle can never
// leave stale errors behind.
package intake

import (
	"errors"
	"fmt"

	"formdesk-backend/internal/validation"
)

var (
	ErrUnknownField   = errors.New("intake: unknown field")
	ErrUnknownSection = errors.New("intake: unknown section")
	ErrInvalidToggle  = errors.New("intake: toggle must be \"\", \"yes\" or \"no\"")
)

// FieldError is one failed rule on one field.
type FieldError struct {
	Path    FieldPath       `json:"path"`
	Kind    validation.Kind `json:"kind"`
	Code    validation.Code `json:"code"`
	Message string          `json:"message"`
}

// Form holds one session's form state.
type Form struct {
	values      Values
	enabled     map[SectionID]bool
	touched     map[FieldPath]bool
	submitted   bool
	showSummary bool
}

// New returns an empty form with every section disabled.
func New() *Form {
	return &Form{
		enabled: make(map[SectionID]bool, len(Sections)),
		touched: make(map[FieldPath]bool),
	}
}

// ── Mutations ────────────────────────────────────────────────────

// SetSectionEnabled records whether a section's rules are active.
// Calling it repeatedly with the same value has no further effect.
func (f *Form) SetSectionEnabled(id SectionID, enabled bool) {
	f.enabled[id] = enabled
}

// SetToggle is the toggle change handler: it stores the selection and
// re-derives the section's enablement from it.
func (f *Form) SetToggle(id SectionID, value Toggle) error {
	switch value {
	case ToggleUnset, ToggleYes, ToggleNo:
	default:
		return ErrInvalidToggle
	}
	t := f.values.toggle(id)
	if t == nil {
		return ErrUnknownSection
	}
	*t = value
	f.showSummary = false
	f.SetSectionEnabled(id, value == ToggleYes)
	return nil
}

// SetField writes a value into the form. Toggle paths are routed through
// SetToggle so their sections stay in step.
func (f *Form) SetField(path FieldPath, value string) error {
	i, ok := fieldIndex[path]
	if !ok {
		return fmt.Errorf("set %q: %w", path, ErrUnknownField)
	}
	fd := fieldTable[i]
	if fd.class == validation.ClassToggle {
		for _, id := range Sections {
			if togglePath(id) == path {
				return f.SetToggle(id, Toggle(value))
			}
		}
	}
	*fd.ref(&f.values) = value
	f.showSummary = false
	return nil
}

// Replace swaps in a whole set of values at once, as a bulk form patch does.
// Every section's enablement follows the new toggles.
func (f *Form) Replace(v Values) {
	f.values = v
	f.showSummary = false
	for _, id := range Sections {
		f.SetSectionEnabled(id, v.Toggle(id) == ToggleYes)
	}
}

// Touch marks a field as interacted with.
func (f *Form) Touch(path FieldPath) error {
	if _, ok := fieldIndex[path]; !ok {
		return fmt.Errorf("touch %q: %w", path, ErrUnknownField)
	}
	f.touched[path] = true
	return nil
}

// Submit marks every field touched, re-derives every section from its
// current toggle and reports whether the whole form is valid.
func (f *Form) Submit() bool {
	f.submitted = true
	f.showSummary = false

	for _, fd := range fieldTable {
		f.touched[fd.path] = true
	}
	for _, id := range Sections {
		f.SetSectionEnabled(id, *f.values.toggle(id) == ToggleYes)
	}

	if !f.Valid() {
		return false
	}
	f.showSummary = true
	return true
}

// ── Derived State ────────────────────────────────────────────────

func (f *Form) rules(fd field) validation.RuleSet {
	return validation.RulesFor(fd.class, f.enabled[fd.section])
}

func (f *Form) failed(fd field) []validation.Kind {
	return validation.Evaluate(*fd.ref(&f.values), f.rules(fd))
}

// Rules returns the rule set currently active on a field.
func (f *Form) Rules(path FieldPath) (validation.RuleSet, error) {
	i, ok := fieldIndex[path]
	if !ok {
		return nil, ErrUnknownField
	}
	return f.rules(fieldTable[i]), nil
}

// Valid evaluates every active rule. Disabled sections carry no rules, so
// they never affect the verdict; toggles and the PAN are always checked.
func (f *Form) Valid() bool {
	for _, fd := range fieldTable {
		if len(f.failed(fd)) > 0 {
			return false
		}
	}
	return true
}

// FieldHasVisibleError reports whether the field currently fails the given
// rule and the user has either touched it or submitted the form.
func (f *Form) FieldHasVisibleError(path FieldPath, kind validation.Kind) bool {
	i, ok := fieldIndex[path]
	if !ok {
		return false
	}
	if !f.touched[path] && !f.submitted {
		return false
	}
	for _, k := range f.failed(fieldTable[i]) {
		if k == kind {
			return true
		}
	}
	return false
}

// Errors returns every error that is currently visible.
func (f *Form) Errors() []FieldError {
	errs := []FieldError{}
	for _, fd := range fieldTable {
		if !f.touched[fd.path] && !f.submitted {
			continue
		}
		for _, k := range f.failed(fd) {
			errs = append(errs, FieldError{
				Path:    fd.path,
				Kind:    k,
				Code:    validation.CodeFor(fd.class, k),
				Message: message(fd, k),
			})
		}
	}
	return errs
}

func message(fd field, k validation.Kind) string {
	switch k {
	case validation.KindPattern:
		switch fd.class {
		case validation.ClassPAN:
			return "PAN card must look like ABCDE1234F"
		case validation.ClassPincode:
			return fd.label + " must be 6 digits"
		case validation.ClassPhone:
			return fd.label + " must be 10 digits"
		case validation.ClassSalary:
			return fd.label + " must be a number"
		}
		return fd.label + " has an invalid format"
	case validation.KindMin:
		return fd.label + " cannot be negative"
	}
	if fd.class == validation.ClassToggle {
		return fd.label + ": please choose yes or no"
	}
	return fd.label + " is required"
}

// Values returns a copy of the entered data.
func (f *Form) Values() Values {
	return f.values
}

// Submitted reports whether Submit has been called at least once.
func (f *Form) Submitted() bool {
	return f.submitted
}

// SectionEnabled reports the recorded enablement of a section.
func (f *Form) SectionEnabled(id SectionID) bool {
	return f.enabled[id]
}

// Summary returns the read-only summary, available only while the last
// submit succeeded and nothing has been edited since.
func (f *Form) Summary() (Values, bool) {
	if !f.showSummary {
		return Values{}, false
	}
	return f.values, true
}
