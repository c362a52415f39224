package models

import "formdesk-backend/internal/intake"

// SetFieldRequest writes one form field.
type SetFieldRequest struct {
	Path  string `json:"path"`
	Value string `json:"value"`
}

// TouchRequest marks a field as interacted with.
type TouchRequest struct {
	Path string `json:"path"`
}

// SetToggleRequest answers a section's yes/no question.
type SetToggleRequest struct {
	Value string `json:"value"`
}

// Validate checks the toggle value is one the form understands.
func (r *SetToggleRequest) Validate() map[string]string {
	errors := make(map[string]string)
	switch intake.Toggle(r.Value) {
	case intake.ToggleUnset, intake.ToggleYes, intake.ToggleNo:
	default:
		errors["value"] = `Value must be "yes", "no" or empty`
	}
	return errors
}

// SectionState is one section's toggle and derived enablement.
type SectionState struct {
	Toggle  intake.Toggle `json:"toggle"`
	Enabled bool          `json:"enabled"`
}

// IntakeState is the form snapshot returned to the UI.
type IntakeState struct {
	Values    intake.Values                      `json:"values"`
	Sections  map[intake.SectionID]SectionState `json:"sections"`
	Errors    []intake.FieldError                `json:"errors"`
	Submitted bool                               `json:"submitted"`
	Valid     bool                               `json:"valid"`
	Summary   *intake.Values                     `json:"summary,omitempty"`
}

// FieldErrorQuery is the answer to "does this field show this error?".
type FieldErrorQuery struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Visible bool   `json:"visible"`
}
