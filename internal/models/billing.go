package models

import "strings"

// SetCustomerRequest updates the invoice's customer block.
type SetCustomerRequest struct {
	CustomerName string `json:"customerName"`
	MobileNumber string `json:"mobileNumber"`
}

// Validate only rejects input that can never be a phone number; format
// errors are reported through the invoice's own validation.
func (r *SetCustomerRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if len(r.CustomerName) > 200 {
		errors["customerName"] = "Customer name must be at most 200 characters"
	}
	if len(strings.TrimSpace(r.MobileNumber)) > 15 {
		errors["mobileNumber"] = "Mobile number is too long"
	}
	return errors
}

// SetItemFieldRequest writes raw form input into one line-item field.
type SetItemFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Validate checks the field name is not empty.
func (r *SetItemFieldRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Field == "" {
		errors["field"] = "Field is required"
	}
	return errors
}
