package types

import "strings"

// ShippingSnapshot is the shipping address copied onto an order at creation
// time. It is a value copy, never a live reference, so the order keeps its
// historical address even if the saved address changes later.
type ShippingSnapshot struct {
	Name       string  `json:"name"`
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
}

// Validate reports whether the snapshot carries the minimum deliverable fields.
func (s ShippingSnapshot) Validate() bool {
	return strings.TrimSpace(s.Line1) != "" &&
		strings.TrimSpace(s.City) != "" &&
		strings.TrimSpace(s.PostalCode) != "" &&
		strings.TrimSpace(s.Country) != ""
}
