package domain

import "strings"

// OrderNumber derives the customer-facing order number from a checkout or filing
// reference: the first 16 characters, upper-cased.
func OrderNumber(reference string) string {
	if reference == "" {
		return "N/A"
	}
	r := []rune(reference)
	if len(r) > 16 {
		r = r[:16]
	}
	return strings.ToUpper(string(r))
}
