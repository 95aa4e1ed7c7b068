package billing

import "github.com/shopspring/decimal"

// Status is the PAID/DUE classification of a balance.
type Status string

const (
	StatusPaid Status = "PAID"
	StatusDue  Status = "DUE"
)

// CustomerLevelScope labels contracts that are not tied to one truck.
const CustomerLevelScope = "(customer-level)"

// PaidTolerance is the absolute amount under which a balance counts as
// settled. It is a business rule on dollar amounts, not a relative epsilon.
var PaidTolerance = decimal.RequireFromString("0.01")

// StatusFor classifies an outstanding balance.
func StatusFor(outstanding decimal.Decimal) Status {
	if outstanding.LessThanOrEqual(PaidTolerance) {
		return StatusPaid
	}
	return StatusDue
}

// IsOwing reports whether the balance is above the tolerance.
func IsOwing(outstanding decimal.Decimal) bool {
	return outstanding.GreaterThan(PaidTolerance)
}

// ScopeLabel returns the plate for per-truck contracts, or the
// customer-level label.
func ScopeLabel(plate *string) string {
	if plate == nil || *plate == "" {
		return CustomerLevelScope
	}
	return *plate
}
