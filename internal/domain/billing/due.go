package billing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/trucklot/backend/internal/domain/calendar"
)

// NextDueAfter returns the next date a month of rent becomes due for a
// contract that started on start, seen from asOf. Before the contract starts
// the start date itself is due. Anniversary days past the end of a short
// month fall back to its last day.
func NextDueAfter(start, asOf time.Time) time.Time {
	if !asOf.After(start) {
		return start
	}

	year, month := asOf.Year(), int(asOf.Month())
	if asOf.Day() > start.Day() {
		year, month = calendar.AddMonths(year, month, 1)
	}
	return calendar.ClampedDate(year, month, start.Day())
}

// NextDueForLine returns the due date to report for a billed contract, or
// false when nothing is owed or the rate is not positive. The date never
// goes past the contract end.
func NextDueForLine(accrual Accrual, line ContractLine, asOf time.Time) (time.Time, bool) {
	if !IsOwing(line.Outstanding) || !line.MonthlyRate.IsPositive() {
		return time.Time{}, false
	}
	due := NextDueAfter(accrual.Start, asOf)
	if accrual.End != nil && due.After(*accrual.End) {
		due = *accrual.End
	}
	return due, true
}

// OldestUnpaidDue returns the due date of the earliest month not covered by
// paid, counting whole months of rate from start.
func OldestUnpaidDue(start time.Time, rate, paid decimal.Decimal) time.Time {
	paidMonths := 0
	if rate.IsPositive() {
		paidMonths = int(paid.Div(rate).Floor().IntPart())
	}
	year, month := calendar.AddMonths(start.Year(), int(start.Month()), paidMonths)
	return calendar.ClampedDate(year, month, start.Day())
}
