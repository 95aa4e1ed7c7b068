package billing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trucklot/backend/internal/domain/calendar"
)

// OverdueLine is one contract with a balance past due.
type OverdueLine struct {
	Month string `json:"month"`
	AsOf  string `json:"as_of"`
	ContractLine
}

// MatchesQuery reports whether the customer name or plate contains query,
// ignoring case. An empty query matches everything.
func MatchesQuery(row ContractRow, query string) bool {
	q := strings.ToLower(strings.Join(strings.Fields(query), " "))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(row.CustomerName), q) {
		return true
	}
	return row.Plate != nil && strings.Contains(strings.ToLower(*row.Plate), q)
}

// Overdue returns rows owing more than the tolerance as of asOf. Contracts
// starting after asOf, rows with an unusable start, and inactive contracts
// without an end date are left out.
func Overdue(rows []ContractRow, paidByContract map[int64]decimal.Decimal, asOf time.Time, query string) []OverdueLine {
	out := []OverdueLine{}
	for _, row := range rows {
		if !MatchesQuery(row, query) {
			continue
		}
		accrual, ok := Accrue(row, asOf)
		if !ok || accrual.Start.After(asOf) {
			continue
		}
		if !row.IsActive && accrual.End == nil {
			continue
		}
		line := NewContractLine(row, accrual, paidByContract[row.ContractID])
		if !IsOwing(line.Outstanding) {
			continue
		}
		out = append(out, OverdueLine{
			Month:        calendar.YM(asOf),
			AsOf:         calendar.FormatYMD(asOf),
			ContractLine: line,
		})
	}
	return out
}

// Dashboard is the headline figures for the lot as of a date.
type Dashboard struct {
	AsOf                 string          `json:"as_of"`
	ActiveContracts      int             `json:"active_contracts"`
	ExpectedThisMonth    decimal.Decimal `json:"expected_this_month"`
	TotalOutstanding     decimal.Decimal `json:"total_outstanding"`
	OverdueCount         int             `json:"overdue_count"`
	OverdueThresholdDays int             `json:"overdue_threshold_days"`
}

// BuildDashboard computes dashboard figures over active contract rows. A
// contract counts as overdue when its oldest unpaid month fell due at least
// overdueDays before asOf.
func BuildDashboard(rows []ContractRow, paidByContract map[int64]decimal.Decimal, asOf time.Time, overdueDays int) Dashboard {
	monthStart, monthEnd := calendar.MonthBounds(asOf.Year(), int(asOf.Month()))
	cutoff := asOf.AddDate(0, 0, -overdueDays)

	d := Dashboard{
		AsOf:                 calendar.FormatYMD(asOf),
		ActiveContracts:      len(rows),
		ExpectedThisMonth:    decimal.Zero,
		TotalOutstanding:     decimal.Zero,
		OverdueThresholdDays: overdueDays,
	}

	for _, row := range rows {
		accrual, ok := Accrue(row, asOf)
		if !ok {
			continue
		}
		if !accrual.Start.After(monthEnd) && (accrual.End == nil || !accrual.End.Before(monthStart)) {
			d.ExpectedThisMonth = d.ExpectedThisMonth.Add(row.MonthlyRate)
		}

		paid := paidByContract[row.ContractID]
		outstanding := accrual.Expected.Sub(paid)
		d.TotalOutstanding = d.TotalOutstanding.Add(outstanding)

		if IsOwing(outstanding) && !OldestUnpaidDue(accrual.Start, row.MonthlyRate, paid).After(cutoff) {
			d.OverdueCount++
		}
	}
	return d
}
