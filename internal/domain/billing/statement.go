package billing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/trucklot/backend/internal/domain/calendar"
)

// MonthFigures is the expected rent and allocated payments for one month.
type MonthFigures struct {
	Month    string          `json:"month"`
	Expected decimal.Decimal `json:"expected"`
	Paid     decimal.Decimal `json:"paid"`
	Balance  decimal.Decimal `json:"balance"`
}

// TrendPoint is the expected rent of one month in a trend series.
type TrendPoint struct {
	Month    string          `json:"month"`
	Expected decimal.Decimal `json:"expected"`
}

// Statement is the business-wide statement for a month.
type Statement struct {
	MonthFigures
	Trend []TrendPoint `json:"trend"`
}

// TrendMonths is the length of the expected-revenue trend in a statement.
const TrendMonths = 12

// billable reports whether a contract takes part in statements: it needs a
// valid start, and inactive contracts only count when they have an end date.
func billable(row ContractRow) (start time.Time, end *time.Time, ok bool) {
	start, ok = calendar.ParseYMD(row.StartDate)
	if !ok {
		return time.Time{}, nil, false
	}
	if e, hasEnd := calendar.ParseOptionalYMD(row.EndDate); hasEnd {
		end = &e
	}
	if !row.IsActive && end == nil {
		return time.Time{}, nil, false
	}
	return start, end, true
}

// expectedThrough is rate times the months accrued through limit, capped at
// the contract end.
func expectedThrough(row ContractRow, start time.Time, end *time.Time, limit time.Time) decimal.Decimal {
	if end != nil {
		limit = calendar.Min(*end, limit)
	}
	months := calendar.ElapsedMonthsInclusive(start, limit)
	return row.MonthlyRate.Mul(decimal.NewFromInt(int64(months)))
}

func maxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ExpectedForMonth sums the rent that falls due within the given month
// across rows.
func ExpectedForMonth(rows []ContractRow, year, month int) decimal.Decimal {
	first, last := calendar.MonthBounds(year, month)
	prevEnd := first.AddDate(0, 0, -1)

	total := decimal.Zero
	for _, row := range rows {
		start, end, ok := billable(row)
		if !ok {
			continue
		}
		through := expectedThrough(row, start, end, last)
		before := expectedThrough(row, start, end, prevEnd)
		total = total.Add(maxZero(through.Sub(before)))
	}
	return total
}

// BuildStatement computes the month's expected rent, the share of each
// contract's all-time payments that lands in the month, and a trend of
// expected rent for the TrendMonths months ending with it. Payments are
// allocated oldest month first, so a contract's paid total covers earlier
// months before this one.
func BuildStatement(rows []ContractRow, paidByContract map[int64]decimal.Decimal, year, month int) Statement {
	first, last := calendar.MonthBounds(year, month)
	prevEnd := first.AddDate(0, 0, -1)

	expected := decimal.Zero
	paid := decimal.Zero
	for _, row := range rows {
		start, end, ok := billable(row)
		if !ok {
			continue
		}
		through := expectedThrough(row, start, end, last)
		before := expectedThrough(row, start, end, prevEnd)
		forMonth := maxZero(through.Sub(before))
		expected = expected.Add(forMonth)

		contractPaid := paidByContract[row.ContractID]
		allocated := maxZero(decimal.Min(contractPaid, through).Sub(decimal.Min(contractPaid, before)))
		if allocated.GreaterThan(forMonth) {
			allocated = forMonth
		}
		paid = paid.Add(allocated)
	}

	trend := make([]TrendPoint, 0, TrendMonths)
	for offset := TrendMonths - 1; offset >= 0; offset-- {
		y, m := calendar.AddMonths(year, month, -offset)
		trend = append(trend, TrendPoint{
			Month:    calendar.YM(calendar.Date(y, time.Month(m), 1)),
			Expected: ExpectedForMonth(rows, y, m),
		})
	}

	return Statement{
		MonthFigures: MonthFigures{
			Month:    calendar.YM(first),
			Expected: expected,
			Paid:     paid,
			Balance:  expected.Sub(paid),
		},
		Trend: trend,
	}
}
