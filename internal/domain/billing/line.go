package billing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/trucklot/backend/internal/domain/calendar"
)

// SkipUnparsableStart is the reason attached to rows whose start date is
// missing or not a valid calendar date.
const SkipUnparsableStart = "start date missing or invalid"

// Accrual is the rent a contract has accrued as of a date.
type Accrual struct {
	Start        time.Time
	End          *time.Time
	EffectiveEnd time.Time
	Months       int
	Expected     decimal.Decimal
}

// Accrue computes months elapsed and expected rent for row as of asOf. The
// accrual stops at the contract end date when that is earlier than asOf.
// ok is false when the start date cannot be parsed.
func Accrue(row ContractRow, asOf time.Time) (Accrual, bool) {
	start, ok := calendar.ParseYMD(row.StartDate)
	if !ok {
		return Accrual{}, false
	}

	a := Accrual{Start: start, EffectiveEnd: asOf}
	if end, ok := calendar.ParseOptionalYMD(row.EndDate); ok {
		a.End = &end
		a.EffectiveEnd = calendar.Min(end, asOf)
	}
	a.Months = calendar.ElapsedMonthsInclusive(a.Start, a.EffectiveEnd)
	a.Expected = row.MonthlyRate.Mul(decimal.NewFromInt(int64(a.Months)))
	return a, true
}

// ContractLine is the billing summary of one contract as of a date.
type ContractLine struct {
	ContractID    int64           `json:"contract_id"`
	CustomerID    int64           `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	Scope         string          `json:"scope"`
	MonthlyRate   decimal.Decimal `json:"monthly_rate"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	MonthsElapsed int             `json:"months_elapsed"`
	Expected      decimal.Decimal `json:"expected_amount"`
	PaidTotal     decimal.Decimal `json:"paid_total"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	Status        Status          `json:"status"`
}

// LineResult is either a billed line or a skipped row with a reason.
type LineResult struct {
	Line       ContractLine
	SkipReason string
}

// Skipped reports whether the row was left out of billing.
func (r LineResult) Skipped() bool {
	return r.SkipReason != ""
}

// PaidLookup returns the paid total for the contract being billed. It is
// only called for rows that can be billed.
type PaidLookup func() (decimal.Decimal, error)

// BuildLine bills one contract row as of asOf. Rows with an unusable start
// date come back skipped without calling paid. Errors only come from paid.
func BuildLine(row ContractRow, asOf time.Time, paid PaidLookup) (LineResult, error) {
	accrual, ok := Accrue(row, asOf)
	if !ok {
		return LineResult{SkipReason: SkipUnparsableStart}, nil
	}

	paidTotal, err := paid()
	if err != nil {
		return LineResult{}, err
	}

	return LineResult{Line: NewContractLine(row, accrual, paidTotal)}, nil
}

// NewContractLine assembles a line from an accrual and a paid total.
// Outstanding is not clamped, so overpayment shows as a negative balance.
func NewContractLine(row ContractRow, accrual Accrual, paidTotal decimal.Decimal) ContractLine {
	outstanding := accrual.Expected.Sub(paidTotal)
	endDate := ""
	if row.EndDate != nil {
		endDate = *row.EndDate
	}
	return ContractLine{
		ContractID:    row.ContractID,
		CustomerID:    row.CustomerID,
		CustomerName:  row.CustomerName,
		Scope:         ScopeLabel(row.Plate),
		MonthlyRate:   row.MonthlyRate,
		StartDate:     row.StartDate,
		EndDate:       endDate,
		MonthsElapsed: accrual.Months,
		Expected:      accrual.Expected,
		PaidTotal:     paidTotal,
		Outstanding:   outstanding,
		Status:        StatusFor(outstanding),
	}
}
