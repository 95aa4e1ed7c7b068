package billing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/trucklot/backend/internal/domain/calendar"
)

// LedgerContract is one contract in a customer ledger with its payments.
type LedgerContract struct {
	ContractID  int64           `json:"contract_id"`
	IsActive    bool            `json:"is_active"`
	Scope       string          `json:"scope"`
	TruckInfo   string          `json:"truck_info"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	MonthlyRate decimal.Decimal `json:"monthly_rate"`
	Notes       string          `json:"notes"`
	Billed      decimal.Decimal `json:"billed"`
	Paid        decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Payments    []PaymentRow    `json:"payments"`
}

// Ledger is a customer's full billing history as of a date.
type Ledger struct {
	Customer         CustomerBasic    `json:"customer"`
	AsOf             string           `json:"as_of"`
	Contracts        []LedgerContract `json:"contracts"`
	TotalBilled      decimal.Decimal  `json:"total_billed"`
	TotalPaid        decimal.Decimal  `json:"total_paid"`
	TotalOutstanding decimal.Decimal  `json:"total_outstanding"`
}

// BuildLedger bills each contract as of asOf and sets it against every
// payment ever recorded on it. Contracts with an unusable start date show
// nothing billed.
func BuildLedger(customer CustomerBasic, rows []LedgerContractRow, payments map[int64][]PaymentRow, asOf time.Time) Ledger {
	l := Ledger{
		Customer:         customer,
		AsOf:             calendar.FormatYMD(asOf),
		Contracts:        make([]LedgerContract, 0, len(rows)),
		TotalBilled:      decimal.Zero,
		TotalPaid:        decimal.Zero,
		TotalOutstanding: decimal.Zero,
	}

	for _, row := range rows {
		billed := decimal.Zero
		if accrual, ok := Accrue(row.ContractRow, asOf); ok {
			billed = accrual.Expected
		}

		contractPayments := payments[row.ContractID]
		if contractPayments == nil {
			contractPayments = []PaymentRow{}
		}
		paid := decimal.Zero
		for _, p := range contractPayments {
			paid = paid.Add(p.Amount)
		}

		lc := LedgerContract{
			ContractID:  row.ContractID,
			IsActive:    row.IsActive,
			Scope:       "Per Truck",
			StartDate:   row.StartDate,
			EndDate:     deref(row.EndDate),
			MonthlyRate: row.MonthlyRate,
			Notes:       deref(row.Notes),
			TruckInfo:   deref(row.TruckInfo),
			Billed:      billed,
			Paid:        paid,
			Outstanding: billed.Sub(paid),
			Payments:    contractPayments,
		}
		if row.Plate == nil {
			lc.Scope = "Customer"
		}

		l.Contracts = append(l.Contracts, lc)
		l.TotalBilled = l.TotalBilled.Add(billed)
		l.TotalPaid = l.TotalPaid.Add(paid)
	}
	l.TotalOutstanding = l.TotalBilled.Sub(l.TotalPaid)
	return l
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
