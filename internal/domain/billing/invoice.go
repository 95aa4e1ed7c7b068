package billing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceGroup aggregates one customer's contract lines.
type InvoiceGroup struct {
	CustomerID       int64           `json:"customer_id"`
	CustomerName     string          `json:"customer_name"`
	Lines            []ContractLine  `json:"contracts"`
	TotalExpected    decimal.Decimal `json:"total_expected"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	Status           Status          `json:"status"`
}

// NewInvoiceGroup starts an empty group for a customer.
func NewInvoiceGroup(customerID int64, customerName string) *InvoiceGroup {
	return &InvoiceGroup{
		CustomerID:   customerID,
		CustomerName: customerName,
		Lines:        []ContractLine{},
		Status:       StatusPaid,
	}
}

// Add appends a line and refreshes totals and status.
func (g *InvoiceGroup) Add(line ContractLine) {
	g.Lines = append(g.Lines, line)
	g.TotalExpected = g.TotalExpected.Add(line.Expected)
	g.TotalPaid = g.TotalPaid.Add(line.PaidTotal)
	g.TotalOutstanding = g.TotalOutstanding.Add(line.Outstanding)
	g.Status = StatusFor(g.TotalOutstanding)
}

// SortGroupsByName orders groups by customer name, byte-wise, keeping the
// incoming order for equal names.
func SortGroupsByName(groups []InvoiceGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CustomerName < groups[j].CustomerName
	})
}

// TotalOutstanding sums outstanding across groups without clamping.
func TotalOutstanding(groups []InvoiceGroup) decimal.Decimal {
	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(g.TotalOutstanding)
	}
	return total
}

// InvoiceData is everything needed to print one customer's invoice.
type InvoiceData struct {
	InvoiceUUID      string          `json:"invoice_uuid"`
	AsOf             time.Time       `json:"as_of"`
	Customer         CustomerBasic   `json:"customer"`
	Lines            []ContractLine  `json:"contracts"`
	TotalExpected    decimal.Decimal `json:"total_expected"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	NextDueDate      *time.Time      `json:"next_due_date"`
	RecentPayments   []PaymentRow    `json:"recent_payments"`
}

// AddLine appends a line, updates totals and keeps the earliest due date.
func (d *InvoiceData) AddLine(accrual Accrual, line ContractLine) {
	d.Lines = append(d.Lines, line)
	d.TotalExpected = d.TotalExpected.Add(line.Expected)
	d.TotalPaid = d.TotalPaid.Add(line.PaidTotal)
	d.TotalOutstanding = d.TotalOutstanding.Add(line.Outstanding)

	due, ok := NextDueForLine(accrual, line, d.AsOf)
	if !ok {
		return
	}
	if d.NextDueDate == nil || due.Before(*d.NextDueDate) {
		d.NextDueDate = &due
	}
}
