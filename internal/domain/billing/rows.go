package billing

import "github.com/shopspring/decimal"

// ContractRow is a contract as read from the store, joined with its
// customer name and truck plate where the query provides them. Dates are
// kept as the raw stored strings; rows with an unusable start date are
// skipped by the billing functions rather than rejected by the store layer.
type ContractRow struct {
	ContractID   int64
	CustomerID   int64
	CustomerName string
	MonthlyRate  decimal.Decimal
	StartDate    string
	EndDate      *string
	Plate        *string
	IsActive     bool
}

// CustomerBasic is the customer header printed on an invoice.
type CustomerBasic struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Phone   *string `json:"phone,omitempty"`
	Company *string `json:"company,omitempty"`
}

// PaymentRow is one payment joined back to its contract.
type PaymentRow struct {
	PaymentID  int64           `json:"payment_id"`
	InvoiceID  int64           `json:"invoice_id"`
	ContractID int64           `json:"contract_id"`
	PaidAt     string          `json:"paid_at"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Plate      *string         `json:"plate"`
	Reference  *string         `json:"reference,omitempty"`
	Notes      *string         `json:"notes,omitempty"`
}

// LedgerContractRow is a contract as shown in the customer ledger.
type LedgerContractRow struct {
	ContractRow
	Notes     *string
	TruckInfo *string
}
