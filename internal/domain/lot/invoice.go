package lot

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is the anchor record payments of a contract are attached to. Its
// amount is a placeholder; balances are always computed by billing.
type Invoice struct {
	ID          int64
	ContractID  int64
	InvoiceUUID string
	InvoiceYM   string
	InvoiceDate *string
	Amount      decimal.Decimal
	CreatedAt   string
}

// NewAnchorInvoice builds the placeholder invoice for a contract.
func NewAnchorInvoice(contractID int64, invoiceYM, invoiceDate, createdAt string) *Invoice {
	return &Invoice{
		ContractID:  contractID,
		InvoiceUUID: uuid.NewString(),
		InvoiceYM:   invoiceYM,
		InvoiceDate: &invoiceDate,
		Amount:      decimal.Zero,
		CreatedAt:   createdAt,
	}
}
