package billing

import (
	"context"

	"github.com/shopspring/decimal"
)

// Reader is the read side of the ledger store used by billing. Dates are
// passed as "YYYY-MM-DD" strings; paid totals only count payments whose
// paid_at date is on or before the given date.
type Reader interface {
	// ActiveContractRows returns active contracts with customer name and
	// plate, ordered by customer name then plate.
	ActiveContractRows(ctx context.Context) ([]ContractRow, error)

	// ActiveContractsForCustomer returns a customer's active contracts
	// ordered by id.
	ActiveContractsForCustomer(ctx context.Context, customerID int64) ([]ContractRow, error)

	// AllContractRows returns every contract, active or not, ordered by
	// customer name, plate and id.
	AllContractRows(ctx context.Context) ([]ContractRow, error)

	// ContractSnapshot returns one contract. shared.ErrNotFound when missing.
	ContractSnapshot(ctx context.Context, contractID int64) (*ContractRow, error)

	PaidTotalAsOf(ctx context.Context, contractID int64, asOf string) (decimal.Decimal, error)
	PaidTotalsAsOf(ctx context.Context, asOf string) (map[int64]decimal.Decimal, error)
	PaidTotalsForCustomerAsOf(ctx context.Context, customerID int64, asOf string) (map[int64]decimal.Decimal, error)

	// PaidTotals sums every payment regardless of date, keyed by contract.
	PaidTotals(ctx context.Context) (map[int64]decimal.Decimal, error)

	// RecentPaymentsForCustomer returns up to limit payments, newest first.
	RecentPaymentsForCustomer(ctx context.Context, customerID int64, limit int) ([]PaymentRow, error)

	// CustomerBasic returns shared.ErrNotFound when the customer is missing.
	CustomerBasic(ctx context.Context, customerID int64) (*CustomerBasic, error)

	// LedgerContracts returns all of a customer's contracts, active first
	// then by start date.
	LedgerContracts(ctx context.Context, customerID int64) ([]LedgerContractRow, error)

	// PaymentsForCustomer returns every payment of the customer keyed by
	// contract, oldest first.
	PaymentsForCustomer(ctx context.Context, customerID int64) (map[int64][]PaymentRow, error)
}
