package lot

import (
	"context"

	"github.com/shopspring/decimal"
)

// ListFilter narrows list queries. Zero values mean no restriction.
type ListFilter struct {
	Search     string
	CustomerID *int64
	ActiveOnly bool
	Limit      int
}

// CustomerRepository persists customers.
type CustomerRepository interface {
	// Create inserts c and sets its ID. A name already used by another
	// customer (case-insensitive) yields shared.ErrAlreadyExists.
	Create(ctx context.Context, c *Customer) error
	FindByID(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context, filter ListFilter) ([]Customer, error)
	Update(ctx context.Context, c *Customer) error
	// Delete removes the customer with its contracts; trucks are detached.
	Delete(ctx context.Context, id int64) error
}

// TruckRepository persists trucks.
type TruckRepository interface {
	Create(ctx context.Context, t *Truck) error
	FindByID(ctx context.Context, id int64) (*Truck, error)
	List(ctx context.Context, filter ListFilter) ([]Truck, error)
	Delete(ctx context.Context, id int64) error
}

// ContractRepository persists contracts. Writes that would give a truck two
// overlapping active contracts fail with ErrContractOverlap.
type ContractRepository interface {
	Create(ctx context.Context, c *Contract) error
	FindByID(ctx context.Context, id int64) (*Contract, error)
	List(ctx context.Context, filter ListFilter) ([]Contract, error)
	Update(ctx context.Context, c *Contract) error
	Delete(ctx context.Context, id int64) error
}

// PaymentLedger is the write side for payments and their anchor invoices.
type PaymentLedger interface {
	// GetOrCreateAnchor returns the contract's most recent invoice id, or
	// creates a zero amount anchor invoice and returns its id.
	GetOrCreateAnchor(ctx context.Context, contractID int64, invoiceYM, invoiceDate, createdAt string) (int64, error)
	CreatePayment(ctx context.Context, p *Payment) error
	// PaymentStatsByContract returns how many payments the contract has and
	// their sum.
	PaymentStatsByContract(ctx context.Context, contractID int64) (int64, decimal.Decimal, error)
	DeletePaymentsByContract(ctx context.Context, contractID int64) (int64, error)
	// Atomic runs fn against a ledger bound to one transaction.
	Atomic(ctx context.Context, fn func(PaymentLedger) error) error
}
