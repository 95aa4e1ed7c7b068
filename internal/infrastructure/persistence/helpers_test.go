package persistence

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/trucklot/backend/internal/domain/lot"
	"github.com/trucklot/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

// newTestDatabase returns a migrated in-memory database. A single
// connection keeps every query on the same in-memory file.
func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	sqlDB, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	m, err := migration.New(sqlDB, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	db, err := NewDatabaseWithConn(sqlDB, zap.NewNop())
	require.NoError(t, err)
	return db
}

type fixture struct {
	db        *Database
	customers *GormCustomerRepository
	trucks    *GormTruckRepository
	contracts *GormContractRepository
	ledger    *GormPaymentLedger
	reader    *GormBillingReader
}

func newFixture(t *testing.T) *fixture {
	db := newTestDatabase(t)
	return &fixture{
		db:        db,
		customers: NewGormCustomerRepository(db.DB),
		trucks:    NewGormTruckRepository(db.DB),
		contracts: NewGormContractRepository(db.DB),
		ledger:    NewGormPaymentLedger(db.DB),
		reader:    NewGormBillingReader(db.DB),
	}
}

func strPtr(s string) *string { return &s }

func (f *fixture) customer(t *testing.T, name string) *lot.Customer {
	t.Helper()
	c := &lot.Customer{Name: name}
	require.NoError(t, f.customers.Create(context.Background(), c))
	return c
}

func (f *fixture) truck(t *testing.T, customerID int64, plate string, state *string) *lot.Truck {
	t.Helper()
	tr := &lot.Truck{CustomerID: &customerID, Plate: plate, State: state}
	require.NoError(t, f.trucks.Create(context.Background(), tr))
	return tr
}

func (f *fixture) contract(t *testing.T, customerID int64, truckID *int64, rate, start string, end *string) *lot.Contract {
	t.Helper()
	c := &lot.Contract{
		CustomerID:  customerID,
		TruckID:     truckID,
		MonthlyRate: decimal.RequireFromString(rate),
		StartDate:   start,
		EndDate:     end,
		IsActive:    true,
	}
	require.NoError(t, f.contracts.Create(context.Background(), c))
	return c
}

func (f *fixture) pay(t *testing.T, contractID int64, amount, paidAt string) *lot.Payment {
	t.Helper()
	ctx := context.Background()
	invoiceID, err := f.ledger.GetOrCreateAnchor(ctx, contractID, paidAt[:7], paidAt, paidAt+" 00:00:00")
	require.NoError(t, err)
	p := &lot.Payment{
		InvoiceID: invoiceID,
		PaidAt:    paidAt,
		Amount:    decimal.RequireFromString(amount),
		Method:    lot.PaymentMethodCash,
	}
	require.NoError(t, f.ledger.CreatePayment(ctx, p))
	return p
}
