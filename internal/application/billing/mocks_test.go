package billing

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/trucklot/backend/internal/domain/billing"
	"github.com/trucklot/backend/internal/domain/lot"
)

type MockReader struct {
	mock.Mock
}

func (m *MockReader) ActiveContractRows(ctx context.Context) ([]billing.ContractRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.ContractRow), args.Error(1)
}

func (m *MockReader) ActiveContractsForCustomer(ctx context.Context, customerID int64) ([]billing.ContractRow, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.ContractRow), args.Error(1)
}

func (m *MockReader) AllContractRows(ctx context.Context) ([]billing.ContractRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.ContractRow), args.Error(1)
}

func (m *MockReader) ContractSnapshot(ctx context.Context, contractID int64) (*billing.ContractRow, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.ContractRow), args.Error(1)
}

func (m *MockReader) PaidTotalAsOf(ctx context.Context, contractID int64, asOf string) (decimal.Decimal, error) {
	args := m.Called(ctx, contractID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReader) PaidTotalsAsOf(ctx context.Context, asOf string) (map[int64]decimal.Decimal, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]decimal.Decimal), args.Error(1)
}

func (m *MockReader) PaidTotalsForCustomerAsOf(ctx context.Context, customerID int64, asOf string) (map[int64]decimal.Decimal, error) {
	args := m.Called(ctx, customerID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]decimal.Decimal), args.Error(1)
}

func (m *MockReader) PaidTotals(ctx context.Context) (map[int64]decimal.Decimal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]decimal.Decimal), args.Error(1)
}

func (m *MockReader) RecentPaymentsForCustomer(ctx context.Context, customerID int64, limit int) ([]billing.PaymentRow, error) {
	args := m.Called(ctx, customerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.PaymentRow), args.Error(1)
}

func (m *MockReader) CustomerBasic(ctx context.Context, customerID int64) (*billing.CustomerBasic, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CustomerBasic), args.Error(1)
}

func (m *MockReader) LedgerContracts(ctx context.Context, customerID int64) ([]billing.LedgerContractRow, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.LedgerContractRow), args.Error(1)
}

func (m *MockReader) PaymentsForCustomer(ctx context.Context, customerID int64) (map[int64][]billing.PaymentRow, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]billing.PaymentRow), args.Error(1)
}

// MockLedger runs Atomic callbacks against itself.
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) GetOrCreateAnchor(ctx context.Context, contractID int64, invoiceYM, invoiceDate, createdAt string) (int64, error) {
	args := m.Called(ctx, contractID, invoiceYM, invoiceDate, createdAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedger) CreatePayment(ctx context.Context, p *lot.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockLedger) PaymentStatsByContract(ctx context.Context, contractID int64) (int64, decimal.Decimal, error) {
	args := m.Called(ctx, contractID)
	return args.Get(0).(int64), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockLedger) DeletePaymentsByContract(ctx context.Context, contractID int64) (int64, error) {
	args := m.Called(ctx, contractID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedger) Atomic(ctx context.Context, fn func(lot.PaymentLedger) error) error {
	return fn(m)
}
