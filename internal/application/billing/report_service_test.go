package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trucklot/backend/internal/domain/billing"
	"github.com/trucklot/backend/internal/domain/shared"
	"go.uber.org/zap"
)

func TestReportService_Overdue(t *testing.T) {
	ctx := context.Background()
	asOf := day(2024, 6, 20)

	rows := []billing.ContractRow{
		{ContractID: 1, CustomerID: 1, CustomerName: "Acme Hauling", MonthlyRate: dec("100"), StartDate: "2024-01-01", IsActive: true},
		{ContractID: 2, CustomerID: 2, CustomerName: "Bravo", MonthlyRate: dec("100"), StartDate: "2024-06-01", Plate: strPtr("BR-1"), IsActive: true},
		{ContractID: 3, CustomerID: 2, CustomerName: "Bravo", MonthlyRate: dec("100"), StartDate: "2024-01-01", IsActive: false},
	}
	paid := map[int64]decimal.Decimal{1: dec("200"), 2: dec("100")}

	tests := []struct {
		name      string
		query     string
		contracts []int64
	}{
		{"no filter", "", []int64{1}},
		{"customer name ignores case", "ACME", []int64{1}},
		{"plate match that is paid up", "br-1", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := new(MockReader)
			reader.On("AllContractRows", ctx).Return(rows, nil)
			reader.On("PaidTotalsAsOf", ctx, "2024-06-20").Return(paid, nil)

			lines, err := NewReportService(reader, 30, zap.NewNop()).Overdue(ctx, asOf, tt.query)
			require.NoError(t, err)
			ids := make([]int64, 0, len(lines))
			for _, l := range lines {
				ids = append(ids, l.ContractID)
				assert.Equal(t, "2024-06", l.Month)
				assert.Equal(t, "2024-06-20", l.AsOf)
			}
			assert.Equal(t, tt.contracts, ids)
		})
	}

	t.Run("paid totals error", func(t *testing.T) {
		reader := new(MockReader)
		reader.On("AllContractRows", ctx).Return(rows, nil)
		reader.On("PaidTotalsAsOf", ctx, "2024-06-20").Return(nil, errors.New("database is locked"))

		_, err := NewReportService(reader, 30, zap.NewNop()).Overdue(ctx, asOf, "")
		assert.ErrorContains(t, err, "load paid totals")
	})
}

func TestReportService_Statement(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a malformed month", func(t *testing.T) {
		reader := new(MockReader)

		_, err := NewReportService(reader, 30, zap.NewNop()).Statement(ctx, "2024-13")
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		reader.AssertNotCalled(t, "AllContractRows", mock.Anything)
	})

	t.Run("allocates all-time payments to earlier months first", func(t *testing.T) {
		reader := new(MockReader)
		reader.On("AllContractRows", ctx).Return([]billing.ContractRow{
			{ContractID: 1, MonthlyRate: dec("100"), StartDate: "2024-01-10", IsActive: true},
		}, nil)
		reader.On("PaidTotals", ctx).Return(map[int64]decimal.Decimal{1: dec("150")}, nil)

		statement, err := NewReportService(reader, 30, zap.NewNop()).Statement(ctx, "2024-03")
		require.NoError(t, err)
		assert.Equal(t, "2024-03", statement.Month)
		assertDecimal(t, "100", statement.Expected)
		assertDecimal(t, "0", statement.Paid)
		assertDecimal(t, "100", statement.Balance)

		require.Len(t, statement.Trend, billing.TrendMonths)
		assert.Equal(t, "2023-04", statement.Trend[0].Month)
		assertDecimal(t, "0", statement.Trend[0].Expected)
		assert.Equal(t, "2024-03", statement.Trend[11].Month)
		assertDecimal(t, "100", statement.Trend[11].Expected)
		reader.AssertNotCalled(t, "PaidTotalsAsOf", mock.Anything, mock.Anything)
	})
}

func TestReportService_Dashboard(t *testing.T) {
	ctx := context.Background()
	reader := new(MockReader)
	reader.On("ActiveContractRows", ctx).Return([]billing.ContractRow{
		{ContractID: 1, MonthlyRate: dec("100"), StartDate: "2024-01-05", IsActive: true},
		{ContractID: 2, MonthlyRate: dec("50"), StartDate: "2024-06-10", IsActive: true},
		{ContractID: 3, MonthlyRate: dec("75"), StartDate: "not a date", IsActive: true},
	}, nil)
	reader.On("PaidTotalsAsOf", ctx, "2024-06-20").Return(map[int64]decimal.Decimal{1: dec("200")}, nil)

	dashboard, err := NewReportService(reader, 30, zap.NewNop()).Dashboard(ctx, day(2024, 6, 20))
	require.NoError(t, err)
	assert.Equal(t, "2024-06-20", dashboard.AsOf)
	assert.Equal(t, 3, dashboard.ActiveContracts)
	assertDecimal(t, "150", dashboard.ExpectedThisMonth)
	assertDecimal(t, "450", dashboard.TotalOutstanding)
	assert.Equal(t, 1, dashboard.OverdueCount)
	assert.Equal(t, 30, dashboard.OverdueThresholdDays)
}

func TestNewReportService_OverdueDaysFallback(t *testing.T) {
	assert.Equal(t, DefaultOverdueDays, NewReportService(new(MockReader), -1, zap.NewNop()).overdueDays)
	assert.Equal(t, 0, NewReportService(new(MockReader), 0, zap.NewNop()).overdueDays)
}

func TestReportService_Ledger(t *testing.T) {
	ctx := context.Background()

	t.Run("missing customer", func(t *testing.T) {
		reader := new(MockReader)
		reader.On("CustomerBasic", ctx, int64(9)).Return(nil, shared.NotFoundf("Customer 9 not found"))

		_, err := NewReportService(reader, 30, zap.NewNop()).Ledger(ctx, 9, day(2024, 3, 15))
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		reader.AssertNotCalled(t, "LedgerContracts", mock.Anything, mock.Anything)
	})

	t.Run("bills each contract against its payments", func(t *testing.T) {
		reader := new(MockReader)
		reader.On("CustomerBasic", ctx, int64(1)).Return(&billing.CustomerBasic{ID: 1, Name: "Acme"}, nil)
		reader.On("LedgerContracts", ctx, int64(1)).Return([]billing.LedgerContractRow{
			{
				ContractRow: billing.ContractRow{ContractID: 5, CustomerID: 1, MonthlyRate: dec("100"), StartDate: "2024-01-01", Plate: strPtr("AB-1"), IsActive: true},
				TruckInfo:   strPtr("AB-1 Freightliner Cascadia"),
			},
			{
				ContractRow: billing.ContractRow{ContractID: 6, CustomerID: 1, MonthlyRate: dec("40"), StartDate: "2024-02-01", EndDate: strPtr("2024-02-29")},
			},
		}, nil)
		reader.On("PaymentsForCustomer", ctx, int64(1)).Return(map[int64][]billing.PaymentRow{
			5: {{PaymentID: 1, ContractID: 5, PaidAt: "2024-01-02", Amount: dec("150"), Method: "cash"}},
		}, nil)

		ledger, err := NewReportService(reader, 30, zap.NewNop()).Ledger(ctx, 1, day(2024, 3, 15))
		require.NoError(t, err)
		require.Len(t, ledger.Contracts, 2)

		assert.Equal(t, "Per Truck", ledger.Contracts[0].Scope)
		assert.Equal(t, "AB-1 Freightliner Cascadia", ledger.Contracts[0].TruckInfo)
		assertDecimal(t, "300", ledger.Contracts[0].Billed)
		assertDecimal(t, "150", ledger.Contracts[0].Outstanding)
		assert.Len(t, ledger.Contracts[0].Payments, 1)

		assert.Equal(t, "Customer", ledger.Contracts[1].Scope)
		assertDecimal(t, "40", ledger.Contracts[1].Billed)
		assert.Empty(t, ledger.Contracts[1].Payments)

		assertDecimal(t, "340", ledger.TotalBilled)
		assertDecimal(t, "150", ledger.TotalPaid)
		assertDecimal(t, "190", ledger.TotalOutstanding)
	})
}
