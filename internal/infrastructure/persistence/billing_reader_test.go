package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trucklot/backend/internal/domain/shared"
)

func TestGormBillingReader(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	zed := f.customer(t, "Zed Transport")
	able := f.customer(t, "Able Logistics")
	zedTruck := f.truck(t, zed.ID, "ZZZ-1", strPtr("TX"))
	ableB := f.truck(t, able.ID, "BBB-2", nil)
	ableA := f.truck(t, able.ID, "AAA-1", strPtr("OK"))

	zedContract := f.contract(t, zed.ID, &zedTruck.ID, "300", "2024-01-10", nil)
	ableBContract := f.contract(t, able.ID, &ableB.ID, "250", "2024-02-01", nil)
	ableAContract := f.contract(t, able.ID, &ableA.ID, "200", "2023-11-05", strPtr("2024-03-04"))
	ableLevel := f.contract(t, able.ID, nil, "75", "2024-01-01", nil)

	ended := f.contract(t, able.ID, nil, "90", "2023-01-01", strPtr("2023-06-30"))
	ended.IsActive = false
	require.NoError(t, f.contracts.Update(ctx, ended))

	f.pay(t, zedContract.ID, "300", "2024-01-10")
	f.pay(t, zedContract.ID, "300", "2024-02-12")
	f.pay(t, ableBContract.ID, "125.25", "2024-02-01")
	f.pay(t, ableAContract.ID, "200", "2023-11-05")

	t.Run("active rows ordered by customer then plate", func(t *testing.T) {
		rows, err := f.reader.ActiveContractRows(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 4)

		assert.Equal(t, "Able Logistics", rows[0].CustomerName)
		assert.Nil(t, rows[0].Plate, "customer-level contract sorts first (NULL plate)")
		assert.Equal(t, "AAA-1", *rows[1].Plate)
		assert.Equal(t, "BBB-2", *rows[2].Plate)
		assert.Equal(t, "Zed Transport", rows[3].CustomerName)
		assert.True(t, decimal.NewFromInt(300).Equal(rows[3].MonthlyRate))
		assert.True(t, rows[3].IsActive)
		require.NotNil(t, rows[1].EndDate)
		assert.Equal(t, "2024-03-04", *rows[1].EndDate)
	})

	t.Run("active for customer ordered by id", func(t *testing.T) {
		rows, err := f.reader.ActiveContractsForCustomer(ctx, able.ID)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []int64{ableBContract.ID, ableAContract.ID, ableLevel.ID},
			[]int64{rows[0].ContractID, rows[1].ContractID, rows[2].ContractID})
	})

	t.Run("all rows include ended contracts", func(t *testing.T) {
		rows, err := f.reader.AllContractRows(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 5)
		assert.Equal(t, ableLevel.ID, rows[0].ContractID)
		assert.Equal(t, ended.ID, rows[1].ContractID)
		assert.False(t, rows[1].IsActive)
	})

	t.Run("snapshot", func(t *testing.T) {
		row, err := f.reader.ContractSnapshot(ctx, zedContract.ID)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-10", row.StartDate)
		assert.Equal(t, zed.ID, row.CustomerID)

		_, err = f.reader.ContractSnapshot(ctx, 999)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("paid total respects as-of date", func(t *testing.T) {
		paid, err := f.reader.PaidTotalAsOf(ctx, zedContract.ID, "2024-02-11")
		require.NoError(t, err)
		assert.Equal(t, "300", paid.String())

		paid, err = f.reader.PaidTotalAsOf(ctx, zedContract.ID, "2024-02-12")
		require.NoError(t, err)
		assert.Equal(t, "600", paid.String())

		paid, err = f.reader.PaidTotalAsOf(ctx, ableLevel.ID, "2024-12-31")
		require.NoError(t, err)
		assert.True(t, paid.IsZero())
	})

	t.Run("batch paid totals", func(t *testing.T) {
		totals, err := f.reader.PaidTotalsAsOf(ctx, "2024-02-01")
		require.NoError(t, err)
		assert.Len(t, totals, 3)
		assert.Equal(t, "300", totals[zedContract.ID].String())
		assert.Equal(t, "125.25", totals[ableBContract.ID].String())

		forAble, err := f.reader.PaidTotalsForCustomerAsOf(ctx, able.ID, "2024-12-31")
		require.NoError(t, err)
		assert.Len(t, forAble, 2)
		_, hasZed := forAble[zedContract.ID]
		assert.False(t, hasZed)

		all, err := f.reader.PaidTotals(ctx)
		require.NoError(t, err)
		assert.Equal(t, "600", all[zedContract.ID].String())
	})

	t.Run("recent payments newest first with limit", func(t *testing.T) {
		rows, err := f.reader.RecentPaymentsForCustomer(ctx, able.ID, 1)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "2024-02-01", rows[0].PaidAt)
		assert.Equal(t, "BBB-2", *rows[0].Plate)
		assert.Equal(t, "cash", rows[0].Method)

		none, err := f.reader.RecentPaymentsForCustomer(ctx, able.ID, 0)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("payments for customer grouped by contract", func(t *testing.T) {
		byContract, err := f.reader.PaymentsForCustomer(ctx, zed.ID)
		require.NoError(t, err)
		require.Len(t, byContract[zedContract.ID], 2)
		assert.Equal(t, "2024-01-10", byContract[zedContract.ID][0].PaidAt)
	})

	t.Run("customer basic", func(t *testing.T) {
		basic, err := f.reader.CustomerBasic(ctx, able.ID)
		require.NoError(t, err)
		assert.Equal(t, "Able Logistics", basic.Name)
		assert.Nil(t, basic.Phone)

		_, err = f.reader.CustomerBasic(ctx, 999)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("ledger contracts active first then start date", func(t *testing.T) {
		rows, err := f.reader.LedgerContracts(ctx, able.ID)
		require.NoError(t, err)
		require.Len(t, rows, 4)

		assert.Equal(t, ableAContract.ID, rows[0].ContractID)
		assert.Equal(t, "AAA-1 OK", *rows[0].TruckInfo)
		assert.Equal(t, ableLevel.ID, rows[1].ContractID)
		assert.Nil(t, rows[1].TruckInfo)
		assert.Equal(t, "BBB-2", *rows[2].TruckInfo)
		assert.Equal(t, ended.ID, rows[3].ContractID)
	})
}
