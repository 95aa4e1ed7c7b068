package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trucklot/backend/internal/domain/lot"
	"github.com/trucklot/backend/internal/domain/shared"
)

func TestGormCustomerRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	acme := f.customer(t, "Acme Hauling")
	assert.NotZero(t, acme.ID)
	assert.NotEmpty(t, acme.CreatedAt)

	t.Run("find by id", func(t *testing.T) {
		found, err := f.customers.FindByID(ctx, acme.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Hauling", found.Name)
	})

	t.Run("missing customer is not found", func(t *testing.T) {
		_, err := f.customers.FindByID(ctx, 999)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("duplicate name ignoring case", func(t *testing.T) {
		err := f.customers.Create(ctx, &lot.Customer{Name: "ACME hauling"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
		assert.Equal(t, "A customer with this name already exists.", err.Error())
	})

	t.Run("list with search", func(t *testing.T) {
		f.customer(t, "Bolt Freight")
		require.NoError(t, f.customers.Create(ctx, &lot.Customer{Name: "Cargo Co", Company: strPtr("Acme Subsidiary")}))

		all, err := f.customers.List(ctx, lot.ListFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "Acme Hauling", all[0].Name)

		matched, err := f.customers.List(ctx, lot.ListFilter{Search: "acme"})
		require.NoError(t, err)
		assert.Len(t, matched, 2)

		limited, err := f.customers.List(ctx, lot.ListFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("update", func(t *testing.T) {
		acme.Phone = strPtr("555-0100")
		require.NoError(t, f.customers.Update(ctx, acme))

		found, err := f.customers.FindByID(ctx, acme.ID)
		require.NoError(t, err)
		require.NotNil(t, found.Phone)
		assert.Equal(t, "555-0100", *found.Phone)

		err = f.customers.Update(ctx, &lot.Customer{ID: 999, Name: "Ghost"})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("delete cascades contracts and detaches trucks", func(t *testing.T) {
		owner := f.customer(t, "Delete Me")
		truck := f.truck(t, owner.ID, "DEL-1", nil)
		contract := f.contract(t, owner.ID, &truck.ID, "300", "2024-01-01", nil)
		f.pay(t, contract.ID, "100", "2024-01-05")

		require.NoError(t, f.customers.Delete(ctx, owner.ID))

		_, err := f.contracts.FindByID(ctx, contract.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		detached, err := f.trucks.FindByID(ctx, truck.ID)
		require.NoError(t, err)
		assert.Nil(t, detached.CustomerID)

		assert.True(t, errors.Is(f.customers.Delete(ctx, owner.ID), shared.ErrNotFound))
	})
}

func TestGormTruckRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.customer(t, "A")
	b := f.customer(t, "B")

	f.truck(t, a.ID, "XYZ-9", strPtr("TX"))
	f.truck(t, a.ID, "ABC-1", nil)
	f.truck(t, b.ID, "QRS-5", nil)

	t.Run("plate is unique", func(t *testing.T) {
		err := f.trucks.Create(ctx, &lot.Truck{Plate: "ABC-1"})
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
		assert.Equal(t, "A truck with this plate already exists.", err.Error())
	})

	t.Run("unknown owner is an invalid reference", func(t *testing.T) {
		missing := int64(404)
		err := f.trucks.Create(ctx, &lot.Truck{CustomerID: &missing, Plate: "NEW-1"})
		assert.True(t, errors.Is(err, ErrInvalidReference))
	})

	t.Run("list by customer ordered by plate", func(t *testing.T) {
		trucks, err := f.trucks.List(ctx, lot.ListFilter{CustomerID: &a.ID})
		require.NoError(t, err)
		require.Len(t, trucks, 2)
		assert.Equal(t, "ABC-1", trucks[0].Plate)
		assert.Equal(t, "XYZ-9 TX", trucks[1].Label())
	})

	t.Run("search normalizes plate", func(t *testing.T) {
		trucks, err := f.trucks.List(ctx, lot.ListFilter{Search: "qrs"})
		require.NoError(t, err)
		require.Len(t, trucks, 1)
		assert.Equal(t, "QRS-5", trucks[0].Plate)
	})

	t.Run("delete", func(t *testing.T) {
		trucks, err := f.trucks.List(ctx, lot.ListFilter{CustomerID: &b.ID})
		require.NoError(t, err)
		require.NoError(t, f.trucks.Delete(ctx, trucks[0].ID))
		assert.True(t, errors.Is(f.trucks.Delete(ctx, trucks[0].ID), shared.ErrNotFound))
	})
}

func TestGormContractRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.customer(t, "Owner")
	truck := f.truck(t, owner.ID, "OVR-1", nil)

	first := f.contract(t, owner.ID, &truck.ID, "450.50", "2024-01-01", strPtr("2024-06-30"))

	t.Run("round trips decimal rate", func(t *testing.T) {
		found, err := f.contracts.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("450.5").Equal(found.MonthlyRate))
		assert.True(t, found.IsActive)
		require.NotNil(t, found.EndDate)
		assert.Equal(t, "2024-06-30", *found.EndDate)
	})

	t.Run("overlap is a domain error", func(t *testing.T) {
		c := &lot.Contract{CustomerID: owner.ID, TruckID: &truck.ID, MonthlyRate: decimal.NewFromInt(400), StartDate: "2024-06-01", IsActive: true}
		err := f.contracts.Create(ctx, c)
		assert.True(t, errors.Is(err, lot.ErrContractOverlap))
	})

	t.Run("inactive contracts do not overlap", func(t *testing.T) {
		c := &lot.Contract{CustomerID: owner.ID, TruckID: &truck.ID, MonthlyRate: decimal.NewFromInt(400), StartDate: "2024-06-01", IsActive: false}
		require.NoError(t, f.contracts.Create(ctx, c))

		c.IsActive = true
		assert.True(t, errors.Is(f.contracts.Update(ctx, c), lot.ErrContractOverlap))
	})

	t.Run("update end date then reactivate later contract", func(t *testing.T) {
		require.NoError(t, first.End("2024-05-31"))
		require.NoError(t, f.contracts.Update(ctx, first))

		later := &lot.Contract{CustomerID: owner.ID, TruckID: &truck.ID, MonthlyRate: decimal.NewFromInt(400), StartDate: "2024-07-01", IsActive: true}
		require.NoError(t, f.contracts.Create(ctx, later))
	})

	t.Run("list filters", func(t *testing.T) {
		all, err := f.contracts.List(ctx, lot.ListFilter{CustomerID: &owner.ID})
		require.NoError(t, err)
		assert.Len(t, all, 3)

		active, err := f.contracts.List(ctx, lot.ListFilter{ActiveOnly: true})
		require.NoError(t, err)
		assert.Len(t, active, 2)
		assert.Equal(t, "2024-01-01", active[0].StartDate)
	})

	t.Run("missing customer is an invalid reference", func(t *testing.T) {
		c := &lot.Contract{CustomerID: 999, MonthlyRate: decimal.NewFromInt(1), StartDate: "2024-01-01", IsActive: true}
		assert.True(t, errors.Is(f.contracts.Create(ctx, c), ErrInvalidReference))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, f.contracts.Delete(ctx, first.ID))
		assert.True(t, errors.Is(f.contracts.Delete(ctx, first.ID), shared.ErrNotFound))
	})
}
