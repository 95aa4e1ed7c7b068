package lot

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/trucklot/backend/internal/domain/lot"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *lot.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id int64) (*lot.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lot.Customer), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, filter lot.ListFilter) ([]lot.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]lot.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Update(ctx context.Context, c *lot.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockTruckRepository struct {
	mock.Mock
}

func (m *MockTruckRepository) Create(ctx context.Context, t *lot.Truck) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTruckRepository) FindByID(ctx context.Context, id int64) (*lot.Truck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lot.Truck), args.Error(1)
}

func (m *MockTruckRepository) List(ctx context.Context, filter lot.ListFilter) ([]lot.Truck, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]lot.Truck), args.Error(1)
}

func (m *MockTruckRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) Create(ctx context.Context, c *lot.Contract) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContractRepository) FindByID(ctx context.Context, id int64) (*lot.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lot.Contract), args.Error(1)
}

func (m *MockContractRepository) List(ctx context.Context, filter lot.ListFilter) ([]lot.Contract, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]lot.Contract), args.Error(1)
}

func (m *MockContractRepository) Update(ctx context.Context, c *lot.Contract) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContractRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
