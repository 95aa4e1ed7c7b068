package lot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trucklot/backend/internal/domain/lot"
	"github.com/trucklot/backend/internal/domain/shared"
	"go.uber.org/zap"
)

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes and stores", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("Create", ctx, mock.MatchedBy(func(c *lot.Customer) bool {
			return c.Name == "Joe Diaz" && c.Phone != nil && *c.Phone == "(555) 123-4567" && c.Company == nil
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*lot.Customer).ID = 12
		}).Return(nil)

		resp, err := NewCustomerService(repo, zap.NewNop()).Create(ctx, CustomerRequest{Name: "  Joe   Diaz ", Phone: "(555) 123-4567"})
		require.NoError(t, err)
		assert.Equal(t, int64(12), resp.ID)
		assert.Equal(t, "Joe Diaz", resp.Name)
		repo.AssertExpectations(t)
	})

	t.Run("blank name never reaches the store", func(t *testing.T) {
		repo := new(MockCustomerRepository)

		_, err := NewCustomerService(repo, zap.NewNop()).Create(ctx, CustomerRequest{Name: "   "})
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate name", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("Create", ctx, mock.Anything).Return(shared.NewDomainError(shared.ErrAlreadyExists.Code, "Customer name already exists"))

		_, err := NewCustomerService(repo, zap.NewNop()).Create(ctx, CustomerRequest{Name: "Acme"})
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	})
}

func TestCustomerService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	repo.On("List", ctx, lot.ListFilter{Search: "acme co", Limit: DefaultListLimit}).Return([]lot.Customer{
		{ID: 1, Name: "Acme Co"},
		{ID: 2, Name: "Acme Co West"},
	}, nil)

	resp, err := NewCustomerService(repo, zap.NewNop()).List(ctx, "  acme   co ", 0)
	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "Acme Co West", resp[1].Name)
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("missing customer", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("FindByID", ctx, int64(3)).Return(nil, shared.NotFoundf("Customer 3 not found"))

		_, err := NewCustomerService(repo, zap.NewNop()).Update(ctx, 3, CustomerRequest{Name: "New"})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("replaces fields", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		company := "Old Co"
		repo.On("FindByID", ctx, int64(3)).Return(&lot.Customer{ID: 3, Name: "Old", Company: &company, CreatedAt: "2024-01-01 00:00:00"}, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(c *lot.Customer) bool {
			return c.ID == 3 && c.Name == "New" && c.Company == nil
		})).Return(nil)

		resp, err := NewCustomerService(repo, zap.NewNop()).Update(ctx, 3, CustomerRequest{Name: "New"})
		require.NoError(t, err)
		assert.Equal(t, "2024-01-01 00:00:00", resp.CreatedAt)
		repo.AssertExpectations(t)
	})
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	repo.On("Delete", ctx, int64(4)).Return(shared.NotFoundf("Customer 4 not found"))
	repo.On("Delete", ctx, int64(5)).Return(nil)

	svc := NewCustomerService(repo, zap.NewNop())
	assert.True(t, errors.Is(svc.Delete(ctx, 4), shared.ErrNotFound))
	assert.NoError(t, svc.Delete(ctx, 5))
}
