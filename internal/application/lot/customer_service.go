// Package lot holds the application services for customers, trucks and
// contracts.
package lot

import (
	"context"

	"github.com/trucklot/backend/internal/domain/lot"
	"go.uber.org/zap"
)

// DefaultListLimit caps list queries when the caller gives no limit.
const DefaultListLimit = 500

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo lot.CustomerRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo lot.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger.Named("customers"),
	}
}

// Create validates and stores a new customer
func (s *CustomerService) Create(ctx context.Context, req CustomerRequest) (*CustomerResponse, error) {
	customer, err := lot.NewCustomer(req.input())
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer created", zap.Int64("customer_id", customer.ID), zap.String("name", customer.Name))
	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id int64) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List returns customers whose name, phone or company contains search
func (s *CustomerService) List(ctx context.Context, search string, limit int) ([]CustomerResponse, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	customers, err := s.customerRepo.List(ctx, lot.ListFilter{
		Search: lot.NormalizeWhitespace(search),
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	return ToCustomerResponses(customers), nil
}

// Update replaces a customer's editable fields
func (s *CustomerService) Update(ctx context.Context, id int64, req CustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := customer.Update(req.input()); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete removes a customer together with its contracts. Its trucks stay
// on file without an owner.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Warn("customer deleted", zap.Int64("customer_id", id))
	return nil
}
