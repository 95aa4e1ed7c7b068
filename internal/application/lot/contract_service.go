package lot

import (
	"context"

	"github.com/trucklot/backend/internal/domain/lot"
	"github.com/trucklot/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ContractService opens, ends and removes parking contracts
type ContractService struct {
	contractRepo lot.ContractRepository
	customerRepo lot.CustomerRepository
	truckRepo    lot.TruckRepository
	logger       *zap.Logger
}

// NewContractService creates a new ContractService
func NewContractService(
	contractRepo lot.ContractRepository,
	customerRepo lot.CustomerRepository,
	truckRepo lot.TruckRepository,
	logger *zap.Logger,
) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		customerRepo: customerRepo,
		truckRepo:    truckRepo,
		logger:       logger.Named("contracts"),
	}
}

// Create opens an active contract. The customer must exist, and a truck,
// when given, must exist and belong to that customer.
func (s *ContractService) Create(ctx context.Context, req CreateContractRequest) (*ContractResponse, error) {
	contract, err := lot.NewContract(lot.ContractInput{
		CustomerID:  req.CustomerID,
		TruckID:     req.TruckID,
		MonthlyRate: req.MonthlyRate,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Notes:       req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.customerRepo.FindByID(ctx, contract.CustomerID); err != nil {
		return nil, err
	}
	if contract.TruckID != nil {
		truck, err := s.truckRepo.FindByID(ctx, *contract.TruckID)
		if err != nil {
			return nil, err
		}
		if truck.CustomerID == nil || *truck.CustomerID != contract.CustomerID {
			return nil, shared.InvalidInputf("Truck %s does not belong to customer %d.", truck.Plate, contract.CustomerID)
		}
	}

	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return nil, err
	}

	s.logger.Info("contract created",
		zap.Int64("contract_id", contract.ID),
		zap.Int64("customer_id", contract.CustomerID),
		zap.String("monthly_rate", contract.MonthlyRate.StringFixed(2)),
		zap.String("start_date", contract.StartDate),
	)
	response := ToContractResponse(contract)
	return &response, nil
}

// GetByID retrieves a contract by ID
func (s *ContractService) GetByID(ctx context.Context, id int64) (*ContractResponse, error) {
	contract, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToContractResponse(contract)
	return &response, nil
}

// List returns contracts, optionally for one customer or only active ones
func (s *ContractService) List(ctx context.Context, customerID *int64, activeOnly bool) ([]ContractResponse, error) {
	contracts, err := s.contractRepo.List(ctx, lot.ListFilter{
		CustomerID: customerID,
		ActiveOnly: activeOnly,
	})
	if err != nil {
		return nil, err
	}
	return ToContractResponses(contracts), nil
}

// SetActive turns a contract on or off. Reactivating can collide with
// another active contract for the same truck.
func (s *ContractService) SetActive(ctx context.Context, id int64, active bool) (*ContractResponse, error) {
	contract, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	contract.IsActive = active
	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return nil, err
	}

	s.logger.Info("contract active flag changed", zap.Int64("contract_id", id), zap.Bool("active", active))
	response := ToContractResponse(contract)
	return &response, nil
}

// End sets the contract's end date. Billing stops accruing after it.
func (s *ContractService) End(ctx context.Context, id int64, endDate string) (*ContractResponse, error) {
	contract, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := contract.End(endDate); err != nil {
		return nil, err
	}
	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return nil, err
	}

	s.logger.Info("contract ended", zap.Int64("contract_id", id), zap.String("end_date", *contract.EndDate))
	response := ToContractResponse(contract)
	return &response, nil
}

// Delete removes a contract with its invoices and payments
func (s *ContractService) Delete(ctx context.Context, id int64) error {
	if err := s.contractRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Warn("contract deleted", zap.Int64("contract_id", id))
	return nil
}
