package lot

import (
	"context"

	"github.com/trucklot/backend/internal/domain/lot"
	"go.uber.org/zap"
)

// TruckService handles truck registration
type TruckService struct {
	truckRepo    lot.TruckRepository
	customerRepo lot.CustomerRepository
	logger       *zap.Logger
}

// NewTruckService creates a new TruckService
func NewTruckService(truckRepo lot.TruckRepository, customerRepo lot.CustomerRepository, logger *zap.Logger) *TruckService {
	return &TruckService{
		truckRepo:    truckRepo,
		customerRepo: customerRepo,
		logger:       logger.Named("trucks"),
	}
}

// Create registers a truck. When an owner is given it must exist.
func (s *TruckService) Create(ctx context.Context, req CreateTruckRequest) (*TruckResponse, error) {
	truck, err := lot.NewTruck(lot.TruckInput{
		CustomerID: req.CustomerID,
		Plate:      req.Plate,
		State:      req.State,
		Make:       req.Make,
		Model:      req.Model,
		Notes:      req.Notes,
	})
	if err != nil {
		return nil, err
	}
	if truck.CustomerID != nil {
		if _, err := s.customerRepo.FindByID(ctx, *truck.CustomerID); err != nil {
			return nil, err
		}
	}
	if err := s.truckRepo.Create(ctx, truck); err != nil {
		return nil, err
	}

	s.logger.Info("truck created", zap.Int64("truck_id", truck.ID), zap.String("plate", truck.Plate))
	response := ToTruckResponse(truck)
	return &response, nil
}

// GetByID retrieves a truck by ID
func (s *TruckService) GetByID(ctx context.Context, id int64) (*TruckResponse, error) {
	truck, err := s.truckRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToTruckResponse(truck)
	return &response, nil
}

// List returns trucks, optionally only those of one customer
func (s *TruckService) List(ctx context.Context, customerID *int64, search string) ([]TruckResponse, error) {
	trucks, err := s.truckRepo.List(ctx, lot.ListFilter{
		CustomerID: customerID,
		Search:     lot.NormalizePlate(search),
		Limit:      DefaultListLimit,
	})
	if err != nil {
		return nil, err
	}
	return ToTruckResponses(trucks), nil
}

// Delete removes a truck. Contracts that referenced it become
// customer-level.
func (s *TruckService) Delete(ctx context.Context, id int64) error {
	if err := s.truckRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Warn("truck deleted", zap.Int64("truck_id", id))
	return nil
}
