package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/trucklot/backend/internal/domain/lot"
	"github.com/trucklot/backend/internal/domain/shared"
	"github.com/trucklot/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTruckRepository implements lot.TruckRepository using GORM
type GormTruckRepository struct {
	db *gorm.DB
}

// NewGormTruckRepository creates a new GormTruckRepository
func NewGormTruckRepository(db *gorm.DB) *GormTruckRepository {
	return &GormTruckRepository{db: db}
}

func (r *GormTruckRepository) Create(ctx context.Context, t *lot.Truck) error {
	if t.CreatedAt == "" {
		t.CreatedAt = now()
	}
	model := models.TruckModelFromDomain(t)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError("create truck", err)
	}
	t.ID = model.ID
	return nil
}

func (r *GormTruckRepository) FindByID(ctx context.Context, id int64) (*lot.Truck, error) {
	var model models.TruckModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFoundf("Truck %d not found", id)
		}
		return nil, translateError("find truck", err)
	}
	return model.ToDomain(), nil
}

// List returns trucks ordered by plate, optionally for one customer or
// matching a plate substring.
func (r *GormTruckRepository) List(ctx context.Context, filter lot.ListFilter) ([]lot.Truck, error) {
	query := r.db.WithContext(ctx).Model(&models.TruckModel{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("plate LIKE ?", "%"+lot.NormalizePlate(search)+"%")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var truckModels []models.TruckModel
	if err := query.Order("plate ASC").Find(&truckModels).Error; err != nil {
		return nil, translateError("list trucks", err)
	}

	trucks := make([]lot.Truck, len(truckModels))
	for i := range truckModels {
		trucks[i] = *truckModels[i].ToDomain()
	}
	return trucks, nil
}

// Delete removes the truck; its contracts become customer-level.
func (r *GormTruckRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.TruckModel{}, id)
	if result.Error != nil {
		return translateError("delete truck", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NotFoundf("Truck %d not found", id)
	}
	return nil
}

var _ lot.TruckRepository = (*GormTruckRepository)(nil)
