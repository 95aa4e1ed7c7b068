package persistence

import (
	"context"
	"errors"

	"github.com/trucklot/backend/internal/domain/lot"
	"github.com/trucklot/backend/internal/domain/shared"
	"github.com/trucklot/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormContractRepository implements lot.ContractRepository using GORM.
// The overlap triggers reject a second active contract for the same truck.
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

func (r *GormContractRepository) Create(ctx context.Context, c *lot.Contract) error {
	if c.CreatedAt == "" {
		c.CreatedAt = now()
	}
	model := models.ContractModelFromDomain(c)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError("create contract", err)
	}
	c.ID = model.ID
	return nil
}

func (r *GormContractRepository) FindByID(ctx context.Context, id int64) (*lot.Contract, error) {
	var model models.ContractModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFoundf("Contract %d not found", id)
		}
		return nil, translateError("find contract", err)
	}
	return model.ToDomain(), nil
}

// List returns contracts ordered by start date then id.
func (r *GormContractRepository) List(ctx context.Context, filter lot.ListFilter) ([]lot.Contract, error) {
	query := r.db.WithContext(ctx).Model(&models.ContractModel{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var contractModels []models.ContractModel
	if err := query.Order("start_date ASC, id ASC").Find(&contractModels).Error; err != nil {
		return nil, translateError("list contracts", err)
	}

	contracts := make([]lot.Contract, len(contractModels))
	for i := range contractModels {
		contracts[i] = *contractModels[i].ToDomain()
	}
	return contracts, nil
}

// Update saves truck, rate, dates, active flag and notes.
func (r *GormContractRepository) Update(ctx context.Context, c *lot.Contract) error {
	model := models.ContractModelFromDomain(c)
	result := r.db.WithContext(ctx).Model(&models.ContractModel{ID: c.ID}).
		Select("truck_id", "monthly_rate", "start_date", "end_date", "is_active", "notes").
		Updates(model)
	if result.Error != nil {
		return translateError("update contract", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NotFoundf("Contract %d not found", c.ID)
	}
	return nil
}

// Delete removes the contract with its invoices and payments.
func (r *GormContractRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.ContractModel{}, id)
	if result.Error != nil {
		return translateError("delete contract", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NotFoundf("Contract %d not found", id)
	}
	return nil
}

var _ lot.ContractRepository = (*GormContractRepository)(nil)
