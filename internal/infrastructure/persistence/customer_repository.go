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

// GormCustomerRepository implements lot.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Create inserts the customer and sets its ID.
func (r *GormCustomerRepository) Create(ctx context.Context, c *lot.Customer) error {
	if c.CreatedAt == "" {
		c.CreatedAt = now()
	}
	model := models.CustomerModelFromDomain(c)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError("create customer", err)
	}
	c.ID = model.ID
	return nil
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id int64) (*lot.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFoundf("Customer %d not found", id)
		}
		return nil, translateError("find customer", err)
	}
	return model.ToDomain(), nil
}

// List returns customers ordered by name. Search matches name, phone or
// company case-insensitively.
func (r *GormCustomerRepository) List(ctx context.Context, filter lot.ListFilter) ([]lot.Customer, error) {
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(phone, '')) LIKE ? OR LOWER(COALESCE(company, '')) LIKE ?", like, like, like)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var customerModels []models.CustomerModel
	if err := query.Order("name ASC, id ASC").Find(&customerModels).Error; err != nil {
		return nil, translateError("list customers", err)
	}

	customers := make([]lot.Customer, len(customerModels))
	for i := range customerModels {
		customers[i] = *customerModels[i].ToDomain()
	}
	return customers, nil
}

// Update saves the editable customer fields.
func (r *GormCustomerRepository) Update(ctx context.Context, c *lot.Customer) error {
	model := models.CustomerModelFromDomain(c)
	result := r.db.WithContext(ctx).Model(&models.CustomerModel{ID: c.ID}).
		Select("name", "phone", "company", "notes").
		Updates(model)
	if result.Error != nil {
		return translateError("update customer", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NotFoundf("Customer %d not found", c.ID)
	}
	return nil
}

// Delete removes the customer. Contracts cascade; trucks are detached by
// the foreign key.
func (r *GormCustomerRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.CustomerModel{}, id)
	if result.Error != nil {
		return translateError("delete customer", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NotFoundf("Customer %d not found", id)
	}
	return nil
}

var _ lot.CustomerRepository = (*GormCustomerRepository)(nil)
