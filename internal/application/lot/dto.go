package lot

import (
	"github.com/shopspring/decimal"
	"github.com/trucklot/backend/internal/domain/lot"
)

// =============================================================================
// Customer DTOs
// =============================================================================

// CustomerRequest creates or replaces a customer
type CustomerRequest struct {
	Name    string `json:"name" binding:"required,max=80"`
	Phone   string `json:"phone" binding:"omitempty,max=20"`
	Company string `json:"company" binding:"omitempty,max=80"`
	Notes   string `json:"notes" binding:"omitempty,max=300"`
}

func (r CustomerRequest) input() lot.CustomerInput {
	return lot.CustomerInput{Name: r.Name, Phone: r.Phone, Company: r.Company, Notes: r.Notes}
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Phone     *string `json:"phone,omitempty"`
	Company   *string `json:"company,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *lot.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Company:   c.Company,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
	}
}

// ToCustomerResponses converts a slice of customers
func ToCustomerResponses(customers []lot.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}

// =============================================================================
// Truck DTOs
// =============================================================================

// CreateTruckRequest registers a truck, optionally for a customer
type CreateTruckRequest struct {
	CustomerID *int64 `json:"customer_id" binding:"omitempty,gt=0"`
	Plate      string `json:"plate" binding:"required,plate"`
	State      string `json:"state" binding:"omitempty,usstate"`
	Make       string `json:"make" binding:"omitempty,max=40"`
	Model      string `json:"model" binding:"omitempty,max=40"`
	Notes      string `json:"notes" binding:"omitempty,max=300"`
}

// TruckResponse represents a truck in API responses
type TruckResponse struct {
	ID         int64   `json:"id"`
	CustomerID *int64  `json:"customer_id"`
	Plate      string  `json:"plate"`
	State      *string `json:"state,omitempty"`
	Make       *string `json:"make,omitempty"`
	Model      *string `json:"model,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	Label      string  `json:"label"`
	CreatedAt  string  `json:"created_at"`
}

// ToTruckResponse converts a domain Truck to TruckResponse
func ToTruckResponse(t *lot.Truck) TruckResponse {
	return TruckResponse{
		ID:         t.ID,
		CustomerID: t.CustomerID,
		Plate:      t.Plate,
		State:      t.State,
		Make:       t.Make,
		Model:      t.Model,
		Notes:      t.Notes,
		Label:      t.Label(),
		CreatedAt:  t.CreatedAt,
	}
}

// ToTruckResponses converts a slice of trucks
func ToTruckResponses(trucks []lot.Truck) []TruckResponse {
	responses := make([]TruckResponse, len(trucks))
	for i := range trucks {
		responses[i] = ToTruckResponse(&trucks[i])
	}
	return responses
}

// =============================================================================
// Contract DTOs
// =============================================================================

// CreateContractRequest opens a contract. A missing truck_id makes it a
// customer-level contract.
type CreateContractRequest struct {
	CustomerID  int64  `json:"customer_id" binding:"required,gt=0"`
	TruckID     *int64 `json:"truck_id" binding:"omitempty,gt=0"`
	MonthlyRate string `json:"monthly_rate" binding:"required"`
	StartDate   string `json:"start_date" binding:"required,ymd"`
	EndDate     string `json:"end_date" binding:"omitempty,ymd"`
	Notes       string `json:"notes" binding:"omitempty,max=300"`
}

// EndContractRequest sets a contract end date
type EndContractRequest struct {
	EndDate string `json:"end_date" binding:"required,ymd"`
}

// SetContractActiveRequest toggles a contract
type SetContractActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// ContractResponse represents a contract in API responses
type ContractResponse struct {
	ID            int64           `json:"id"`
	CustomerID    int64           `json:"customer_id"`
	TruckID       *int64          `json:"truck_id"`
	CustomerLevel bool            `json:"customer_level"`
	MonthlyRate   decimal.Decimal `json:"monthly_rate"`
	StartDate     string          `json:"start_date"`
	EndDate       *string         `json:"end_date"`
	IsActive      bool            `json:"is_active"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

// ToContractResponse converts a domain Contract to ContractResponse
func ToContractResponse(c *lot.Contract) ContractResponse {
	return ContractResponse{
		ID:            c.ID,
		CustomerID:    c.CustomerID,
		TruckID:       c.TruckID,
		CustomerLevel: c.IsCustomerLevel(),
		MonthlyRate:   c.MonthlyRate,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		IsActive:      c.IsActive,
		Notes:         c.Notes,
		CreatedAt:     c.CreatedAt,
	}
}

// ToContractResponses converts a slice of contracts
func ToContractResponses(contracts []lot.Contract) []ContractResponse {
	responses := make([]ContractResponse, len(contracts))
	for i := range contracts {
		responses[i] = ToContractResponse(&contracts[i])
	}
	return responses
}
