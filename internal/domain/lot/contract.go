package lot

import (
	"github.com/shopspring/decimal"
	"github.com/trucklot/backend/internal/domain/calendar"
	"github.com/trucklot/backend/internal/domain/shared"
)

// Contract is a monthly parking agreement. A nil TruckID makes it a
// customer-level contract covering all of the customer's trucks.
type Contract struct {
	ID          int64
	CustomerID  int64
	TruckID     *int64
	MonthlyRate decimal.Decimal
	StartDate   string
	EndDate     *string
	IsActive    bool
	Notes       *string
	CreatedAt   string
}

// ContractInput carries raw contract fields.
type ContractInput struct {
	CustomerID  int64
	TruckID     *int64
	MonthlyRate string
	StartDate   string
	EndDate     string
	Notes       string
}

// ErrContractOverlap is returned when a truck already has an active contract
// covering part of the requested period.
var ErrContractOverlap = shared.NewDomainError("CONTRACT_OVERLAP", "Overlapping active contract for same truck")

// NewContract validates input and builds an active contract.
func NewContract(in ContractInput) (*Contract, error) {
	if in.CustomerID <= 0 {
		return nil, shared.InvalidInputf("Customer is required.")
	}
	rate, err := ParseAmount("Monthly rate", in.MonthlyRate)
	if err != nil {
		return nil, err
	}
	start, ok := calendar.ParseYMD(in.StartDate)
	if !ok {
		return nil, shared.InvalidInputf("Start date must be YYYY-MM-DD.")
	}

	c := &Contract{
		CustomerID:  in.CustomerID,
		TruckID:     in.TruckID,
		MonthlyRate: rate,
		StartDate:   calendar.FormatYMD(start),
		IsActive:    true,
	}
	if NormalizeWhitespace(in.EndDate) != "" {
		if err := c.End(in.EndDate); err != nil {
			return nil, err
		}
	}
	if c.Notes, err = OptionalText("Notes", in.Notes, MaxNotesLen); err != nil {
		return nil, err
	}
	return c, nil
}

// End sets the contract end date. It must not precede the start date.
func (c *Contract) End(endDate string) error {
	end, ok := calendar.ParseYMD(endDate)
	if !ok {
		return shared.InvalidInputf("End date must be YYYY-MM-DD.")
	}
	if start, ok := calendar.ParseYMD(c.StartDate); ok && end.Before(start) {
		return shared.InvalidInputf("End date cannot be before start date.")
	}
	formatted := calendar.FormatYMD(end)
	c.EndDate = &formatted
	return nil
}

// IsCustomerLevel reports whether the contract covers all trucks.
func (c *Contract) IsCustomerLevel() bool {
	return c.TruckID == nil
}
