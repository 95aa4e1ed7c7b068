package models

import (
	"github.com/shopspring/decimal"
	"github.com/trucklot/backend/internal/domain/lot"
)

// moneyScale drops binary floating point noise from REAL columns and SUM
// aggregates without touching any realistic amount.
const moneyScale = 6

// MoneyFromColumn converts a REAL money value to a decimal.
func MoneyFromColumn(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(moneyScale)
}

// MoneyToColumn converts a decimal amount for a REAL column.
func MoneyToColumn(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// CustomerModel maps to customers.
type CustomerModel struct {
	ID        int64 `gorm:"primaryKey"`
	Name      string
	Phone     *string
	Company   *string
	Notes     *string
	CreatedAt string
}

// TableName implements gorm's tabler.
func (CustomerModel) TableName() string { return "customers" }

// ToDomain converts the model to a domain customer.
func (m *CustomerModel) ToDomain() *lot.Customer {
	return &lot.Customer{
		ID:        m.ID,
		Name:      m.Name,
		Phone:     m.Phone,
		Company:   m.Company,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
	}
}

// CustomerModelFromDomain converts a domain customer to a model.
func CustomerModelFromDomain(c *lot.Customer) *CustomerModel {
	return &CustomerModel{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Company:   c.Company,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
	}
}

// TruckModel maps to trucks.
type TruckModel struct {
	ID         int64 `gorm:"primaryKey"`
	CustomerID *int64
	Plate      string
	State      *string
	Make       *string
	Model      *string
	Notes      *string
	CreatedAt  string
}

func (TruckModel) TableName() string { return "trucks" }

// ToDomain converts the model to a domain truck.
func (m *TruckModel) ToDomain() *lot.Truck {
	return &lot.Truck{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Plate:      m.Plate,
		State:      m.State,
		Make:       m.Make,
		Model:      m.Model,
		Notes:      m.Notes,
		CreatedAt:  m.CreatedAt,
	}
}

func TruckModelFromDomain(t *lot.Truck) *TruckModel {
	return &TruckModel{
		ID:         t.ID,
		CustomerID: t.CustomerID,
		Plate:      t.Plate,
		State:      t.State,
		Make:       t.Make,
		Model:      t.Model,
		Notes:      t.Notes,
		CreatedAt:  t.CreatedAt,
	}
}

// ContractModel maps to contracts.
type ContractModel struct {
	ID          int64 `gorm:"primaryKey"`
	CustomerID  int64
	TruckID     *int64
	MonthlyRate float64
	StartDate   string
	EndDate     *string
	IsActive    bool
	Notes       *string
	CreatedAt   string
}

func (ContractModel) TableName() string { return "contracts" }

// ToDomain converts the model to a domain contract.
func (m *ContractModel) ToDomain() *lot.Contract {
	return &lot.Contract{
		ID:          m.ID,
		CustomerID:  m.CustomerID,
		TruckID:     m.TruckID,
		MonthlyRate: MoneyFromColumn(m.MonthlyRate),
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		IsActive:    m.IsActive,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
	}
}

func ContractModelFromDomain(c *lot.Contract) *ContractModel {
	return &ContractModel{
		ID:          c.ID,
		CustomerID:  c.CustomerID,
		TruckID:     c.TruckID,
		MonthlyRate: MoneyToColumn(c.MonthlyRate),
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		IsActive:    c.IsActive,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
	}
}

// InvoiceModel maps to invoices.
type InvoiceModel struct {
	ID          int64 `gorm:"primaryKey"`
	ContractID  int64
	InvoiceUUID string `gorm:"column:invoice_uuid"`
	InvoiceYM   string `gorm:"column:invoice_ym"`
	InvoiceDate *string
	Amount      float64
	CreatedAt   string
}

func (InvoiceModel) TableName() string { return "invoices" }

func (m *InvoiceModel) ToDomain() *lot.Invoice {
	return &lot.Invoice{
		ID:          m.ID,
		ContractID:  m.ContractID,
		InvoiceUUID: m.InvoiceUUID,
		InvoiceYM:   m.InvoiceYM,
		InvoiceDate: m.InvoiceDate,
		Amount:      MoneyFromColumn(m.Amount),
		CreatedAt:   m.CreatedAt,
	}
}

func InvoiceModelFromDomain(i *lot.Invoice) *InvoiceModel {
	return &InvoiceModel{
		ID:          i.ID,
		ContractID:  i.ContractID,
		InvoiceUUID: i.InvoiceUUID,
		InvoiceYM:   i.InvoiceYM,
		InvoiceDate: i.InvoiceDate,
		Amount:      MoneyToColumn(i.Amount),
		CreatedAt:   i.CreatedAt,
	}
}

// PaymentModel maps to payments.
type PaymentModel struct {
	ID        int64 `gorm:"primaryKey"`
	InvoiceID int64
	PaidAt    string
	Amount    float64
	Method    string
	Reference *string
	Notes     *string
}

func (PaymentModel) TableName() string { return "payments" }

func (m *PaymentModel) ToDomain() *lot.Payment {
	return &lot.Payment{
		ID:        m.ID,
		InvoiceID: m.InvoiceID,
		PaidAt:    m.PaidAt,
		Amount:    MoneyFromColumn(m.Amount),
		Method:    lot.PaymentMethod(m.Method),
		Reference: m.Reference,
		Notes:     m.Notes,
	}
}

func PaymentModelFromDomain(p *lot.Payment) *PaymentModel {
	return &PaymentModel{
		ID:        p.ID,
		InvoiceID: p.InvoiceID,
		PaidAt:    p.PaidAt,
		Amount:    MoneyToColumn(p.Amount),
		Method:    string(p.Method),
		Reference: p.Reference,
		Notes:     p.Notes,
	}
}
