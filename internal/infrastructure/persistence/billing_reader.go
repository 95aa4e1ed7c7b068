package persistence

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"github.com/trucklot/backend/internal/domain/billing"
	"github.com/trucklot/backend/internal/domain/shared"
	"github.com/trucklot/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBillingReader implements billing.Reader with hand-written joins.
type GormBillingReader struct {
	db *gorm.DB
}

// NewGormBillingReader creates a new GormBillingReader
func NewGormBillingReader(db *gorm.DB) *GormBillingReader {
	return &GormBillingReader{db: db}
}

const contractRowColumns = `
	c.id AS contract_id, c.customer_id, cu.name AS customer_name,
	c.monthly_rate, c.start_date, c.end_date, t.plate, c.is_active`

const contractRowJoins = `
	FROM contracts c
	JOIN customers cu ON cu.id = c.customer_id
	LEFT JOIN trucks t ON t.id = c.truck_id`

const paymentJoins = `
	FROM payments p
	JOIN invoices i ON i.id = p.invoice_id`

type contractRecord struct {
	ContractID   int64
	CustomerID   int64
	CustomerName string
	MonthlyRate  float64
	StartDate    sql.NullString
	EndDate      *string
	Plate        *string
	IsActive     bool
}

func (r contractRecord) toRow() billing.ContractRow {
	return billing.ContractRow{
		ContractID:   r.ContractID,
		CustomerID:   r.CustomerID,
		CustomerName: r.CustomerName,
		MonthlyRate:  models.MoneyFromColumn(r.MonthlyRate),
		StartDate:    r.StartDate.String,
		EndDate:      r.EndDate,
		Plate:        r.Plate,
		IsActive:     r.IsActive,
	}
}

func toContractRows(records []contractRecord) []billing.ContractRow {
	rows := make([]billing.ContractRow, len(records))
	for i, rec := range records {
		rows[i] = rec.toRow()
	}
	return rows
}

func (r *GormBillingReader) contractRows(ctx context.Context, op, where, order string, args ...any) ([]billing.ContractRow, error) {
	var records []contractRecord
	query := "SELECT " + contractRowColumns + contractRowJoins + where + " ORDER BY " + order
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&records).Error; err != nil {
		return nil, translateError(op, err)
	}
	return toContractRows(records), nil
}

func (r *GormBillingReader) ActiveContractRows(ctx context.Context) ([]billing.ContractRow, error) {
	return r.contractRows(ctx, "active contracts", " WHERE c.is_active = 1", "cu.name, t.plate")
}

func (r *GormBillingReader) ActiveContractsForCustomer(ctx context.Context, customerID int64) ([]billing.ContractRow, error) {
	return r.contractRows(ctx, "customer contracts", " WHERE c.is_active = 1 AND c.customer_id = ?", "c.id", customerID)
}

func (r *GormBillingReader) AllContractRows(ctx context.Context) ([]billing.ContractRow, error) {
	return r.contractRows(ctx, "all contracts", "", "cu.name, t.plate, c.id")
}

func (r *GormBillingReader) ContractSnapshot(ctx context.Context, contractID int64) (*billing.ContractRow, error) {
	rows, err := r.contractRows(ctx, "contract snapshot", " WHERE c.id = ?", "c.id", contractID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.NotFoundf("Contract %d not found", contractID)
	}
	return &rows[0], nil
}

// PaidTotalAsOf sums the contract's payments made on or before asOf.
func (r *GormBillingReader) PaidTotalAsOf(ctx context.Context, contractID int64, asOf string) (decimal.Decimal, error) {
	var total sql.NullFloat64
	err := r.db.WithContext(ctx).Raw(
		"SELECT SUM(p.amount)"+paymentJoins+" WHERE i.contract_id = ? AND DATE(p.paid_at) <= ?",
		contractID, asOf,
	).Row().Scan(&total)
	if err != nil {
		return decimal.Zero, translateError("paid total", err)
	}
	return models.MoneyFromColumn(total.Float64), nil
}

type paidTotalRecord struct {
	ContractID int64
	Total      float64
}

func (r *GormBillingReader) paidTotals(ctx context.Context, op, query string, args ...any) (map[int64]decimal.Decimal, error) {
	var records []paidTotalRecord
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&records).Error; err != nil {
		return nil, translateError(op, err)
	}
	totals := make(map[int64]decimal.Decimal, len(records))
	for _, rec := range records {
		totals[rec.ContractID] = models.MoneyFromColumn(rec.Total)
	}
	return totals, nil
}

func (r *GormBillingReader) PaidTotalsAsOf(ctx context.Context, asOf string) (map[int64]decimal.Decimal, error) {
	return r.paidTotals(ctx, "paid totals",
		"SELECT i.contract_id, SUM(p.amount) AS total"+paymentJoins+
			" WHERE DATE(p.paid_at) <= ? GROUP BY i.contract_id", asOf)
}

func (r *GormBillingReader) PaidTotalsForCustomerAsOf(ctx context.Context, customerID int64, asOf string) (map[int64]decimal.Decimal, error) {
	return r.paidTotals(ctx, "customer paid totals",
		"SELECT i.contract_id, SUM(p.amount) AS total"+paymentJoins+
			" JOIN contracts c ON c.id = i.contract_id"+
			" WHERE c.customer_id = ? AND DATE(p.paid_at) <= ? GROUP BY i.contract_id", customerID, asOf)
}

func (r *GormBillingReader) PaidTotals(ctx context.Context) (map[int64]decimal.Decimal, error) {
	return r.paidTotals(ctx, "all-time paid totals",
		"SELECT i.contract_id, SUM(p.amount) AS total"+paymentJoins+" GROUP BY i.contract_id")
}

type paymentRecord struct {
	PaymentID  int64
	InvoiceID  int64
	ContractID int64
	PaidAt     string
	Amount     float64
	Method     string
	Plate      *string
	Reference  *string
	Notes      *string
}

const paymentRowQuery = `
	SELECT p.id AS payment_id, p.invoice_id, i.contract_id, p.paid_at, p.amount,
	       p.method, t.plate, p.reference, p.notes` + paymentJoins + `
	JOIN contracts c ON c.id = i.contract_id
	LEFT JOIN trucks t ON t.id = c.truck_id
	WHERE c.customer_id = ?`

func (rec paymentRecord) toRow() billing.PaymentRow {
	return billing.PaymentRow{
		PaymentID:  rec.PaymentID,
		InvoiceID:  rec.InvoiceID,
		ContractID: rec.ContractID,
		PaidAt:     rec.PaidAt,
		Amount:     models.MoneyFromColumn(rec.Amount),
		Method:     rec.Method,
		Plate:      rec.Plate,
		Reference:  rec.Reference,
		Notes:      rec.Notes,
	}
}

// RecentPaymentsForCustomer returns at most limit payments, newest first.
func (r *GormBillingReader) RecentPaymentsForCustomer(ctx context.Context, customerID int64, limit int) ([]billing.PaymentRow, error) {
	if limit <= 0 {
		return []billing.PaymentRow{}, nil
	}
	var records []paymentRecord
	err := r.db.WithContext(ctx).Raw(
		paymentRowQuery+" ORDER BY p.paid_at DESC, p.id DESC LIMIT ?", customerID, limit,
	).Scan(&records).Error
	if err != nil {
		return nil, translateError("recent payments", err)
	}

	rows := make([]billing.PaymentRow, len(records))
	for i, rec := range records {
		rows[i] = rec.toRow()
	}
	return rows, nil
}

// PaymentsForCustomer returns the customer's payments grouped by contract,
// oldest first within each contract.
func (r *GormBillingReader) PaymentsForCustomer(ctx context.Context, customerID int64) (map[int64][]billing.PaymentRow, error) {
	var records []paymentRecord
	err := r.db.WithContext(ctx).Raw(
		paymentRowQuery+" ORDER BY p.paid_at ASC, p.id ASC", customerID,
	).Scan(&records).Error
	if err != nil {
		return nil, translateError("customer payments", err)
	}

	byContract := make(map[int64][]billing.PaymentRow)
	for _, rec := range records {
		byContract[rec.ContractID] = append(byContract[rec.ContractID], rec.toRow())
	}
	return byContract, nil
}

func (r *GormBillingReader) CustomerBasic(ctx context.Context, customerID int64) (*billing.CustomerBasic, error) {
	var records []billing.CustomerBasic
	err := r.db.WithContext(ctx).Raw(
		"SELECT id, name, phone, company FROM customers WHERE id = ?", customerID,
	).Scan(&records).Error
	if err != nil {
		return nil, translateError("customer basic", err)
	}
	if len(records) == 0 {
		return nil, shared.NotFoundf("Customer %d not found", customerID)
	}
	return &records[0], nil
}

type ledgerContractRecord struct {
	ContractID   int64
	CustomerID   int64
	CustomerName string
	MonthlyRate  float64
	StartDate    sql.NullString
	EndDate      *string
	Plate        *string
	IsActive     bool
	Notes        *string
	TruckInfo    *string
}

// LedgerContracts returns all of the customer's contracts, active first.
func (r *GormBillingReader) LedgerContracts(ctx context.Context, customerID int64) ([]billing.LedgerContractRow, error) {
	var records []ledgerContractRecord
	err := r.db.WithContext(ctx).Raw(
		"SELECT "+contractRowColumns+`, c.notes,
			CASE WHEN t.id IS NULL THEN NULL ELSE t.plate || COALESCE(' ' || t.state, '') END AS truck_info`+
			contractRowJoins+" WHERE c.customer_id = ? ORDER BY c.is_active DESC, c.start_date ASC, c.id ASC",
		customerID,
	).Scan(&records).Error
	if err != nil {
		return nil, translateError("ledger contracts", err)
	}

	rows := make([]billing.LedgerContractRow, len(records))
	for i, rec := range records {
		rows[i] = billing.LedgerContractRow{
			ContractRow: contractRecord{
				ContractID:   rec.ContractID,
				CustomerID:   rec.CustomerID,
				CustomerName: rec.CustomerName,
				MonthlyRate:  rec.MonthlyRate,
				StartDate:    rec.StartDate,
				EndDate:      rec.EndDate,
				Plate:        rec.Plate,
				IsActive:     rec.IsActive,
			}.toRow(),
			Notes:       rec.Notes,
			TruckInfo:   rec.TruckInfo,
		}
	}
	return rows, nil
}

var _ billing.Reader = (*GormBillingReader)(nil)
