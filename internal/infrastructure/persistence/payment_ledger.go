package persistence

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"github.com/trucklot/backend/internal/domain/lot"
	"github.com/trucklot/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentLedger implements lot.PaymentLedger. Payments hang off one
// anchor invoice per contract; amounts owed are always derived, never
// stored on the invoice.
type GormPaymentLedger struct {
	db *gorm.DB
}

// NewGormPaymentLedger creates a new GormPaymentLedger
func NewGormPaymentLedger(db *gorm.DB) *GormPaymentLedger {
	return &GormPaymentLedger{db: db}
}

// WithTx returns a ledger bound to tx.
func (r *GormPaymentLedger) WithTx(tx *gorm.DB) *GormPaymentLedger {
	return &GormPaymentLedger{db: tx}
}

// Atomic runs fn inside one transaction. Returning an error rolls back.
func (r *GormPaymentLedger) Atomic(ctx context.Context, fn func(lot.PaymentLedger) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// GetOrCreateAnchor returns the contract's latest invoice, creating a zero
// amount one for invoiceYM when the contract has none.
func (r *GormPaymentLedger) GetOrCreateAnchor(ctx context.Context, contractID int64, invoiceYM, invoiceDate, createdAt string) (int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("contract_id = ?", contractID).
		Order("COALESCE(invoice_date, created_at) DESC, id DESC").
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, translateError("find anchor invoice", err)
	}
	if len(ids) > 0 {
		return ids[0], nil
	}

	model := models.InvoiceModelFromDomain(lot.NewAnchorInvoice(contractID, invoiceYM, invoiceDate, createdAt))
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return 0, translateError("create anchor invoice", err)
	}
	return model.ID, nil
}

// CreatePayment inserts p and sets its ID.
func (r *GormPaymentLedger) CreatePayment(ctx context.Context, p *lot.Payment) error {
	model := models.PaymentModelFromDomain(p)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError("create payment", err)
	}
	p.ID = model.ID
	return nil
}

// PaymentStatsByContract returns the number and sum of the contract's payments.
func (r *GormPaymentLedger) PaymentStatsByContract(ctx context.Context, contractID int64) (int64, decimal.Decimal, error) {
	var stats struct {
		Count int64
		Total sql.NullFloat64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(p.id) AS count, SUM(p.amount) AS total
		FROM payments p
		JOIN invoices i ON i.id = p.invoice_id
		WHERE i.contract_id = ?`, contractID).
		Scan(&stats).Error
	if err != nil {
		return 0, decimal.Zero, translateError("payment stats", err)
	}
	return stats.Count, models.MoneyFromColumn(stats.Total.Float64), nil
}

// DeletePaymentsByContract removes every payment on the contract's invoices.
func (r *GormPaymentLedger) DeletePaymentsByContract(ctx context.Context, contractID int64) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM payments
		WHERE invoice_id IN (SELECT id FROM invoices WHERE contract_id = ?)`, contractID)
	if result.Error != nil {
		return 0, translateError("delete payments", result.Error)
	}
	return result.RowsAffected, nil
}

var _ lot.PaymentLedger = (*GormPaymentLedger)(nil)
