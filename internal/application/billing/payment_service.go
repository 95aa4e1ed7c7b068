package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trucklot/backend/internal/domain/billing"
	"github.com/trucklot/backend/internal/domain/calendar"
	"github.com/trucklot/backend/internal/domain/lot"
	"github.com/trucklot/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Payment rejection codes
const (
	CodeNoOutstandingBalance = "NO_OUTSTANDING_BALANCE"
	CodeAmountTooLarge       = "AMOUNT_TOO_LARGE"
	CodeNothingToReset       = "NOTHING_TO_RESET"
)

// DefaultMaxPaymentFactor caps a payment at this many times the balance.
const DefaultMaxPaymentFactor = 12

// PaymentService records and reverses payments.
type PaymentService struct {
	engine    *Engine
	ledger    lot.PaymentLedger
	maxFactor decimal.Decimal
	logger    *zap.Logger
	now       func() time.Time
}

// NewPaymentService creates a new PaymentService. A maxPaymentFactor below
// one falls back to DefaultMaxPaymentFactor.
func NewPaymentService(engine *Engine, ledger lot.PaymentLedger, maxPaymentFactor int, logger *zap.Logger) *PaymentService {
	if maxPaymentFactor < 1 {
		maxPaymentFactor = DefaultMaxPaymentFactor
	}
	return &PaymentService{
		engine:    engine,
		ledger:    ledger,
		maxFactor: decimal.NewFromInt(int64(maxPaymentFactor)),
		logger:    logger.Named("payments"),
		now:       time.Now,
	}
}

// RecordPaymentRequest is a payment against a contract, checked against the
// balance as of AsOf.
type RecordPaymentRequest struct {
	ContractID int64
	AsOf       time.Time
	Amount     string
	PaidAt     string
	Method     string
	Reference  string
	Notes      string
}

// RecordPaymentResult describes a stored payment.
type RecordPaymentResult struct {
	PaymentID         int64           `json:"payment_id"`
	InvoiceID         int64           `json:"invoice_id"`
	ContractID        int64           `json:"contract_id"`
	Amount            decimal.Decimal `json:"amount"`
	PaidAt            string          `json:"paid_at"`
	Method            string          `json:"method"`
	OutstandingBefore decimal.Decimal `json:"outstanding_before"`
	OutstandingAfter  decimal.Decimal `json:"outstanding_after"`
}

// RecordPayment validates the payment, refuses it when nothing is owed or
// the amount is implausibly large, then stores it on the contract's anchor
// invoice in one transaction.
func (s *PaymentService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*RecordPaymentResult, error) {
	payment, err := lot.ValidatePayment(lot.PaymentInput{
		Amount:    req.Amount,
		PaidAt:    req.PaidAt,
		Method:    req.Method,
		Reference: req.Reference,
		Notes:     req.Notes,
	})
	if err != nil {
		return nil, err
	}

	outstanding, err := s.engine.ContractOutstanding(ctx, req.ContractID, req.AsOf)
	if err != nil {
		return nil, err
	}
	if !billing.IsOwing(outstanding) {
		return nil, shared.NewDomainError(CodeNoOutstandingBalance,
			fmt.Sprintf("Contract %d has no outstanding balance as of %s", req.ContractID, calendar.FormatYMD(req.AsOf)))
	}
	limit := outstanding.Mul(s.maxFactor)
	if payment.Amount.GreaterThan(limit) {
		return nil, shared.NewDomainError(CodeAmountTooLarge,
			fmt.Sprintf("Amount %s exceeds %s times the outstanding balance of %s",
				payment.Amount.StringFixed(2), s.maxFactor.String(), outstanding.StringFixed(2)))
	}

	var stored *lot.Payment
	err = s.ledger.Atomic(ctx, func(tx lot.PaymentLedger) error {
		invoiceID, err := tx.GetOrCreateAnchor(ctx, req.ContractID,
			calendar.YM(req.AsOf), calendar.FormatYMD(req.AsOf), s.now().UTC().Format("2006-01-02 15:04:05"))
		if err != nil {
			return fmt.Errorf("anchor invoice: %w", err)
		}
		stored = payment.AttachTo(invoiceID)
		return tx.CreatePayment(ctx, stored)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.Int64("contract_id", req.ContractID),
		zap.Int64("invoice_id", stored.InvoiceID),
		zap.Int64("payment_id", stored.ID),
		zap.String("amount", stored.Amount.StringFixed(2)),
		zap.String("method", string(stored.Method)),
	)

	return &RecordPaymentResult{
		PaymentID:         stored.ID,
		InvoiceID:         stored.InvoiceID,
		ContractID:        req.ContractID,
		Amount:            stored.Amount,
		PaidAt:            stored.PaidAt,
		Method:            string(stored.Method),
		OutstandingBefore: outstanding,
		OutstandingAfter:  outstanding.Sub(stored.Amount),
	}, nil
}

// ResetPaymentsResult reports what a reset removed.
type ResetPaymentsResult struct {
	ContractID int64           `json:"contract_id"`
	Deleted    int64           `json:"deleted"`
	Reversed   decimal.Decimal `json:"reversed"`
}

// ResetPayments deletes every payment of a contract in one transaction.
func (s *PaymentService) ResetPayments(ctx context.Context, contractID int64) (*ResetPaymentsResult, error) {
	if _, err := s.engine.reader.ContractSnapshot(ctx, contractID); err != nil {
		return nil, err
	}

	result := &ResetPaymentsResult{ContractID: contractID}
	err := s.ledger.Atomic(ctx, func(tx lot.PaymentLedger) error {
		count, total, err := tx.PaymentStatsByContract(ctx, contractID)
		if err != nil {
			return err
		}
		if count == 0 {
			return shared.NewDomainError(CodeNothingToReset, fmt.Sprintf("Contract %d has no payments to reset", contractID))
		}
		deleted, err := tx.DeletePaymentsByContract(ctx, contractID)
		if err != nil {
			return err
		}
		result.Deleted = deleted
		result.Reversed = total
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Warn("payments reset",
		zap.Int64("contract_id", contractID),
		zap.Int64("deleted", result.Deleted),
		zap.String("reversed", result.Reversed.StringFixed(2)),
	)
	return result, nil
}
