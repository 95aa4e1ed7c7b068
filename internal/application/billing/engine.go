// Package billing holds the application services that turn stored contracts
// and payments into invoices, balances and reports.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trucklot/backend/internal/domain/billing"
	"github.com/trucklot/backend/internal/domain/calendar"
	"go.uber.org/zap"
)

// DefaultPaymentsLimit is how many recent payments an invoice lists when the
// caller does not say.
const DefaultPaymentsLimit = 5

// Engine computes contract lines and invoices from the store. It keeps no
// state between calls.
type Engine struct {
	reader billing.Reader
	logger *zap.Logger
}

// NewEngine creates a new Engine
func NewEngine(reader billing.Reader, logger *zap.Logger) *Engine {
	return &Engine{
		reader: reader,
		logger: logger.Named("billing"),
	}
}

// BuildContractLine bills one row as of asOf, looking up its paid total.
func (e *Engine) BuildContractLine(ctx context.Context, row billing.ContractRow, asOf time.Time) (billing.LineResult, error) {
	asOfText := calendar.FormatYMD(asOf)
	result, err := billing.BuildLine(row, asOf, func() (decimal.Decimal, error) {
		return e.reader.PaidTotalAsOf(ctx, row.ContractID, asOfText)
	})
	if err != nil {
		return billing.LineResult{}, fmt.Errorf("paid total for contract %d: %w", row.ContractID, err)
	}
	if result.Skipped() {
		e.logSkip(row, result.SkipReason)
	}
	return result, nil
}

// BuildInvoiceGroups bills every active contract as of asOf, grouped by
// customer and ordered by customer name. The second return value is the
// grand total outstanding.
func (e *Engine) BuildInvoiceGroups(ctx context.Context, asOf time.Time) ([]billing.InvoiceGroup, decimal.Decimal, error) {
	rows, err := e.reader.ActiveContractRows(ctx)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("load active contracts: %w", err)
	}

	order := make([]int64, 0)
	byCustomer := make(map[int64]*billing.InvoiceGroup)
	for _, row := range rows {
		group, ok := byCustomer[row.CustomerID]
		if !ok {
			group = billing.NewInvoiceGroup(row.CustomerID, row.CustomerName)
			byCustomer[row.CustomerID] = group
			order = append(order, row.CustomerID)
		}

		result, err := e.BuildContractLine(ctx, row, asOf)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if result.Skipped() {
			continue
		}
		group.Add(result.Line)
	}

	groups := make([]billing.InvoiceGroup, 0, len(order))
	for _, id := range order {
		groups = append(groups, *byCustomer[id])
	}
	billing.SortGroupsByName(groups)
	return groups, billing.TotalOutstanding(groups), nil
}

// BuildInvoiceData assembles one customer's invoice as of asOf. A missing
// customer yields shared.ErrNotFound. Paid totals come from one batch query.
func (e *Engine) BuildInvoiceData(ctx context.Context, customerID int64, asOf time.Time, paymentsLimit int) (*billing.InvoiceData, error) {
	customer, err := e.reader.CustomerBasic(ctx, customerID)
	if err != nil {
		return nil, err
	}

	rows, err := e.reader.ActiveContractsForCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load contracts for customer %d: %w", customerID, err)
	}
	asOfText := calendar.FormatYMD(asOf)
	paid, err := e.reader.PaidTotalsForCustomerAsOf(ctx, customerID, asOfText)
	if err != nil {
		return nil, fmt.Errorf("load paid totals for customer %d: %w", customerID, err)
	}

	data := &billing.InvoiceData{
		InvoiceUUID:      uuid.NewString(),
		AsOf:             asOf,
		Customer:         *customer,
		Lines:            []billing.ContractLine{},
		TotalExpected:    decimal.Zero,
		TotalPaid:        decimal.Zero,
		TotalOutstanding: decimal.Zero,
	}
	for _, row := range rows {
		accrual, ok := billing.Accrue(row, asOf)
		if !ok {
			e.logSkip(row, billing.SkipUnparsableStart)
			continue
		}
		data.AddLine(accrual, billing.NewContractLine(row, accrual, paid[row.ContractID]))
	}

	if paymentsLimit < 0 {
		paymentsLimit = DefaultPaymentsLimit
	}
	data.RecentPayments, err = e.reader.RecentPaymentsForCustomer(ctx, customerID, paymentsLimit)
	if err != nil {
		return nil, fmt.Errorf("load recent payments for customer %d: %w", customerID, err)
	}
	return data, nil
}

// ContractLine bills a single contract by id.
func (e *Engine) ContractLine(ctx context.Context, contractID int64, asOf time.Time) (billing.LineResult, error) {
	row, err := e.reader.ContractSnapshot(ctx, contractID)
	if err != nil {
		return billing.LineResult{}, err
	}
	return e.BuildContractLine(ctx, *row, asOf)
}

// ContractOutstanding returns the contract's balance as of asOf, zero when
// its start date is unusable.
func (e *Engine) ContractOutstanding(ctx context.Context, contractID int64, asOf time.Time) (decimal.Decimal, error) {
	result, err := e.ContractLine(ctx, contractID, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	if result.Skipped() {
		return decimal.Zero, nil
	}
	return result.Line.Outstanding, nil
}

func (e *Engine) logSkip(row billing.ContractRow, reason string) {
	e.logger.Warn("contract skipped",
		zap.Int64("contract_id", row.ContractID),
		zap.Int64("customer_id", row.CustomerID),
		zap.String("start_date", row.StartDate),
		zap.String("reason", reason),
	)
}
