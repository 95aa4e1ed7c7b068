package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/trucklot/backend/internal/domain/billing"
	"github.com/trucklot/backend/internal/domain/calendar"
	"github.com/trucklot/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultOverdueDays is the dashboard overdue threshold when unset.
const DefaultOverdueDays = 30

// ReportService builds the read-only reports over the whole lot.
type ReportService struct {
	reader      billing.Reader
	overdueDays int
	logger      *zap.Logger
}

// NewReportService creates a new ReportService. A negative overdueDays falls
// back to DefaultOverdueDays.
func NewReportService(reader billing.Reader, overdueDays int, logger *zap.Logger) *ReportService {
	if overdueDays < 0 {
		overdueDays = DefaultOverdueDays
	}
	return &ReportService{
		reader:      reader,
		overdueDays: overdueDays,
		logger:      logger.Named("reports"),
	}
}

// Overdue lists contracts owing money as of asOf, optionally filtered by a
// customer name or plate substring.
func (s *ReportService) Overdue(ctx context.Context, asOf time.Time, query string) ([]billing.OverdueLine, error) {
	rows, err := s.reader.AllContractRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load contracts: %w", err)
	}
	paid, err := s.reader.PaidTotalsAsOf(ctx, calendar.FormatYMD(asOf))
	if err != nil {
		return nil, fmt.Errorf("load paid totals: %w", err)
	}
	return billing.Overdue(rows, paid, asOf, query), nil
}

// Statement builds the statement for ym ("YYYY-MM").
func (s *ReportService) Statement(ctx context.Context, ym string) (*billing.Statement, error) {
	year, month, ok := calendar.ParseYM(ym)
	if !ok {
		return nil, shared.InvalidInputf("Month must be YYYY-MM, got %q", ym)
	}

	rows, err := s.reader.AllContractRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load contracts: %w", err)
	}
	paid, err := s.reader.PaidTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("load paid totals: %w", err)
	}

	statement := billing.BuildStatement(rows, paid, year, month)
	s.logger.Debug("statement built",
		zap.String("month", statement.Month),
		zap.Int("contracts", len(rows)),
	)
	return &statement, nil
}

// Dashboard computes the headline figures as of asOf.
func (s *ReportService) Dashboard(ctx context.Context, asOf time.Time) (*billing.Dashboard, error) {
	rows, err := s.reader.ActiveContractRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active contracts: %w", err)
	}
	paid, err := s.reader.PaidTotalsAsOf(ctx, calendar.FormatYMD(asOf))
	if err != nil {
		return nil, fmt.Errorf("load paid totals: %w", err)
	}

	dashboard := billing.BuildDashboard(rows, paid, asOf, s.overdueDays)
	s.logger.Debug("dashboard built",
		zap.String("as_of", dashboard.AsOf),
		zap.Int("overdue", dashboard.OverdueCount),
	)
	return &dashboard, nil
}

// Ledger returns a customer's contracts with every payment against them.
func (s *ReportService) Ledger(ctx context.Context, customerID int64, asOf time.Time) (*billing.Ledger, error) {
	customer, err := s.reader.CustomerBasic(ctx, customerID)
	if err != nil {
		return nil, err
	}
	rows, err := s.reader.LedgerContracts(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load ledger contracts: %w", err)
	}
	payments, err := s.reader.PaymentsForCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load ledger payments: %w", err)
	}

	ledger := billing.BuildLedger(*customer, rows, payments, asOf)
	return &ledger, nil
}
