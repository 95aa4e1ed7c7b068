// Package seed fills an empty lot with plausible demo data.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	billingapp "github.com/trucklot/backend/internal/application/billing"
	lotapp "github.com/trucklot/backend/internal/application/lot"
	"github.com/trucklot/backend/internal/domain/calendar"
	"github.com/trucklot/backend/internal/domain/lot"
	"github.com/trucklot/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const maxAttempts = 5

// Summary counts what a seed run created.
type Summary struct {
	Customers int `json:"customers"`
	Trucks    int `json:"trucks"`
	Contracts int `json:"contracts"`
	Payments  int `json:"payments"`
}

// Seeder creates demo records through the application services, so every
// record passes the same validation as user input.
type Seeder struct {
	customers *lotapp.CustomerService
	trucks    *lotapp.TruckService
	contracts *lotapp.ContractService
	payments  *billingapp.PaymentService
	logger    *zap.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(
	customers *lotapp.CustomerService,
	trucks *lotapp.TruckService,
	contracts *lotapp.ContractService,
	payments *billingapp.PaymentService,
	logger *zap.Logger,
) *Seeder {
	return &Seeder{
		customers: customers,
		trucks:    trucks,
		contracts: contracts,
		payments:  payments,
		logger:    logger.Named("seed"),
	}
}

// Run creates n customers with trucks, contracts and a partial payment
// history as of asOf. The same seed produces the same records; seed 0
// picks a random one.
func (s *Seeder) Run(ctx context.Context, n int, seed uint64, asOf time.Time) (*Summary, error) {
	faker := gofakeit.New(seed)
	summary := &Summary{}

	for i := 0; i < n; i++ {
		customer, err := s.createCustomer(ctx, faker)
		if err != nil {
			return summary, err
		}
		summary.Customers++

		truckCount := faker.Number(1, 3)
		for j := 0; j < truckCount; j++ {
			truck, err := s.createTruck(ctx, faker, customer.ID)
			if err != nil {
				return summary, err
			}
			summary.Trucks++

			contract, err := s.createContract(ctx, faker, customer.ID, &truck.ID, asOf)
			if err != nil {
				return summary, err
			}
			summary.Contracts++

			paid, err := s.payHistory(ctx, faker, contract, asOf)
			summary.Payments += paid
			if err != nil {
				return summary, err
			}
		}
	}

	s.logger.Info("demo data seeded",
		zap.Uint64("seed", seed),
		zap.Int("customers", summary.Customers),
		zap.Int("trucks", summary.Trucks),
		zap.Int("contracts", summary.Contracts),
		zap.Int("payments", summary.Payments),
	)
	return summary, nil
}

func (s *Seeder) createCustomer(ctx context.Context, faker *gofakeit.Faker) (*lotapp.CustomerResponse, error) {
	req := lotapp.CustomerRequest{
		Name:  faker.Name(),
		Phone: faker.Phone(),
	}
	if faker.Bool() {
		req.Company = faker.Company()
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		customer, err := s.customers.Create(ctx, req)
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return customer, err
		}
		req.Name = faker.Name()
	}
	return nil, fmt.Errorf("no unique customer name after %d attempts", maxAttempts)
}

func (s *Seeder) createTruck(ctx context.Context, faker *gofakeit.Faker, customerID int64) (*lotapp.TruckResponse, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		truck, err := s.trucks.Create(ctx, lotapp.CreateTruckRequest{
			CustomerID: &customerID,
			Plate:      strings.ToUpper(faker.Lexify("???")) + "-" + faker.Numerify("####"),
			State:      faker.StateAbr(),
			Make:       faker.CarMaker(),
			Model:      faker.CarModel(),
		})
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return truck, err
		}
	}
	return nil, fmt.Errorf("no unique plate after %d attempts", maxAttempts)
}

// createContract starts a contract one to eighteen months before asOf.
// About one in five has already ended.
func (s *Seeder) createContract(ctx context.Context, faker *gofakeit.Faker, customerID int64, truckID *int64, asOf time.Time) (*lotapp.ContractResponse, error) {
	y, m := calendar.AddMonths(asOf.Year(), int(asOf.Month()), -faker.Number(1, 18))
	start := calendar.ClampedDate(y, m, faker.Number(1, 28))
	rate := faker.Number(30, 90) * 5

	req := lotapp.CreateContractRequest{
		CustomerID:  customerID,
		TruckID:     truckID,
		MonthlyRate: strconv.Itoa(rate),
		StartDate:   calendar.FormatYMD(start),
	}
	if faker.Number(1, 5) == 1 {
		ey, em := calendar.AddMonths(start.Year(), int(start.Month()), faker.Number(1, 6))
		end := calendar.ClampedDate(ey, em, calendar.LastDayOfMonth(ey, em))
		if end.Before(asOf) {
			req.EndDate = calendar.FormatYMD(end)
		}
	}
	return s.contracts.Create(ctx, req)
}

// payHistory pays whole months from the start, leaving some contracts
// behind. It never pays more months than have accrued, so every payment
// meets an outstanding balance.
func (s *Seeder) payHistory(ctx context.Context, faker *gofakeit.Faker, contract *lotapp.ContractResponse, asOf time.Time) (int, error) {
	start, _ := calendar.ParseYMD(contract.StartDate)
	limit := asOf
	if end, ok := calendar.ParseOptionalYMD(contract.EndDate); ok {
		limit = calendar.Min(end, asOf)
	}
	months := calendar.ElapsedMonthsInclusive(start, limit)
	paidMonths := faker.Number(0, months)

	for j := 0; j < paidMonths; j++ {
		y, m := calendar.AddMonths(start.Year(), int(start.Month()), j)
		method := lot.PaymentMethods[faker.Number(0, len(lot.PaymentMethods)-1)]
		_, err := s.payments.RecordPayment(ctx, billingapp.RecordPaymentRequest{
			ContractID: contract.ID,
			AsOf:       asOf,
			Amount:     contract.MonthlyRate.String(),
			PaidAt:     calendar.FormatYMD(calendar.ClampedDate(y, m, start.Day())),
			Method:     string(method),
		})
		if err != nil {
			return j, fmt.Errorf("seed payment for contract %d: %w", contract.ID, err)
		}
	}
	return paidMonths, nil
}
