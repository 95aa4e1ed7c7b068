package main

import (
	"fmt"
	"os"

	billingapp "github.com/trucklot/backend/internal/application/billing"
	lotapp "github.com/trucklot/backend/internal/application/lot"
	"github.com/trucklot/backend/internal/infrastructure/config"
	"github.com/trucklot/backend/internal/infrastructure/logger"
	"github.com/trucklot/backend/internal/infrastructure/migration"
	"github.com/trucklot/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configFile string
	dbPath     string
	logLevel   string
}

// app is the wired object graph behind every command.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *persistence.Database

	customerRepo *persistence.GormCustomerRepository
	truckRepo    *persistence.GormTruckRepository
	contractRepo *persistence.GormContractRepository

	customers *lotapp.CustomerService
	trucks    *lotapp.TruckService
	contracts *lotapp.ContractService
	engine    *billingapp.Engine
	payments  *billingapp.PaymentService
	reports   *billingapp.ReportService
}

// loadConfig reads the config file and lets --db and --log-level win over
// both the file and the environment.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	if o.dbPath != "" {
		if err := os.Setenv(config.EnvPrefix+"_DATABASE_PATH", o.dbPath); err != nil {
			return nil, err
		}
	}
	if o.logLevel != "" {
		if err := os.Setenv(config.EnvPrefix+"_LOG_LEVEL", o.logLevel); err != nil {
			return nil, err
		}
	}
	return config.Load(o.configFile)
}

// openApp loads configuration, opens the database and wires the services.
// With migrate set, pending schema migrations are applied first.
func openApp(o *globalOptions, migrate bool) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log, db: db}

	if migrate {
		m, err := a.migrator()
		if err != nil {
			a.Close()
			return nil, err
		}
		if err := m.Up(); err != nil {
			a.Close()
			return nil, err
		}
	}

	a.customerRepo = persistence.NewGormCustomerRepository(db.DB)
	a.truckRepo = persistence.NewGormTruckRepository(db.DB)
	a.contractRepo = persistence.NewGormContractRepository(db.DB)
	reader := persistence.NewGormBillingReader(db.DB)

	a.customers = lotapp.NewCustomerService(a.customerRepo, log)
	a.trucks = lotapp.NewTruckService(a.truckRepo, a.customerRepo, log)
	a.contracts = lotapp.NewContractService(a.contractRepo, a.customerRepo, a.truckRepo, log)
	a.engine = billingapp.NewEngine(reader, log)
	a.payments = billingapp.NewPaymentService(a.engine, persistence.NewGormPaymentLedger(db.DB), cfg.Billing.MaxPaymentFactor, log)
	a.reports = billingapp.NewReportService(reader, cfg.Billing.OverdueDays, log)

	log.Debug("database opened", zap.String("path", cfg.Database.Path))
	return a, nil
}

func (a *app) migrator() (*migration.Migrator, error) {
	sqlDB, err := a.db.SQLDB()
	if err != nil {
		return nil, err
	}
	return migration.New(sqlDB, a.log)
}

// Close releases the database and flushes the logger.
func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Error("error closing database", zap.Error(err))
	}
	_ = a.log.Sync()
}
