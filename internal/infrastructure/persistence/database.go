package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/trucklot/backend/internal/infrastructure/config"
	"github.com/trucklot/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// timestampLayout is how created_at values are written, matching SQLite's
// datetime('now').
const timestampLayout = "2006-01-02 15:04:05"

// Database holds the database connection and provides methods for database operations
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the SQLite file at cfg.Path with foreign keys enforced.
func NewDatabase(cfg *config.DatabaseConfig, log *zap.Logger) (*Database, error) {
	return open(sqlite.Open(cfg.DSN()), cfg.MaxOpenConns, gormLoggerFor(cfg, log))
}

// NewDatabaseWithConn wraps an existing connection pool, used with
// in-memory databases and sqlmock.
func NewDatabaseWithConn(conn gorm.ConnPool, log *zap.Logger) (*Database, error) {
	return open(sqlite.Dialector{Conn: conn}, 0, logger.NewGormLogger(log, gormlogger.Silent, 0))
}

// OpenReadOnly opens a SQLite file without write access, used to verify
// backups.
func OpenReadOnly(path string, log *zap.Logger) (*Database, error) {
	dsn := "file:" + path + "?mode=ro&_foreign_keys=on"
	return open(sqlite.Open(dsn), 1, logger.NewGormLogger(log, gormlogger.Silent, 0))
}

func gormLoggerFor(cfg *config.DatabaseConfig, log *zap.Logger) gormlogger.Interface {
	return logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.LogLevel), cfg.SlowThreshold)
}

func open(dialector gorm.Dialector, maxOpenConns int, gl gormlogger.Interface) (*Database, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gl,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if maxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(maxOpenConns)
	}

	return &Database{DB: db}, nil
}

// SQLDB returns the underlying connection pool.
func (d *Database) SQLDB() (*sql.DB, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.SQLDB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.SQLDB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Transaction executes a function within a database transaction
func (d *Database) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.DB.WithContext(ctx).Transaction(fn)
}

// now returns the current UTC time in timestampLayout.
func now() string {
	return time.Now().UTC().Format(timestampLayout)
}
