package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. TRUCKLOT_DATABASE_PATH for database.path.
const EnvPrefix = "TRUCKLOT"

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Billing  BillingConfig
	Backup   BackupConfig
	Storage  StorageConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// DatabaseConfig holds SQLite settings
type DatabaseConfig struct {
	Path          string
	MaxOpenConns  int
	BusyTimeout   time.Duration
	LogLevel      string // silent, error, warn, info
	SlowThreshold time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds the local API server settings
type HTTPConfig struct {
	Host         string
	Port         int
	Mode         string // debug, release, test
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// BillingConfig holds billing business rules that are tunable per lot
type BillingConfig struct {
	PaymentsLimit    int // recent payments printed on an invoice
	OverdueDays      int // age of the oldest unpaid month before a contract counts as overdue
	MaxPaymentFactor int // a single payment may not exceed this many times the outstanding balance
}

// BackupConfig holds database backup settings
type BackupConfig struct {
	Dir        string
	Keep       int
	Upload     bool
	Interval   time.Duration // serve takes a backup this often; 0 disables
	Retries    int
	RetryDelay time.Duration
}

// StorageConfig holds S3-compatible object storage settings for offsite backups
type StorageConfig struct {
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	Prefix       string
}

// Addr returns host:port for the HTTP server.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// Load loads configuration from a TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with TRUCKLOT_ prefix
// 2. configFile, or config.toml found in the search paths
// 3. Built-in defaults
func Load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/trucklot")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Database: DatabaseConfig{
			Path:          v.GetString("database.path"),
			MaxOpenConns:  v.GetInt("database.max_open_conns"),
			BusyTimeout:   v.GetDuration("database.busy_timeout"),
			LogLevel:      v.GetString("database.log_level"),
			SlowThreshold: v.GetDuration("database.slow_threshold"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			Host:         v.GetString("http.host"),
			Port:         v.GetInt("http.port"),
			Mode:         v.GetString("http.mode"),
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
		},
		Billing: BillingConfig{
			PaymentsLimit:    v.GetInt("billing.payments_limit"),
			OverdueDays:      v.GetInt("billing.overdue_days"),
			MaxPaymentFactor: v.GetInt("billing.max_payment_factor"),
		},
		Backup: BackupConfig{
			Dir:        v.GetString("backup.dir"),
			Keep:       v.GetInt("backup.keep"),
			Upload:     v.GetBool("backup.upload"),
			Interval:   v.GetDuration("backup.interval"),
			Retries:    v.GetInt("backup.retries"),
			RetryDelay: v.GetDuration("backup.retry_delay"),
		},
		Storage: StorageConfig{
			Endpoint:     v.GetString("storage.endpoint"),
			Region:       v.GetString("storage.region"),
			Bucket:       v.GetString("storage.bucket"),
			AccessKey:    v.GetString("storage.access_key"),
			SecretKey:    v.GetString("storage.secret_key"),
			UsePathStyle: v.GetBool("storage.use_path_style"),
			Prefix:       v.GetString("storage.prefix"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "trucklot"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "trucklot.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 1
	}
	if cfg.Database.BusyTimeout == 0 {
		cfg.Database.BusyTimeout = 5 * time.Second
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}
	if cfg.Database.SlowThreshold == 0 {
		cfg.Database.SlowThreshold = 200 * time.Millisecond
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "127.0.0.1"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.HTTP.Mode == "" {
		cfg.HTTP.Mode = "release"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.Billing.PaymentsLimit == 0 {
		cfg.Billing.PaymentsLimit = 5
	}
	if cfg.Billing.OverdueDays == 0 {
		cfg.Billing.OverdueDays = 30
	}
	if cfg.Billing.MaxPaymentFactor == 0 {
		cfg.Billing.MaxPaymentFactor = 12
	}
	if cfg.Backup.Dir == "" {
		cfg.Backup.Dir = filepath.Join(filepath.Dir(cfg.Database.Path), "backups")
	}
	if cfg.Backup.Keep == 0 {
		cfg.Backup.Keep = 10
	}
	if cfg.Backup.RetryDelay == 0 {
		cfg.Backup.RetryDelay = time.Minute
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.Prefix == "" {
		cfg.Storage.Prefix = "trucklot-backups"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.HTTP.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("http.mode must be one of debug, release, test, got %q", c.HTTP.Mode)
	}
	if c.Billing.PaymentsLimit < 0 {
		return fmt.Errorf("billing.payments_limit cannot be negative")
	}
	if c.Billing.OverdueDays < 0 {
		return fmt.Errorf("billing.overdue_days cannot be negative")
	}
	if c.Billing.MaxPaymentFactor < 1 {
		return fmt.Errorf("billing.max_payment_factor must be at least 1")
	}
	if c.Backup.Keep < 1 {
		return fmt.Errorf("backup.keep must be at least 1")
	}
	if c.Backup.Interval < 0 || c.Backup.Retries < 0 {
		return fmt.Errorf("backup.interval and backup.retries cannot be negative")
	}

	if c.Backup.Upload {
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required when backup.upload is enabled")
		}
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
			return fmt.Errorf("storage.access_key and storage.secret_key are required when backup.upload is enabled")
		}
	}

	return nil
}

// DSN returns the SQLite connection string with foreign keys enforced.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=%d", d.Path, d.BusyTimeout.Milliseconds())
}
