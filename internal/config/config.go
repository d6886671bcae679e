package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	JWT           JWTConfig           `yaml:"jwt"`
	Storage       StorageConfig       `yaml:"storage"`
	Email         EmailConfig         `yaml:"email"`
	Log           LogConfig           `yaml:"log"`
	Pricing       PricingConfig       `yaml:"pricing"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

// ServerConfig contains HTTP and gRPC listener settings
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	GRPCPort        int    `yaml:"grpc_port"`
	ShutdownSeconds int    `yaml:"shutdown_timeout_seconds"`
	MaxUploadMB     int64  `yaml:"max_upload_mb"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	Issuer            string `yaml:"issuer"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// StorageConfig contains file storage settings
type StorageConfig struct {
	Type      string `yaml:"type"`       // "local" or "s3"
	UploadDir string `yaml:"upload_dir"` // For local storage
	BaseURL   string `yaml:"base_url"`   // Server base URL for local file URLs
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	PublicURL string `yaml:"public_url"`
}

// EmailConfig contains SendGrid settings. Email is disabled without an API key.
type EmailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// PricingConfig holds the fee defaults used when system_settings has no value.
type PricingConfig struct {
	Currency           string `yaml:"currency"`
	DefaultDeliveryFee string `yaml:"default_delivery_fee"`
	RenterFeePercent   string `yaml:"platform_fee_renter_percentage"`
	OwnerFeePercent    string `yaml:"platform_fee_owner_percentage"`
	ReadSettingsFromDB bool   `yaml:"read_settings_from_db"`

	deliveryFee decimal.Decimal
	renterPct   decimal.Decimal
	ownerPct    decimal.Decimal
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	MarkLateReturns string `yaml:"mark_late_returns"`
	BatchSize       int    `yaml:"batch_size"`
}

// NotificationsConfig controls the asynchronous notification dispatcher.
type NotificationsConfig struct {
	DeliveryTimeoutSeconds int `yaml:"delivery_timeout_seconds"`
}

// Load reads configuration from a YAML file. A .env file next to the process is loaded
// first when present; environment variables override file values.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	setString := func(key string, dst *string) {
		if val := os.Getenv(key); val != "" {
			*dst = val
		}
	}
	setInt := func(key string, dst *int) {
		if val := os.Getenv(key); val != "" {
			if n, err := strconv.Atoi(val); err == nil {
				*dst = n
			}
		}
	}

	// Server
	setString("SERVER_HOST", &c.Server.Host)
	setInt("SERVER_PORT", &c.Server.Port)
	setInt("GRPC_PORT", &c.Server.GRPCPort)

	// Database
	setString("DB_HOST", &c.Database.Host)
	setInt("DB_PORT", &c.Database.Port)
	setString("DB_USER", &c.Database.User)
	setString("DB_PASSWORD", &c.Database.Password)
	setString("DB_NAME", &c.Database.Database)
	setString("DB_SSL_MODE", &c.Database.SSLMode)

	// JWT
	setString("JWT_SECRET", &c.JWT.Secret)
	setString("JWT_ISSUER", &c.JWT.Issuer)

	// Storage
	setString("STORAGE_TYPE", &c.Storage.Type)
	setString("UPLOAD_DIR", &c.Storage.UploadDir)
	setString("STORAGE_BASE_URL", &c.Storage.BaseURL)
	setString("S3_BUCKET", &c.Storage.Bucket)
	setString("S3_REGION", &c.Storage.Region)
	setString("S3_ENDPOINT", &c.Storage.Endpoint)
	setString("S3_ACCESS_KEY", &c.Storage.AccessKey)
	setString("S3_SECRET_KEY", &c.Storage.SecretKey)
	setString("S3_PUBLIC_URL", &c.Storage.PublicURL)

	// Email
	setString("SENDGRID_API_KEY", &c.Email.SendGridAPIKey)
	setString("EMAIL_FROM", &c.Email.FromEmail)
	setString("EMAIL_FROM_NAME", &c.Email.FromName)

	// Log
	setString("LOG_LEVEL", &c.Log.Level)
	setString("LOG_FORMAT", &c.Log.Format)

	// Pricing
	setString("CURRENCY", &c.Pricing.Currency)
	setString("DEFAULT_DELIVERY_FEE", &c.Pricing.DefaultDeliveryFee)
	setString("PLATFORM_FEE_RENTER_PERCENTAGE", &c.Pricing.RenterFeePercent)
	setString("PLATFORM_FEE_OWNER_PERCENTAGE", &c.Pricing.OwnerFeePercent)

	// Scheduler
	setString("SCHEDULE_MARK_LATE_RETURNS", &c.Scheduler.MarkLateReturns)
}

// Validate checks if the configuration is valid and fills in defaults.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("invalid grpc port: %d", c.Server.GRPCPort)
	}
	if c.Server.ShutdownSeconds <= 0 {
		c.Server.ShutdownSeconds = 15
	}
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = 10
	}

	// Database
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	// JWT
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// Storage
	switch c.Storage.Type {
	case "":
		c.Storage.Type = "local"
		fallthrough
	case "local":
		if c.Storage.UploadDir == "" {
			c.Storage.UploadDir = "./uploads"
		}
		if c.Storage.BaseURL == "" {
			c.Storage.BaseURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
		}
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage bucket is required for s3 storage")
		}
		if c.Storage.Region == "" {
			c.Storage.Region = "us-east-1"
		}
	default:
		return fmt.Errorf("unknown storage type: %s", c.Storage.Type)
	}

	// Email
	if c.Email.SendGridAPIKey != "" && c.Email.FromEmail == "" {
		return fmt.Errorf("email from address is required when SendGrid is enabled")
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "RentalHub"
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	// Pricing
	if c.Pricing.Currency == "" {
		c.Pricing.Currency = "THB"
	}
	var err error
	if c.Pricing.deliveryFee, err = parseAmount("default_delivery_fee", c.Pricing.DefaultDeliveryFee); err != nil {
		return err
	}
	if c.Pricing.renterPct, err = parseAmount("platform_fee_renter_percentage", c.Pricing.RenterFeePercent); err != nil {
		return err
	}
	if c.Pricing.ownerPct, err = parseAmount("platform_fee_owner_percentage", c.Pricing.OwnerFeePercent); err != nil {
		return err
	}

	// Scheduler
	if c.Scheduler.MarkLateReturns == "" {
		c.Scheduler.MarkLateReturns = "0 0 1 * * *" // 1 AM UTC
	}
	if c.Scheduler.BatchSize <= 0 {
		c.Scheduler.BatchSize = 100
	}

	// Notifications
	if c.Notifications.DeliveryTimeoutSeconds <= 0 {
		c.Notifications.DeliveryTimeoutSeconds = 10
	}
	return nil
}

func parseAmount(name, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %q", name, raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", name)
	}
	return d, nil
}

// DeliveryFee returns the validated default delivery fee.
func (p PricingConfig) DeliveryFee() decimal.Decimal { return p.deliveryFee }

// RenterFeePercentage returns the validated default renter platform fee percentage.
func (p PricingConfig) RenterFeePercentage() decimal.Decimal { return p.renterPct }

// OwnerFeePercentage returns the validated default owner platform fee percentage.
func (p PricingConfig) OwnerFeePercentage() decimal.Decimal { return p.ownerPct }

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetGRPCAddress returns the gRPC health server address, or "" when it is disabled.
func (c *Config) GetGRPCAddress() string {
	if c.Server.GRPCPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownSeconds) * time.Second
}

func (c *Config) AccessTokenExpiry() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}

func (c *Config) NotificationTimeout() time.Duration {
	return time.Duration(c.Notifications.DeliveryTimeoutSeconds) * time.Second
}
