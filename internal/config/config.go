package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"examiner-registry-backend/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	JWT         JWTConfig         `yaml:"jwt"`
	Store       StoreConfig       `yaml:"store"`
	Collections CollectionsConfig `yaml:"collections"`
	Batch       BatchConfig       `yaml:"batch"`
	Thresholds  map[string]int    `yaml:"thresholds"`
	SendGrid    SendGridConfig    `yaml:"sendgrid"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// JWTConfig contains admin token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

const (
	BackendMemory    = "memory"
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
)

// StoreConfig selects and configures the record store backend
type StoreConfig struct {
	Backend   string          `yaml:"backend"`
	Postgres  DatabaseConfig  `yaml:"postgres"`
	Firestore FirestoreConfig `yaml:"firestore"`
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

type FirestoreConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

// CollectionsConfig names the logical collections
type CollectionsConfig struct {
	Pending        string `yaml:"pending"`
	Approved       string `yaml:"approved"`
	UpdateRequests string `yaml:"update_requests"`
	TPinRegistry   string `yaml:"tpin_registry"`
}

// BatchConfig bounds the size of atomic store batches
type BatchConfig struct {
	MaxOperations  int `yaml:"max_operations"`
	SafeOperations int `yaml:"safe_operations"`
}

// PromotionChunkSize is the number of records per promotion batch; each record costs a
// create and a delete.
func (b BatchConfig) PromotionChunkSize() int {
	return b.SafeOperations / 2
}

// ImportChunkSize is the number of records per import batch.
func (b BatchConfig) ImportChunkSize() int {
	return b.SafeOperations
}

// SendGridConfig contains approval notice settings; an empty APIKey disables notices
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SerialAudit    string `yaml:"serial_audit"`
	PendingBacklog string `yaml:"pending_backlog"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML, applies environment overrides and validates the result
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Store
	if val := os.Getenv("STORE_BACKEND"); val != "" {
		c.Store.Backend = val
	}
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Store.Postgres.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Store.Postgres.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Store.Postgres.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Store.Postgres.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Store.Postgres.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Store.Postgres.SSLMode = val
	}
	if val := os.Getenv("FIRESTORE_PROJECT_ID"); val != "" {
		c.Store.Firestore.ProjectID = val
	}
	if val := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); val != "" {
		c.Store.Firestore.CredentialsFile = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		c.JWT.AccessTokenExpiry = 480
	}

	// Store validation
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case "":
		c.Store.Backend = BackendMemory
	case BackendMemory:
	case BackendPostgres:
		if c.Store.Postgres.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Store.Postgres.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Store.Postgres.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Store.Postgres.Port == 0 {
			c.Store.Postgres.Port = 5432
		}
		if c.Store.Postgres.SSLMode == "" {
			c.Store.Postgres.SSLMode = "disable"
		}
	case BackendFirestore:
		if c.Store.Firestore.ProjectID == "" {
			return fmt.Errorf("firestore project id is required")
		}
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store.Backend)
	}

	// Collection defaults
	if c.Collections.Pending == "" {
		c.Collections.Pending = "applications"
	}
	if c.Collections.Approved == "" {
		c.Collections.Approved = "examiners"
	}
	if c.Collections.UpdateRequests == "" {
		c.Collections.UpdateRequests = "updateRequests"
	}
	if c.Collections.TPinRegistry == "" {
		c.Collections.TPinRegistry = "tpin_registry"
	}
	if c.Collections.Pending == c.Collections.Approved {
		return fmt.Errorf("pending and approved collections must differ")
	}

	// Batch limits
	if c.Batch.MaxOperations <= 0 {
		c.Batch.MaxOperations = 500
	}
	if c.Batch.SafeOperations <= 0 {
		c.Batch.SafeOperations = 400
	}
	if c.Batch.SafeOperations > c.Batch.MaxOperations {
		return fmt.Errorf("batch safe_operations (%d) exceeds max_operations (%d)", c.Batch.SafeOperations, c.Batch.MaxOperations)
	}
	if c.Batch.SafeOperations < 2 {
		return fmt.Errorf("batch safe_operations must be at least 2")
	}

	// Thresholds
	for name, value := range c.Thresholds {
		if _, ok := domain.ParseSubject(name); !ok {
			return fmt.Errorf("threshold for unknown subject: %q", name)
		}
		if value < 0 || value > 100 {
			return fmt.Errorf("threshold for %s out of range: %d", name, value)
		}
	}

	// SendGrid
	if c.SendGrid.APIKey != "" && c.SendGrid.FromEmail == "" {
		return fmt.Errorf("sendgrid from_email is required when api_key is set")
	}
	if c.SendGrid.FromName == "" {
		c.SendGrid.FromName = "Examiner Registry"
	}

	// Scheduler defaults
	if c.Scheduler.SerialAudit == "" {
		c.Scheduler.SerialAudit = "0 0 1 * * *" // 1 AM UTC
	}
	if c.Scheduler.PendingBacklog == "" {
		c.Scheduler.PendingBacklog = "0 0 6 * * *" // 6 AM UTC
	}

	return nil
}

// ThresholdConfig returns the configured thresholds merged over the defaults
func (c *Config) ThresholdConfig() domain.ThresholdConfig {
	overrides := make(domain.ThresholdConfig, len(c.Thresholds))
	for name, value := range c.Thresholds {
		if s, ok := domain.ParseSubject(name); ok {
			overrides[s] = value
		}
	}
	return domain.DefaultThresholds().Merge(overrides)
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	db := c.Store.Postgres
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Database,
		db.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
