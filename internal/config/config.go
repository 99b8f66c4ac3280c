package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by the storage sections.
const (
	BackendFile     = "file"
	BackendBlob     = "blob"
	BackendDynamoDB = "dynamodb"
	BackendPostgres = "postgres"
)

// Blob providers accepted by BlobConfig.Provider.
const (
	BlobProviderS3  = "s3"
	BlobProviderGCS = "gcs"
)

// FileConfig configures the flat JSON file backend
type FileConfig struct {
	Dir string `yaml:"dir" env:"DIR"`
}

// BlobConfig configures the object store backend
type BlobConfig struct {
	Provider        string `yaml:"provider" env:"PROVIDER"`
	Bucket          string `yaml:"bucket" env:"BUCKET"`
	Prefix          string `yaml:"prefix" env:"PREFIX"`
	Region          string `yaml:"region" env:"REGION"`
	Endpoint        string `yaml:"endpoint" env:"ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id" env:"ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"SECRET_ACCESS_KEY"`
	CredentialsFile string `yaml:"credentials_file" env:"CREDENTIALS_FILE"`
	Timeout         string `yaml:"timeout" env:"TIMEOUT"`
}

// DynamoDBConfig configures the document backend
type DynamoDBConfig struct {
	Region          string `yaml:"region" env:"REGION"`
	Endpoint        string `yaml:"endpoint" env:"ENDPOINT"`
	TablePrefix     string `yaml:"table_prefix" env:"TABLE_PREFIX"`
	AccessKeyID     string `yaml:"access_key_id" env:"ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"SECRET_ACCESS_KEY"`
}

// BackendSettings holds the connection settings for every non-relational backend.
// The relational backend is configured by the Database section.
type BackendSettings struct {
	File     FileConfig     `yaml:"file" envPrefix:"FILE_"`
	Blob     BlobConfig     `yaml:"blob" envPrefix:"BLOB_"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb" envPrefix:"DYNAMODB_"`
}

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		URL             string `yaml:"url" env:"DATABASE_URL"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	// Storage selects the current backend. Overrides maps a content type
	// (e.g. "events") to a backend name.
	Storage struct {
		Backend         string            `yaml:"backend" env:"STORAGE_BACKEND"`
		Overrides       map[string]string `yaml:"overrides"`
		SeedDefaults    bool              `yaml:"seed_defaults" env:"STORAGE_SEED_DEFAULTS"`
		BackendSettings `yaml:",inline" envPrefix:"STORAGE_"`
	} `yaml:"storage"`

	// Legacy describes the backends migrations read from.
	Legacy struct {
		Source          string `yaml:"source" env:"LEGACY_SOURCE"`
		BackendSettings `yaml:",inline" envPrefix:"LEGACY_"`
	} `yaml:"legacy"`

	Admin struct {
		Emails       []string `yaml:"emails" env:"ADMIN_EMAILS"`
		PasswordHash string   `yaml:"password_hash" env:"ADMIN_PASSWORD_HASH"`
	} `yaml:"admin"`

	JWT struct {
		Secret            string `yaml:"secret" env:"JWT_SECRET"`
		SessionExpiration string `yaml:"session_expiration" env:"JWT_SESSION_EXPIRATION"`
		Issuer            string `yaml:"issuer" env:"JWT_ISSUER"`
		CookieName        string `yaml:"cookie_name" env:"JWT_COOKIE_NAME"`
		SecureCookie      bool   `yaml:"secure_cookie" env:"JWT_SECURE_COOKIE"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
		Path    string `yaml:"path" env:"METRICS_PATH"`
	} `yaml:"metrics"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			file, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(file, config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.DBName = "council"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.Storage.Backend = BackendPostgres
	config.Storage.SeedDefaults = true
	config.Storage.File.Dir = "data"
	config.Storage.Blob.Provider = BlobProviderS3
	config.Storage.Blob.Prefix = "cms"
	config.Storage.Blob.Timeout = "30s"
	config.Storage.DynamoDB.TablePrefix = "cms_"

	config.Legacy.Source = BackendFile
	config.Legacy.File.Dir = "data"
	config.Legacy.Blob.Provider = BlobProviderS3
	config.Legacy.Blob.Timeout = "60s"
	config.Legacy.DynamoDB.TablePrefix = ""

	config.JWT.SessionExpiration = "24h"
	config.JWT.Issuer = "councilcms"
	config.JWT.CookieName = "cms_session"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Metrics.Enabled = true
	config.Metrics.Path = "/metrics"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config, "")
}

// ValidBackend reports whether name is a supported backend
func ValidBackend(name string) bool {
	switch name {
	case BackendFile, BackendBlob, BackendDynamoDB, BackendPostgres:
		return true
	}
	return false
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if !ValidBackend(config.Storage.Backend) {
		return fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}
	for contentType, backend := range config.Storage.Overrides {
		if !ValidBackend(backend) {
			return fmt.Errorf("unknown storage backend %q for %s", backend, contentType)
		}
	}
	if config.Legacy.Source != "" && !ValidBackend(config.Legacy.Source) {
		return fmt.Errorf("unknown legacy source %q", config.Legacy.Source)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if _, err := time.ParseDuration(config.JWT.SessionExpiration); err != nil {
		return fmt.Errorf("invalid JWT session expiration format: %w", err)
	}

	for _, blob := range []BlobConfig{config.Storage.Blob, config.Legacy.Blob} {
		if blob.Provider != BlobProviderS3 && blob.Provider != BlobProviderGCS {
			return fmt.Errorf("unknown blob provider %q", blob.Provider)
		}
		if blob.Timeout != "" {
			if _, err := time.ParseDuration(blob.Timeout); err != nil {
				return fmt.Errorf("invalid blob timeout: %w", err)
			}
		}
	}

	for i, email := range config.Admin.Emails {
		config.Admin.Emails[i] = strings.ToLower(strings.TrimSpace(email))
	}

	return nil
}

// BackendFor returns the configured backend for a content type
func (c *Config) BackendFor(contentType string) string {
	if backend, ok := c.Storage.Overrides[contentType]; ok && backend != "" {
		return backend
	}
	return c.Storage.Backend
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}

	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// ParseDuration parses a duration string and returns def when it is empty or invalid
func ParseDuration(value string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
