// Package config loads database and batching settings from environment
// variables or a YAML file. Environment variables referenced inside a
// YAML file (e.g. password: ${DB_PASSWORD}) are expanded before parsing.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names and their defaults.
const (
	EnvHost     = "DB_HOST"
	EnvPort     = "DB_PORT"
	EnvDatabase = "DB_NAME"
	EnvUser     = "DB_USER"
	EnvPassword = "DB_PASSWORD"
	EnvSSLMode  = "DB_SSLMODE"
	EnvMaxBatch = "MAX_BATCH_SIZE"
	EnvTimeout  = "TIMEOUT"

	DefaultHost         = "localhost"
	DefaultPort         = 5432
	DefaultDatabase     = "postgres"
	DefaultUser         = "postgres"
	DefaultSSLMode      = "prefer"
	DefaultMaxBatchSize = 1000
	DefaultTimeout      = 30
)

// Config holds connection settings for one PostgreSQL database plus the
// batching defaults used by bulk inserts. It is treated as immutable
// once handed to a manager.
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`

	// MaxBatchSize is the default chunk size for batch inserts.
	MaxBatchSize int `yaml:"max_batch_size"`
	// Timeout (seconds) is reserved for collaborators; the execution
	// path itself does not apply it.
	Timeout int `yaml:"timeout"`
}

// FromEnv builds a Config from environment variables, applying defaults
// for anything unset. A .env file in the working directory is loaded
// first when present (existing environment variables win).
func FromEnv() (*Config, error) {
	// Ignore a missing .env file; it is optional.
	_ = godotenv.Load()

	cfg := &Config{
		Host:     getenv(EnvHost, DefaultHost),
		Database: getenv(EnvDatabase, DefaultDatabase),
		User:     getenv(EnvUser, DefaultUser),
		Password: os.Getenv(EnvPassword),
		SSLMode:  getenv(EnvSSLMode, DefaultSSLMode),
	}

	var err error
	if cfg.Port, err = getenvInt(EnvPort, DefaultPort); err != nil {
		return nil, err
	}
	if cfg.MaxBatchSize, err = getenvInt(EnvMaxBatch, DefaultMaxBatchSize); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = getenvInt(EnvTimeout, DefaultTimeout); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes reads configuration from YAML bytes.
func LoadBytes(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	if c.User == "" {
		c.User = DefaultUser
	}
	if c.SSLMode == "" {
		c.SSLMode = DefaultSSLMode
	}
	if c.MaxBatchSize == 0 {
		c.MaxBatchSize = DefaultMaxBatchSize
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

func (c *Config) validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1-65535, got %d", c.Port)
	}
	if c.Database == "" {
		return fmt.Errorf("database is required")
	}
	if c.MaxBatchSize <= 0 {
		return fmt.Errorf("max_batch_size must be positive, got %d", c.MaxBatchSize)
	}
	return nil
}

// DSN returns the PostgreSQL connection string. User and password are
// URL-escaped so special characters survive.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User), url.QueryEscape(c.Password),
		c.Host, c.Port, c.Database, c.SSLMode)
}

// Sanitized returns a copy with the password redacted, for logging.
func (c *Config) Sanitized() *Config {
	sanitized := *c
	if sanitized.Password != "" {
		sanitized.Password = "[REDACTED]"
	}
	return &sanitized
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
