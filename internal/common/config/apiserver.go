package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultPort      = 5234
	DefaultLeeway    = 5 * time.Second
	DefaultRoleClaim = "role"
)

type (
	APIServerConfig struct {
		Server    ServerConfig    `yaml:"server"`
		Database  DatabaseConfig  `yaml:"database"`
		Logger    LoggerConfig    `yaml:"logger"`
		Auth      AuthConfig      `yaml:"auth"`
		RateLimit RateLimitConfig `yaml:"rate_limit"`
		Metrics   MetricsConfig   `yaml:"metrics"`
		Tracing   TracingConfig   `yaml:"tracing"`
		I18n      I18nConfig      `yaml:"i18n"`
	}

	ServerConfig struct {
		Port         int           `yaml:"port"`
		Mode         string        `yaml:"mode"`          // gin mode: debug, release, test
		AllowOrigins []string      `yaml:"allow_origins"` // frontend origins allowed by CORS
		ShutdownWait time.Duration `yaml:"shutdown_wait"`
	}

	DatabaseConfig struct {
		Type     string `yaml:"type"`     // mysql, postgres, sqlite
		Host     string `yaml:"host"`     // localhost
		Port     int    `yaml:"port"`     // 3306 (for mysql), 5432 (for postgres)
		User     string `yaml:"user"`     // root (for mysql), postgres (for postgres)
		Password string `yaml:"password"` // password
		DBName   string `yaml:"dbname"`   // database name, file path for sqlite
		SSLMode  string `yaml:"sslmode"`  // disable (for postgres)
	}
)

func (c *APIServerConfig) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownWait <= 0 {
		c.Server.ShutdownWait = 5 * time.Second
	}
	if c.Auth.Leeway == 0 {
		c.Auth.Leeway = DefaultLeeway
	}
	if c.Auth.RoleClaim == "" {
		c.Auth.RoleClaim = DefaultRoleClaim
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "techmine"
	}
	if c.RateLimit.Prefix == "" {
		c.RateLimit.Prefix = "techmine:ratelimit"
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.I18n.DefaultLang == "" {
		c.I18n.DefaultLang = "en"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "techmine-apiserver"
	}
}

// Validate reports configuration the server cannot start with
func (c *APIServerConfig) Validate() error {
	var errs []error
	switch c.Database.Type {
	case "postgres", "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported database type: %q", c.Database.Type))
	}
	if c.Auth.Secret == "" && c.Auth.PublicKeyFile == "" {
		errs = append(errs, errors.New("auth: one of secret or public_key_file is required"))
	}
	if c.Auth.Leeway < 0 {
		errs = append(errs, errors.New("auth: leeway must not be negative"))
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.Addr == "" {
			errs = append(errs, errors.New("rate_limit: addr is required when enabled"))
		}
		if c.RateLimit.Limit <= 0 {
			errs = append(errs, errors.New("rate_limit: limit must be positive"))
		}
	}
	return errors.Join(errs...)
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case "postgres":
		return c.getPostgresDSN()
	case "mysql":
		return c.getMySQLDSN()
	case "sqlite":
		// Ensure the directory for the SQLite database exists.
		// If the directory cannot be created, it's a fatal error.
		if c.DBName != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(c.DBName), 0755); err != nil {
				panic(fmt.Errorf("failed to create directory for sqlite database: %w", err))
			}
		}
		return c.DBName // For SQLite, DBName is the file path
	default:
		return ""
	}
}

// getPostgresDSN returns PostgreSQL connection string
func (c *DatabaseConfig) getPostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// getMySQLDSN returns MySQL connection string. clientFoundRows makes an
// update that rewrites identical values still report the matched row.
func (c *DatabaseConfig) getMySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}
