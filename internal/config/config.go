package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/victorazevedo0/loja-virtual/internal/catalog"
	"github.com/victorazevedo0/loja-virtual/internal/repository"
	"github.com/victorazevedo0/loja-virtual/pkg/logger"
)

const DefaultDatabaseURL = "sqlite://./data/ecommerce.db"

type Config struct {
	HTTPPort           string
	DatabaseURL        string
	ResetDatabase      bool
	Pool               repository.PoolConfig
	CatalogURL         string
	CatalogTimeout     time.Duration
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
	Log                logger.Config
}

func defaults() *Config {
	log := logger.DefaultConfig()
	log.Component = "storefront"
	return &Config{
		HTTPPort:           "8000",
		DatabaseURL:        DefaultDatabaseURL,
		CatalogURL:         catalog.DefaultURL,
		CatalogTimeout:     10 * time.Second,
		RequestTimeout:     30 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 1 << 20, // 1MB
		Log:                log,
	}
}

// LoadDotEnv reads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load builds the configuration from the environment, then applies the
// command-line flags in args on top of it.
func Load(args []string) (*Config, error) {
	cfg := defaults()
	if err := cfg.fromEnv(); err != nil {
		return nil, err
	}

	fset := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	fset.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "database connection string (sqlite:// or postgres://)")
	fset.StringVar(&cfg.HTTPPort, "port", cfg.HTTPPort, "HTTP port")
	fset.BoolVar(&cfg.ResetDatabase, "reset-db", cfg.ResetDatabase, "drop and recreate all tables on startup (destroys data)")
	if err := fset.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) fromEnv() error {
	c.HTTPPort = getEnv("HTTP_PORT", c.HTTPPort)
	c.DatabaseURL = getEnv("DATABASE_URL", getEnv("SQLALCHEMY_DATABASE_URL", c.DatabaseURL))
	c.CatalogURL = getEnv("CATALOG_URL", c.CatalogURL)

	var err error
	if c.ResetDatabase, err = getBool("DB_RESET", c.ResetDatabase); err != nil {
		return err
	}
	if c.CatalogTimeout, err = getDuration("CATALOG_TIMEOUT", c.CatalogTimeout); err != nil {
		return err
	}
	if c.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", c.RequestTimeout); err != nil {
		return err
	}
	if c.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout); err != nil {
		return err
	}
	if c.Pool.MaxOpenConns, err = getInt("DB_MAX_OPEN_CONNS", c.Pool.MaxOpenConns); err != nil {
		return err
	}
	if c.Pool.MaxIdleConns, err = getInt("DB_MAX_IDLE_CONNS", c.Pool.MaxIdleConns); err != nil {
		return err
	}
	if c.Pool.ConnMaxLifetime, err = getDuration("DB_CONN_MAX_LIFETIME", c.Pool.ConnMaxLifetime); err != nil {
		return err
	}
	if c.Pool.ConnMaxIdleTime, err = getDuration("DB_CONN_MAX_IDLE_TIME", c.Pool.ConnMaxIdleTime); err != nil {
		return err
	}

	c.Log.Level = logger.Level(strings.ToLower(getEnv("LOG_LEVEL", string(c.Log.Level))))
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	c.Log.Output = getEnv("LOG_OUTPUT", c.Log.Output)
	c.Log.Environment = getEnv("ENVIRONMENT", c.Log.Environment)
	return nil
}

func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.HTTPPort)
	if err != nil {
		return fmt.Errorf("invalid port %q: must be a number", c.HTTPPort)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port %d is out of range: must be between 1 and 65535", port)
	}
	if _, _, err := repository.ParseDSN(c.DatabaseURL); err != nil {
		return err
	}
	if c.CatalogURL == "" {
		return errors.New("CATALOG_URL must not be empty")
	}
	if c.RequestTimeout <= 0 || c.ShutdownTimeout <= 0 || c.CatalogTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}
