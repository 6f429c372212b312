package db

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrURLRequired is returned when neither Config.URL nor DATABASE_URL is set.
var ErrURLRequired = errors.New("DATABASE_URL environment variable is required")

// Config holds database connection configuration
type Config struct {
	// URL is the database connection URL (defaults to DATABASE_URL env var)
	URL string
	// Debug logs every SQL statement at debug level
	Debug bool
	// SlowThreshold logs statements slower than this as warnings.
	// Zero uses DefaultSlowThreshold.
	SlowThreshold time.Duration
	// MaxOpenConns caps the pool; zero leaves database/sql's default
	MaxOpenConns int
	// ConnMaxIdleTime closes pooled connections idle for longer
	ConnMaxIdleTime time.Duration
}

// DefaultSlowThreshold is the statement duration logged as slow when the
// config names none. Policy resolution runs on every push and command.
const DefaultSlowThreshold = 200 * time.Millisecond

func (c Config) url() string {
	if c.URL != "" {
		return c.URL
	}
	return URL()
}

// Connect opens the governance database.
func Connect(cfg Config) (*gorm.DB, error) {
	dbURL := cfg.url()
	if dbURL == "" {
		return nil, ErrURLRequired
	}
	return open(postgres.New(postgres.Config{
		DSN:                  dbURL,
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), cfg)
}

func open(dialector gorm.Dialector, cfg Config) (*gorm.DB, error) {
	slow := cfg.SlowThreshold
	if slow == 0 {
		slow = DefaultSlowThreshold
	}
	database, err := gorm.Open(dialector, &gorm.Config{
		Logger: newLogger(cfg.Debug, slow),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to governance database: %w", err)
	}

	pool, err := database.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		pool.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		pool.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	return database, nil
}

// URL returns the database URL from environment.
// Returns empty string if DATABASE_URL is not set.
func URL() string {
	return os.Getenv("DATABASE_URL")
}
