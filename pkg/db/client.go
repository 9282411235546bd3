package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lineflow-mfg/lineflow-backend/pkg/config"
)

// Client wraps the gorm handle so repositories share pooling and the
// transaction helper.
type Client struct {
	gorm *gorm.DB
}

// New opens the configured database. Postgres is the deployment target;
// sqlite keeps local runs and integration tests self-contained.
func New(cfg config.DB) (*Client, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		dialector = postgres.Open(cfg.DSN)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("db: pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetConnMaxLifetime(cfg.MaxLife)

	return &Client{gorm: gdb}, nil
}

// NewWithGorm wraps an existing handle. Tests use this with an in-memory
// sqlite database.
func NewWithGorm(gdb *gorm.DB) *Client { return &Client{gorm: gdb} }

// Gorm returns the context-scoped handle.
func (c *Client) Gorm(ctx context.Context) *gorm.DB { return c.gorm.WithContext(ctx) }

// WithTx runs fn inside a transaction, committing on nil and rolling back
// on error or panic.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.gorm.WithContext(ctx).Transaction(fn)
}

// Ping verifies the underlying connection for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the pool.
func (c *Client) Close() error {
	sqlDB, err := c.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
