// Command migrate applies, rolls back, or reports the database schema.
//
//	migrate up
//	migrate down
//	migrate status
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lineflow-mfg/lineflow-backend/pkg/config"
	"github.com/lineflow-mfg/lineflow-backend/pkg/db"
	"github.com/lineflow-mfg/lineflow-backend/pkg/logger"
	"github.com/lineflow-mfg/lineflow-backend/pkg/migrate"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logg := logger.New("lineflow-migrate", cfg.App.Env, cfg.App.LogLevel)

	client, err := db.New(cfg.DB)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx := context.Background()
	sqlDB, err := client.Gorm(ctx).DB()
	if err != nil {
		return err
	}

	switch cmd {
	case "up":
		logg.Info().Str("driver", cfg.DB.Driver).Msg("applying migrations")
		return migrate.Up(ctx, sqlDB, cfg.DB.Driver)
	case "down":
		logg.Info().Str("driver", cfg.DB.Driver).Msg("rolling back one migration")
		return migrate.Down(ctx, sqlDB, cfg.DB.Driver)
	case "status":
		return migrate.Status(ctx, sqlDB, cfg.DB.Driver)
	default:
		return fmt.Errorf("unknown command %q (want up, down, or status)", cmd)
	}
}
