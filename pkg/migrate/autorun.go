package migrate

import (
	"context"

	"github.com/lineflow-mfg/lineflow-backend/pkg/config"
	"github.com/lineflow-mfg/lineflow-backend/pkg/db"
	"github.com/lineflow-mfg/lineflow-backend/pkg/logger"
)

// AutoRun applies pending migrations at API startup when enabled. Deployments
// that migrate out-of-band leave the flag off.
func AutoRun(ctx context.Context, cfg config.DB, client *db.Client, logg *logger.Logger) error {
	if !cfg.AutoMigrate {
		logg.Debug().Msg("auto-migrate disabled")
		return nil
	}

	sqlDB, err := client.Gorm(ctx).DB()
	if err != nil {
		return err
	}
	logg.Info().Str("driver", cfg.Driver).Msg("running migrations")
	return Up(ctx, sqlDB, cfg.Driver)
}
