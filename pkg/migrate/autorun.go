package migrate

import (
	"context"
	"fmt"

	"github.com/airbear/airbear-backend/pkg/config"
	"github.com/airbear/airbear-backend/pkg/db"
	"github.com/airbear/airbear-backend/pkg/logger"
)

// MaybeRunDev brings the schema up to date at boot when the auto-migrate flag
// is set. SQLite files are created through GORM's AutoMigrate; Postgres runs
// the goose migrations in dir.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client, dir string) error {
	if !cfg.FeatureFlags.AutoMigrate || client == nil {
		return nil
	}
	if dir == "" {
		dir = DefaultDir
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": dir, "dialect": client.Dialect()}
	ctx = logg.WithFields(ctx, meta)

	if Dialect(client.Dialect()) == "sqlite3" {
		logg.Info(ctx, "running gorm auto-migrate")
		return client.AutoMigrate(ctx)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	logg.Info(ctx, "running goose migrations")
	if err := Run(ctx, sqlDB, client.Dialect(), dir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
