package db_fx

import (
	"context"
	"database/sql"
	"fmt"

	"bizplan/internal/config"
	"bizplan/internal/infra"
	"bizplan/internal/repositories"
	"bizplan/internal/storage"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Provide(
	provideStore)

// provideStore picks the durable key-value adapter named by STORAGE_DRIVER.
func provideStore(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (storage.KeyValueStore, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		db, err := infra.InitPostgresql(cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		repo := repositories.NewStoredValueRepository(db)
		if err := repo.Migrate(context.Background()); err != nil {
			infra.ClosePostgresql(db)
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		lc.Append(closeGorm(db))
		logger.Info().Str("driver", cfg.StorageDriver).Msg("Durable store ready")
		return repo, nil

	case config.DriverSQLite:
		db, err := infra.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		repo := repositories.NewSQLiteStoreRepository(db)
		if err := repo.Migrate(context.Background()); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		lc.Append(closeSQL(db))
		logger.Info().Str("driver", cfg.StorageDriver).Str("path", cfg.SQLitePath).Msg("Durable store ready")
		return repo, nil
	}

	logger.Warn().Msg("Using in-memory store, results are lost on restart")
	return storage.NewMemoryStore(), nil
}

func closeGorm(db *gorm.DB) fx.Hook {
	return fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgresql(db)
			return nil
		},
	}
}

func closeSQL(db *sql.DB) fx.Hook {
	return fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	}
}
