package memcache_fx

import (
	"context"
	"time"

	"bizplan/internal/config"
	"bizplan/internal/services"

	"go.uber.org/fx"
)

const sweepInterval = time.Minute

var Module = fx.Provide(provideSessionManager)

func provideSessionManager(lc fx.Lifecycle, cfg *config.Config) *services.SessionManager {
	sessions := services.NewSessionManager(cfg.SessionTTL)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sessions.StartJanitor(sweepInterval)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			sessions.Stop()
			sessions.CloseAll()
			return nil
		},
	})
	return sessions
}
