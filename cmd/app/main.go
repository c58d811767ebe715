package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"bizplan/cmd/fx/analysis_fx"
	"bizplan/cmd/fx/checkout_fx"
	"bizplan/cmd/fx/config_fx"
	"bizplan/cmd/fx/controllers_fx"
	"bizplan/cmd/fx/db_fx"
	"bizplan/cmd/fx/memcache_fx"
	"bizplan/cmd/fx/wizard_fx"
	"bizplan/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		analysis_fx.Module,
		wizard_fx.Module,
		checkout_fx.Module,
		controllers_fx.Module,

		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg *config.Config, engine *gin.Engine, logger zerolog.Logger) {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		// Submissions wait on the analysis service.
		WriteTimeout: cfg.AnalysisTimeout + 15*time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("Starting HTTP server")
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error().Err(err).Msg("HTTP server stopped")
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
