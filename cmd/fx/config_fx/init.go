package config_fx

import (
	"bizplan/internal/config"
	"bizplan/internal/infra"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

var Module = fx.Provide(
	config.Load,
	provideLogger)

func provideLogger(cfg *config.Config) zerolog.Logger {
	return infra.NewLogger(cfg.LogLevel, cfg.LogPretty)
}
