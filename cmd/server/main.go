package main

import (
	"context"

	"jsonapi/backend/internal/app"
	"jsonapi/backend/internal/config"
	"jsonapi/backend/internal/logging"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.Load(config.Environ())
	if err != nil {
		log := logging.L()
		log.Fatal().Err(err).Msg("resolve configuration")
	}
	logging.Init(cfg.Logging)

	opts := app.Options{Config: cfg, Logger: logging.L()}
	if err := app.Run(context.Background(), opts); err != nil {
		log := logging.L()
		log.Fatal().Err(err).Msg("server stopped")
	}
}
