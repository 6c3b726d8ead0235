package main

import (
	"os"

	"github.com/phuslu/log"

	"stock-sector-analyzer/app"
	"stock-sector-analyzer/config"
)

func main() {
	// Load config from .env file
	cfg := config.LoadFromEnv()

	log.DefaultLogger = log.Logger{
		Level:      log.ParseLevel(cfg.LogLevel),
		Caller:     1,
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			ColorOutput:    true,
			QuoteString:    true,
			EndWithMessage: true,
		},
	}

	// Create and start app
	application := app.New(cfg)
	if err := application.Start(); err != nil {
		log.Error().Err(err).Msg("❌ Application stopped with error")
		os.Exit(1)
	}
}
