package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"

	"github.com/MikhailRaia/url-genie/internal/app"
	"github.com/MikhailRaia/url-genie/internal/config"
	"github.com/MikhailRaia/url-genie/internal/logger"
	"github.com/rs/zerolog/log"
)

func writeHeapProfile(path string) {
	f, err := os.Create(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to create heap profile")
		return
	}
	defer f.Close()

	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to write heap profile")
	}
}

func run() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}

	logger.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		return err
	}

	if memprofile := os.Getenv("MEMPROFILE"); memprofile != "" {
		defer writeHeapProfile(memprofile)
	}

	return application.Run(ctx)
}

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("Error running application")
		os.Exit(1)
	}
}
