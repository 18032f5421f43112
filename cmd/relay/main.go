package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/orgball2608/insta-viewer/internal/app"
	"github.com/orgball2608/insta-viewer/pkg/logger"
	"go.uber.org/fx"
)

func main() {
	log := logger.New(logger.Opts{Env: os.Getenv("APP_ENV")})

	relay := fx.New(
		fx.Logger(log),
		app.Module,
	)

	if err := relay.Start(context.Background()); err != nil {
		log.Error("Failed to start relay", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	if err := relay.Stop(context.Background()); err != nil {
		log.Error("Failed to stop relay", "error", err)
		os.Exit(1)
	}
}
