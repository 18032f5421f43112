package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/orgball2608/insta-viewer/internal/api"
	"github.com/orgball2608/insta-viewer/internal/instagram"
	"github.com/orgball2608/insta-viewer/internal/instagram/api_adapter"
	"github.com/orgball2608/insta-viewer/internal/lookup"
	"github.com/orgball2608/insta-viewer/internal/lookup/lookupimpl"
	"github.com/orgball2608/insta-viewer/internal/migrations"
	"github.com/orgball2608/insta-viewer/internal/ratelimit"
	repositories "github.com/orgball2608/insta-viewer/internal/repositories/fx"
	"github.com/orgball2608/insta-viewer/pkg/config"
	"github.com/orgball2608/insta-viewer/pkg/logger"
	"github.com/orgball2608/insta-viewer/pkg/pgx"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		ratelimit.NewFromConfig,
	),
	fx.Provide(
		api_adapter.New,
		func(a *api_adapter.APIAdapter) instagram.Client { return a },
		func(a *api_adapter.APIAdapter) instagram.ImageFetcher { return a },
		fx.Annotate(
			lookupimpl.New,
			fx.As(new(lookup.Client)),
		),
		api.New,
	),
	repositories.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

func migrate(cfg *config.Config, log logger.Logger) error {
	if !cfg.PostgresEnabled() {
		return nil
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Up(db); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	log.Info("Migrations applied")
	return nil
}

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, server *api.Server, lookups lookup.Client) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info(fmt.Sprintf("Starting relay on :%d", cfg.App.Port))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Server failed", "error", err)
				}
			}()

			if err := lookups.ScheduleCleanup(ctx); err != nil {
				log.Error("Schedule lookup cleanup error", "error", err)
			}
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			return srv.Shutdown(stopCtx)
		},
	})
}
