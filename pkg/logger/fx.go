package logger

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/orgball2608/insta-viewer/pkg/config"
	"go.uber.org/fx"
)

var FxOption = fx.Annotate(
	func(lc fx.Lifecycle, cfg *config.Config) (*Impl, error) {
		withSentry := false
		if cfg.App.SentryUrl != "" {
			if err := sentry.Init(sentry.ClientOptions{
				Dsn:         cfg.App.SentryUrl,
				Environment: cfg.App.Env,
			}); err != nil {
				return nil, fmt.Errorf("failed to init sentry: %w", err)
			}
			withSentry = true

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					sentry.Flush(2 * time.Second)
					return nil
				},
			})
		}

		return New(
			Opts{
				Env:    cfg.App.Env,
				Sentry: withSentry,
			},
		), nil
	},
	fx.As(new(Logger)),
)
