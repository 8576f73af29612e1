package sentry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/guardianapis/product-switch/internal/config"
	"github.com/guardianapis/product-switch/internal/logger"
	"go.uber.org/fx"
)

type Service struct {
	cfg *config.Configuration
	log *logger.Logger
}

func NewSentryService(cfg *config.Configuration, log *logger.Logger) *Service {
	return &Service{cfg: cfg, log: log}
}

// RegisterHooks initializes Sentry on startup and flushes buffered events
// on shutdown. A disabled config is a no-op.
func RegisterHooks(lc fx.Lifecycle, svc *Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !svc.cfg.Sentry.Enabled {
				svc.log.Info("sentry is disabled")
				return nil
			}

			err := sentry.Init(sentry.ClientOptions{
				Dsn:              svc.cfg.Sentry.DSN,
				Environment:      svc.cfg.Sentry.Environment,
				TracesSampleRate: svc.cfg.Sentry.SampleRate,
			})
			if err != nil {
				svc.log.Errorw("failed to initialize sentry", "error", err)
				return err
			}

			svc.log.Infow("sentry initialized", "environment", svc.cfg.Sentry.Environment)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if svc.cfg.Sentry.Enabled {
				sentry.Flush(2 * time.Second)
			}
			return nil
		},
	})
}
