package lookupimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/insta-viewer/internal/domain"
	"github.com/orgball2608/insta-viewer/internal/lookup"
	lookuprepo "github.com/orgball2608/insta-viewer/internal/repositories/lookup"
	"github.com/orgball2608/insta-viewer/pkg/config"
	"github.com/orgball2608/insta-viewer/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Repo   lookuprepo.Repository
	Logger logger.Logger
	Config *config.Config
}

type LookupImpl struct {
	repo      lookuprepo.Repository
	logger    logger.Logger
	config    *config.Config
	retention time.Duration
	now       func() time.Time
}

func New(opts Opts) *LookupImpl {
	return &LookupImpl{
		repo:      opts.Repo,
		logger:    opts.Logger.WithComponent("lookups"),
		config:    opts.Config,
		retention: opts.Config.Lookup.Retention,
		now:       time.Now,
	}
}

var _ lookup.Client = (*LookupImpl)(nil)

func (l *LookupImpl) Record(ctx context.Context, username, userID string, success bool) error {
	return l.repo.Create(ctx, domain.Lookup{
		Username:  username,
		UserID:    userID,
		Success:   success,
		CreatedAt: l.now(),
	})
}

func (l *LookupImpl) Recent(ctx context.Context, limit int) ([]domain.Lookup, error) {
	lookups, err := l.repo.ListRecent(ctx, lookup.ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	if lookups == nil {
		lookups = []domain.Lookup{}
	}
	return lookups, nil
}

// Cleanup removes lookups older than the configured retention.
func (l *LookupImpl) Cleanup(ctx context.Context) (int64, error) {
	if l.retention <= 0 {
		return 0, nil
	}
	return l.repo.DeleteOlderThan(ctx, l.now().Add(-l.retention))
}

// ScheduleCleanup sets up a daily job that trims the lookups table
func (l *LookupImpl) ScheduleCleanup(ctx context.Context) error {
	if !l.config.PostgresEnabled() {
		l.logger.Info("Postgres disabled, lookup cleanup not scheduled")
		return nil
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.Local))
	if err != nil {
		return fmt.Errorf("failed to create cleanup scheduler: %w", err)
	}

	// Every day at 3:00 AM
	_, err = scheduler.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0)),
		),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				l.logger.Info("Context cancelled, stopping lookup cleanup job")
				return
			}

			cleanupCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			defer cancel()

			rowsDeleted, err := l.Cleanup(cleanupCtx)
			if err != nil {
				l.logger.Error("Failed to clean up old lookups", "error", err)
				return
			}

			l.logger.Info("Lookup cleanup completed", "rows_deleted", rowsDeleted)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule lookup cleanup: %w", err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		l.logger.Info("Stopping lookup cleanup scheduler")
		if err := scheduler.Shutdown(); err != nil {
			l.logger.Error("Failed to shut down cleanup scheduler", "error", err)
		}
	}()

	return nil
}
