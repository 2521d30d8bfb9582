package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/service"
)

// StartNotificationWorker registers notification handlers on the dispatcher.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// ReloadFunc refreshes the ticket snapshot.
type ReloadFunc func(ctx context.Context) error

// ReloadScheduler periodically reloads tickets on a cron schedule.
type ReloadScheduler struct {
	cron    *cron.Cron
	entryID cron.EntryID
	spec    string
}

// StartReloadScheduler schedules reload with a standard five-field cron expression or a
// descriptor such as "@every 5m". An empty spec disables scheduling and returns nil.
// A run is skipped while the previous one is still in progress.
func StartReloadScheduler(ctx context.Context, spec string, reload ReloadFunc, logger *zap.Logger) (*ReloadScheduler, error) {
	if spec == "" {
		return nil, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	id, err := c.AddFunc(spec, func() {
		if ctx.Err() != nil {
			return
		}
		if err := reload(ctx); err != nil {
			logger.Warn("scheduled reload failed", zap.String("schedule", spec), zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reload schedule %q: %w", spec, err)
	}
	c.Start()
	logger.Info("ticket reload scheduled", zap.String("schedule", spec))
	return &ReloadScheduler{cron: c, entryID: id, spec: spec}, nil
}

// Next reports when the next reload runs; zero when nothing is scheduled.
func (s *ReloadScheduler) Next() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// Stop halts the scheduler and waits for a running reload to finish.
func (s *ReloadScheduler) Stop() {
	if s == nil {
		return
	}
	<-s.cron.Stop().Done()
}
