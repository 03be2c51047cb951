package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/yungbote/dsaquest-backend/internal/modules/learning/content"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
)

const SchedulerActor = "scheduler"

// Reloader runs one content reload on behalf of actor.
type Reloader interface {
	Reload(ctx context.Context, actor string) (content.Summary, error)
}

// Scheduler reloads content on a fixed interval inside this process.
type Scheduler struct {
	log      *logger.Logger
	reloader Reloader
	interval time.Duration
	timeout  time.Duration

	cron *gocron.Scheduler
}

func NewScheduler(baseLog *logger.Logger, reloader Reloader, interval time.Duration) *Scheduler {
	return &Scheduler{
		log:      baseLog.With("component", "ContentScheduler"),
		reloader: reloader,
		interval: interval,
		timeout:  30 * time.Minute,
		cron:     gocron.NewScheduler(time.UTC),
	}
}

// Start schedules the reload job. The first run happens one interval after
// Start; startup reloads are handled separately.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("content reload interval must be positive, got %s", s.interval)
	}
	_, err := s.cron.Every(s.interval).
		WaitForSchedule().
		SingletonMode().
		Do(func() { s.runOnce(ctx) })
	if err != nil {
		return fmt.Errorf("schedule content reload: %w", err)
	}
	s.cron.StartAsync()
	s.log.Info("Content reload scheduled", "interval", s.interval.String())

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron.IsRunning() {
		s.cron.Stop()
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Scheduled content reload panicked", "panic", fmt.Sprint(r))
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	summary, err := s.reloader.Reload(runCtx, SchedulerActor)
	if err != nil {
		s.log.Warn("Scheduled content reload failed", "error", err)
		return
	}
	s.log.Info("Scheduled content reload finished",
		"success", summary.Success,
		"errors", summary.ErrorCount,
		"warnings", summary.WarningCount,
	)
}
