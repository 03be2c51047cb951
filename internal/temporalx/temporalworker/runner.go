package temporalworker

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
	"github.com/yungbote/dsaquest-backend/internal/temporalx"
	"github.com/yungbote/dsaquest-backend/internal/temporalx/contentreload"
)

type Runner struct {
	log     *logger.Logger
	tc      temporalsdkclient.Client
	cfg     temporalx.Config
	content contentreload.Reloader
}

func NewRunner(log *logger.Logger, tc temporalsdkclient.Client, cfg temporalx.Config, content contentreload.Reloader) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if content == nil {
		return nil, fmt.Errorf("temporal worker missing content reloader")
	}
	return &Runner{log: log.With("component", "TemporalWorker"), tc: tc, cfg: cfg, content: content}, nil
}

// Start polls the task queue until ctx is cancelled. Start failures are
// retried with backoff for up to a minute.
func (r *Runner) Start(ctx context.Context) error {
	r.log.Info("Starting Temporal worker", "address", r.cfg.Address, "namespace", r.cfg.Namespace, "task_queue", r.cfg.TaskQueue)

	deadline := time.Now().Add(time.Minute)
	for attempt := 1; ; attempt++ {
		w := r.newWorker()
		startErr := w.Start()
		if startErr == nil {
			go func() {
				<-ctx.Done()
				w.Stop()
			}()
			r.log.Info("Temporal worker started", "task_queue", r.cfg.TaskQueue, "attempts", attempt)
			return nil
		}
		w.Stop()

		if time.Now().After(deadline) {
			return fmt.Errorf("temporal worker start (task_queue=%s): %w", r.cfg.TaskQueue, startErr)
		}
		r.log.Warn("Temporal worker failed to start; retrying", "attempt", attempt, "error", startErr)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff(attempt)):
		}
	}
}

func (r *Runner) newWorker() worker.Worker {
	// One reload at a time per worker; the fixed workflow id already makes
	// concurrent runs impossible cluster-wide.
	w := worker.New(r.tc, r.cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     1,
		MaxConcurrentWorkflowTaskExecutionSize: 2,
	})
	acts := &contentreload.Activities{Log: r.log, Content: r.content}
	w.RegisterWorkflowWithOptions(contentreload.Workflow, workflow.RegisterOptions{Name: contentreload.WorkflowName})
	w.RegisterActivityWithOptions(acts.Reload, activity.RegisterOptions{Name: contentreload.ActivityReload})
	return w
}

func backoff(attempt int) time.Duration {
	d := 250 * time.Millisecond
	for i := 1; i < attempt && d < 5*time.Second; i++ {
		d *= 2
	}
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
