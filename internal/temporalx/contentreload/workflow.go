package contentreload

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/dsaquest-backend/internal/modules/learning/content"
)

// Workflow runs one reload activity. A failed reload is reported, never
// retried; the next trigger starts a fresh run.
func Workflow(ctx workflow.Context, in Input) (content.Summary, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Minute,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	})

	var out content.Summary
	if err := workflow.ExecuteActivity(ctx, ActivityReload, in).Get(ctx, &out); err != nil {
		return content.Summary{}, err
	}
	workflow.GetLogger(ctx).Info("Content reload workflow finished",
		"actor", in.Actor,
		"errors", out.ErrorCount,
		"warnings", out.WarningCount,
	)
	return out, nil
}
