package contentreload

import (
	"context"
	"fmt"

	enumspb "go.temporal.io/api/enums/v1"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/dsaquest-backend/internal/modules/learning/content"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
)

// Dispatcher starts reloads through Temporal. A caller that arrives while a
// reload is running joins that run and receives its summary.
type Dispatcher struct {
	log       *logger.Logger
	tc        temporalsdkclient.Client
	taskQueue string
}

func NewDispatcher(log *logger.Logger, tc temporalsdkclient.Client, taskQueue string) *Dispatcher {
	return &Dispatcher{log: log.With("component", "ContentReloadDispatcher"), tc: tc, taskQueue: taskQueue}
}

func StartOptions(taskQueue string) temporalsdkclient.StartWorkflowOptions {
	return temporalsdkclient.StartWorkflowOptions{
		ID:                       WorkflowID,
		TaskQueue:                taskQueue,
		WorkflowIDReusePolicy:    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		WorkflowIDConflictPolicy: enumspb.WORKFLOW_ID_CONFLICT_POLICY_USE_EXISTING,
	}
}

func (d *Dispatcher) Reload(ctx context.Context, actor string) (content.Summary, error) {
	run, err := d.tc.ExecuteWorkflow(ctx, StartOptions(d.taskQueue), WorkflowName, Input{Actor: actor})
	if err != nil {
		return content.Summary{}, fmt.Errorf("start content reload workflow: %w", err)
	}
	d.log.Info("Content reload dispatched", "workflow_id", run.GetID(), "run_id", run.GetRunID(), "actor", actor)

	var out content.Summary
	if err := run.Get(ctx, &out); err != nil {
		return content.Summary{}, fmt.Errorf("content reload workflow: %w", err)
	}
	return out, nil
}
