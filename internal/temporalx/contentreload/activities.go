package contentreload

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"

	"github.com/yungbote/dsaquest-backend/internal/modules/learning/content"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
)

// Reloader is the in-process reload the activity delegates to.
type Reloader interface {
	Reload(ctx context.Context, actor string) (content.Summary, error)
}

type Activities struct {
	Log     *logger.Logger
	Content Reloader
}

func (a *Activities) Reload(ctx context.Context, in Input) (content.Summary, error) {
	if a == nil || a.Content == nil {
		return content.Summary{}, fmt.Errorf("contentreload: activity not configured")
	}
	info := activity.GetInfo(ctx)
	if a.Log != nil {
		a.Log.Info("Content reload activity started", "workflow_id", info.WorkflowExecution.ID, "actor", in.Actor)
	}
	return a.Content.Reload(ctx, in.Actor)
}
