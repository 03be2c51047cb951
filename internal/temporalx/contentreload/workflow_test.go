package contentreload

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/dsaquest-backend/internal/modules/learning/content"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
)

type stubReloader struct {
	calls   int
	actor   string
	summary content.Summary
	err     error
}

func (s *stubReloader) Reload(_ context.Context, actor string) (content.Summary, error) {
	s.calls++
	s.actor = actor
	return s.summary, s.err
}

func newEnv(t *testing.T, r Reloader) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflowWithOptions(Workflow, workflow.RegisterOptions{Name: WorkflowName})
	acts := &Activities{Log: logger.Nop(), Content: r}
	env.RegisterActivityWithOptions(acts.Reload, activity.RegisterOptions{Name: ActivityReload})
	return env
}

func TestWorkflowReturnsSummary(t *testing.T) {
	stub := &stubReloader{summary: content.Summary{Success: true, IssueCount: 1, WarningCount: 1}}
	env := newEnv(t, stub)

	env.ExecuteWorkflow(WorkflowName, Input{Actor: "admin-1"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var out content.Summary
	require.NoError(t, env.GetWorkflowResult(&out))
	assert.True(t, out.Success)
	assert.Equal(t, 1, out.WarningCount)
	assert.Equal(t, "admin-1", stub.actor)
}

func TestWorkflowDoesNotRetryFailedReload(t *testing.T) {
	stub := &stubReloader{err: errors.New("database unavailable")}
	env := newEnv(t, stub)

	env.ExecuteWorkflow(WorkflowName, Input{Actor: "scheduler"})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	assert.Equal(t, 1, stub.calls)
}

func TestStartOptionsUseFixedID(t *testing.T) {
	opts := StartOptions("queue")
	assert.Equal(t, WorkflowID, opts.ID)
	assert.Equal(t, "queue", opts.TaskQueue)
}
