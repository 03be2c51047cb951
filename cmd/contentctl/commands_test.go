package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/dsaquest-backend/internal/modules/learning/content"
)

type fakeOps struct {
	summary content.Summary
	stats   *content.ContentStats
	actor   string
}

func (f *fakeOps) Reload(ctx context.Context, actor string) (content.Summary, error) {
	f.actor = actor
	return f.summary, nil
}

func (f *fakeOps) Validate(ctx context.Context) (content.Summary, error) {
	return f.summary, nil
}

func (f *fakeOps) Stats(ctx context.Context) (*content.ContentStats, error) {
	return f.stats, nil
}

func run(t *testing.T, ops *fakeOps, args ...string) (map[string]any, bool, error) {
	t.Helper()
	released := false
	open := func(ctx context.Context) (contentOps, func(), error) {
		return ops, func() { released = true }, nil
	}
	cmd := newRootCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()

	var decoded map[string]any
	if out.Len() > 0 {
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	}
	return decoded, released, err
}

func TestReloadPrintsSummary(t *testing.T) {
	ops := &fakeOps{summary: content.Summary{Success: true, WarningCount: 2, IssueCount: 2}}
	out, released, err := run(t, ops, "reload", "--actor", "ops")
	require.NoError(t, err)
	assert.True(t, released)
	assert.Equal(t, "ops", ops.actor)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, float64(2), out["warningCount"])
}

func TestValidateFailsOnErrors(t *testing.T) {
	ops := &fakeOps{summary: content.Summary{Success: false, ErrorCount: 1, IssueCount: 1}}
	out, _, err := run(t, ops, "validate")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errReportHasErrors))
	assert.Equal(t, false, out["success"])
}

func TestStatsPrintsCounts(t *testing.T) {
	ops := &fakeOps{stats: &content.ContentStats{Modules: 1, Lessons: 3}}
	out, released, err := run(t, ops, "stats")
	require.NoError(t, err)
	assert.True(t, released)
	assert.Equal(t, float64(3), out["lessons"])
}

func TestOpenFailure(t *testing.T) {
	cmd := newRootCmd(func(ctx context.Context) (contentOps, func(), error) {
		return nil, nil, errors.New("no database")
	})
	cmd.SetArgs([]string{"stats"})
	assert.EqualError(t, cmd.Execute(), "no database")
}
