package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yungbote/dsaquest-backend/internal/modules/learning/content"
)

// errReportHasErrors makes the process exit non-zero after the summary has
// been printed.
var errReportHasErrors = errors.New("content report has errors")

type contentOps interface {
	Reload(ctx context.Context, actor string) (content.Summary, error)
	Validate(ctx context.Context) (content.Summary, error)
	Stats(ctx context.Context) (*content.ContentStats, error)
}

// opener returns the content operations plus a release func.
type opener func(ctx context.Context) (contentOps, func(), error)

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "contentctl",
		Short:         "Load, validate and inspect curriculum content",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newReloadCmd(open), newValidateCmd(open), newStatsCmd(open))
	return root
}

func newReloadCmd(open opener) *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "reload",
		Short: "Run every content source against the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withOps(cmd, open, func(ctx context.Context, ops contentOps) error {
				summary, err := ops.Reload(ctx, actor)
				if err != nil {
					return err
				}
				return printSummary(cmd.OutOrStdout(), summary)
			})
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "cli", "Actor recorded in the activity log")
	return cmd
}

func newValidateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Dry-run the content sources without touching the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withOps(cmd, open, func(ctx context.Context, ops contentOps) error {
				summary, err := ops.Validate(ctx)
				if err != nil {
					return err
				}
				return printSummary(cmd.OutOrStdout(), summary)
			})
		},
	}
}

func newStatsCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print content counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withOps(cmd, open, func(ctx context.Context, ops contentOps) error {
				stats, err := ops.Stats(ctx)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), stats)
			})
		},
	}
}

func withOps(cmd *cobra.Command, open opener, fn func(ctx context.Context, ops contentOps) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ops, release, err := open(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx, ops)
}

func printSummary(w io.Writer, summary content.Summary) error {
	if err := writeJSON(w, summary); err != nil {
		return err
	}
	if !summary.Success {
		return fmt.Errorf("%w: %d error(s)", errReportHasErrors, summary.ErrorCount)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
