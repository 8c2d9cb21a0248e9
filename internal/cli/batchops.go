package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"leadconsole/internal/api"
	"leadconsole/internal/batch"
	"leadconsole/internal/leads"
)

var (
	setStatusID  int64
	assignUserID int64
)

var setStatusCmd = &cobra.Command{
	Use:   "set-status --status <status-id> <lead-id>...",
	Short: "Set the status of one or more leads",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSequentialBatch(cmd, args, "set-status", func(lead *api.Lead) {
			lead.StatusID = setStatusID
		})
	},
}

var assignCmd = &cobra.Command{
	Use:   "assign --user <user-id> <lead-id>...",
	Short: "Assign one or more leads to a user",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSequentialBatch(cmd, args, "assign", func(lead *api.Lead) {
			userID := assignUserID
			lead.AssignedToUserID = &userID
		})
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive <lead-id>...",
	Short: "Archive (soft-delete) leads in one batch request",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBulkBatch(cmd, args, "archive", func(app *app) batch.BulkFunc {
			return func(ctx context.Context, ids []int64) error {
				_, err := app.client.BatchSoftDelete(ctx, ids)
				return err
			}
		})
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <lead-id>...",
	Short: "Restore previously archived leads in one batch request",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBulkBatch(cmd, args, "restore", func(app *app) batch.BulkFunc {
			return func(ctx context.Context, ids []int64) error {
				_, err := app.client.BatchRestore(ctx, ids)
				return err
			}
		})
	},
}

// runSequentialBatch drives the per-id strategy: each lead travels
// through the same read-modify-write as an inline edit, one at a time.
func runSequentialBatch(cmd *cobra.Command, args []string, action string, patch func(*api.Lead)) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	app, err := buildApp()
	if err != nil {
		return err
	}

	runner := batch.NewRunner(app.log)
	job := runner.Run(cmd.Context(), ids, func(ctx context.Context, id int64) error {
		updated, err := leads.ReadModifyWrite(ctx, app.client, id, patch)
		if err != nil {
			return err
		}
		app.store.Put(updated)
		return nil
	}, progressOptions(cmd, action))

	return reportJob(job)
}

func runBulkBatch(cmd *cobra.Command, args []string, action string, bulk func(*app) batch.BulkFunc) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	app, err := buildApp()
	if err != nil {
		return err
	}

	runner := batch.NewRunner(app.log)
	job := runner.RunBulk(cmd.Context(), ids, bulk(app), progressOptions(cmd, action))

	return reportJob(job)
}

func progressOptions(cmd *cobra.Command, action string) batch.Options {
	return batch.Options{
		Action: action,
		OnProgress: func(completed, failed, total int) {
			cmd.Printf("\r%s: %d/%d done, %d failed", action, completed+failed, total, failed)
		},
	}
}

// reportJob prints the aggregate outcome. On partial failure the failed
// ids are listed so the operator can retry exactly that subset.
func reportJob(job *batch.Job) error {
	if job.Failed() == 0 {
		printSuccess("\n%s", job.Summary())
		return nil
	}

	printWarn("\n%s", job.Summary())
	for _, id := range job.FailedIDs() {
		reason, _ := job.ItemError(id)
		printWarn("  lead %d: %s", id, reason)
	}
	return fail("%s", job.Summary())
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fail("invalid lead id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func init() {
	setStatusCmd.Flags().Int64Var(&setStatusID, "status", 0, "status id to set")
	_ = setStatusCmd.MarkFlagRequired("status")
	assignCmd.Flags().Int64Var(&assignUserID, "user", 0, "user id to assign to")
	_ = assignCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(setStatusCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(restoreCmd)
}
