package cli

import (
	"fmt"
	"html"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"leadconsole/internal/timeline"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline <lead-id>",
	Short: "Show the activity timeline for a lead",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimeline,
}

func runTimeline(cmd *cobra.Command, args []string) error {
	leadID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fail("invalid lead id %q", args[0])
	}

	app, err := buildApp()
	if err != nil {
		return err
	}

	reconciler := timeline.NewReconciler(app.client, app.cfg.ActivityPageSize, app.log)
	entries, err := reconciler.Reconcile(cmd.Context(), leadID)
	if err != nil {
		return fail("timeline fetch failed (retry with the same command): %w", err)
	}

	if len(entries) == 0 {
		printWarn("no activity for lead %d", leadID)
		return nil
	}

	title := color.New(color.Bold)
	actor := color.New(color.FgCyan)
	for _, entry := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  [%s] %s  %s\n",
			entry.Timestamp.Format("2006-01-02 15:04"),
			entry.Category.Marker(),
			title.Sprint(entry.Title),
			actor.Sprint(entry.ActorLabel),
		)
		if entry.Description != "" {
			// Descriptions are pre-escaped for the web console;
			// unescape for terminal output.
			fmt.Fprintf(cmd.OutOrStdout(), "      %s\n", html.UnescapeString(entry.Description))
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(timelineCmd)
}
