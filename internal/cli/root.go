// Package cli implements the leadctl operator commands. Each command is
// a thin front-end over the console core: the timeline reconciler, the
// inline edit session and the batch runner.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"leadconsole/internal/api"
	"leadconsole/internal/inline"
	"leadconsole/internal/leads"
	"leadconsole/platform/config"
	"leadconsole/platform/logger"
)

var rootCmd = &cobra.Command{
	Use:           "leadctl",
	Short:         "Operator console for the lead management API",
	Long:          "leadctl views lead activity timelines, edits lead fields inline and runs batch mutations against the lead management REST API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		color.Red("error: %v", err)
		return err
	}
	return nil
}

// app bundles the wired console components shared by all commands.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	client   *api.Client
	store    *leads.Store
	sessions *inline.Manager
}

func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Env)
	client := api.New(cfg, log)

	return &app{
		cfg:      cfg,
		log:      log,
		client:   client,
		store:    leads.NewStore(),
		sessions: inline.NewManager(log),
	}, nil
}

func printSuccess(format string, args ...any) {
	color.Green(format, args...)
}

func printWarn(format string, args ...any) {
	color.Yellow(format, args...)
}

func fail(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

func init() {
	rootCmd.SetOut(os.Stdout)
}
