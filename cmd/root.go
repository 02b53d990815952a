package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/khrees2412/careerpath/internal/app"
	"github.com/khrees2412/careerpath/internal/config"
)

// Command annotations read by the root pre-run.
const (
	annotationConfigOnly  = "config-only"
	annotationSkipMigrate = "skip-migrate"
)

var configPath string

// active is the App built by the pre-run of the running command.
var active *app.App

var rootCmd = &cobra.Command{
	Use:   "careerpath",
	Short: "Career guidance data platform",
	Long: `careerpath manages the data behind a career advisory platform: users and
their skills, the career catalog, recommendations, roadmaps and mentorship.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := cmd.Annotations[annotationConfigOnly]; ok {
			return config.Initialize(configPath)
		}

		_, skip := cmd.Annotations[annotationSkipMigrate]
		application, err := app.NewApp(cmd.Context(), app.Options{ConfigPath: configPath, SkipMigrate: skip})
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		active = application
		// Store app in command context
		cmd.SetContext(app.WithApp(cmd.Context(), application))
		return nil
	},
}

// execute runs the command tree and closes the App afterwards, also when the
// command failed. Cobra skips post-run hooks on error.
func execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if active != nil {
		err = errors.Join(err, active.Close())
		active = nil
	}
	return err
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.careerpath/config.yaml)")
}

func appFrom(cmd *cobra.Command) (*app.App, error) {
	return app.FromContext(cmd.Context())
}

func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s id %q", app.ErrInvalidArgument, what, arg)
	}
	return id, nil
}
