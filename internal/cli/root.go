package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mebibou/allons-y/internal/branding"
	"github.com/mebibou/allons-y/internal/config"
	"github.com/mebibou/allons-y/internal/logging"
	"github.com/mebibou/allons-y/internal/telemetry"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	verbose     bool
	metricsFile string
	workDir     string
)

// Set up by the root pre-run hook.
var (
	logger  *logrus.Logger
	metrics = telemetry.NewRecorder()
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log debug details to stderr")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write run metrics to this file in Prometheus text format")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", "", "Project directory (default: current directory)")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates and updates a webapp platform from feature plugins.

Features found in the project declare questions and install hooks; only the
questions that were never answered are asked, then the hooks and the package
manager run in a fixed order.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		settings := config.Current()

		level := settings.LogLevel
		if verbose {
			level = "debug"
		}
		l, err := logging.New(level, settings.LogFormat, os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		if metricsFile == "" {
			metricsFile = settings.MetricsFile
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("%s version {{.Version}}\n", branding.CLIName()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	writeMetrics()
	return err
}

func writeMetrics() {
	if metricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(metricsFile); err != nil && logger != nil {
		logger.WithError(err).Warn("writing metrics")
	}
}
