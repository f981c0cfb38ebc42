package cli

import (
	"github.com/spf13/cobra"

	"github.com/mebibou/allons-y/internal/orchestrator"
)

var (
	installForce       bool
	installSkipInstall bool
)

// addInstallFlags registers the flags shared by init and update.
func addInstallFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&installForce, "force", "f", false, "Run even if the configuration is up to date")
	cmd.Flags().BoolVarP(&installSkipInstall, "no-install", "n", false, "Skip the package manager")
	cmd.Flags().BoolVar(&installSkipInstall, "no-npm", false, "Alias of --no-install")
	_ = cmd.Flags().MarkHidden("no-npm")
}

func runInstall(cmd *cobra.Command, mode orchestrator.Mode) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	o := newOrchestrator(root)
	outcome, err := o.Install(cmd.Context(), orchestrator.InstallOptions{
		Mode:        mode,
		Force:       installForce,
		SkipInstall: installSkipInstall,
	})
	logger.WithField("outcome", outcome.String()).Debug("install flow finished")
	return err
}
