package cli

import (
	"github.com/spf13/cobra"

	"github.com/mebibou/allons-y/internal/orchestrator"
)

func init() {
	addInstallFlags(initCmd)
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the webapp platform in the project directory",
	Long: `Ask the install questions of every feature, write the package file,
run the install hooks and install the dependencies.

Questions already answered in the rc file are not asked again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInstall(cmd, orchestrator.ModeInit)
	},
}
