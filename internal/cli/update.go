package cli

import (
	"github.com/spf13/cobra"

	"github.com/mebibou/allons-y/internal/orchestrator"
)

func init() {
	addInstallFlags(updateCmd)
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the webapp platform to this version",
	Long: `Update a project configured by an older version: ask the questions added
since, run the install hooks and update the dependencies.

  allons-y update        # only when the stored version is older
  allons-y update -f     # even when up to date
  allons-y update -n     # without running the package manager`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInstall(cmd, orchestrator.ModeUpdate)
	},
}
