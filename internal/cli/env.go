package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(envCmd)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Configure the environment file",
	Long: `Ask every environment question declared by the features and the env
definitions, offering the current values as defaults, then rewrite the
environment file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		return newOrchestrator(root).Env(cmd.Context())
	},
}
