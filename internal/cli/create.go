package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mebibou/allons-y/internal/branding"
	"github.com/mebibou/allons-y/internal/config"
	"github.com/mebibou/allons-y/internal/scaffold"
)

var (
	createOutputDir string
	createLua       bool
)

func init() {
	createCmd.Flags().StringVar(&createOutputDir, "output-dir", "", "Output directory (default: <features dir>/<name>)")
	createCmd.Flags().BoolVar(&createLua, "lua", false, "Write the feature as a Lua script")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Scaffold a new feature",
	Long: `Scaffold a new feature in the features directory.

By default the feature is a YAML manifest with an env definition and a hook
script; with --lua it is a single Lua script.

Examples:
  allons-y create mailer
  allons-y create image-upload --lua`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := scaffold.ValidateName(name); err != nil {
			return err
		}

		outDir, err := resolveOutputDir(name)
		if err != nil {
			return err
		}

		set := scaffold.SetFeature
		if createLua {
			set = scaffold.SetFeatureLua
		}
		result, err := scaffold.Generate(set, scaffold.NewData(name), outDir)
		if err != nil {
			return err
		}
		printResult(cmd, result)
		return nil
	},
}

func resolveOutputDir(name string) (string, error) {
	if createOutputDir != "" {
		return createOutputDir, nil
	}
	root, err := projectRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(featuresDir(root, config.Current()), name), nil
}

func printResult(cmd *cobra.Command, result *scaffold.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created feature at %s/\n", result.OutputDir)
	for _, f := range result.Files {
		fmt.Fprintf(out, "  %s\n", f)
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintln(out, "\nWarnings:")
		for _, w := range result.Warnings {
			fmt.Fprintf(out, "  - %s\n", w)
		}
		return
	}
	fmt.Fprintf(out, "\nRun '%s features' to check it is discovered.\n", branding.CLIName())
}
