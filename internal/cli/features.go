package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mebibou/allons-y/internal/config"
	"github.com/mebibou/allons-y/internal/plugin"
)

var featuresJSON bool

func init() {
	featuresCmd.Flags().BoolVar(&featuresJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(featuresCmd)
}

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "List the features of the project",
	Long: `List the features found in the features directory, in the order their
questions are asked and their hooks run.`,
	Args: cobra.NoArgs,
	RunE: runFeatures,
}

// featureEntry represents a discovered feature for display.
type featureEntry struct {
	Kind         string   `json:"kind"`
	Source       string   `json:"source"`
	Capabilities []string `json:"capabilities"`
}

func runFeatures(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	settings := config.Current()

	features, err := featureLocator(root, settings).Discover(cmd.Context())
	if err != nil {
		return fmt.Errorf("discovering features: %w", err)
	}
	defer plugin.Close(features)

	defs, err := envLocator(root, settings).Discover(cmd.Context())
	if err != nil {
		return fmt.Errorf("discovering env definitions: %w", err)
	}
	defer plugin.Close(defs)

	var entries []featureEntry
	for _, p := range features {
		entries = append(entries, newFeatureEntry("feature", root, p))
	}
	for _, p := range defs {
		entries = append(entries, newFeatureEntry("env", root, p))
	}

	if featuresJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "KIND\tSOURCE\tCAPABILITIES")
	for _, e := range entries {
		caps := strings.Join(e.Capabilities, ", ")
		if caps == "" {
			caps = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Kind, e.Source, caps)
	}
	return w.Flush()
}

func newFeatureEntry(kind, root string, p plugin.Plugin) featureEntry {
	source := p.Source()
	if rel, err := filepath.Rel(root, source); err == nil && !strings.HasPrefix(rel, "..") {
		source = rel
	}
	caps := plugin.Capabilities(p)
	if caps == nil {
		caps = []string{}
	}
	return featureEntry{Kind: kind, Source: source, Capabilities: caps}
}
