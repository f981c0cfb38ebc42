// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed, so a fork only has to edit one file to rename the
// tool, its home directory and the project files it manages.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	RCFile      string `yaml:"rc_file"`
	EnvFile     string `yaml:"env_file"`
	PackageFile string `yaml:"package_file"`
	FeaturesDir string `yaml:"features_dir"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:     "allons-y",
			DisplayName: "Allons-y!",
			Description: "Scaffold and configure an Allons-y! platform",
			HomeDir:     ".allons-y",
			EnvPrefix:   "ALLONSY",
			RCFile:      ".allonsyrc",
			EnvFile:     ".env",
			PackageFile: "package.json",
			FeaturesDir: "features",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "allons-y").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "Allons-y!").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".allons-y").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "ALLONSY").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// RCFile returns the name of the persisted rc record in a project root.
func RCFile() string { load(); return defaults.RCFile }

// EnvFile returns the name of the environment file in a project root.
func EnvFile() string { load(); return defaults.EnvFile }

// PackageFile returns the name of the package descriptor in a project root.
func PackageFile() string { load(); return defaults.PackageFile }

// FeaturesDir returns the directory, relative to the project root, that is
// searched for feature plugins and environment definitions.
func FeaturesDir() string { load(); return defaults.FeaturesDir }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "ALLONSY_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
