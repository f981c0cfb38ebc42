package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/mebibou/allons-y/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyPackageManager = "package_manager"
	KeyInstallArgs    = "install_args"
	KeyUpdateArgs     = "update_args"
	KeyFeaturesDir    = "features_dir"
	KeyPluginPatterns = "plugin_patterns"
	KeyEnvPatterns    = "env_patterns"
	KeyLogLevel       = "log_level"
	KeyLogFormat      = "log_format"
	KeyMetricsFile    = "metrics_file"
)

// listKeys hold whitespace-separated lists.
var listKeys = map[string]bool{
	KeyPackageManager: true,
	KeyInstallArgs:    true,
	KeyUpdateArgs:     true,
	KeyPluginPatterns: true,
	KeyEnvPatterns:    true,
}

var defaults = map[string]any{
	KeyPackageManager: []string{"npm"},
	KeyInstallArgs:    []string{"install"},
	KeyUpdateArgs:     []string{"update", "--save"},
	KeyFeaturesDir:    branding.FeaturesDir(),
	KeyPluginPatterns: []string{"*-feature.yaml", "*-feature.yml", "*-feature.lua"},
	KeyEnvPatterns:    []string{"*-env.yaml", "*-env.yml", "*-env.json"},
	KeyLogLevel:       "warn",
	KeyLogFormat:      "text",
	KeyMetricsFile:    "",
}

// Settings is a snapshot of the effective settings.
type Settings struct {
	PackageManager []string
	InstallArgs    []string
	UpdateArgs     []string
	FeaturesDir    string
	PluginPatterns []string
	EnvPatterns    []string
	LogLevel       string
	LogFormat      string
	MetricsFile    string
}

// Dir returns the path to the config directory (~/.allons-y/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.allons-y/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// A missing config file is not an error; an unreadable one is.
func Load() error {
	for key, value := range defaults {
		viper.SetDefault(key, value)
	}
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(FilePath()); os.IsNotExist(statErr) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", FilePath(), err)
	}
	return nil
}

// Current returns the effective settings.
func Current() Settings {
	return Settings{
		PackageManager: viper.GetStringSlice(KeyPackageManager),
		InstallArgs:    viper.GetStringSlice(KeyInstallArgs),
		UpdateArgs:     viper.GetStringSlice(KeyUpdateArgs),
		FeaturesDir:    viper.GetString(KeyFeaturesDir),
		PluginPatterns: viper.GetStringSlice(KeyPluginPatterns),
		EnvPatterns:    viper.GetStringSlice(KeyEnvPatterns),
		LogLevel:       viper.GetString(KeyLogLevel),
		LogFormat:      viper.GetString(KeyLogFormat),
		MetricsFile:    viper.GetString(KeyMetricsFile),
	}
}

// Keys returns the known setting keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsKnown reports whether key is a known setting.
func IsKnown(key string) bool {
	_, ok := defaults[key]
	return ok
}

// Get returns a config value by key. Lists are joined with spaces.
// Returns empty string if not set.
func Get(key string) string {
	if listKeys[key] {
		return strings.Join(viper.GetStringSlice(key), " ")
	}
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file. Values of
// list settings are split on whitespace.
func Set(key, value string) error {
	if !IsKnown(key) {
		return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	if listKeys[key] {
		viper.Set(key, strings.Fields(value))
	} else {
		viper.Set(key, value)
	}

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
