package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mebibou/allons-y/internal/config"
	"github.com/mebibou/allons-y/internal/logging"
	"github.com/mebibou/allons-y/internal/luaplugin"
	"github.com/mebibou/allons-y/internal/orchestrator"
	"github.com/mebibou/allons-y/internal/plugin"
	"github.com/mebibou/allons-y/internal/prompt"
	"github.com/mebibou/allons-y/internal/registry"
	"github.com/mebibou/allons-y/internal/runtime"
	"github.com/mebibou/allons-y/internal/store"
	"github.com/mebibou/allons-y/internal/ui"
)

// projectRoot returns the absolute project directory.
func projectRoot() (string, error) {
	dir := workDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		return cwd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	return abs, nil
}

// featuresDir resolves the features directory setting against root.
func featuresDir(root string, settings config.Settings) string {
	if filepath.IsAbs(settings.FeaturesDir) {
		return settings.FeaturesDir
	}
	return filepath.Join(root, settings.FeaturesDir)
}

// splitPatterns separates Lua script patterns from manifest patterns.
func splitPatterns(patterns []string) (manifests, scripts []string) {
	for _, p := range patterns {
		if strings.HasSuffix(p, ".lua") {
			scripts = append(scripts, p)
		} else {
			manifests = append(manifests, p)
		}
	}
	return manifests, scripts
}

// featureLocator discovers the features of root, the built-in app feature first.
func featureLocator(root string, settings config.Settings) *registry.Locator {
	manifests, scripts := splitPatterns(settings.PluginPatterns)
	var loaders []registry.Loader
	if len(manifests) > 0 {
		loaders = append(loaders, &registry.ManifestLoader{Patterns: manifests})
	}
	if len(scripts) > 0 {
		loaders = append(loaders, &luaplugin.Loader{Patterns: scripts})
	}
	return &registry.Locator{
		Root:     featuresDir(root, settings),
		Loaders:  loaders,
		Builtins: []plugin.Plugin{registry.AppFeature()},
	}
}

func envLocator(root string, settings config.Settings) *registry.Locator {
	return &registry.Locator{
		Root:    featuresDir(root, settings),
		Loaders: []registry.Loader{&registry.EnvLoader{Patterns: settings.EnvPatterns}},
	}
}

// newOrchestrator wires the orchestrator for the project at root.
func newOrchestrator(root string) *orchestrator.Orchestrator {
	settings := config.Current()

	collector := prompt.NewLineCollector(os.Stdin, os.Stdout)
	collector.Terminal = os.Stdin

	pm := runtime.NewPackageManager(root)
	if len(settings.PackageManager) > 0 {
		pm.Command = settings.PackageManager
	}
	pm.InstallArgs = settings.InstallArgs
	pm.UpdateArgs = settings.UpdateArgs

	log := logger
	if log == nil {
		log = logging.Discard()
	}

	return &orchestrator.Orchestrator{
		Root:      root,
		Version:   buildVersion,
		Store:     store.Open(root),
		Plugins:   featureLocator(root, settings),
		EnvDefs:   envLocator(root, settings),
		Collector: collector,
		Installer: pm,
		UI:        ui.New(os.Stdout),
		Log:       log,
		Metrics:   metrics,
	}
}
