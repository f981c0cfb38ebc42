package registry

import (
	"github.com/mebibou/allons-y/internal/manifest"
	"github.com/mebibou/allons-y/internal/plugin"
	"github.com/mebibou/allons-y/internal/prompt"
)

// DefaultEnvPatterns match environment definitions.
var DefaultEnvPatterns = []string{"*-env.yaml", "*-env.yml", "*-env.json"}

// EnvLoader loads environment definitions.
type EnvLoader struct {
	Patterns []string
}

// Match implements Loader.
func (l *EnvLoader) Match(name string) bool {
	patterns := l.Patterns
	if len(patterns) == 0 {
		patterns = DefaultEnvPatterns
	}
	return matchAny(patterns, name)
}

// Load implements Loader.
func (l *EnvLoader) Load(path string) (plugin.Plugin, error) {
	m, err := manifest.LoadEnv(path)
	if err != nil {
		return nil, err
	}
	return &EnvDefinition{path: path, manifest: m}, nil
}

// EnvDefinition is a plugin that only declares env prompts.
type EnvDefinition struct {
	path     string
	manifest *manifest.EnvManifest
}

// Source implements plugin.Plugin.
func (e *EnvDefinition) Source() string { return e.path }

// Name returns the definition name, if any.
func (e *EnvDefinition) Name() string { return e.manifest.Name }

// Description returns the definition description, if any.
func (e *EnvDefinition) Description() string { return e.manifest.Description }

// EnvPrompts implements plugin.EnvPrompter.
func (e *EnvDefinition) EnvPrompts() []prompt.Prompt { return e.manifest.Env }
