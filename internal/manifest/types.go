package manifest

import "github.com/mebibou/allons-y/internal/prompt"

// Manifest kinds.
const (
	KindFeature = "feature"
	KindEnv     = "env"
)

// FeatureManifest is a declarative feature.
type FeatureManifest struct {
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
	Install     []prompt.Prompt `yaml:"install,omitempty" json:"install,omitempty"`
	Env         []prompt.Prompt `yaml:"env,omitempty" json:"env,omitempty"`
	Hooks       Hooks           `yaml:"hooks,omitempty" json:"hooks,omitempty"`
}

// Hooks declares the commands run around the install step.
type Hooks struct {
	BeforeInstall *HookSpec `yaml:"beforeInstall,omitempty" json:"beforeInstall,omitempty"`
	AfterInstall  *HookSpec `yaml:"afterInstall,omitempty" json:"afterInstall,omitempty"`
}

// HookSpec is one hook command. Run is relative to the manifest directory
// when its first element contains a path separator.
type HookSpec struct {
	Run []string          `yaml:"run" json:"run"`
	Env map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
}

// EnvManifest is an environment definition.
type EnvManifest struct {
	Name        string          `yaml:"name,omitempty" json:"name,omitempty"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
	Env         []prompt.Prompt `yaml:"env" json:"env"`
}
