package registry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mebibou/allons-y/internal/branding"
	"github.com/mebibou/allons-y/internal/manifest"
	"github.com/mebibou/allons-y/internal/plugin"
	"github.com/mebibou/allons-y/internal/prompt"
	"github.com/mebibou/allons-y/internal/runtime"
	"github.com/mebibou/allons-y/internal/store"
)

// DefaultFeaturePatterns match feature manifests.
var DefaultFeaturePatterns = []string{"*-feature.yaml", "*-feature.yml"}

// ManifestLoader loads feature manifests.
type ManifestLoader struct {
	Patterns []string
	// Stderr receives the hook diagnostics; defaults to os.Stderr.
	Stderr io.Writer
}

// Match implements Loader.
func (l *ManifestLoader) Match(name string) bool {
	patterns := l.Patterns
	if len(patterns) == 0 {
		patterns = DefaultFeaturePatterns
	}
	return matchAny(patterns, name)
}

// Load implements Loader.
func (l *ManifestLoader) Load(path string) (plugin.Plugin, error) {
	m, err := manifest.LoadFeature(path)
	if err != nil {
		return nil, err
	}
	return &Feature{path: path, manifest: m, stderr: l.Stderr}, nil
}

// Feature is a plugin backed by a feature manifest. Its hooks are external
// commands: they receive the configuration document as JSON on stdin and
// may print a patch document on stdout.
type Feature struct {
	path     string
	manifest *manifest.FeatureManifest
	stderr   io.Writer
}

// Source implements plugin.Plugin.
func (f *Feature) Source() string { return f.path }

// Name returns the manifest name.
func (f *Feature) Name() string { return f.manifest.Name }

// Description returns the manifest description.
func (f *Feature) Description() string { return f.manifest.Description }

// InstallPrompts implements plugin.InstallPrompter.
func (f *Feature) InstallPrompts() []prompt.Prompt { return f.manifest.Install }

// EnvPrompts implements plugin.EnvPrompter.
func (f *Feature) EnvPrompts() []prompt.Prompt { return f.manifest.Env }

// HasHook implements plugin.HookReporter.
func (f *Feature) HasHook(name string) bool {
	return f.spec(name) != nil
}

// BeforeInstall implements plugin.BeforeInstaller.
func (f *Feature) BeforeInstall(ctx context.Context, cfg *store.Configuration, tk *plugin.Toolkit) error {
	return f.run(ctx, plugin.HookBeforeInstall, cfg, tk)
}

// AfterInstall implements plugin.AfterInstaller.
func (f *Feature) AfterInstall(ctx context.Context, cfg *store.Configuration, tk *plugin.Toolkit) error {
	return f.run(ctx, plugin.HookAfterInstall, cfg, tk)
}

func (f *Feature) spec(name string) *manifest.HookSpec {
	switch name {
	case plugin.HookBeforeInstall:
		return f.manifest.Hooks.BeforeInstall
	case plugin.HookAfterInstall:
		return f.manifest.Hooks.AfterInstall
	}
	return nil
}

func (f *Feature) run(ctx context.Context, name string, cfg *store.Configuration, tk *plugin.Toolkit) error {
	spec := f.spec(name)
	if spec == nil {
		return nil
	}

	payload, err := cfg.Document()
	if err != nil {
		return fmt.Errorf("rendering configuration: %w", err)
	}

	dir := filepath.Dir(f.path)
	cmd := runtime.HookCommand{
		Run:    resolveCommand(dir, spec.Run),
		Dir:    dir,
		Env:    hookEnv(spec.Env, name, tk),
		Stderr: f.stderr,
	}
	tk.Log.WithField("command", strings.Join(cmd.Run, " ")).Debug("starting hook command")

	out, err := runtime.RunHook(ctx, cmd, payload)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil
	}
	if err := store.ApplyPatch(cfg, out); err != nil {
		return fmt.Errorf("applying patch from %s: %w", name, err)
	}
	return nil
}

// resolveCommand makes a relative program path ("./hooks/setup.sh")
// relative to the manifest directory. Bare names are looked up in PATH.
func resolveCommand(dir string, run []string) []string {
	out := append([]string(nil), run...)
	if len(out) > 0 && !filepath.IsAbs(out[0]) && strings.ContainsAny(out[0], `/\`) {
		out[0] = filepath.Join(dir, out[0])
	}
	return out
}

// hookEnv returns the declared variables in a stable order, followed by the
// run context.
func hookEnv(declared map[string]string, hook string, tk *plugin.Toolkit) []string {
	keys := make([]string, 0, len(declared))
	for k := range declared {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys)+3)
	for _, k := range keys {
		env = append(env, k+"="+declared[k])
	}
	return append(env,
		branding.EnvVar("HOOK")+"="+hook,
		branding.EnvVar("ROOT")+"="+tk.Root,
		branding.EnvVar("VERSION")+"="+tk.Version,
	)
}
