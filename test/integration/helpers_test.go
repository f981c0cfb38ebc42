//go:build integration

package integration_test

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mebibou/allons-y/internal/logging"
	"github.com/mebibou/allons-y/internal/luaplugin"
	"github.com/mebibou/allons-y/internal/orchestrator"
	"github.com/mebibou/allons-y/internal/plugin"
	"github.com/mebibou/allons-y/internal/prompt"
	"github.com/mebibou/allons-y/internal/registry"
	"github.com/mebibou/allons-y/internal/runtime"
	"github.com/mebibou/allons-y/internal/store"
	"github.com/mebibou/allons-y/internal/telemetry"
	"github.com/mebibou/allons-y/internal/ui"
)

// testEnv holds the paths of an isolated project.
type testEnv struct {
	ProjectDir  string
	FeaturesDir string
	NpmLog      string // one line per package manager invocation
	Metrics     *telemetry.Recorder
}

// setupTestEnv creates a project directory and a fake package manager that
// records its arguments instead of installing anything.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	project := t.TempDir()
	env := &testEnv{
		ProjectDir:  project,
		FeaturesDir: filepath.Join(project, "features"),
		NpmLog:      filepath.Join(project, "npm.log"),
		Metrics:     telemetry.NewRecorder(),
	}
	writeFile(t, filepath.Join(project, "bin", "npm.sh"), `echo "$@" >> "`+env.NpmLog+`"
`)
	return env
}

// setupFeatures writes a manifest feature with a shell hook, a Lua feature
// and an env definition.
func setupFeatures(t *testing.T, dir string) {
	t.Helper()

	writeFile(t, filepath.Join(dir, "web", "web-feature.yaml"), `name: web
description: Express web server
install:
  - name: port
    type: number
    message: HTTP port
    default: 3000
hooks:
  beforeInstall:
    run: [sh, ./add-express.sh]
    env:
      EXPRESS_VERSION: ^4.18.0
`)
	writeFile(t, filepath.Join(dir, "web", "add-express.sh"), `cat > /dev/null
printf '{"set": {"package.dependencies.express": "%s"}}' "$EXPRESS_VERSION"
`)

	writeFile(t, filepath.Join(dir, "cache", "cache-feature.lua"), `return {
  install = {
    { name = "engine", type = "list", message = "Cache engine", choices = { "redis", "memcached" } },
  },
  env = {
    { name = "CACHE_URL", default = "localhost:6379" },
  },
  afterInstall = function(config, utils)
    config.install.cache_ready = true
  end,
}
`)

	writeFile(t, filepath.Join(dir, "app-env.yaml"), `name: app
env:
  - name: DEBUG
    type: confirm
  - name: API_KEY
    type: password
`)
}

// newOrchestrator wires an orchestrator the way the CLI does, reading the
// answers from input.
func newOrchestrator(env *testEnv, version, input string) *orchestrator.Orchestrator {
	pm := runtime.NewPackageManager(env.ProjectDir)
	pm.Command = []string{"sh", filepath.Join(env.ProjectDir, "bin", "npm.sh")}
	pm.Stdout, pm.Stderr = io.Discard, io.Discard

	return &orchestrator.Orchestrator{
		Root:    env.ProjectDir,
		Version: version,
		Store:   store.Open(env.ProjectDir),
		Plugins: &registry.Locator{
			Root:     env.FeaturesDir,
			Loaders:  []registry.Loader{&registry.ManifestLoader{Stderr: io.Discard}, &luaplugin.Loader{}},
			Builtins: []plugin.Plugin{registry.AppFeature()},
		},
		EnvDefs: &registry.Locator{
			Root:    env.FeaturesDir,
			Loaders: []registry.Loader{&registry.EnvLoader{}},
		},
		Collector: prompt.NewLineCollector(strings.NewReader(input), io.Discard),
		Installer: pm,
		UI:        ui.Discard(),
		Log:       logging.Discard(),
		Metrics:   env.Metrics,
	}
}

// ─── File Helpers ──────────────────────────────────────────────────

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal([]byte(readFile(t, path)), &out); err != nil {
		t.Fatalf("parsing %s: %v", path, err)
	}
	return out
}

// lookup walks a dotted path through nested JSON objects.
func lookup(doc map[string]any, path string) any {
	var cur any = doc
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[key]
	}
	return cur
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertEqual(t *testing.T, doc map[string]any, path string, want any) {
	t.Helper()
	if got := lookup(doc, path); got != want {
		t.Errorf("%s = %#v, want %#v", path, got, want)
	}
}
