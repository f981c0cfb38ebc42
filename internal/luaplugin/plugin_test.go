package luaplugin

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mebibou/allons-y/internal/logging"
	"github.com/mebibou/allons-y/internal/plugin"
	"github.com/mebibou/allons-y/internal/registry"
	"github.com/mebibou/allons-y/internal/store"
	"github.com/mebibou/allons-y/internal/ui"
)

func load(t *testing.T, name string) *Script {
	t.Helper()
	p, err := (&Loader{}).Load(filepath.Join("testdata", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.(*Script).Close() })
	return p.(*Script)
}

func toolkit(p plugin.Plugin, out *bytes.Buffer) *plugin.Toolkit {
	return (&plugin.Toolkit{Root: "/work/app", Version: "1.2.0", Log: logging.Discard(), UI: ui.New(out)}).For(p)
}

func TestLoader_Match(t *testing.T) {
	l := &Loader{}
	assert.True(t, l.Match("express-feature.lua"))
	assert.False(t, l.Match("express.lua"))
	assert.True(t, (&Loader{Patterns: []string{"*.lua"}}).Match("express.lua"))
}

func TestLoad_Prompts(t *testing.T) {
	s := load(t, "express-feature.lua")

	install := s.InstallPrompts()
	require.Len(t, install, 2)
	assert.Equal(t, "port", install[0].Name)
	assert.Equal(t, "number", install[0].Type)
	assert.Equal(t, json.Number("8080"), install[0].Default)
	assert.Equal(t, []string{"pug", "ejs"}, install[1].Choices)

	require.Len(t, s.EnvPrompts(), 1)
	assert.Equal(t, "SESSION_SECRET", s.EnvPrompts()[0].Name)

	assert.Equal(t, []string{"install", "env", "beforeInstall", "afterInstall"}, plugin.Capabilities(s))
}

func TestLoad_Errors(t *testing.T) {
	for _, name := range []string{"broken-feature.lua", "nothing-feature.lua", "missing-feature.lua"} {
		t.Run(name, func(t *testing.T) {
			_, err := (&Loader{}).Load(filepath.Join("testdata", name))
			assert.Error(t, err)
		})
	}
}

func TestBeforeInstall_MutatesConfiguration(t *testing.T) {
	s := load(t, "express-feature.lua")

	cfg := store.New()
	cfg.Package.Set("name", "demo")
	deps := store.NewSection()
	deps.Set("lodash", "^4.17.0")
	cfg.Package.Set("dependencies", deps)
	cfg.Package.Set("private", true)
	cfg.Install.Set("port", json.Number("8080"))

	var out bytes.Buffer
	require.NoError(t, s.BeforeInstall(context.Background(), cfg, toolkit(s, &out)))

	assert.Equal(t, []string{"name", "dependencies", "private"}, store.Keys(cfg.Package), "existing key order kept")
	got, _ := cfg.Package.Get("dependencies")
	assert.Equal(t, []string{"lodash", "express"}, store.Keys(got.(*store.Section)))

	root, _ := cfg.Install.Get("root")
	assert.Equal(t, "/work/app", root)
	port, _ := cfg.Install.Get("port")
	assert.Equal(t, json.Number("8080"), port)
	private, _ := cfg.Package.Get("private")
	assert.Equal(t, true, private)

	assert.Contains(t, out.String(), "express added")
}

func TestAfterInstall_ErrorFailsHook(t *testing.T) {
	s := load(t, "express-feature.lua")
	cfg := store.New()
	cfg.Install.Set("port", json.Number("80"))

	err := s.AfterInstall(context.Background(), cfg, toolkit(s, &bytes.Buffer{}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "port 80 needs root")
}

func TestSandbox(t *testing.T) {
	s := load(t, "sandbox-feature.lua")
	cfg := store.New()

	require.NoError(t, s.BeforeInstall(context.Background(), cfg, toolkit(s, &bytes.Buffer{})))

	for _, key := range []string{"io", "os", "dofile"} {
		v, _ := cfg.Install.Get(key)
		assert.Equal(t, true, v, "%s should not be reachable", key)
	}
	assert.False(t, s.HasHook(plugin.HookAfterInstall))
}

func TestClose(t *testing.T) {
	s := load(t, "sandbox-feature.lua")
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	err := s.BeforeInstall(context.Background(), store.New(), toolkit(s, &bytes.Buffer{}))
	assert.Error(t, err)
}

func TestDiscoveredThroughLocator(t *testing.T) {
	loc := &registry.Locator{
		Root:    "testdata",
		Loaders: []registry.Loader{&Loader{Patterns: []string{"express-feature.lua", "sandbox-feature.lua"}}},
	}
	plugins, err := loc.Discover(context.Background())
	require.NoError(t, err)
	defer func() { _ = plugin.Close(plugins) }()

	require.Len(t, plugins, 2)
	assert.Equal(t, filepath.Join("testdata", "express-feature.lua"), plugins[0].Source())
}
