package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPatch_SetAndDelete(t *testing.T) {
	cfg := New()
	cfg.Version = "1.0.0"
	cfg.Install.Set("name", "foo")
	cfg.Install.Set("legacy", "x")
	cfg.Package.Set("name", "foo")

	patch := `{
  "set": {
    "package.dependencies.express": "^4.18.0",
    "install.port": 8080,
    "env.DEBUG": true
  },
  "delete": ["install.legacy"]
}`
	require.NoError(t, ApplyPatch(cfg, []byte(patch)))

	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, []string{"name", "port"}, Keys(cfg.Install))
	port, _ := cfg.Install.Get("port")
	assert.Equal(t, json.Number("8080"), port)

	deps, ok := cfg.Package.Get("dependencies")
	require.True(t, ok)
	express, _ := deps.(*Section).Get("express")
	assert.Equal(t, "^4.18.0", express)

	debug, _ := cfg.Env.Get("DEBUG")
	assert.Equal(t, true, debug)
}

func TestApplyPatch_Empty(t *testing.T) {
	cfg := New()
	require.NoError(t, ApplyPatch(cfg, []byte("  \n")))
	assert.Equal(t, DefaultVersion, cfg.Version)
}

func TestApplyPatch_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		patch string
	}{
		{"invalid json", `{"set": `},
		{"not an object", `["install.a"]`},
		{"unknown root", `{"set": {"secrets.token": "x"}}`},
		{"unknown delete root", `{"delete": ["secrets"]}`},
		{"version not a string", `{"set": {"version": 2}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			cfg.Install.Set("name", "foo")

			require.Error(t, ApplyPatch(cfg, []byte(tt.patch)))

			assert.Equal(t, DefaultVersion, cfg.Version)
			assert.Equal(t, []string{"name"}, Keys(cfg.Install))
		})
	}
}
