package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	s := Open(t.TempDir())

	cfg, err := s.Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultVersion, cfg.Version)
	assert.Equal(t, 0, cfg.Install.Len())
	assert.Equal(t, 0, cfg.Env.Len())
	assert.Equal(t, 0, cfg.Package.Len())
}

func TestLoad_MergesAllSources(t *testing.T) {
	root := t.TempDir()
	s := Open(root)

	writeFile(t, s.RCPath, `{"version": "1.0.0", "install": {"name": "foo", "db": {"host": "localhost"}}, "theme": "dark"}`)
	writeFile(t, s.PackagePath, `{"name": "foo", "scripts": {"start": "node app", "build": "make"}}`)
	writeFile(t, s.EnvPath, "DEBUG=true\nCACHE=false\nAPI_KEY=abc\n")

	cfg, err := s.Load()
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", cfg.Version)
	name, _ := cfg.Install.Get("name")
	assert.Equal(t, "foo", name)

	db, ok := cfg.Install.Get("db")
	require.True(t, ok)
	host, _ := db.(*Section).Get("host")
	assert.Equal(t, "localhost", host)

	scripts, _ := cfg.Package.Get("scripts")
	assert.Equal(t, []string{"start", "build"}, Keys(scripts.(*Section)), "package key order is preserved")

	debug, _ := cfg.Env.Get("DEBUG")
	assert.Equal(t, true, debug)
	cache, _ := cfg.Env.Get("CACHE")
	assert.Equal(t, false, cache)
	key, _ := cfg.Env.Get("API_KEY")
	assert.Equal(t, "abc", key)

	theme, _ := cfg.Extra.Get("theme")
	assert.Equal(t, "dark", theme)
}

func TestLoad_PackageFileReplacesRCPackage(t *testing.T) {
	root := t.TempDir()
	s := Open(root)

	writeFile(t, s.RCPath, `{"package": {"name": "stale", "private": true}}`)
	writeFile(t, s.PackagePath, `{"name": "fresh"}`)

	cfg, err := s.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"name"}, Keys(cfg.Package))
	name, _ := cfg.Package.Get("name")
	assert.Equal(t, "fresh", name)
}

func TestLoad_MalformedFiles(t *testing.T) {
	tests := []struct {
		name string
		file func(s *Store) string
		body string
	}{
		{"rc not json", func(s *Store) string { return s.RCPath }, `{"version": `},
		{"rc not an object", func(s *Store) string { return s.RCPath }, `[1, 2]`},
		{"rc install not an object", func(s *Store) string { return s.RCPath }, `{"install": "yes"}`},
		{"rc version not a string", func(s *Store) string { return s.RCPath }, `{"version": 1}`},
		{"package not json", func(s *Store) string { return s.PackagePath }, `name: foo`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Open(t.TempDir())
			writeFile(t, tt.file(s), tt.body)

			_, err := s.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "parsing")
		})
	}
}

func TestSave_ExcludesPackageAndEnv(t *testing.T) {
	root := t.TempDir()
	s := Open(root)

	cfg := New()
	cfg.Version = "1.1.0"
	cfg.Install.Set("name", "foo")
	cfg.Install.Set("port", 8080)
	cfg.Package.Set("name", "foo")
	cfg.Env.Set("DEBUG", true)
	cfg.Extra.Set("theme", "dark")

	require.NoError(t, s.Save(cfg))

	data, err := os.ReadFile(s.RCPath)
	require.NoError(t, err)

	var persisted map[string]any
	require.NoError(t, json.Unmarshal(data, &persisted))

	assert.NotContains(t, persisted, "package")
	assert.NotContains(t, persisted, "env")
	assert.Equal(t, "1.1.0", persisted["version"])
	assert.Equal(t, map[string]any{"name": "foo", "port": float64(8080)}, persisted["install"])
	assert.Equal(t, "dark", persisted["theme"])

	// In-memory configuration is not modified by saving.
	assert.Equal(t, 1, cfg.Package.Len())
	assert.Equal(t, 1, cfg.Env.Len())
}

func TestSaveLoad_PreservesInstallOrder(t *testing.T) {
	s := Open(t.TempDir())

	cfg := New()
	cfg.Install.Set("zeta", "z")
	cfg.Install.Set("alpha", "a")
	require.NoError(t, s.Save(cfg))

	reloaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha"}, Keys(reloaded.Install))
}

func TestWriteEnv_Format(t *testing.T) {
	s := Open(t.TempDir())

	cfg := New()
	cfg.Env.Set("DEBUG", true)
	cfg.Env.Set("API_KEY", "s3cr3t")
	cfg.Env.Set("PORT", json.Number("8080"))
	cfg.Env.Set("VERBOSE", false)

	require.NoError(t, s.WriteEnv(cfg))

	data, err := os.ReadFile(s.EnvPath)
	require.NoError(t, err)
	assert.Equal(t, "DEBUG=true\nAPI_KEY=s3cr3t\nPORT=8080\nVERBOSE=false", string(data))

	info, err := os.Stat(s.EnvPath)
	require.NoError(t, err)
	if filepath.Separator == '/' {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestParseEnv(t *testing.T) {
	content := `# comment
LOG_LEVEL=info

QUOTED="hello world"
SINGLE='x'
CONNECTION_STRING=host=localhost port=5432
EMPTY=
not a pair
`
	entries, err := ParseEnv(strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, []EnvEntry{
		{Key: "LOG_LEVEL", Value: "info"},
		{Key: "QUOTED", Value: "hello world"},
		{Key: "SINGLE", Value: "x"},
		{Key: "CONNECTION_STRING", Value: "host=localhost port=5432"},
		{Key: "EMPTY", Value: ""},
	}, entries)
}

func TestParseEnv_LastLineWithoutNewline(t *testing.T) {
	entries, err := ParseEnv(strings.NewReader("A=1\nB=2"))
	require.NoError(t, err)
	assert.Equal(t, []EnvEntry{{Key: "A", Value: "1"}, {Key: "B", Value: "2"}}, entries)
}

func TestLoad_LongEnvValue(t *testing.T) {
	root := t.TempDir()
	cert := strings.Repeat("x", 70*1024)
	writeFile(t, filepath.Join(root, ".env"), "CERT="+cert+"\nDEBUG=true\n")

	cfg, err := Open(root).Load()
	require.NoError(t, err)

	v, _ := cfg.Env.Get("CERT")
	assert.Equal(t, cert, v)
	v, _ = cfg.Env.Get("DEBUG")
	assert.Equal(t, true, v)
}

func TestFormatValue(t *testing.T) {
	nested := NewSection()
	nested.Set("a", 1)

	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"text", "text"},
		{true, "true"},
		{false, "false"},
		{json.Number("42"), "42"},
		{float64(3.5), "3.5"},
		{float64(8080), "8080"},
		{7, "7"},
		{nested, `{"a":1}`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in))
	}
}

func TestWritePackage(t *testing.T) {
	s := Open(t.TempDir())

	cfg := New()
	cfg.Package.Set("name", "foo")
	cfg.Package.Set("version", "1.0.0")
	require.NoError(t, s.WritePackage(cfg))

	data, err := os.ReadFile(s.PackagePath)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"foo\",\n  \"version\": \"1.0.0\"\n}\n", string(data))
}

func TestDeepMerge(t *testing.T) {
	dst, err := decodeObject([]byte(`{"a": 1, "b": {"x": 1, "y": 2}, "c": {"k": "v"}}`))
	require.NoError(t, err)
	src, err := decodeObject([]byte(`{"b": {"y": 3, "z": 4}, "c": "flat", "d": true}`))
	require.NoError(t, err)

	DeepMerge(dst, src)

	out, err := json.Marshal(dst)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1, "b": {"x": 1, "y": 3, "z": 4}, "c": "flat", "d": true}`, string(out))
	assert.Equal(t, []string{"a", "b", "c", "d"}, Keys(dst))
}

func TestHasValue(t *testing.T) {
	s := NewSection()
	s.Set("set", "v")
	s.Set("null", nil)

	assert.True(t, HasValue(s, "set"))
	assert.False(t, HasValue(s, "null"))
	assert.False(t, HasValue(s, "missing"))
	assert.False(t, HasValue(nil, "set"))

	assert.True(t, Has(s, "set"))
	assert.True(t, Has(s, "null"))
	assert.False(t, Has(s, "missing"))
	assert.False(t, Has(nil, "set"))
}

func TestTreeAndReplace(t *testing.T) {
	cfg := New()
	cfg.Install.Set("name", "demo")
	cfg.Env.Set("DEBUG", true)

	tree := cfg.Tree()
	assert.Equal(t, []string{"version", "install", "package", "env"}, Keys(tree))

	install, _ := tree.Get("install")
	install.(*Section).Set("port", json.Number("8080"))
	tree.Set("team", "core")
	require.NoError(t, cfg.Replace(tree))

	port, _ := cfg.Install.Get("port")
	assert.Equal(t, json.Number("8080"), port)
	team, _ := cfg.Extra.Get("team")
	assert.Equal(t, "core", team)

	bad := NewSection()
	bad.Set("install", "not an object")
	require.Error(t, cfg.Replace(bad))
	assert.Equal(t, "demo", mustGet(t, cfg.Install, "name"), "failed replace leaves configuration as is")
}

func mustGet(t *testing.T, s *Section, key string) any {
	t.Helper()
	v, ok := s.Get(key)
	require.True(t, ok, "missing key %q", key)
	return v
}
