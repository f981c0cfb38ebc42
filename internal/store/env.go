package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mebibou/allons-y/internal/platform"
)

// EnvEntry represents a single key-value pair from an env file.
type EnvEntry struct {
	Key   string
	Value string
}

// ParseEnv reads KEY=VALUE lines in file order. It skips blank lines and
// lines starting with #, splits on the first "=" and strips one level of
// matching single or double quotes around the value. Lines have no length
// limit.
func ParseEnv(r io.Reader) ([]EnvEntry, error) {
	var entries []EnvEntry
	reader := bufio.NewReader(r)
	for {
		raw, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if entry, ok := parseEnvLine(raw); ok {
			entries = append(entries, entry)
		}
		if err != nil {
			return entries, nil
		}
	}
}

func parseEnvLine(raw string) (EnvEntry, bool) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return EnvEntry{}, false
	}
	key, value, found := strings.Cut(line, "=")
	if !found {
		return EnvEntry{}, false
	}
	return EnvEntry{
		Key:   strings.TrimSpace(key),
		Value: unquote(strings.TrimSpace(value)),
	}, true
}

// EnvSection converts parsed entries into an env section, coercing the
// strings "true" and "false" to booleans. Later duplicates win.
func EnvSection(entries []EnvEntry) *Section {
	env := NewSection()
	for _, e := range entries {
		switch e.Value {
		case "true":
			env.Set(e.Key, true)
		case "false":
			env.Set(e.Key, false)
		default:
			env.Set(e.Key, e.Value)
		}
	}
	return env
}

// FormatEnv renders an env section as newline-joined KEY=VALUE pairs in
// section order. Values are written in their string form, without quoting.
func FormatEnv(env *Section) string {
	lines := make([]string, 0, env.Len())
	for pair := env.Oldest(); pair != nil; pair = pair.Next() {
		lines = append(lines, pair.Key+"="+FormatValue(pair.Value))
	}
	return strings.Join(lines, "\n")
}

// FormatValue returns the string form of a configuration value.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case *Section, []any:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	default:
		return fmt.Sprint(val)
	}
}

// WriteEnv overwrites the env file with the env section of cfg.
func (s *Store) WriteEnv(cfg *Configuration) error {
	env := cfg.Env
	if env == nil {
		env = NewSection()
	}
	if err := platform.WriteFile(s.EnvPath, []byte(FormatEnv(env)), 0600); err != nil {
		return fmt.Errorf("writing env file: %w", err)
	}
	return nil
}

// readEnvFile parses an env file into a section. It returns nil, nil if the
// file does not exist.
func readEnvFile(path string) (*Section, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening env file %s: %w", path, err)
	}
	defer f.Close()

	entries, err := ParseEnv(f)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return EnvSection(entries), nil
}

func unquote(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '"' || first == '\'') && first == last {
			return v[1 : len(v)-1]
		}
	}
	return v
}
