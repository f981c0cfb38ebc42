package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mebibou/allons-y/internal/plugin"
)

// Discoverer returns the features of a project in execution order.
type Discoverer interface {
	Discover(ctx context.Context) ([]plugin.Plugin, error)
}

// Loader turns a file into a plugin.
type Loader interface {
	// Match reports whether the loader handles a file with this base name.
	Match(name string) bool
	Load(path string) (plugin.Plugin, error)
}

// LoadError reports the file that stopped discovery.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading feature %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Locator finds feature files under Root.
type Locator struct {
	Root    string
	Loaders []Loader
	// Builtins are compiled-in features placed ahead of the discovered ones.
	Builtins []plugin.Plugin
}

// Discover walks Root and loads every file a loader matches, the first
// matching loader winning. Hidden directories and node_modules are not
// entered. A missing Root yields the builtins only. If any file fails to
// load, the plugins loaded so far are closed and nothing is returned.
func (l *Locator) Discover(ctx context.Context) ([]plugin.Plugin, error) {
	found := append([]plugin.Plugin(nil), l.Builtins...)

	if _, err := os.Stat(l.Root); errors.Is(err, fs.ErrNotExist) {
		return found, nil
	}

	var loaded []plugin.Plugin
	err := filepath.WalkDir(l.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != l.Root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		loader := l.loaderFor(d.Name())
		if loader == nil {
			return nil
		}
		p, err := loader.Load(path)
		if err != nil {
			return &LoadError{Path: path, Err: err}
		}
		loaded = append(loaded, p)
		return nil
	})
	if err != nil {
		_ = plugin.Close(loaded)
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return nil, loadErr
		}
		return nil, fmt.Errorf("walking %s: %w", l.Root, err)
	}

	return append(found, loaded...), nil
}

func (l *Locator) loaderFor(name string) Loader {
	for _, loader := range l.Loaders {
		if loader.Match(name) {
			return loader
		}
	}
	return nil
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules"
}

// matchAny reports whether name matches one of the glob patterns.
func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// Static is a Discoverer returning a fixed list.
type Static []plugin.Plugin

// Discover implements Discoverer.
func (s Static) Discover(context.Context) ([]plugin.Plugin, error) {
	return append([]plugin.Plugin(nil), s...), nil
}
