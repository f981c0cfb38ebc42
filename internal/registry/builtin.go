package registry

import (
	"context"
	"path/filepath"

	"github.com/mebibou/allons-y/internal/plugin"
	"github.com/mebibou/allons-y/internal/prompt"
	"github.com/mebibou/allons-y/internal/store"
)

// AppSource identifies the compiled-in application feature.
const AppSource = "builtin:app"

// AppFeature returns the feature every project starts with. It asks for the
// application name and makes sure the package descriptor has a name and a
// version before the package manager sees it.
func AppFeature() plugin.Plugin {
	return &plugin.Funcs{
		Name: AppSource,
		Install: []prompt.Prompt{{
			Name:    "name",
			Message: "What is the name of your app?",
		}},
		Before: fillPackage,
	}
}

func fillPackage(_ context.Context, cfg *store.Configuration, tk *plugin.Toolkit) error {
	if !store.HasValue(cfg.Package, "name") {
		name := store.FormatValue(valueOf(cfg.Install, "name"))
		if name == "" {
			name = filepath.Base(tk.Root)
		}
		cfg.Package.Set("name", name)
		tk.Log.WithField("name", name).Debug("package name set")
	}
	if !store.HasValue(cfg.Package, "version") {
		cfg.Package.Set("version", "0.0.0")
	}
	return nil
}

func valueOf(s *store.Section, key string) any {
	v, _ := s.Get(key)
	return v
}
