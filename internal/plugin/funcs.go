package plugin

import (
	"context"

	"github.com/mebibou/allons-y/internal/prompt"
	"github.com/mebibou/allons-y/internal/store"
)

// Funcs builds a plugin from plain values. Only the non-empty fields count
// as capabilities, so a Funcs with no Before is not a BeforeInstaller from
// the runner's point of view.
type Funcs struct {
	Name    string
	Install []prompt.Prompt
	Env     []prompt.Prompt
	Before  Hook
	After   Hook
}

// Source implements Plugin.
func (f *Funcs) Source() string { return f.Name }

// InstallPrompts implements InstallPrompter.
func (f *Funcs) InstallPrompts() []prompt.Prompt { return f.Install }

// EnvPrompts implements EnvPrompter.
func (f *Funcs) EnvPrompts() []prompt.Prompt { return f.Env }

// HasHook implements HookReporter.
func (f *Funcs) HasHook(name string) bool {
	switch name {
	case HookBeforeInstall:
		return f.Before != nil
	case HookAfterInstall:
		return f.After != nil
	}
	return false
}

// BeforeInstall implements BeforeInstaller.
func (f *Funcs) BeforeInstall(ctx context.Context, cfg *store.Configuration, tk *Toolkit) error {
	if f.Before == nil {
		return nil
	}
	return f.Before(ctx, cfg, tk)
}

// AfterInstall implements AfterInstaller.
func (f *Funcs) AfterInstall(ctx context.Context, cfg *store.Configuration, tk *Toolkit) error {
	if f.After == nil {
		return nil
	}
	return f.After(ctx, cfg, tk)
}
