package plugin

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/mebibou/allons-y/internal/prompt"
	"github.com/mebibou/allons-y/internal/store"
	"github.com/mebibou/allons-y/internal/ui"
)

// Hook names.
const (
	HookBeforeInstall = "beforeInstall"
	HookAfterInstall  = "afterInstall"
)

// Plugin is a discovered feature.
type Plugin interface {
	// Source is the path the feature was loaded from, or a builtin name.
	Source() string
}

// InstallPrompter declares questions answered into the install section.
type InstallPrompter interface {
	InstallPrompts() []prompt.Prompt
}

// EnvPrompter declares questions answered into the env section.
type EnvPrompter interface {
	EnvPrompts() []prompt.Prompt
}

// BeforeInstaller runs before the external install step.
type BeforeInstaller interface {
	BeforeInstall(ctx context.Context, cfg *store.Configuration, tk *Toolkit) error
}

// AfterInstaller runs after the external install step.
type AfterInstaller interface {
	AfterInstall(ctx context.Context, cfg *store.Configuration, tk *Toolkit) error
}

// HookReporter is implemented by plugins whose hook methods exist on every
// value but are only set on some, such as manifests and scripts.
type HookReporter interface {
	HasHook(name string) bool
}

// Hook is the signature shared by both hooks. Hooks may mutate cfg.
type Hook func(ctx context.Context, cfg *store.Configuration, tk *Toolkit) error

// Toolkit is handed to every hook.
type Toolkit struct {
	// Root is the project directory.
	Root string
	// Version is the running tool version.
	Version string
	Log     logrus.FieldLogger
	UI      *ui.Printer
}

// For returns a copy of tk whose logger carries the plugin source.
func (tk *Toolkit) For(p Plugin) *Toolkit {
	out := *tk
	if out.Log == nil {
		out.Log = logrus.StandardLogger()
	}
	out.Log = out.Log.WithField("plugin", p.Source())
	if out.UI == nil {
		out.UI = ui.Discard()
	}
	return &out
}

// Prompts returns the prompts p declares for section, or nil.
func Prompts(p Plugin, section string) []prompt.Prompt {
	switch section {
	case store.SectionInstall:
		if ip, ok := p.(InstallPrompter); ok {
			return ip.InstallPrompts()
		}
	case store.SectionEnv:
		if ep, ok := p.(EnvPrompter); ok {
			return ep.EnvPrompts()
		}
	}
	return nil
}

// LookupHook returns the named hook of p, or nil when p does not provide it.
func LookupHook(p Plugin, name string) Hook {
	if r, ok := p.(HookReporter); ok && !r.HasHook(name) {
		return nil
	}
	switch name {
	case HookBeforeInstall:
		if h, ok := p.(BeforeInstaller); ok {
			return h.BeforeInstall
		}
	case HookAfterInstall:
		if h, ok := p.(AfterInstaller); ok {
			return h.AfterInstall
		}
	}
	return nil
}

// Capabilities lists what p provides, for display.
func Capabilities(p Plugin) []string {
	var caps []string
	if len(Prompts(p, store.SectionInstall)) > 0 {
		caps = append(caps, store.SectionInstall)
	}
	if len(Prompts(p, store.SectionEnv)) > 0 {
		caps = append(caps, store.SectionEnv)
	}
	for _, hook := range []string{HookBeforeInstall, HookAfterInstall} {
		if LookupHook(p, hook) != nil {
			caps = append(caps, hook)
		}
	}
	return caps
}

// Close releases plugins that hold resources. Every closer is called; the
// errors are joined.
func Close(plugins []Plugin) error {
	var errs []error
	for _, p := range plugins {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing %s: %w", p.Source(), err))
			}
		}
	}
	return errors.Join(errs...)
}
