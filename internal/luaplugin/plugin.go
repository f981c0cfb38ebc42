package luaplugin

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/mebibou/allons-y/internal/plugin"
	"github.com/mebibou/allons-y/internal/prompt"
	"github.com/mebibou/allons-y/internal/store"
)

// DefaultPatterns match Lua feature scripts.
var DefaultPatterns = []string{"*-feature.lua"}

// Loader loads Lua feature scripts.
type Loader struct {
	Patterns []string
}

// Match implements registry.Loader.
func (l *Loader) Match(name string) bool {
	patterns := l.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// Load evaluates the script at path. Syntax and runtime errors, and a
// script that does not return a table, are load errors.
func (l *Loader) Load(path string) (plugin.Plugin, error) {
	L := newState()
	ret, err := evalFile(L, path)
	if err != nil {
		L.Close()
		return nil, err
	}
	def, ok := ret.(*lua.LTable)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("script must return a table, got %s", ret.Type())
	}

	s := &Script{path: path, L: L, hooks: make(map[string]*lua.LFunction)}
	for _, section := range []string{store.SectionInstall, store.SectionEnv} {
		prompts, err := promptsFrom(def.RawGetString(section))
		if err != nil {
			L.Close()
			return nil, fmt.Errorf("%s: %w", section, err)
		}
		if section == store.SectionInstall {
			s.install = prompts
		} else {
			s.env = prompts
		}
	}
	for _, name := range []string{plugin.HookBeforeInstall, plugin.HookAfterInstall} {
		switch fn := def.RawGetString(name).(type) {
		case *lua.LFunction:
			s.hooks[name] = fn
		case *lua.LNilType:
		default:
			L.Close()
			return nil, fmt.Errorf("%s must be a function, got %s", name, fn.Type())
		}
	}
	return s, nil
}

// Script is a feature backed by a Lua state. It must be closed.
type Script struct {
	path    string
	install []prompt.Prompt
	env     []prompt.Prompt

	mu    sync.Mutex
	L     *lua.LState
	hooks map[string]*lua.LFunction
}

// Source implements plugin.Plugin.
func (s *Script) Source() string { return s.path }

// InstallPrompts implements plugin.InstallPrompter.
func (s *Script) InstallPrompts() []prompt.Prompt { return s.install }

// EnvPrompts implements plugin.EnvPrompter.
func (s *Script) EnvPrompts() []prompt.Prompt { return s.env }

// HasHook implements plugin.HookReporter.
func (s *Script) HasHook(name string) bool {
	return s.hooks[name] != nil
}

// BeforeInstall implements plugin.BeforeInstaller.
func (s *Script) BeforeInstall(ctx context.Context, cfg *store.Configuration, tk *plugin.Toolkit) error {
	return s.call(ctx, plugin.HookBeforeInstall, cfg, tk)
}

// AfterInstall implements plugin.AfterInstaller.
func (s *Script) AfterInstall(ctx context.Context, cfg *store.Configuration, tk *plugin.Toolkit) error {
	return s.call(ctx, plugin.HookAfterInstall, cfg, tk)
}

// Close releases the Lua state.
func (s *Script) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.L != nil {
		s.L.Close()
		s.L = nil
	}
	return nil
}

func (s *Script) call(ctx context.Context, name string, cfg *store.Configuration, tk *plugin.Toolkit) error {
	fn := s.hooks[name]
	if fn == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.L == nil {
		return fmt.Errorf("script %s is closed", s.path)
	}

	L := s.L
	L.SetContext(ctx)
	defer L.RemoveContext()

	tree := cfg.Tree()
	config := toLua(L, tree)
	utils := newUtils(L, tk)

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, config, utils); err != nil {
		return err
	}

	updated, ok := fromLua(config, tree).(*store.Section)
	if !ok {
		return fmt.Errorf("configuration is no longer a table")
	}
	if err := cfg.Replace(updated); err != nil {
		return fmt.Errorf("updating configuration: %w", err)
	}
	return nil
}

// promptsFrom reads an array of prompt tables.
func promptsFrom(lv lua.LValue) ([]prompt.Prompt, error) {
	if lv == lua.LNil {
		return nil, nil
	}
	t, ok := lv.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("expected a list of prompts, got %s", lv.Type())
	}

	var prompts []prompt.Prompt
	for i := 1; i <= t.Len(); i++ {
		item, ok := t.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("prompt %d is not a table", i)
		}
		p := prompt.Prompt{
			Name:    lua.LVAsString(item.RawGetString("name")),
			Type:    lua.LVAsString(item.RawGetString("type")),
			Message: lua.LVAsString(item.RawGetString("message")),
			Default: fromLua(item.RawGetString("default"), nil),
		}
		if p.Name == "" {
			return nil, fmt.Errorf("prompt %d has no name", i)
		}
		if choices, ok := item.RawGetString("choices").(*lua.LTable); ok {
			for j := 1; j <= choices.Len(); j++ {
				p.Choices = append(p.Choices, lua.LVAsString(choices.RawGetInt(j)))
			}
		}
		if p.Kind() == prompt.TypeList && len(p.Choices) == 0 {
			return nil, fmt.Errorf("list prompt %q has no choices", p.Name)
		}
		prompts = append(prompts, p)
	}
	return prompts, nil
}
