package luaplugin

import (
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/mebibou/allons-y/internal/plugin"
)

// newUtils builds the utils table handed to hooks.
func newUtils(L *lua.LState, tk *plugin.Toolkit) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("root", lua.LString(tk.Root))
	t.RawSetString("version", lua.LString(tk.Version))

	printer := func(print func(string, ...any)) *lua.LFunction {
		return L.NewFunction(func(L *lua.LState) int {
			print("%s", L.CheckString(1))
			return 0
		})
	}
	t.RawSetString("log", printer(tk.UI.Log))
	t.RawSetString("info", printer(tk.UI.Info))
	t.RawSetString("success", printer(tk.UI.Success))
	t.RawSetString("warn", printer(tk.UI.Warn))
	t.RawSetString("debug", L.NewFunction(func(L *lua.LState) int {
		tk.Log.Debug(L.CheckString(1))
		return 0
	}))
	t.RawSetString("path", L.NewFunction(func(L *lua.LState) int {
		parts := []string{tk.Root}
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.CheckString(i))
		}
		L.Push(lua.LString(filepath.Join(parts...)))
		return 1
	}))
	return t
}
