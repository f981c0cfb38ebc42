package luaplugin

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// newState returns a Lua state with only the base, table, string and math
// libraries. Functions that reach the file system are removed.
func newState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// evalFile runs path and returns the value it returns.
func evalFile(L *lua.LState, path string) (ret lua.LValue, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	top := L.GetTop()
	if err := L.DoFile(path); err != nil {
		return nil, err
	}
	if L.GetTop() == top {
		return lua.LNil, nil
	}
	ret = L.Get(top + 1)
	L.SetTop(top)
	return ret, nil
}
