package luaplugin

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"

	lua "github.com/yuin/gopher-lua"

	"github.com/mebibou/allons-y/internal/store"
)

// toLua converts a configuration value to Lua. Sections and arrays become
// tables, json.Number becomes a number.
func toLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return lua.LString(val.String())
		}
		return lua.LNumber(f)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case *store.Section:
		t := L.NewTable()
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			t.RawSetString(pair.Key, toLua(L, pair.Value))
		}
		return t
	case []any:
		t := L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, toLua(L, item))
		}
		return t
	case []string:
		t := L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, lua.LString(item))
		}
		return t
	default:
		return lua.LString(store.FormatValue(val))
	}
}

// fromLua converts a Lua value back to a configuration value. orig is the
// value the table was built from, if any: keys it already had keep their
// order, new keys follow in sorted order. Functions and other Lua-only
// values are dropped.
func fromLua(lv lua.LValue, orig any) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LString:
		return string(v)
	case lua.LNumber:
		return number(float64(v))
	case *lua.LTable:
		return tableFromLua(v, orig)
	default:
		return nil
	}
}

func number(f float64) json.Number {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return json.Number(strconv.FormatInt(int64(f), 10))
	}
	return json.Number(strconv.FormatFloat(f, 'g', -1, 64))
}

func tableFromLua(t *lua.LTable, orig any) any {
	n := t.Len()
	if origArr, ok := orig.([]any); ok && n == 0 && isEmpty(t) {
		return origArr[:0:0]
	}
	if n > 0 && countKeys(t) == n {
		origArr, _ := orig.([]any)
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			var o any
			if i-1 < len(origArr) {
				o = origArr[i-1]
			}
			arr[i-1] = fromLua(t.RawGetInt(i), o)
		}
		return arr
	}

	origSection, _ := orig.(*store.Section)
	out := store.NewSection()
	seen := make(map[string]bool)

	if origSection != nil {
		for pair := origSection.Oldest(); pair != nil; pair = pair.Next() {
			lv := t.RawGetString(pair.Key)
			if lv == lua.LNil {
				continue
			}
			seen[pair.Key] = true
			if v := fromLua(lv, pair.Value); v != nil {
				out.Set(pair.Key, v)
			}
		}
	}

	var added []string
	t.ForEach(func(k, _ lua.LValue) {
		key := keyString(k)
		if !seen[key] {
			added = append(added, key)
		}
	})
	sort.Strings(added)
	for _, key := range added {
		lv := t.RawGetString(key)
		if num, ok := parseIndex(key); ok && lv == lua.LNil {
			lv = t.RawGetInt(num)
		}
		if v := fromLua(lv, nil); v != nil {
			out.Set(key, v)
		}
	}
	return out
}

func keyString(k lua.LValue) string {
	if num, ok := k.(lua.LNumber); ok {
		return number(float64(num)).String()
	}
	return k.String()
}

func parseIndex(key string) (int, bool) {
	n, err := strconv.Atoi(key)
	return n, err == nil
}

func countKeys(t *lua.LTable) int {
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })
	return count
}

func isEmpty(t *lua.LTable) bool {
	k, _ := t.Next(lua.LNil)
	return k == lua.LNil
}
