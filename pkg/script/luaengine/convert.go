package luaengine

import (
	"math"
	"sort"
	"strconv"

	lua "github.com/yuin/gopher-lua"
)

// maxDepth bounds table conversion so self-referencing tables terminate.
const maxDepth = 16

// toGo converts a Lua value into plain Go values. Tables keyed only by
// positive integers become []any in key order, holes dropped; other tables
// become map[string]any with numeric keys formatted as strings.
// Values with no Go counterpart (functions, userdata, threads, tables
// nested too deep) are returned as the raw lua.LValue.
func toGo(lv lua.LValue, depth int) any {
	switch v := lv.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if depth >= maxDepth {
			return lv
		}
		return tableToGo(v, depth+1)
	default:
		return lv
	}
}

func tableToGo(tbl *lua.LTable, depth int) any {
	if values, others := arrayPart(tbl); len(values) > 0 && others == 0 {
		list := make([]any, 0, len(values))
		for _, v := range values {
			list = append(list, toGo(v, depth))
		}
		return list
	}

	record := make(map[string]any)
	tbl.ForEach(func(key, value lua.LValue) {
		switch k := key.(type) {
		case lua.LString:
			record[string(k)] = toGo(value, depth)
		case lua.LNumber:
			record[strconv.FormatFloat(float64(k), 'f', -1, 64)] = toGo(value, depth)
		}
	})
	return record
}

// arrayPart returns the values stored under positive integer keys in key
// order, and how many other keys the table holds.
func arrayPart(tbl *lua.LTable) ([]lua.LValue, int) {
	byKey := make(map[int]lua.LValue)
	others := 0
	tbl.ForEach(func(key, value lua.LValue) {
		if n, ok := key.(lua.LNumber); ok {
			f := float64(n)
			if f >= 1 && f == math.Trunc(f) && f <= math.MaxInt32 {
				byKey[int(f)] = value
				return
			}
		}
		others++
	})

	keys := make([]int, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	values := make([]lua.LValue, 0, len(keys))
	for _, k := range keys {
		values = append(values, byKey[k])
	}
	return values, others
}

// summaryTable builds the table returned by utils.linker.
func summaryTable(L *lua.LState, fields map[string]int) *lua.LTable {
	tbl := L.NewTable()
	for k, v := range fields {
		L.SetField(tbl, k, lua.LNumber(v))
	}
	return tbl
}
