// Package loader loads Lua dungeon content into Go structs at startup.
// The Lua VM is discarded after loading. No Lua runs during play.
package loader

import (
	"fmt"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/dungeoncrawl/engine/rooms"
	"github.com/nathoo/dungeoncrawl/engine/state"
	"github.com/nathoo/dungeoncrawl/types"
)

// rawDifficulty holds a difficulty table before compilation.
type rawDifficulty struct {
	key   string
	table *lua.LTable
}

// rawRoom holds a room table before compilation.
type rawRoom struct {
	name  string
	table *lua.LTable
}

// rawHandler holds an event handler before compilation.
type rawHandler struct {
	eventType string
	table     *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getInt returns an integer field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case lua.LString:
		return string(val)
	case *lua.LTable:
		if maxN := val.MaxN(); maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		return tableToAnyMap(val)
	default:
		return nil
	}
}

// tableToAnyMap converts the string-keyed entries of a Lua table to a map.
func tableToAnyMap(tbl *lua.LTable) map[string]any {
	if tbl == nil {
		return nil
	}
	m := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			m[string(ks)] = toGoValue(v)
		}
	})
	return m
}

// stringList returns the string entries of a Lua array, in order.
func stringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Rooms: map[string]types.RoomDef{},
	}

	if coll.game != nil {
		defs.Game = compileGame(coll.game)
	}

	for _, raw := range coll.difficulties {
		defs.Difficulties = append(defs.Difficulties, compileDifficulty(raw))
	}

	for _, raw := range coll.rooms {
		room := compileRoom(raw)
		if _, dup := defs.Rooms[room.Type]; dup {
			return nil, fmt.Errorf("duplicate room type %q", raw.name)
		}
		defs.Rooms[room.Type] = room
	}

	for _, raw := range coll.handlers {
		defs.Handlers = append(defs.Handlers, compileHandler(raw))
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Intro:   getString(tbl, "intro"),
	}
}

func compileDifficulty(raw rawDifficulty) types.DifficultyDef {
	return types.DifficultyDef{
		Key:     strings.TrimSpace(raw.key),
		Name:    getString(raw.table, "name"),
		Rooms:   getInt(raw.table, "rooms"),
		Default: getBool(raw.table, "default", false),
	}
}

// compileRoom keys known room types by their canonical name so "pass" and
// "Pass" describe the same room. Unknown names are kept for validation to
// report.
func compileRoom(raw rawRoom) types.RoomDef {
	name := raw.name
	if rt, ok := rooms.ParseRoomType(name); ok {
		name = rt.String()
	}
	return types.RoomDef{
		Type:         name,
		Descriptions: stringList(getTable(raw.table, "descriptions")),
	}
}

// compileHandler accepts a say/tone shorthand ahead of an effects list.
func compileHandler(raw rawHandler) types.EventHandler {
	handler := types.EventHandler{
		EventType: raw.eventType,
		Match:     tableToAnyMap(getTable(raw.table, "when")),
	}

	if text := getString(raw.table, "say"); text != "" {
		params := map[string]any{"text": text}
		if tone := getString(raw.table, "tone"); tone != "" {
			params["tone"] = tone
		}
		handler.Effects = append(handler.Effects, types.Effect{Type: "say", Params: params})
	}
	if effTbl := getTable(raw.table, "effects"); effTbl != nil {
		handler.Effects = append(handler.Effects, compileEffects(effTbl)...)
	}

	return handler
}

func compileEffects(tbl *lua.LTable) []types.Effect {
	var effects []types.Effect
	for i := 1; i <= tbl.MaxN(); i++ {
		if effTbl, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			effects = append(effects, compileEffect(effTbl))
		}
	}
	return effects
}

func compileEffect(tbl *lua.LTable) types.Effect {
	eff := types.Effect{
		Type:   getString(tbl, "type"),
		Params: map[string]any{},
	}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok && string(ks) != "type" {
			eff.Params[string(ks)] = toGoValue(v)
		}
	})
	return eff
}

// sortedLuaFiles returns .lua files with game.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
