package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerEffectHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", author = "...", version = "...", intro = "..." }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Difficulty "1" { name = "Easy", rooms = 5 }, curried.
	L.SetGlobal("Difficulty", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.difficulties = append(coll.difficulties, rawDifficulty{key: key, table: tbl})
			return 0
		}))
		return 1
	}))

	// Room "Pass" { descriptions = { "...", ... } }, curried.
	L.SetGlobal("Room", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.rooms = append(coll.rooms, rawRoom{name: name, table: tbl})
			return 0
		}))
		return 1
	}))

	// On("event_type", { when = {...}, say = "...", tone = "...", effects = {...} })
	L.SetGlobal("On", L.NewFunction(func(L *lua.LState) int {
		eventType := L.CheckString(1)
		tbl := L.CheckTable(2)
		coll.handlers = append(coll.handlers, rawHandler{eventType: eventType, table: tbl})
		return 0
	}))
}

func registerEffectHelpers(L *lua.LState) {
	// Say("text", "tone"), tone optional.
	L.SetGlobal("Say", L.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("say"))
		tbl.RawSetString("text", lua.LString(text))
		if tone := L.OptString(2, ""); tone != "" {
			tbl.RawSetString("tone", lua.LString(tone))
		}
		L.Push(tbl)
		return 1
	}))

	// GiveItem("name")
	L.SetGlobal("GiveItem", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("give_item"))
		tbl.RawSetString("item", lua.LString(item))
		L.Push(tbl)
		return 1
	}))

	// RemoveItem("name")
	L.SetGlobal("RemoveItem", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("remove_item"))
		tbl.RawSetString("item", lua.LString(item))
		L.Push(tbl)
		return 1
	}))

	// Heal(amount), capped at full health.
	L.SetGlobal("Heal", L.NewFunction(func(L *lua.LState) int {
		amount := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("heal"))
		tbl.RawSetString("amount", amount)
		tbl.RawSetString("cap", lua.LTrue)
		L.Push(tbl)
		return 1
	}))

	// Damage(amount)
	L.SetGlobal("Damage", L.NewFunction(func(L *lua.LState) int {
		amount := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("damage"))
		tbl.RawSetString("amount", amount)
		L.Push(tbl)
		return 1
	}))
}
