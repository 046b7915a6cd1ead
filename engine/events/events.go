// Package events implements single-pass event handler dispatch.
// Event handlers produce additional effects but do not recurse.
package events

import (
	"fmt"

	"github.com/nathoo/dungeoncrawl/engine/state"
	"github.com/nathoo/dungeoncrawl/types"
)

// Dispatch runs content event handlers against the emitted events. Single
// pass with no recursion. Returns additional effects produced by matching handlers.
func Dispatch(events []types.Event, defs *state.Defs) []types.Effect {
	if defs == nil {
		return nil
	}

	var result []types.Effect
	for _, event := range events {
		for _, handler := range defs.Handlers {
			if handler.EventType != event.Type {
				continue
			}
			if !matches(handler.Match, event.Data) {
				continue
			}
			result = append(result, handler.Effects...)
		}
	}

	return result
}

// matches compares by formatted value so Lua numbers (float64) match
// engine ints.
func matches(want, data map[string]any) bool {
	for k, v := range want {
		got, ok := data[k]
		if !ok || fmt.Sprint(got) != fmt.Sprint(v) {
			return false
		}
	}
	return true
}
