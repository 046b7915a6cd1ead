// Package effects implements centralized state mutation via the Apply function.
// Every effect type is one atomic operation. No logic in effects.
package effects

import (
	"github.com/nathoo/dungeoncrawl/engine/state"
	"github.com/nathoo/dungeoncrawl/types"
)

// Apply applies a list of effects to the session state, mutating it.
// Returns events emitted and narration collected.
func Apply(s *types.State, effects []types.Effect) ([]types.Event, []types.Line) {
	var events []types.Event
	var output []types.Line

	for _, eff := range effects {
		switch eff.Type {
		case "say":
			text, _ := eff.Params["text"].(string)
			output = append(output, types.Line{Text: text, Tone: toTone(eff.Params["tone"])})

		case "damage":
			before := s.Player.Health
			state.Damage(&s.Player, toInt(eff.Params["amount"]))
			events = append(events, healthChanged(before, s.Player.Health))

		case "heal":
			before := s.Player.Health
			capped, _ := eff.Params["cap"].(bool)
			state.Heal(&s.Player, toInt(eff.Params["amount"]), capped)
			events = append(events, healthChanged(before, s.Player.Health))

		case "set_health":
			before := s.Player.Health
			state.SetHealth(&s.Player, toInt(eff.Params["value"]))
			events = append(events, healthChanged(before, s.Player.Health))

		case "advance":
			before := s.Turn.Progress
			state.Advance(&s.Turn, toInt(eff.Params["rooms"]))
			events = append(events, progressChanged(before, s.Turn.Progress))

		case "setback":
			before := s.Turn.Progress
			state.Setback(&s.Turn, toInt(eff.Params["rooms"]))
			events = append(events, progressChanged(before, s.Turn.Progress))

		case "give_item":
			item, _ := eff.Params["item"].(string)
			state.PickUpItem(&s.Player, item)
			events = append(events, types.Event{
				Type: "item_added",
				Data: map[string]any{"item": item},
			})

		case "remove_item":
			item, _ := eff.Params["item"].(string)
			if removed := state.RemoveItem(&s.Player, item); removed != "" {
				events = append(events, types.Event{
					Type: "item_removed",
					Data: map[string]any{"item": removed},
				})
			}

		case "force_direction":
			dir, _ := eff.Params["direction"].(string)
			turns := toInt(eff.Params["turns"])
			state.Force(&s.Turn, types.Direction(dir), turns)
			if s.Turn.ForcedTurns > 0 {
				events = append(events, types.Event{
					Type: "forced_movement_started",
					Data: map[string]any{"direction": dir, "turns": turns},
				})
			}

		case "prompt":
			kind, _ := eff.Params["kind"].(string)
			text, _ := eff.Params["text"].(string)
			s.Pending = &types.Prompt{Kind: kind, Text: text}
			events = append(events, types.Event{
				Type: "prompt_opened",
				Data: map[string]any{"kind": kind},
			})

		default:
			// Unknown effect types are ignored.
		}
	}

	return events, output
}

func healthChanged(before, after int) types.Event {
	return types.Event{
		Type: "health_changed",
		Data: map[string]any{"from": before, "to": after, "delta": after - before},
	}
}

func progressChanged(before, after int) types.Event {
	return types.Event{
		Type: "progress_changed",
		Data: map[string]any{"from": before, "to": after, "delta": after - before},
	}
}

func toTone(v any) types.Tone {
	switch t := v.(type) {
	case types.Tone:
		return t
	case string:
		if t != "" {
			return types.Tone(t)
		}
	}
	return types.ToneRoom
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case int64:
		return int(n)
	default:
		return 0
	}
}
