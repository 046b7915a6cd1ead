package loader

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nathoo/dungeoncrawl/engine/rooms"
	"github.com/nathoo/dungeoncrawl/engine/state"
	"github.com/nathoo/dungeoncrawl/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Effect types content handlers may use.
var validEffectTypes = map[string]bool{
	"say":         true,
	"give_item":   true,
	"remove_item": true,
	"heal":        true,
	"damage":      true,
}

// Events the engine emits.
var validEventTypes = map[string]bool{
	"room_entered":            true,
	"stumbled":                true,
	"health_changed":          true,
	"progress_changed":        true,
	"item_added":              true,
	"item_removed":            true,
	"forced_movement_started": true,
	"forced_movement_ended":   true,
	"prompt_opened":           true,
	"player_defeated":         true,
	"player_escaped":          true,
}

var validTones = map[types.Tone]bool{
	types.ToneRoom:    true,
	types.ToneHarm:    true,
	types.ToneHelp:    true,
	types.ToneMystery: true,
	types.ToneNotice:  true,
	types.ToneStatus:  true,
	types.ToneSystem:  true,
	types.ToneBanner:  true,
}

// validate checks the compiled defs for completeness and consistency.
func validate(defs *state.Defs) error {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.Title is required")
	}

	validateRooms(defs, ve)
	validateDifficulties(defs.Difficulties, ve)

	for _, handler := range defs.Handlers {
		if !validEventTypes[handler.EventType] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"handler for unknown event %q", handler.EventType))
		}
		if len(handler.Effects) == 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"handler for %q has no effects", handler.EventType))
		}
		validateEffects(handler.Effects, ve)
	}

	for _, w := range ve.Warnings {
		slog.Warn("content warning", "detail", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateRooms(defs *state.Defs, ve *ValidationError) {
	for name, room := range defs.Rooms {
		if _, ok := rooms.ParseRoomType(name); !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf("unknown room type %q", name))
			continue
		}
		for i, d := range room.Descriptions {
			if strings.TrimSpace(d) == "" {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"room %q description %d is empty", name, i+1))
			}
		}
	}

	for _, rt := range rooms.All {
		room, ok := defs.Rooms[rt.String()]
		if !ok || len(room.Descriptions) == 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"room %q needs at least one description", rt))
		}
	}
}

func validateDifficulties(diffs []types.DifficultyDef, ve *ValidationError) {
	if len(diffs) == 0 {
		ve.Errors = append(ve.Errors, "at least one Difficulty is required")
		return
	}

	keys := map[string]bool{}
	defaults := 0
	for _, d := range diffs {
		if d.Key == "" {
			ve.Errors = append(ve.Errors, "difficulty key must not be empty")
		}
		if keys[strings.ToLower(d.Key)] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate difficulty key %q", d.Key))
		}
		keys[strings.ToLower(d.Key)] = true

		if d.Name == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("difficulty %q needs a name", d.Key))
		}
		if d.Rooms <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"difficulty %q rooms must be positive, got %d", d.Key, d.Rooms))
		}
		if d.Default {
			defaults++
		}
	}

	if defaults != 1 {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"exactly one difficulty must be the default, found %d", defaults))
	}
}

func validateEffects(effects []types.Effect, ve *ValidationError) {
	for _, eff := range effects {
		if !validEffectTypes[eff.Type] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"unknown effect type %q", eff.Type))
			continue
		}

		switch eff.Type {
		case "say":
			if text, _ := eff.Params["text"].(string); text == "" {
				ve.Errors = append(ve.Errors, "effect say needs text")
			}
			if tone, ok := eff.Params["tone"].(string); ok && !validTones[types.Tone(tone)] {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"effect say uses unknown tone %q", tone))
			}
		case "give_item", "remove_item":
			if item, _ := eff.Params["item"].(string); strings.TrimSpace(item) == "" {
				ve.Errors = append(ve.Errors, fmt.Sprintf("effect %s needs an item", eff.Type))
			}
		case "heal", "damage":
			if n, ok := eff.Params["amount"].(int); !ok || n <= 0 {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"effect %s amount must be a positive whole number", eff.Type))
			}
		}
	}
}
