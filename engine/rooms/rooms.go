// Package rooms is the room outcome table: it turns draws from a random
// source into a room type, and a room type into the list of effects that
// resolving the room applies. It never touches state directly.
package rooms

import (
	"fmt"
	"strings"

	"github.com/nathoo/dungeoncrawl/engine/state"
	"github.com/nathoo/dungeoncrawl/types"
)

// Source draws uniform integers in an inclusive range.
type Source interface {
	Between(min, max int) int
}

// RoomType is the category of a generated room.
type RoomType int

const (
	Pass RoomType = iota + 1
	SlightDamage
	HeavyDamage
	Lucky
	Unlucky
	Mystery
)

// All lists every room type in draw order.
var All = []RoomType{Pass, SlightDamage, HeavyDamage, Lucky, Unlucky, Mystery}

// String returns the content name of the room type.
func (t RoomType) String() string {
	switch t {
	case Pass:
		return "Pass"
	case SlightDamage:
		return "SlightDamage"
	case HeavyDamage:
		return "HeavyDamage"
	case Lucky:
		return "Lucky"
	case Unlucky:
		return "Unlucky"
	case Mystery:
		return "Mystery"
	default:
		return fmt.Sprintf("RoomType(%d)", int(t))
	}
}

// Tone returns the narration tone used for rooms of this type.
func (t RoomType) Tone() types.Tone {
	switch t {
	case SlightDamage, HeavyDamage, Unlucky:
		return types.ToneHarm
	case Lucky:
		return types.ToneHelp
	case Mystery:
		return types.ToneMystery
	default:
		return types.ToneRoom
	}
}

// ParseRoomType converts a content name to a RoomType, ignoring case.
func ParseRoomType(s string) (RoomType, bool) {
	for _, t := range All {
		if strings.EqualFold(t.String(), s) {
			return t, true
		}
	}
	return 0, false
}

// Sub-events drawn inside Lucky, Unlucky and Mystery rooms, and the
// mystery potion's own draw. Values are the draws in [1,3].
const (
	FoundPotion   = 1
	FoundFullHeal = 2
	FoundShortcut = 3

	CursedBoots = 1
	Trapdoor    = 2
	Poison      = 3

	SafeLoom      = 1
	MonsterHorn   = 2
	MysteryPotion = 3

	PotionHeal     = 1
	PotionHarm     = 2
	PotionHypnosis = 3
)

// CursedBootsTurns is how long cursed boots force movement.
const CursedBootsTurns = 3

// PoisonDamage is the fixed damage of the poison trap.
const PoisonDamage = 10

var directions = []types.Direction{types.DirectionForward, types.DirectionLeft, types.DirectionRight}

// Generate draws a room type uniformly over All.
func Generate(src Source) RoomType {
	switch src.Between(1, len(All)) {
	case 1:
		return Pass
	case 2:
		return SlightDamage
	case 3:
		return HeavyDamage
	case 4:
		return Lucky
	case 5:
		return Unlucky
	default:
		return Mystery
	}
}

// Resolve draws whatever the room needs and returns the effects it applies,
// in order. Narration is carried as say effects.
func Resolve(t RoomType, src Source) []types.Effect {
	switch t {
	case Pass:
		return []types.Effect{
			say("The room is quiet. You pass through safely.", types.ToneRoom),
			advance(1),
		}

	case SlightDamage:
		dmg := src.Between(5, 15)
		return []types.Effect{
			damage(dmg),
			say(fmt.Sprintf("You took %d damage!", dmg), types.ToneHarm),
			advance(1),
		}

	case HeavyDamage:
		dmg := src.Between(15, 25)
		return []types.Effect{
			damage(dmg),
			say(fmt.Sprintf("You took %d damage!", dmg), types.ToneHarm),
			advance(1),
		}

	case Lucky:
		return append(resolveLucky(src), advance(1))

	case Unlucky:
		return resolveUnlucky(src)

	case Mystery:
		return resolveMystery(src)

	default:
		return []types.Effect{say("An error occurred generating your room.", types.ToneSystem)}
	}
}

func resolveLucky(src Source) []types.Effect {
	switch src.Between(1, 3) {
	case FoundPotion:
		return []types.Effect{
			{Type: "prompt", Params: map[string]any{
				"kind": types.PromptPotion,
				"text": "You found a health potion! Would you like to use it now? (y/n)",
			}},
		}

	case FoundFullHeal:
		return []types.Effect{
			say("You found a kebab! You restore ALL your health.", types.ToneHelp),
			{Type: "set_health", Params: map[string]any{"value": state.MaxHealth}},
		}

	default:
		return []types.Effect{
			say("You discover a hidden shortcut! You advance two rooms.", types.ToneHelp),
			advance(1),
		}
	}
}

func resolveUnlucky(src Source) []types.Effect {
	switch src.Between(1, 3) {
	case CursedBoots:
		dir := drawDirection(src)
		return []types.Effect{
			say("Cursed boots bind on to your feet!", types.ToneHarm),
			force(dir, CursedBootsTurns),
			say(fmt.Sprintf("You will be forced to go %s for the next %d turns.", dir, CursedBootsTurns), types.ToneHarm),
			advance(1),
		}

	case Trapdoor:
		setback := src.Between(1, 3)
		fall := src.Between(1, 5)
		return []types.Effect{
			say(fmt.Sprintf("You fall through a trapdoor! You are set back %d room(s) and take %d fall damage.", setback, fall), types.ToneHarm),
			{Type: "setback", Params: map[string]any{"rooms": setback}},
			damage(fall),
		}

	default:
		return []types.Effect{
			say(fmt.Sprintf("You are poisoned! You lose %d health.", PoisonDamage), types.ToneHarm),
			damage(PoisonDamage),
			advance(1),
		}
	}
}

func resolveMystery(src Source) []types.Effect {
	switch src.Between(1, 3) {
	case SafeLoom:
		n := src.Between(1, 3)
		return []types.Effect{
			say(fmt.Sprintf("You found a mysterious loom! It leads you safely through %d room(s).", n), types.ToneMystery),
			advance(n),
		}

	case MonsterHorn:
		dmg := src.Between(10, 30)
		return []types.Effect{
			say("You stumble across a mysterious horn! It summons a mystical monster!", types.ToneMystery),
			damage(dmg),
			say(fmt.Sprintf("The monster deals %d damage!", dmg), types.ToneHarm),
			advance(1),
		}

	default:
		effs := []types.Effect{
			say("You find a mysterious potion. You feel compelled to drink it!", types.ToneMystery),
		}
		effs = append(effs, resolvePotion(src)...)
		return append(effs, advance(1))
	}
}

func resolvePotion(src Source) []types.Effect {
	switch src.Between(1, 3) {
	case PotionHeal:
		heal := src.Between(5, 15)
		return []types.Effect{
			say(fmt.Sprintf("The potion heals you for %d health.", heal), types.ToneHelp),
			{Type: "heal", Params: map[string]any{"amount": heal, "cap": true}},
		}

	case PotionHarm:
		dmg := src.Between(5, 15)
		return []types.Effect{
			say(fmt.Sprintf("The potion damages you for %d health.", dmg), types.ToneHarm),
			damage(dmg),
		}

	default:
		turns := src.Between(1, 3)
		dir := drawDirection(src)
		return []types.Effect{
			force(dir, turns),
			say(fmt.Sprintf("The potion hypnotises you. In a trance, you will go %s for the next %d turn(s).", dir, turns), types.ToneMystery),
		}
	}
}

// drawDirection picks forward, left or right uniformly.
func drawDirection(src Source) types.Direction {
	return directions[src.Between(1, len(directions))-1]
}

func say(text string, tone types.Tone) types.Effect {
	return types.Effect{Type: "say", Params: map[string]any{"text": text, "tone": string(tone)}}
}

func advance(n int) types.Effect {
	return types.Effect{Type: "advance", Params: map[string]any{"rooms": n}}
}

func damage(n int) types.Effect {
	return types.Effect{Type: "damage", Params: map[string]any{"amount": n}}
}

func force(dir types.Direction, turns int) types.Effect {
	return types.Effect{Type: "force_direction", Params: map[string]any{"direction": string(dir), "turns": turns}}
}
