// Package state manages the mutable session state: the player's name,
// health and inventory, and the progress and forced-movement counters.
// All writes go through these functions so the invariants hold at rest.
package state

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nathoo/dungeoncrawl/types"
)

const (
	// DefaultName replaces any invalid player name.
	DefaultName = "default_player"
	// MaxNameLength is the longest accepted player name, in characters.
	MaxNameLength = 25
	// MaxHealth is both the starting health and the healing cap.
	MaxHealth = 100
	// HealthPotion is the only item with a use.
	HealthPotion = "Health Potion"
)

// Defs holds the immutable content loaded at startup.
type Defs struct {
	Game         types.GameDef
	Difficulties []types.DifficultyDef
	Rooms        map[string]types.RoomDef
	Handlers     []types.EventHandler
}

// NewState creates a fresh session state: full health, empty inventory,
// no progress and no forced movement.
func NewState(defs *Defs) *types.State {
	s := &types.State{
		Player: types.Player{
			Name:      DefaultName,
			Inventory: []string{},
		},
		CommandLog: []string{},
	}
	SetHealth(&s.Player, MaxHealth)
	s.Turn.RoomsToEscape = DefaultDifficulty(defs).Rooms
	return s
}

// SetName applies the name rules: 1-25 printable characters after trimming,
// anything else becomes DefaultName.
func SetName(p *types.Player, name string) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		p.Name = DefaultName
		return
	}
	for _, r := range name {
		if !unicode.IsPrint(r) {
			p.Name = DefaultName
			return
		}
	}
	p.Name = name
}

// SetHealth writes health. Any value outside [1, MaxHealth] sets health to 0.
func SetHealth(p *types.Player, v int) {
	if v < 1 || v > MaxHealth {
		p.Health = 0
		return
	}
	p.Health = v
}

// Damage subtracts amount from health.
func Damage(p *types.Player, amount int) {
	SetHealth(p, p.Health-amount)
}

// Heal adds amount to health. When capped, the result is limited to
// MaxHealth; otherwise the SetHealth rule applies to the raw sum.
func Heal(p *types.Player, amount int, capped bool) {
	v := p.Health + amount
	if capped && v > MaxHealth {
		v = MaxHealth
	}
	SetHealth(p, v)
}

// IsAlive reports whether the player has any health left.
func IsAlive(p *types.Player) bool {
	return p.Health > 0
}

// PickUpItem appends an item to the inventory.
func PickUpItem(p *types.Player, item string) {
	p.Inventory = append(p.Inventory, item)
}

// InventoryContents returns the inventory as a comma-separated list.
func InventoryContents(p *types.Player) string {
	return strings.Join(p.Inventory, ", ")
}

// FindItem returns the index of the first inventory entry equal to name,
// ignoring case, or -1.
func FindItem(p *types.Player, name string) int {
	name = strings.TrimSpace(name)
	for i, item := range p.Inventory {
		if strings.EqualFold(item, name) {
			return i
		}
	}
	return -1
}

// RemoveItem removes the first entry matching name. Returns the removed
// entry as stored, or "" if nothing matched.
func RemoveItem(p *types.Player, name string) string {
	i := FindItem(p, name)
	if i < 0 {
		return ""
	}
	item := p.Inventory[i]
	p.Inventory = append(p.Inventory[:i:i], p.Inventory[i+1:]...)
	return item
}

// Advance adds n rooms to progress, never going below zero.
func Advance(t *types.TurnState, n int) {
	t.Progress += n
	if t.Progress < 0 {
		t.Progress = 0
	}
}

// Setback removes n rooms from progress, never going below zero.
func Setback(t *types.TurnState, n int) {
	t.Progress -= n
	if t.Progress < 0 {
		t.Progress = 0
	}
}

// Escaped reports whether progress has reached the target.
func Escaped(t *types.TurnState) bool {
	return t.Progress >= t.RoomsToEscape
}

// Force starts forced movement in dir for the given number of turns.
// A non-positive count or an empty direction clears forced movement.
func Force(t *types.TurnState, dir types.Direction, turns int) {
	if turns <= 0 || dir == types.DirectionNone {
		t.ForcedTurns = 0
		t.ForcedDirection = types.DirectionNone
		return
	}
	t.ForcedTurns = turns
	t.ForcedDirection = dir
}

// Forced returns the forced direction and the turns left, if any.
func Forced(t *types.TurnState) (types.Direction, int, bool) {
	if t.ForcedTurns <= 0 {
		return types.DirectionNone, 0, false
	}
	return t.ForcedDirection, t.ForcedTurns, true
}

// ConsumeForced uses up one forced turn and returns its direction.
// The direction is cleared when the counter reaches zero; ended reports that.
func ConsumeForced(t *types.TurnState) (dir types.Direction, ended bool, ok bool) {
	if t.ForcedTurns <= 0 {
		return types.DirectionNone, false, false
	}
	dir = t.ForcedDirection
	t.ForcedTurns--
	if t.ForcedTurns == 0 {
		t.ForcedDirection = types.DirectionNone
		ended = true
	}
	return dir, ended, true
}

// Difficulty looks up a difficulty by key, ignoring surrounding space.
// Invalid keys fall back to the default difficulty with ok false.
func Difficulty(defs *Defs, key string) (d types.DifficultyDef, ok bool) {
	key = strings.TrimSpace(key)
	if defs != nil {
		for _, d := range defs.Difficulties {
			if strings.EqualFold(d.Key, key) {
				return d, true
			}
		}
	}
	return DefaultDifficulty(defs), false
}

// DefaultDifficulty returns the difficulty marked default, or the standard
// ten-room escape when the content defines none.
func DefaultDifficulty(defs *Defs) types.DifficultyDef {
	if defs != nil {
		for _, d := range defs.Difficulties {
			if d.Default {
				return d
			}
		}
	}
	return types.DifficultyDef{Key: "2", Name: "Normal", Rooms: 10, Default: true}
}
