// Package engine provides the turn orchestrator that wires together room
// generation, resolution, effects, and events into a single turn, plus the
// side actions offered between turns.
package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"

	"github.com/nathoo/dungeoncrawl/engine/effects"
	"github.com/nathoo/dungeoncrawl/engine/events"
	"github.com/nathoo/dungeoncrawl/engine/rooms"
	"github.com/nathoo/dungeoncrawl/engine/state"
	"github.com/nathoo/dungeoncrawl/logger"
	"github.com/nathoo/dungeoncrawl/types"
)

// Prompts shown by front ends when asking for input.
const (
	NamePrompt       = "Enter your name:"
	DirectionPrompt  = "Which way? (forward, left, right)"
	MenuPrompt       = "Check (h)ealth, (p)rogress, (i)nventory, (u)se an item, or press enter to continue:"
	ItemPrompt       = "Which item would you like to use? (name or skip)"
	DifficultyPrompt = "Choose a difficulty:"
)

var validDirections = func() mapset.Set[types.Direction] {
	s := mapset.New[types.Direction]()
	s.Put(types.DirectionForward)
	s.Put(types.DirectionLeft)
	s.Put(types.DirectionRight)
	return s
}()

var menuAliases = map[string]string{
	"health":    "health",
	"h":         "health",
	"progress":  "progress",
	"p":         "progress",
	"inventory": "inventory",
	"i":         "inventory",
	"item":      "item",
	"use":       "item",
	"u":         "item",
}

// Engine holds the content definitions, the session state, and the random
// source every draw comes from.
type Engine struct {
	Defs  *state.Defs
	State *types.State
	RNG   rooms.Source
	Log   *slog.Logger
}

// New creates a new engine from definitions. A nil src gets a time-seeded
// RNG and a nil log uses slog.Default.
func New(defs *state.Defs, src rooms.Source, log *slog.Logger) *Engine {
	if defs == nil {
		defs = &state.Defs{}
	}
	if src == nil {
		src = NewRNG(NewSeed())
	}
	if log == nil {
		log = slog.Default()
	}

	s := state.NewState(defs)
	s.SessionID = uuid.NewString()
	if r, ok := src.(*RNG); ok {
		s.RNGSeed = r.Seed()
	}

	return &Engine{
		Defs:  defs,
		State: s,
		RNG:   src,
		Log:   logger.WithSession(log, s.SessionID),
	}
}

// ParseDirection converts player input to a direction, ignoring case and
// surrounding space.
func ParseDirection(input string) (types.Direction, bool) {
	d := types.Direction(strings.ToLower(strings.TrimSpace(input)))
	if !validDirections.Has(d) {
		return types.DirectionNone, false
	}
	return d, true
}

// Begin applies the name and difficulty choices and returns the welcome text.
func (e *Engine) Begin(name, difficulty string) types.Result {
	var result types.Result

	state.SetName(&e.State.Player, name)
	if e.State.Player.Name == state.DefaultName && strings.TrimSpace(name) != state.DefaultName {
		result.Output = append(result.Output, types.Line{
			Text: fmt.Sprintf("Names must be 1 to %d printable characters. You will be known as %s.", state.MaxNameLength, state.DefaultName),
			Tone: types.ToneNotice,
		})
	}

	d, ok := state.Difficulty(e.Defs, difficulty)
	if !ok {
		result.Output = append(result.Output, types.Line{
			Text: fmt.Sprintf("Invalid choice, defaulting to %s.", d.Name),
			Tone: types.ToneNotice,
		})
	}
	e.State.Difficulty = d.Name
	e.State.Turn.RoomsToEscape = d.Rooms

	result.Output = append(result.Output,
		types.Line{
			Text: fmt.Sprintf("Player: %s with %d health created.", e.State.Player.Name, e.State.Player.Health),
			Tone: types.ToneStatus,
		},
		types.Line{
			Text: fmt.Sprintf("Difficulty: %s. Pass %d rooms to escape the dungeon.", d.Name, d.Rooms),
			Tone: types.ToneStatus,
		},
	)

	e.Log.Info("session started",
		"player", e.State.Player.Name,
		"difficulty", d.Name,
		"rooms_to_escape", d.Rooms,
		"seed", e.State.RNGSeed,
	)
	return result
}

// TakeTurn plays one turn. While movement is forced the input is ignored;
// otherwise it must name a direction or the player stumbles and the turn
// is spent with no room.
func (e *Engine) TakeTurn(input string) types.Result {
	var result types.Result
	if e.blocked(&result) {
		return result
	}

	before := e.Outcome()
	e.State.CommandLog = append(e.State.CommandLog, input)
	e.State.TurnCount++

	var pre []types.Event
	dir, ended, forced := state.ConsumeForced(&e.State.Turn)
	if forced {
		result.Output = append(result.Output, types.Line{
			Text: fmt.Sprintf("Your feet carry you %s whether you like it or not.", dir),
			Tone: types.ToneMystery,
		})
		if ended {
			pre = append(pre, types.Event{
				Type: "forced_movement_ended",
				Data: map[string]any{"direction": string(dir)},
			})
		}
	} else {
		var ok bool
		dir, ok = ParseDirection(input)
		if !ok {
			result.Output = append(result.Output, types.Line{
				Text: "You are confused and stumble around, going nowhere.",
				Tone: types.ToneNotice,
			})
			pre = append(pre, types.Event{
				Type: "stumbled",
				Data: map[string]any{"input": input},
			})
			e.Log.Debug("stumbled", "input", input, "turn", e.State.TurnCount)
			e.apply(&result, nil, pre, before)
			return result
		}
	}

	rt := rooms.Generate(e.RNG)
	room := e.State.Turn.Progress + 1
	result.Output = append(result.Output, types.Line{
		Text: fmt.Sprintf("You head %s into the %s room.", dir, humanize.Ordinal(room)),
		Tone: types.ToneStatus,
	})
	if desc := e.describe(rt); desc != "" {
		result.Output = append(result.Output, types.Line{Text: desc, Tone: rt.Tone()})
	}
	pre = append(pre, types.Event{
		Type: "room_entered",
		Data: map[string]any{"type": rt.String(), "direction": string(dir), "room": room, "forced": forced},
	})

	effs := rooms.Resolve(rt, e.RNG)
	e.apply(&result, effs, pre, before)

	e.Log.Debug("turn resolved",
		"turn", e.State.TurnCount,
		"room", rt.String(),
		"direction", dir,
		"health", e.State.Player.Health,
		"progress", e.State.Turn.Progress,
	)
	return result
}

// Pending returns the question the engine is waiting on, or nil.
func (e *Engine) Pending() *types.Prompt {
	return e.State.Pending
}

// Answer settles the pending prompt.
func (e *Engine) Answer(input string) types.Result {
	var result types.Result

	p := e.State.Pending
	if p == nil {
		result.Output = append(result.Output, types.Line{Text: "There is nothing to answer.", Tone: types.ToneNotice})
		return result
	}
	before := e.Outcome()
	e.State.Pending = nil

	var effs []types.Effect
	switch p.Kind {
	case types.PromptPotion:
		if isYes(input) {
			heal := e.RNG.Between(10, 20)
			effs = []types.Effect{
				say(fmt.Sprintf("You used a health potion and gained %d health!", heal), types.ToneHelp),
				{Type: "heal", Params: map[string]any{"amount": heal, "cap": false}},
			}
		} else {
			effs = []types.Effect{
				say("Health potion added to inventory.", types.ToneHelp),
				{Type: "give_item", Params: map[string]any{"item": state.HealthPotion}},
			}
		}

	case types.PromptItem:
		effs = e.useItem(input)

	default:
		e.Log.Warn("unknown prompt kind", "kind", p.Kind)
	}

	e.apply(&result, effs, nil, before)
	return result
}

// Menu runs one status-menu choice between turns. Queries never change
// state and never consume a turn.
func (e *Engine) Menu(choice string) types.Result {
	var result types.Result
	if e.blocked(&result) {
		return result
	}

	c := strings.ToLower(strings.TrimSpace(choice))
	if c == "" {
		return result
	}

	switch menuAliases[c] {
	case "health":
		result.Output = append(result.Output, status(fmt.Sprintf("Health: %d/%d", e.State.Player.Health, state.MaxHealth)))

	case "progress":
		result.Output = append(result.Output, status(fmt.Sprintf("Rooms passed: %d of %d.", e.State.Turn.Progress, e.State.Turn.RoomsToEscape)))

	case "inventory":
		if len(e.State.Player.Inventory) == 0 {
			result.Output = append(result.Output, status("Your inventory is empty."))
		} else {
			result.Output = append(result.Output, status("Inventory: "+state.InventoryContents(&e.State.Player)))
		}

	case "item":
		if len(e.State.Player.Inventory) == 0 {
			result.Output = append(result.Output, types.Line{Text: "You have nothing to use.", Tone: types.ToneNotice})
			return result
		}
		result.Output = append(result.Output, status("Inventory: "+state.InventoryContents(&e.State.Player)))
		e.apply(&result, []types.Effect{{
			Type:   "prompt",
			Params: map[string]any{"kind": types.PromptItem, "text": ItemPrompt},
		}}, nil, e.Outcome())

	default:
		result.Output = append(result.Output, types.Line{Text: "Invalid option.", Tone: types.ToneNotice})
	}
	return result
}

// UseItem uses an inventory item by name. "skip" does nothing.
func (e *Engine) UseItem(name string) types.Result {
	var result types.Result
	if e.blocked(&result) {
		return result
	}
	e.apply(&result, e.useItem(name), nil, e.Outcome())
	return result
}

func (e *Engine) useItem(name string) []types.Effect {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "skip") {
		return []types.Effect{say("You put your things away.", types.ToneNotice)}
	}

	i := state.FindItem(&e.State.Player, name)
	if i < 0 {
		return []types.Effect{say(fmt.Sprintf("You don't have %q.", name), types.ToneNotice)}
	}

	item := e.State.Player.Inventory[i]
	if !strings.EqualFold(item, state.HealthPotion) {
		return []types.Effect{say(fmt.Sprintf("The %s does nothing right now.", item), types.ToneNotice)}
	}

	heal := e.RNG.Between(10, 20)
	return []types.Effect{
		say(fmt.Sprintf("You drink the %s and recover %d health.", item, heal), types.ToneHelp),
		{Type: "heal", Params: map[string]any{"amount": heal, "cap": true}},
		{Type: "remove_item", Params: map[string]any{"item": item}},
	}
}

// Outcome reports whether the session is still being played. A loss takes
// precedence over a win, and nothing is decided while a prompt is open.
func (e *Engine) Outcome() types.Outcome {
	if e.State.Pending != nil {
		return types.OutcomePlaying
	}
	if !state.IsAlive(&e.State.Player) {
		return types.OutcomeLost
	}
	if state.Escaped(&e.State.Turn) {
		return types.OutcomeWon
	}
	return types.OutcomePlaying
}

// Forced returns the forced direction and the turns it has left.
func (e *Engine) Forced() (types.Direction, int, bool) {
	return state.Forced(&e.State.Turn)
}

// Snapshot is a read-only copy of the session for display.
type Snapshot struct {
	SessionID   string
	Player      types.Player
	Turn        types.TurnState
	Difficulty  string
	TurnCount   int
	Outcome     types.Outcome
	Pending     string
	RNGSeed     int64
	RNGPosition int64
}

// Snapshot returns a copy of the current state. Mutating it does not
// affect the session.
func (e *Engine) Snapshot() Snapshot {
	p := e.State.Player
	p.Inventory = append([]string{}, p.Inventory...)

	snap := Snapshot{
		SessionID:   e.State.SessionID,
		Player:      p,
		Turn:        e.State.Turn,
		Difficulty:  e.State.Difficulty,
		TurnCount:   e.State.TurnCount,
		Outcome:     e.Outcome(),
		RNGSeed:     e.State.RNGSeed,
		RNGPosition: e.State.RNGPosition,
	}
	if e.State.Pending != nil {
		snap.Pending = e.State.Pending.Kind
	}
	return snap
}

// apply runs effects, dispatches events once, and records the outcome
// transition if this call decided the game.
func (e *Engine) apply(result *types.Result, effs []types.Effect, pre []types.Event, before types.Outcome) {
	evts, output := effects.Apply(e.State, effs)
	result.Effects = append(result.Effects, effs...)
	result.Output = append(result.Output, output...)
	evts = append(pre, evts...)

	ev, decided := e.decided(before)
	if decided {
		evts = append(evts, ev)
	}
	e.dispatch(result, evts)

	// Handler effects can end the game as well; announce that once.
	if !decided {
		if ev, ok := e.decided(before); ok {
			e.dispatch(result, []types.Event{ev})
		}
	}

	if r, ok := e.RNG.(*RNG); ok {
		e.State.RNGPosition = r.Position()
	}
	result.Prompt = e.State.Pending
}

// dispatch records events and applies the effects of matching content
// handlers. Events those effects emit are not dispatched again.
func (e *Engine) dispatch(result *types.Result, evts []types.Event) {
	eventEffs := events.Dispatch(evts, e.Defs)
	result.Events = append(result.Events, evts...)

	if len(eventEffs) > 0 {
		evts2, output2 := effects.Apply(e.State, eventEffs)
		result.Effects = append(result.Effects, eventEffs...)
		result.Events = append(result.Events, evts2...)
		result.Output = append(result.Output, output2...)
	}
}

// decided returns the terminal event when the outcome has left playing
// since before.
func (e *Engine) decided(before types.Outcome) (types.Event, bool) {
	after := e.Outcome()
	if after == before || after == types.OutcomePlaying {
		return types.Event{}, false
	}
	return e.outcomeEvent(after), true
}

func (e *Engine) outcomeEvent(o types.Outcome) types.Event {
	data := map[string]any{
		"turns":    e.State.TurnCount,
		"health":   e.State.Player.Health,
		"progress": e.State.Turn.Progress,
	}
	e.Log.Info("session finished", "outcome", o, "turns", e.State.TurnCount)
	if o == types.OutcomeLost {
		return types.Event{Type: "player_defeated", Data: data}
	}
	return types.Event{Type: "player_escaped", Data: data}
}

// blocked writes a notice and returns true when play cannot continue: the
// game is over or a prompt must be answered first.
func (e *Engine) blocked(result *types.Result) bool {
	if p := e.State.Pending; p != nil {
		result.Output = append(result.Output, types.Line{Text: "Answer the question first: " + p.Text, Tone: types.ToneNotice})
		result.Prompt = p
		return true
	}
	if e.Outcome() != types.OutcomePlaying {
		result.Output = append(result.Output, types.Line{Text: "The game is over.", Tone: types.ToneNotice})
		return true
	}
	return false
}

// describe picks the flavour text for a room type. A single description is
// used without a draw.
func (e *Engine) describe(rt rooms.RoomType) string {
	room, ok := e.Defs.Rooms[rt.String()]
	if !ok || len(room.Descriptions) == 0 {
		return ""
	}
	if len(room.Descriptions) == 1 {
		return room.Descriptions[0]
	}
	return room.Descriptions[e.RNG.Between(1, len(room.Descriptions))-1]
}

func isYes(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	}
	return false
}

func say(text string, tone types.Tone) types.Effect {
	return types.Effect{Type: "say", Params: map[string]any{"text": text, "tone": string(tone)}}
}

func status(text string) types.Line {
	return types.Line{Text: text, Tone: types.ToneStatus}
}
