// Package types defines the shared data structures for the dungeon crawl engine.
// This package contains only type definitions, no logic or methods.
package types

// Direction is a movement choice for a turn.
type Direction string

const (
	DirectionNone    Direction = ""
	DirectionForward Direction = "forward"
	DirectionLeft    Direction = "left"
	DirectionRight   Direction = "right"
)

// Tone tells a front end how to present a line of narration.
type Tone string

const (
	ToneRoom    Tone = "room"
	ToneHarm    Tone = "harm"
	ToneHelp    Tone = "help"
	ToneMystery Tone = "mystery"
	ToneNotice  Tone = "notice"
	ToneStatus  Tone = "status"
	ToneSystem  Tone = "system"
	ToneBanner  Tone = "banner"
)

// Outcome is the terminal condition of a session.
type Outcome string

const (
	OutcomePlaying Outcome = "playing"
	OutcomeWon     Outcome = "won"
	OutcomeLost    Outcome = "lost"
)

// Prompt kinds.
const (
	PromptPotion = "potion"
	PromptItem   = "item"
)

// Line is a single line of narration.
type Line struct {
	Text string
	Tone Tone
}

// Effect is a single atomic state mutation instruction.
type Effect struct {
	Type   string
	Params map[string]any
}

// Event is emitted after effects are applied.
type Event struct {
	Type string
	Data map[string]any
}

// Prompt is a question the engine is waiting on before play continues.
type Prompt struct {
	Kind string
	Text string
}

// Result is the output of a single engine call.
type Result struct {
	Effects []Effect
	Events  []Event
	Output  []Line
	Prompt  *Prompt // non-nil while an answer is pending
}

// Player holds the player's runtime state.
type Player struct {
	Name      string   `yaml:"name"`
	Health    int      `yaml:"health"`
	Inventory []string `yaml:"inventory"`
}

// TurnState holds the progress and forced-movement counters of a session.
type TurnState struct {
	Progress        int       `yaml:"progress"`
	RoomsToEscape   int       `yaml:"rooms_to_escape"`
	ForcedTurns     int       `yaml:"forced_turns"`
	ForcedDirection Direction `yaml:"forced_direction,omitempty"`
}

// State is the complete mutable session state.
type State struct {
	SessionID   string
	Player      Player
	Turn        TurnState
	Difficulty  string
	Pending     *Prompt
	TurnCount   int
	RNGSeed     int64
	RNGPosition int64
	CommandLog  []string
}

// GameDef holds game metadata from content.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Intro   string
}

// DifficultyDef is one entry of the difficulty menu.
type DifficultyDef struct {
	Key     string
	Name    string
	Rooms   int
	Default bool
}

// RoomDef holds the flavour text for one room type.
type RoomDef struct {
	Type         string
	Descriptions []string
}

// EventHandler produces extra effects when an event of EventType is emitted
// and every Match entry equals the event's data.
type EventHandler struct {
	EventType string
	Match     map[string]any
	Effects   []Effect
}
