// Package report renders a session as a YAML document for debugging and
// for the end-of-game summary file. Reports are write-only.
package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/dungeoncrawl/engine/state"
	"github.com/nathoo/dungeoncrawl/types"
)

// Report is the serialized view of a session.
type Report struct {
	Game        string          `yaml:"game"`
	Version     string          `yaml:"version,omitempty"`
	SessionID   string          `yaml:"session_id"`
	Difficulty  string          `yaml:"difficulty"`
	Outcome     types.Outcome   `yaml:"outcome"`
	Turns       int             `yaml:"turns"`
	Player      types.Player    `yaml:"player"`
	Progress    types.TurnState `yaml:"progress"`
	Pending     string          `yaml:"pending,omitempty"`
	RNGSeed     int64           `yaml:"rng_seed"`
	RNGPosition int64           `yaml:"rng_position"`
	CommandLog  []string        `yaml:"command_log"`
}

// New builds a report from the session state.
func New(s *types.State, defs *state.Defs, outcome types.Outcome) Report {
	r := Report{
		SessionID:   s.SessionID,
		Difficulty:  s.Difficulty,
		Outcome:     outcome,
		Turns:       s.TurnCount,
		Player:      s.Player,
		Progress:    s.Turn,
		RNGSeed:     s.RNGSeed,
		RNGPosition: s.RNGPosition,
		CommandLog:  s.CommandLog,
	}
	if defs != nil {
		r.Game = defs.Game.Title
		r.Version = defs.Game.Version
	}
	if s.Pending != nil {
		r.Pending = s.Pending.Kind
	}
	if r.Player.Inventory == nil {
		r.Player.Inventory = []string{}
	}
	if r.CommandLog == nil {
		r.CommandLog = []string{}
	}
	return r
}

// Marshal encodes a report as YAML.
func Marshal(r Report) ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return data, nil
}

// Write encodes a report and writes it to path.
func Write(path string, r Report) error {
	data, err := Marshal(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
