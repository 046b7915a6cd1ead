package engine

import (
	"strings"

	"github.com/nathoo/dungeoncrawl/types"
)

// Prompter is the blocking input/output boundary Run drives.
type Prompter interface {
	// Ask shows prompt and returns the player's answer.
	Ask(prompt string) (string, error)
	// Show presents the result of an engine call.
	Show(result types.Result)
}

// Run plays the session to completion: a turn, any prompt it opened, then
// the status menu until the player presses enter. It returns the outcome,
// or the first error from the prompter with the outcome so far.
func (e *Engine) Run(p Prompter) (types.Outcome, error) {
	for {
		if err := e.settle(p); err != nil {
			return e.Outcome(), err
		}
		if o := e.Outcome(); o != types.OutcomePlaying {
			return o, nil
		}

		var input string
		if _, _, forced := e.Forced(); !forced {
			in, err := p.Ask(DirectionPrompt)
			if err != nil {
				return e.Outcome(), err
			}
			input = in
		}
		p.Show(e.TakeTurn(input))

		if err := e.settle(p); err != nil {
			return e.Outcome(), err
		}
		if e.Outcome() != types.OutcomePlaying {
			continue
		}
		if err := e.statusMenu(p); err != nil {
			return e.Outcome(), err
		}
	}
}

// statusMenu offers side actions until the player enters nothing.
func (e *Engine) statusMenu(p Prompter) error {
	for {
		choice, err := p.Ask(MenuPrompt)
		if err != nil {
			return err
		}
		if strings.TrimSpace(choice) == "" {
			return nil
		}
		p.Show(e.Menu(choice))
		if err := e.settle(p); err != nil {
			return err
		}
	}
}

// settle asks every open prompt until none is pending.
func (e *Engine) settle(p Prompter) error {
	for e.State.Pending != nil {
		answer, err := p.Ask(e.State.Pending.Text)
		if err != nil {
			return err
		}
		p.Show(e.Answer(answer))
	}
	return nil
}
