// Package cli provides the plain console front end: line-based input,
// tone-coloured output, and meta-command dispatch.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gookit/color"

	"github.com/nathoo/dungeoncrawl/engine"
	"github.com/nathoo/dungeoncrawl/engine/report"
	"github.com/nathoo/dungeoncrawl/engine/state"
	"github.com/nathoo/dungeoncrawl/types"
)

// ErrQuit is returned by Ask when the player types /quit.
var ErrQuit = errors.New("player quit")

// Tone styles, after the console colours of the original game.
var toneStyles = map[types.Tone]color.Style{
	types.ToneRoom:    {color.FgWhite},
	types.ToneHarm:    {color.FgRed},
	types.ToneHelp:    {color.FgGreen},
	types.ToneMystery: {color.FgMagenta},
	types.ToneNotice:  {color.FgYellow},
	types.ToneStatus:  {color.FgCyan},
	types.ToneSystem:  {color.FgGray},
	types.ToneBanner:  {color.FgWhite, color.OpBold},
}

// CLI handles terminal interaction with the player. It implements
// engine.Prompter.
type CLI struct {
	Engine    *engine.Engine
	Defs      *state.Defs
	In        io.Reader
	Out       io.Writer
	Trace     bool
	Color     bool
	EchoInput bool // echo each input line after the prompt (for script playback)

	// Preset answers skip the matching startup prompt.
	Name       string
	NameSet    bool
	Difficulty string

	scanner *bufio.Scanner
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs) *CLI {
	return &CLI{
		Engine: eng,
		Defs:   defs,
		In:     os.Stdin,
		Out:    os.Stdout,
		Color:  true,
	}
}

// Run shows the intro, asks for a name and a difficulty, plays the session
// to the end, and prints the final banner. Quitting or running out of
// input ends the session without error.
func (c *CLI) Run() (types.Outcome, error) {
	c.printLine(c.paint(types.ToneBanner, c.title()))
	if c.Defs.Game.Intro != "" {
		c.printLine(c.paint(types.ToneRoom, c.Defs.Game.Intro))
	}
	c.printLine("")

	outcome, err := c.play()
	switch {
	case errors.Is(err, ErrQuit):
		c.printSystem("Goodbye.")
		return outcome, nil
	case errors.Is(err, io.EOF):
		return outcome, nil
	case err != nil:
		return outcome, err
	}

	c.printBanner(outcome)
	return outcome, nil
}

func (c *CLI) play() (types.Outcome, error) {
	name := c.Name
	if !c.NameSet {
		var err error
		if name, err = c.Ask(engine.NamePrompt); err != nil {
			return types.OutcomePlaying, err
		}
	}

	difficulty := c.Difficulty
	if difficulty == "" {
		for _, d := range c.Defs.Difficulties {
			c.printLine(c.paint(types.ToneStatus, fmt.Sprintf("  %s. %s (%d rooms)", d.Key, d.Name, d.Rooms)))
		}
		var err error
		if difficulty, err = c.Ask(engine.DifficultyPrompt); err != nil {
			return types.OutcomePlaying, err
		}
	}

	c.Show(c.Engine.Begin(name, difficulty))
	return c.Engine.Run(c)
}

// Ask prints prompt and reads one line. Comment lines starting with '#'
// are skipped and meta-commands are handled without returning.
func (c *CLI) Ask(prompt string) (string, error) {
	if c.scanner == nil {
		c.scanner = bufio.NewScanner(c.In)
	}

	for {
		c.printLine(prompt)
		c.print("> ")
		if !c.scanner.Scan() {
			if err := c.scanner.Err(); err != nil {
				return "", fmt.Errorf("reading input: %w", err)
			}
			return "", io.EOF
		}
		input := strings.TrimSpace(c.scanner.Text())

		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return "", ErrQuit
			}
			continue
		}

		return input, nil
	}
}

// Show prints the narration of a result, plus the trace when enabled.
func (c *CLI) Show(result types.Result) {
	for _, line := range result.Output {
		c.printLine(c.paint(line.Tone, line.Text))
	}
	if c.Trace {
		c.printTrace(result)
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	cmd := strings.ToLower(strings.Fields(input)[0])

	switch cmd {
	case "/quit", "/exit":
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit         Exit game",
		"  /help         Show this help",
		"  /state        Debug: dump current state",
		"  /trace        Toggle debug trace output",
		"",
		"Each turn:",
		"  forward, left, right   Choose a door",
		"",
		"Between turns:",
		"  health (h)      Show your health",
		"  progress (p)    Show rooms passed",
		"  inventory (i)   List what you carry",
		"  item (u)        Use an item, or type skip",
		"  <enter>         Carry on",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	data, err := report.Marshal(report.New(c.Engine.State, c.Defs, c.Engine.Outcome()))
	if err != nil {
		c.printSystem(fmt.Sprintf("State dump failed: %v", err))
		return
	}
	c.print(string(data))
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Effects) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Effects: %d", len(result.Effects)))
		for _, e := range result.Effects {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Params))
		}
	}
	if len(result.Events) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
}

func (c *CLI) printBanner(outcome types.Outcome) {
	s := c.Engine.State
	var text string
	switch outcome {
	case types.OutcomeWon:
		text = fmt.Sprintf("*** %s escaped the dungeon in %d turns with %d health! ***", s.Player.Name, s.TurnCount, s.Player.Health)
	case types.OutcomeLost:
		text = fmt.Sprintf("*** GAME OVER: %s fell after %d of %d rooms. ***", s.Player.Name, s.Turn.Progress, s.Turn.RoomsToEscape)
	default:
		return
	}
	c.printLine("")
	c.printLine(c.paint(types.ToneBanner, text))
}

func (c *CLI) title() string {
	g := c.Defs.Game
	t := g.Title
	if g.Version != "" {
		t += " v" + g.Version
	}
	if g.Author != "" {
		t += " by " + g.Author
	}
	return t
}

// paint applies the tone's colour when colour output is on.
func (c *CLI) paint(tone types.Tone, text string) string {
	if !c.Color {
		return text
	}
	style, ok := toneStyles[tone]
	if !ok {
		return text
	}
	return style.Sprint(text)
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
