package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nathoo/dungeoncrawl/engine"
	"github.com/nathoo/dungeoncrawl/engine/report"
	"github.com/nathoo/dungeoncrawl/engine/state"
	"github.com/nathoo/dungeoncrawl/types"
)

// phase is the question the model is waiting on.
type phase int

const (
	phaseName phase = iota
	phaseDifficulty
	phaseDirection
	phasePrompt
	phaseMenu
	phaseOver
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text string
	tone types.Tone
	kind lineKind
}

// Model is the Bubble Tea model for the dungeon crawl TUI.
type Model struct {
	engine *engine.Engine
	defs   *state.Defs

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	phase    phase
	name     string
	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input   string       // echoed player input (empty for intro)
	echo    bool         // echo input even when it is empty
	lines   []types.Line // output lines
	prompts []string     // question lines shown after the output
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		engine:  eng,
		defs:    defs,
		input:   ti,
		history: NewHistory(100),
		phase:   phaseName,
	}
}

// Run starts the Bubble Tea program and returns the session outcome.
func Run(eng *engine.Engine, defs *state.Defs) (types.Outcome, error) {
	m := New(eng, defs)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return eng.Outcome(), err
	}
	return eng.Outcome(), nil
}

// Init returns the initial command that produces the intro and the first question.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		g := m.defs.Game
		title := g.Title
		if g.Version != "" {
			title += " v" + g.Version
		}
		if g.Author != "" {
			title += " by " + g.Author
		}

		lines := []types.Line{{Text: title, Tone: types.ToneBanner}, {}}
		if g.Intro != "" {
			lines = append(lines, types.Line{Text: g.Intro, Tone: types.ToneRoom}, types.Line{})
		}
		return gameOutputMsg{lines: lines, prompts: []string{engine.NamePrompt}}
	}
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter submits the input line to whatever the current phase is
// waiting on. Empty input is meaningful: it leaves the status menu and
// keeps walking while movement is forced.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	m.history.Push(input)
	m.history.ResetCursor()

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.phase {
	case phaseName:
		m.name = input
		m.phase = phaseDifficulty
		m = m.appendOutput(gameOutputMsg{input: input, echo: true, prompts: m.prompts()})

	case phaseDifficulty:
		m = m.step(input, m.engine.Begin(m.name, input), phaseDirection)

	case phaseDirection:
		m = m.step(input, m.engine.TakeTurn(input), phaseMenu)

	case phasePrompt:
		m = m.step(input, m.engine.Answer(input), phaseMenu)

	case phaseMenu:
		if input == "" {
			m.phase = phaseDirection
			m = m.appendOutput(gameOutputMsg{prompts: m.prompts()})
			return m, nil
		}
		m = m.step(input, m.engine.Menu(input), phaseMenu)

	case phaseOver:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// step shows a result and moves to the next phase. An open prompt or a
// finished session overrides next.
func (m Model) step(input string, result types.Result, next phase) Model {
	lines := result.Output
	if m.trace {
		lines = append(lines, m.formatTrace(result)...)
	}

	switch {
	case m.engine.Pending() != nil:
		m.phase = phasePrompt
	case m.engine.Outcome() != types.OutcomePlaying:
		m.phase = phaseOver
		lines = append(lines, m.banner()...)
	default:
		m.phase = next
	}

	return m.appendOutput(gameOutputMsg{input: input, echo: true, lines: lines, prompts: m.prompts()})
}

// prompts returns the question lines for the current phase.
func (m Model) prompts() []string {
	switch m.phase {
	case phaseName:
		return []string{engine.NamePrompt}
	case phaseDifficulty:
		var out []string
		for _, d := range m.defs.Difficulties {
			out = append(out, fmt.Sprintf("  %s. %s (%d rooms)", d.Key, d.Name, d.Rooms))
		}
		return append(out, engine.DifficultyPrompt)
	case phaseDirection:
		if dir, _, forced := m.engine.Forced(); forced {
			return []string{fmt.Sprintf("Your boots pull you %s. Press enter to keep walking.", dir)}
		}
		return []string{engine.DirectionPrompt}
	case phasePrompt:
		if p := m.engine.Pending(); p != nil {
			return []string{p.Text}
		}
	case phaseMenu:
		return []string{engine.MenuPrompt}
	case phaseOver:
		return []string{"Press enter to leave the dungeon."}
	}
	return nil
}

func (m Model) banner() []types.Line {
	snap := m.engine.Snapshot()
	var text string
	switch snap.Outcome {
	case types.OutcomeWon:
		text = fmt.Sprintf("*** %s escaped the dungeon in %d turns with %d health! ***", snap.Player.Name, snap.TurnCount, snap.Player.Health)
	case types.OutcomeLost:
		text = fmt.Sprintf("*** GAME OVER: %s fell after %d of %d rooms. ***", snap.Player.Name, snap.Turn.Progress, snap.Turn.RoomsToEscape)
	default:
		return nil
	}
	return []types.Line{{}, {Text: text, Tone: types.ToneBanner}}
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" || msg.echo {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, kind: kindInput})
	}

	for _, line := range msg.lines {
		m.rawLines = append(m.rawLines, rawLine{text: line.Text, tone: line.Tone, kind: classifyLine(line)})
	}
	for _, p := range msg.prompts {
		m.rawLines = append(m.rawLines, rawLine{text: p, kind: kindPrompt})
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	styled := make([]string, 0, len(m.rawLines))
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}
		styled = append(styled, renderLine(wordwrap.String(rl.text, width), rl.kind, rl.tone))
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]types.Line, bool) {
	cmd := strings.ToLower(strings.Fields(input)[0])

	switch cmd {
	case "/quit", "/exit":
		return systemLines("Goodbye."), true

	case "/help":
		return systemLines(m.cmdHelp()...), false

	case "/state":
		return systemLines(m.cmdState()...), false

	case "/copy":
		return systemLines(m.cmdCopy()), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return systemLines("Trace output enabled."), false
		}
		return systemLines("Trace output disabled."), false

	default:
		return systemLines(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)), false
	}
}

func systemLines(texts ...string) []types.Line {
	lines := make([]types.Line, len(texts))
	for i, t := range texts {
		lines[i] = types.Line{Text: t, Tone: types.ToneSystem}
	}
	return lines
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /quit         Exit game",
		"  /help         Show this help",
		"  /state        Debug: dump current state",
		"  /copy         Copy the state dump to the clipboard",
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
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for input history",
	}
}

func (m *Model) cmdState() []string {
	data, err := report.Marshal(report.New(m.engine.State, m.defs, m.engine.Outcome()))
	if err != nil {
		return []string{fmt.Sprintf("State dump failed: %v", err)}
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func (m *Model) cmdCopy() string {
	data, err := report.Marshal(report.New(m.engine.State, m.defs, m.engine.Outcome()))
	if err != nil {
		return fmt.Sprintf("Copy failed: %v", err)
	}
	if err := copyToClipboard(string(data)); err != nil {
		return fmt.Sprintf("Copy failed: %v", err)
	}
	return "Session state copied to the clipboard."
}

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

func (m *Model) formatTrace(result types.Result) []types.Line {
	var texts []string
	if len(result.Effects) > 0 {
		texts = append(texts, fmt.Sprintf("[trace] Effects: %d", len(result.Effects)))
		for _, e := range result.Effects {
			texts = append(texts, fmt.Sprintf("[trace]   %s %v", e.Type, e.Params))
		}
	}
	if len(result.Events) > 0 {
		texts = append(texts, fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			texts = append(texts, fmt.Sprintf("[trace]   %s", e.Type))
		}
	}
	return systemLines(texts...)
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
