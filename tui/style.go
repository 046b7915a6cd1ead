package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/dungeoncrawl/types"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleStatusHurt = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("196")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	stylePrompt = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117")).
			Italic(true)

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// toneStyles maps narration tones to colours.
var toneStyles = map[types.Tone]lipgloss.Style{
	types.ToneRoom:    lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	types.ToneHarm:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	types.ToneHelp:    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	types.ToneMystery: lipgloss.NewStyle().Foreground(lipgloss.Color("135")),
	types.ToneNotice:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	types.ToneStatus:  lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
	types.ToneSystem:  lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	types.ToneBanner:  lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Bold(true),
}

// lineKind identifies where an output line came from.
type lineKind int

const (
	kindNarration lineKind = iota
	kindInput
	kindPrompt
	kindTrace
)

// classifyLine separates trace output from ordinary narration.
func classifyLine(line types.Line) lineKind {
	if strings.HasPrefix(line.Text, "[trace]") {
		return kindTrace
	}
	return kindNarration
}

// renderLine applies the style for a line's kind and tone.
func renderLine(text string, kind lineKind, tone types.Tone) string {
	switch kind {
	case kindInput:
		return stylePlayerInput.Render(text)
	case kindPrompt:
		return stylePrompt.Render(text)
	case kindTrace:
		return styleTrace.Render(text)
	}
	if style, ok := toneStyles[tone]; ok {
		return style.Render(text)
	}
	return toneStyles[types.ToneRoom].Render(text)
}
