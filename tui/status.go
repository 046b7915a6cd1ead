package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/dungeoncrawl/engine/state"
)

var titleCaser = cases.Title(language.English)

// directionLabel title-cases a direction for display: "left" -> "Left".
func directionLabel(dir string) string {
	return titleCaser.String(dir)
}

// renderStatusBar produces a full-width inverted status line showing the
// player, health, progress, forced movement, inventory, and turn count.
func (m Model) renderStatusBar() string {
	snap := m.engine.Snapshot()

	name := snap.Player.Name
	if m.phase == phaseName || m.phase == phaseDifficulty {
		name = m.defs.Game.Title
	}

	health := fmt.Sprintf("HP %d/%d", snap.Player.Health, state.MaxHealth)
	left := fmt.Sprintf(" %s | %s | Rooms %d/%d", name, health, snap.Turn.Progress, snap.Turn.RoomsToEscape)
	if snap.Turn.ForcedTurns > 0 {
		left += fmt.Sprintf(" | Forced: %s (%d)", directionLabel(string(snap.Turn.ForcedDirection)), snap.Turn.ForcedTurns)
	}

	right := fmt.Sprintf("T:%d ", snap.TurnCount)

	// Show inventory items if they fit, otherwise just count.
	if n := len(snap.Player.Inventory); n > 0 {
		candidate := fmt.Sprintf("Inv: %s | T:%d ", strings.Join(snap.Player.Inventory, ", "), snap.TurnCount)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = fmt.Sprintf("Inv: %d | T:%d ", n, snap.TurnCount)
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	style := styleStatusBar
	if snap.Player.Health <= state.MaxHealth/4 && m.phase != phaseName && m.phase != phaseDifficulty {
		style = styleStatusHurt
	}
	return style.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
