package cli

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/nathoo/dungeoncrawl/engine"
	"github.com/nathoo/dungeoncrawl/engine/state"
	"github.com/nathoo/dungeoncrawl/types"
)

// fixedDraws replays a list of draws, then keeps returning min.
type fixedDraws struct {
	vals []int
}

func (f *fixedDraws) Between(min, max int) int {
	if len(f.vals) == 0 {
		return min
	}
	v := f.vals[0]
	f.vals = f.vals[1:]
	return v
}

// testDefs returns minimal game definitions for CLI testing.
func testDefs() *state.Defs {
	rooms := map[string]types.RoomDef{}
	for _, name := range []string{"Pass", "SlightDamage", "HeavyDamage", "Lucky", "Unlucky", "Mystery"} {
		rooms[name] = types.RoomDef{Type: name, Descriptions: []string{"A " + name + " room."}}
	}
	return &state.Defs{
		Game: types.GameDef{
			Title:   "Test Dungeon",
			Author:  "Test",
			Version: "1.0",
			Intro:   "Welcome to the test.",
		},
		Difficulties: []types.DifficultyDef{
			{Key: "1", Name: "Easy", Rooms: 5},
			{Key: "2", Name: "Normal", Rooms: 10, Default: true},
		},
		Rooms: rooms,
	}
}

func newTestCLI(t *testing.T, input string, draws ...int) (*CLI, *bytes.Buffer) {
	t.Helper()
	defs := testDefs()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.New(defs, &fixedDraws{vals: draws}, log)
	var out bytes.Buffer
	c := &CLI{
		Engine: eng,
		Defs:   defs,
		In:     strings.NewReader(input),
		Out:    &out,
	}
	return c, &out
}

func TestRun_Win(t *testing.T) {
	// Five quiet rooms on Easy.
	input := "Aria\n1\n" + strings.Repeat("forward\n\n", 4) + "forward\n"
	c, out := newTestCLI(t, input, 1, 1, 1, 1, 1)

	outcome, err := c.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome != types.OutcomeWon {
		t.Fatalf("outcome = %q, want won", outcome)
	}

	output := out.String()
	for _, want := range []string{
		"Test Dungeon v1.0 by Test",
		"Welcome to the test.",
		"1. Easy (5 rooms)",
		"Player: Aria with 100 health created.",
		"You head forward into the 5th room.",
		"*** Aria escaped the dungeon in 5 turns with 100 health! ***",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestRun_Loss(t *testing.T) {
	// Four beasts at full strength on Normal.
	input := "Aria\n2\n" + strings.Repeat("left\n\n", 4)
	c, out := newTestCLI(t, input, 3, 25, 3, 25, 3, 25, 3, 25)

	outcome, err := c.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome != types.OutcomeLost {
		t.Fatalf("outcome = %q, want lost", outcome)
	}
	if !strings.Contains(out.String(), "GAME OVER: Aria fell after 4 of 10 rooms.") {
		t.Errorf("expected loss banner, got:\n%s", out.String())
	}
}

func TestRun_PresetNameAndDifficulty(t *testing.T) {
	c, out := newTestCLI(t, "")
	c.Name = "Brom"
	c.NameSet = true
	c.Difficulty = "1"

	if _, err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	output := out.String()
	if strings.Contains(output, engine.NamePrompt) {
		t.Error("name prompt should be skipped")
	}
	if strings.Contains(output, engine.DifficultyPrompt) {
		t.Error("difficulty prompt should be skipped")
	}
	if !strings.Contains(output, "Player: Brom") {
		t.Errorf("expected preset name, got:\n%s", output)
	}
}

func TestRun_EOFEndsQuietly(t *testing.T) {
	c, out := newTestCLI(t, "Aria\n")

	outcome, err := c.Run()
	if err != nil {
		t.Fatalf("EOF should not be an error, got %v", err)
	}
	if outcome != types.OutcomePlaying {
		t.Errorf("outcome = %q, want playing", outcome)
	}
	if strings.Contains(out.String(), "***") {
		t.Error("no banner expected when input runs out")
	}
}

func TestRun_Quit(t *testing.T) {
	c, out := newTestCLI(t, "Aria\n2\n/quit\n")

	if _, err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Goodbye.") {
		t.Errorf("expected goodbye, got:\n%s", out.String())
	}
}

func TestAsk_SkipsComments(t *testing.T) {
	c, _ := newTestCLI(t, "# a comment\nforward\n")

	got, err := c.Ask(engine.DirectionPrompt)
	if err != nil {
		t.Fatal(err)
	}
	if got != "forward" {
		t.Errorf("Ask = %q, want forward", got)
	}
}

func TestAsk_KeepsEmptyLines(t *testing.T) {
	c, _ := newTestCLI(t, "\n")

	got, err := c.Ask(engine.MenuPrompt)
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("Ask = %q, want empty", got)
	}
}

func TestAsk_EchoInput(t *testing.T) {
	c, out := newTestCLI(t, "left\n")
	c.EchoInput = true

	if _, err := c.Ask(engine.DirectionPrompt); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "> left\n") {
		t.Errorf("expected echoed input, got %q", out.String())
	}
}

func TestMeta_Help(t *testing.T) {
	c, out := newTestCLI(t, "/help\nright\n")

	if _, err := c.Ask(engine.DirectionPrompt); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "/trace") {
		t.Errorf("expected help text, got:\n%s", out.String())
	}
}

func TestMeta_Unknown(t *testing.T) {
	c, out := newTestCLI(t, "/dance\nright\n")

	if _, err := c.Ask(engine.DirectionPrompt); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Unknown command: /dance") {
		t.Errorf("expected unknown command notice, got:\n%s", out.String())
	}
}

func TestMeta_State(t *testing.T) {
	c, out := newTestCLI(t, "/state\nright\n")
	c.Engine.Begin("Aria", "1")

	if _, err := c.Ask(engine.DirectionPrompt); err != nil {
		t.Fatal(err)
	}
	output := out.String()
	for _, want := range []string{"game: Test Dungeon", "name: Aria", "outcome: playing"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in state dump, got:\n%s", want, output)
		}
	}
}

func TestMeta_TraceToggle(t *testing.T) {
	c, out := newTestCLI(t, "/trace\nforward\n", 1)
	c.Engine.Begin("Aria", "1")

	if _, err := c.Ask(engine.DirectionPrompt); err != nil {
		t.Fatal(err)
	}
	if !c.Trace {
		t.Fatal("expected trace on")
	}

	c.Show(c.Engine.TakeTurn("forward"))
	output := out.String()
	if !strings.Contains(output, "[trace] Effects:") || !strings.Contains(output, "room_entered") {
		t.Errorf("expected trace output, got:\n%s", output)
	}
}

func TestPaint(t *testing.T) {
	c, _ := newTestCLI(t, "")

	if got := c.paint(types.ToneHarm, "ouch"); got != "ouch" {
		t.Errorf("plain paint = %q", got)
	}

	c.Color = true
	if got := c.paint(types.Tone("unknown"), "plain"); got != "plain" {
		t.Errorf("unknown tone should pass through, got %q", got)
	}
}
