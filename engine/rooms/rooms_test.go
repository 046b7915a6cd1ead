package rooms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/dungeoncrawl/types"
)

// seqSource returns a fixed sequence of draws and checks each one against
// the requested range.
type seqSource struct {
	t    *testing.T
	vals []int
	pos  int
}

func newSeq(t *testing.T, vals ...int) *seqSource {
	return &seqSource{t: t, vals: vals}
}

func (s *seqSource) Between(min, max int) int {
	s.t.Helper()
	require.Less(s.t, s.pos, len(s.vals), "unexpected draw #%d in [%d,%d]", s.pos+1, min, max)
	v := s.vals[s.pos]
	s.pos++
	require.True(s.t, v >= min && v <= max, "draw %d outside [%d,%d]", v, min, max)
	return v
}

func (s *seqSource) done() {
	s.t.Helper()
	assert.Equal(s.t, len(s.vals), s.pos, "not every scripted draw was used")
}

// effectTypes returns the types of the non-say effects, in order.
func effectTypes(effs []types.Effect) []string {
	var out []string
	for _, e := range effs {
		if e.Type != "say" {
			out = append(out, e.Type)
		}
	}
	return out
}

func find(effs []types.Effect, typ string) []types.Effect {
	var out []types.Effect
	for _, e := range effs {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func sumParam(effs []types.Effect, typ, param string) int {
	total := 0
	for _, e := range find(effs, typ) {
		total += e.Params[param].(int)
	}
	return total
}

func TestGenerate_EveryDrawMapsToOneType(t *testing.T) {
	seen := map[RoomType]bool{}
	for draw := 1; draw <= 6; draw++ {
		src := newSeq(t, draw)
		rt := Generate(src)
		src.done()
		assert.Equal(t, All[draw-1], rt)
		assert.False(t, seen[rt], "draw %d duplicated %v", draw, rt)
		seen[rt] = true
	}
	assert.Len(t, seen, len(All))
}

func TestRoomType_StringRoundTrip(t *testing.T) {
	for _, rt := range All {
		got, ok := ParseRoomType(rt.String())
		require.True(t, ok, rt.String())
		assert.Equal(t, rt, got)
	}

	got, ok := ParseRoomType("mystery")
	assert.True(t, ok)
	assert.Equal(t, Mystery, got)

	_, ok = ParseRoomType("Treasure")
	assert.False(t, ok)
	assert.Equal(t, "RoomType(9)", RoomType(9).String())
}

func TestResolve_Pass(t *testing.T) {
	src := newSeq(t)
	effs := Resolve(Pass, src)
	src.done()

	assert.Equal(t, []string{"advance"}, effectTypes(effs))
	assert.Equal(t, 1, sumParam(effs, "advance", "rooms"))
}

func TestResolve_SlightDamage(t *testing.T) {
	src := newSeq(t, 12)
	effs := Resolve(SlightDamage, src)
	src.done()

	assert.Equal(t, []string{"damage", "advance"}, effectTypes(effs))
	assert.Equal(t, 12, sumParam(effs, "damage", "amount"))
	assert.Equal(t, 1, sumParam(effs, "advance", "rooms"))
}

func TestResolve_HeavyDamage(t *testing.T) {
	src := newSeq(t, 25)
	effs := Resolve(HeavyDamage, src)
	src.done()

	assert.Equal(t, 25, sumParam(effs, "damage", "amount"))
	assert.Equal(t, 1, sumParam(effs, "advance", "rooms"))
}

func TestResolve_Lucky(t *testing.T) {
	tests := []struct {
		name        string
		draws       []int
		wantTypes   []string
		wantAdvance int
	}{
		{"potion", []int{FoundPotion}, []string{"prompt", "advance"}, 1},
		{"full heal", []int{FoundFullHeal}, []string{"set_health", "advance"}, 1},
		{"shortcut", []int{FoundShortcut}, []string{"advance", "advance"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newSeq(t, tt.draws...)
			effs := Resolve(Lucky, src)
			src.done()

			assert.Equal(t, tt.wantTypes, effectTypes(effs))
			assert.Equal(t, tt.wantAdvance, sumParam(effs, "advance", "rooms"))
		})
	}
}

func TestResolve_LuckyPotionPromptKind(t *testing.T) {
	effs := Resolve(Lucky, newSeq(t, FoundPotion))
	prompts := find(effs, "prompt")
	require.Len(t, prompts, 1)
	assert.Equal(t, types.PromptPotion, prompts[0].Params["kind"])
}

func TestResolve_LuckyFullHealSetsMax(t *testing.T) {
	effs := Resolve(Lucky, newSeq(t, FoundFullHeal))
	sets := find(effs, "set_health")
	require.Len(t, sets, 1)
	assert.Equal(t, 100, sets[0].Params["value"])
}

func TestResolve_UnluckyCursedBoots(t *testing.T) {
	src := newSeq(t, CursedBoots, 2)
	effs := Resolve(Unlucky, src)
	src.done()

	assert.Equal(t, []string{"force_direction", "advance"}, effectTypes(effs))
	forced := find(effs, "force_direction")[0]
	assert.Equal(t, "left", forced.Params["direction"])
	assert.Equal(t, CursedBootsTurns, forced.Params["turns"])
	assert.Equal(t, 1, sumParam(effs, "advance", "rooms"))
}

func TestResolve_UnluckyTrapdoor(t *testing.T) {
	src := newSeq(t, Trapdoor, 3, 4)
	effs := Resolve(Unlucky, src)
	src.done()

	assert.Equal(t, []string{"setback", "damage"}, effectTypes(effs))
	assert.Equal(t, 3, sumParam(effs, "setback", "rooms"))
	assert.Equal(t, 4, sumParam(effs, "damage", "amount"))
	assert.Empty(t, find(effs, "advance"), "trapdoor must not advance progress")
}

func TestResolve_UnluckyPoison(t *testing.T) {
	src := newSeq(t, Poison)
	effs := Resolve(Unlucky, src)
	src.done()

	assert.Equal(t, PoisonDamage, sumParam(effs, "damage", "amount"))
	assert.Equal(t, 1, sumParam(effs, "advance", "rooms"))
}

func TestResolve_MysterySafeLoom(t *testing.T) {
	src := newSeq(t, SafeLoom, 3)
	effs := Resolve(Mystery, src)
	src.done()

	assert.Equal(t, []string{"advance"}, effectTypes(effs))
	assert.Equal(t, 3, sumParam(effs, "advance", "rooms"))
}

func TestResolve_MysteryMonsterHorn(t *testing.T) {
	src := newSeq(t, MonsterHorn, 30)
	effs := Resolve(Mystery, src)
	src.done()

	assert.Equal(t, 30, sumParam(effs, "damage", "amount"))
	assert.Equal(t, 1, sumParam(effs, "advance", "rooms"))
}

func TestResolve_MysteryPotion(t *testing.T) {
	t.Run("heal is capped", func(t *testing.T) {
		src := newSeq(t, MysteryPotion, PotionHeal, 9)
		effs := Resolve(Mystery, src)
		src.done()

		heals := find(effs, "heal")
		require.Len(t, heals, 1)
		assert.Equal(t, 9, heals[0].Params["amount"])
		assert.Equal(t, true, heals[0].Params["cap"])
		assert.Equal(t, 1, sumParam(effs, "advance", "rooms"))
	})

	t.Run("harm", func(t *testing.T) {
		src := newSeq(t, MysteryPotion, PotionHarm, 15)
		effs := Resolve(Mystery, src)
		src.done()

		assert.Equal(t, 15, sumParam(effs, "damage", "amount"))
		assert.Equal(t, 1, sumParam(effs, "advance", "rooms"))
	})

	t.Run("hypnosis", func(t *testing.T) {
		src := newSeq(t, MysteryPotion, PotionHypnosis, 2, 3)
		effs := Resolve(Mystery, src)
		src.done()

		forced := find(effs, "force_direction")
		require.Len(t, forced, 1)
		assert.Equal(t, "right", forced[0].Params["direction"])
		assert.Equal(t, 2, forced[0].Params["turns"])
		assert.Equal(t, 1, sumParam(effs, "advance", "rooms"))
	})
}

func TestResolve_NarrationHasTone(t *testing.T) {
	for _, rt := range All {
		// Draw 1 everywhere keeps every branch inside its range.
		effs := Resolve(rt, constSource(1))
		for _, e := range find(effs, "say") {
			assert.NotEmpty(t, e.Params["text"], rt.String())
			assert.NotEmpty(t, e.Params["tone"], rt.String())
		}
	}
}

func TestRoomType_Tone(t *testing.T) {
	assert.Equal(t, types.ToneRoom, Pass.Tone())
	assert.Equal(t, types.ToneHarm, HeavyDamage.Tone())
	assert.Equal(t, types.ToneHelp, Lucky.Tone())
	assert.Equal(t, types.ToneMystery, Mystery.Tone())
}

// constSource returns min+offset clamped to max.
type constSource int

func (c constSource) Between(min, max int) int {
	v := min + int(c) - 1
	if v > max {
		return max
	}
	return v
}
