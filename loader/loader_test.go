package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathoo/dungeoncrawl/engine/rooms"
)

const minimalContent = `
Game { title = "Minimal Dungeon" }

Difficulty "1" { name = "Short", rooms = 3, default = true }

Room "Pass"         { descriptions = { "Quiet." } }
Room "SlightDamage" { descriptions = { "Darts." } }
Room "HeavyDamage"  { descriptions = { "A beast." } }
Room "Lucky"        { descriptions = { "Sunlight." } }
Room "Unlucky"      { descriptions = { "Whispers." } }
Room "Mystery"      { descriptions = { "Symbols." } }
`

func writeContent(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadDefault(t *testing.T) {
	defs, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}

	if defs.Game.Title == "" {
		t.Error("expected a title")
	}
	if len(defs.Difficulties) != 3 {
		t.Errorf("expected 3 difficulties, got %d", len(defs.Difficulties))
	}
	wantRooms := map[string]int{"1": 5, "2": 10, "3": 20}
	for _, d := range defs.Difficulties {
		if wantRooms[d.Key] != d.Rooms {
			t.Errorf("difficulty %q has %d rooms, want %d", d.Key, d.Rooms, wantRooms[d.Key])
		}
		if d.Default != (d.Key == "2") {
			t.Errorf("difficulty %q default = %v", d.Key, d.Default)
		}
	}
	for _, rt := range rooms.All {
		if n := len(defs.Rooms[rt.String()].Descriptions); n != 3 {
			t.Errorf("room %s has %d descriptions, want 3", rt, n)
		}
	}
	if len(defs.Handlers) == 0 {
		t.Error("expected default event handlers")
	}
}

func TestLoad_Directory(t *testing.T) {
	dir := writeContent(t, map[string]string{
		"game.lua":   minimalContent,
		"events.lua": `On("stumbled", { say = "You trip over your own feet.", tone = "notice" })`,
		"notes.txt":  "not lua",
	})

	defs, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if defs.Game.Title != "Minimal Dungeon" {
		t.Errorf("Title = %q", defs.Game.Title)
	}
	if defs.Rooms["Lucky"].Descriptions[0] != "Sunlight." {
		t.Errorf("Lucky descriptions = %v", defs.Rooms["Lucky"].Descriptions)
	}
	if len(defs.Handlers) != 1 || defs.Handlers[0].EventType != "stumbled" {
		t.Errorf("Handlers = %+v", defs.Handlers)
	}
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped not-exist error, got %v", err)
	}
}

func TestLoad_NoLuaFiles(t *testing.T) {
	dir := writeContent(t, map[string]string{"readme.md": "# hi"})

	_, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), "no .lua files") {
		t.Fatalf("expected no .lua files error, got %v", err)
	}
}

func TestLoad_LuaSyntaxError(t *testing.T) {
	dir := writeContent(t, map[string]string{"game.lua": `Game { title = `})

	_, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), "game.lua") {
		t.Fatalf("expected error naming the file, got %v", err)
	}
}

func TestLoadString_ValidationError(t *testing.T) {
	_, err := LoadString("broken.lua", `Game { title = "Broken" }`)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	assertContains(t, ve.Errors, "at least one Difficulty")
	assertContains(t, ve.Errors, `"Pass" needs at least one description`)
}

func TestLoadString_DuplicateRoom(t *testing.T) {
	_, err := LoadString("dup.lua", minimalContent+`Room "pass" { descriptions = { "Again." } }`)
	if err == nil || !strings.Contains(err.Error(), "duplicate room type") {
		t.Fatalf("expected duplicate room error, got %v", err)
	}
}

func TestLoadString_SandboxBlocksFiles(t *testing.T) {
	_, err := LoadString("escape.lua", `dofile("/etc/passwd")`)
	if err == nil {
		t.Fatal("expected sandboxed dofile to fail")
	}
}
