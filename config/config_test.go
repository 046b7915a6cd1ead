package config

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil, envOf(nil))
	require.NoError(t, err)

	assert.False(t, cfg.Plain)
	assert.Equal(t, int64(0), cfg.Seed)
	assert.Equal(t, "", cfg.ContentDir)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.False(t, cfg.NameSet)
}

func TestLoad_Environment(t *testing.T) {
	cfg, err := Load(nil, envOf(map[string]string{
		"DUNGEON_SEED":      "42",
		"DUNGEON_CONTENT":   "/srv/dungeon",
		"DUNGEON_LOG_LEVEL": "DEBUG",
		"DUNGEON_LOG_FILE":  "/tmp/dungeon.log",
		"DUNGEON_ENV":       "production",
		"DUNGEON_REPORT":    "/tmp/report.yaml",
		"NO_COLOR":          "1",
	}))
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "/srv/dungeon", cfg.ContentDir)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "/tmp/dungeon.log", cfg.LogFile)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "/tmp/report.yaml", cfg.ReportFile)
	assert.True(t, cfg.NoColor)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	cfg, err := Load(
		[]string{"--seed", "7", "--content", "games/mine", "--difficulty", "3", "--name", "Aria", "--trace", "--plain"},
		envOf(map[string]string{"DUNGEON_SEED": "42", "DUNGEON_CONTENT": "/srv/dungeon"}),
	)
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, "games/mine", cfg.ContentDir)
	assert.Equal(t, "3", cfg.Difficulty)
	assert.Equal(t, "Aria", cfg.Name)
	assert.True(t, cfg.NameSet)
	assert.True(t, cfg.Trace)
	assert.True(t, cfg.Plain)
}

func TestLoad_PositionalContentDir(t *testing.T) {
	cfg, err := Load([]string{"--no-color", "games/crypt"}, envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, "games/crypt", cfg.ContentDir)
	assert.True(t, cfg.NoColor)
}

func TestLoad_ScriptImpliesPlain(t *testing.T) {
	cfg, err := Load([]string{"--script", "walk.txt"}, envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, "walk.txt", cfg.Script)
	assert.True(t, cfg.Plain)
}

func TestLoad_EmptyNameStillCounts(t *testing.T) {
	cfg, err := Load([]string{"--name", ""}, envOf(nil))
	require.NoError(t, err)

	assert.True(t, cfg.NameSet)
	assert.Equal(t, "", cfg.Name)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
		want string
	}{
		{"missing value", []string{"--seed"}, nil, "--seed requires a value"},
		{"bad seed flag", []string{"--seed", "lots"}, nil, `invalid seed "lots"`},
		{"bad seed env", nil, map[string]string{"DUNGEON_SEED": "x"}, "DUNGEON_SEED"},
		{"unknown flag", []string{"--fly"}, nil, "unknown flag --fly"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args, envOf(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, parseLogLevel("info"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLogLevel("Error"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("loud"))
}

func TestUsageMentionsEveryFlag(t *testing.T) {
	for _, flag := range []string{"--version", "--plain", "--no-color", "--trace", "--script", "--seed", "--content", "--difficulty", "--name", "--report"} {
		assert.True(t, strings.Contains(Usage, flag), flag)
	}
}
