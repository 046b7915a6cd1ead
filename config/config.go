// Package config reads command-line flags and DUNGEON_* environment
// variables into a Config. Flags override the environment.
package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Usage is printed for --help and on argument errors.
const Usage = `Usage: dungeoncrawl [flags] [content_directory]

Flags:
  --version            print version and exit
  --plain              use the plain console instead of the full-screen UI
  --no-color           disable colours in the plain console
  --trace              show effects and events after every action
  --script FILE        read input from FILE (implies --plain)
  --seed N             seed the dice (0 seeds from the clock)
  --content DIR        load dungeon content from DIR instead of the built-in one
  --difficulty KEY     skip the difficulty menu
  --name NAME          skip the name prompt
  --report FILE        write a YAML session report to FILE when the game ends

Environment:
  DUNGEON_SEED, DUNGEON_CONTENT, DUNGEON_REPORT,
  DUNGEON_LOG_LEVEL (debug|info|warn|error), DUNGEON_LOG_FILE,
  DUNGEON_ENV (production selects JSON logs), NO_COLOR`

// Config holds everything main needs to start a session.
type Config struct {
	ShowVersion bool
	ShowHelp    bool
	Plain       bool
	NoColor     bool
	Trace       bool
	Script      string
	Seed        int64
	ContentDir  string
	Difficulty  string
	Name        string
	NameSet     bool
	ReportFile  string

	Environment string
	LogLevel    slog.Level
	LogFile     string
}

// Load builds a Config from args (without the program name) and getenv,
// usually os.Args[1:] and os.Getenv.
func Load(args []string, getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		ContentDir:  env("DUNGEON_CONTENT", ""),
		ReportFile:  env("DUNGEON_REPORT", ""),
		Environment: env("DUNGEON_ENV", "development"),
		LogLevel:    parseLogLevel(env("DUNGEON_LOG_LEVEL", "warn")),
		LogFile:     env("DUNGEON_LOG_FILE", ""),
		NoColor:     getenv("NO_COLOR") != "",
	}

	if s := getenv("DUNGEON_SEED"); s != "" {
		seed, err := parseSeed(s)
		if err != nil {
			return nil, fmt.Errorf("DUNGEON_SEED: %w", err)
		}
		cfg.Seed = seed
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		value := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires a value", arg)
			}
			i++
			return args[i], nil
		}

		var err error
		switch arg {
		case "--version":
			cfg.ShowVersion = true
		case "--help", "-h":
			cfg.ShowHelp = true
		case "--plain":
			cfg.Plain = true
		case "--no-color":
			cfg.NoColor = true
		case "--trace":
			cfg.Trace = true
		case "--script":
			cfg.Script, err = value()
			cfg.Plain = true
		case "--seed":
			var s string
			if s, err = value(); err == nil {
				cfg.Seed, err = parseSeed(s)
			}
		case "--content":
			cfg.ContentDir, err = value()
		case "--difficulty":
			cfg.Difficulty, err = value()
		case "--name":
			cfg.Name, err = value()
			cfg.NameSet = err == nil
		case "--report":
			cfg.ReportFile, err = value()
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown flag %s", arg)
			}
			cfg.ContentDir = arg
		}
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func parseSeed(s string) (int64, error) {
	seed, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q: %w", s, err)
	}
	return seed, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
