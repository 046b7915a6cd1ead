// Dungeoncrawl is a turn-based dungeon escape game for the terminal.
// Usage: dungeoncrawl [flags] [content_directory]
package main

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/nathoo/dungeoncrawl/cli"
	"github.com/nathoo/dungeoncrawl/config"
	"github.com/nathoo/dungeoncrawl/engine"
	"github.com/nathoo/dungeoncrawl/engine/report"
	"github.com/nathoo/dungeoncrawl/engine/state"
	"github.com/nathoo/dungeoncrawl/loader"
	"github.com/nathoo/dungeoncrawl/logger"
	"github.com/nathoo/dungeoncrawl/tui"
	"github.com/nathoo/dungeoncrawl/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\n%s\n", err, config.Usage)
		return 2
	}
	if cfg.ShowVersion {
		fmt.Printf("dungeoncrawl %s (commit %s, built %s)\n", version, commit, date)
		return 0
	}
	if cfg.ShowHelp {
		fmt.Println(config.Usage)
		return 0
	}

	log, closeLog, err := logger.Setup(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	defs, err := loadContent(cfg.ContentDir)
	if err != nil {
		logger.WithError(log, err).Error("loading content failed")
		fmt.Fprintf(os.Stderr, "Error loading dungeon: %v\n", err)
		return 1
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = engine.NewSeed()
	}
	eng := engine.New(defs, engine.NewRNG(seed), log)

	outcome, err := play(cfg, eng, defs)
	if err != nil {
		logger.WithError(log, err).Error("session failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if cfg.ReportFile != "" {
		if err := report.Write(cfg.ReportFile, report.New(eng.State, defs, outcome)); err != nil {
			logger.WithError(log, err).Error("writing report failed")
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		log.Info("report written", slog.String("path", cfg.ReportFile))
	}
	return 0
}

func loadContent(dir string) (*state.Defs, error) {
	if dir == "" {
		return loader.LoadDefault()
	}
	return loader.Load(dir)
}

// play picks the front end: the full-screen UI on a terminal, otherwise
// the plain console. A script always plays in the console.
func play(cfg *config.Config, eng *engine.Engine, defs *state.Defs) (types.Outcome, error) {
	if !cfg.Plain && term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd())) {
		return tui.Run(eng, defs)
	}

	c := cli.New(eng, defs)
	c.Trace = cfg.Trace
	c.Color = !cfg.NoColor && term.IsTerminal(int(os.Stdout.Fd()))
	c.Name = cfg.Name
	c.NameSet = cfg.NameSet
	c.Difficulty = cfg.Difficulty

	if cfg.Script != "" {
		f, err := os.Open(cfg.Script)
		if err != nil {
			return types.OutcomePlaying, fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c.In = f
		c.EchoInput = true
	}

	return c.Run()
}
