package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"

	"github.com/lox/fairrps/cmd/fairrps/shared"
	"github.com/lox/fairrps/internal/config"
	"github.com/lox/fairrps/internal/display"
	"github.com/lox/fairrps/internal/fairness"
	"github.com/lox/fairrps/internal/game"
	"github.com/lox/fairrps/internal/moves"
	"github.com/lox/fairrps/internal/tui"
)

// PlayCmd plays a single round against the computer.
type PlayCmd struct {
	Moves     []string `arg:"" optional:"" name:"move" help:"Odd number (>= 3) of distinct move names in cycle order; each beats the half that follows it"`
	Config    string   `kong:"type='path',help='HCL config file'"`
	TUI       bool     `kong:"name='tui',help='Use the full-screen interface'"`
	NoColor   bool     `kong:"help='Disable colored output'"`
	Debug     bool     `kong:"help='Enable debug logging'"`
	LogFile   string   `kong:"help='Write logs to this file instead of stderr'"`
	VerifyURL string   `kong:"name='verify-url',help='Verification URL template with {move} and {key}'"`
}

func (c *PlayCmd) Run() error {
	return c.run(context.Background(), os.Stdin, os.Stdout)
}

// settings merges the config file with command line flags.
func (c *PlayCmd) settings() (*config.Config, error) {
	cfg := config.Default()
	if c.Config != "" {
		loaded, err := config.Load(c.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if len(c.Moves) > 0 {
		cfg.Game.Moves = c.Moves
	}
	if c.VerifyURL != "" {
		cfg.Game.VerifyURL = c.VerifyURL
	}
	if c.TUI {
		cfg.UI.Interface = config.InterfaceTUI
	}
	if c.NoColor || termenv.EnvNoColor() {
		cfg.UI.NoColor = true
	}
	if c.LogFile != "" {
		cfg.UI.LogFile = c.LogFile
	}

	// Move list problems are usage errors, reported before anything else.
	if _, err := moves.Parse(cfg.Game.Moves); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *PlayCmd) run(ctx context.Context, in io.Reader, out io.Writer) error {
	cfg, err := c.settings()
	if err != nil {
		return err
	}
	set, err := moves.Parse(cfg.Game.Moves)
	if err != nil {
		return err
	}

	logger, closeLog, err := shared.SetupLogger(shared.LogOptions{
		Level: cfg.Level(),
		Debug: c.Debug,
		File:  cfg.UI.LogFile,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := closeLog(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}()

	clock := quartz.NewReal()
	engine := fairness.NewEngine(nil, fairness.WithClock(clock), fairness.WithLogger(logger))
	round, err := game.NewRound(set, engine, game.WithVerifyURL(cfg.Game.VerifyURL))
	if err != nil {
		return err
	}
	logger.Debug("Starting round", "round", round.ID(), "moves", set.String(), "interface", cfg.UI.Interface)

	ctx, stop := shared.SetupSignalHandler(ctx, logger)
	defer stop()

	renderer := display.NewRenderer(out, !cfg.UI.NoColor)
	if cfg.UI.Interface == config.InterfaceTUI {
		return tui.Run(ctx, round, renderer, in, out, logger)
	}

	session := game.NewSession(round, renderer, out,
		game.WithClock(clock),
		game.WithLogger(logger),
	)
	return session.Run(ctx, in)
}
