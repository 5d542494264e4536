// Package config loads optional game settings from an HCL file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/fairrps/internal/fairness"
	"github.com/lox/fairrps/internal/moves"
)

// Front ends selectable with ui.interface.
const (
	InterfaceLine = "line"
	InterfaceTUI  = "tui"
)

// Config is the complete configuration file.
type Config struct {
	Game *GameSettings `hcl:"game,block"`
	UI   *UISettings   `hcl:"ui,block"`
}

// GameSettings control how rounds are played.
type GameSettings struct {
	// Moves used when none are given on the command line.
	Moves     []string `hcl:"moves,optional"`
	VerifyURL string   `hcl:"verify_url,optional"`
}

// UISettings control output and logging.
type UISettings struct {
	Interface string `hcl:"interface,optional"`
	NoColor   bool   `hcl:"no_color,optional"`
	LogLevel  string `hcl:"log_level,optional"`
	LogFile   string `hcl:"log_file,optional"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Game: &GameSettings{
			VerifyURL: fairness.DefaultVerifyURL,
		},
		UI: &UISettings{
			Interface: InterfaceLine,
			LogLevel:  "warn",
		},
	}
}

// Load reads filename. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and fills in defaults for anything unset.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Game == nil {
		c.Game = defaults.Game
	}
	if c.Game.VerifyURL == "" {
		c.Game.VerifyURL = defaults.Game.VerifyURL
	}

	if c.UI == nil {
		c.UI = defaults.UI
	}
	if c.UI.Interface == "" {
		c.UI.Interface = defaults.UI.Interface
	}
	if c.UI.LogLevel == "" {
		c.UI.LogLevel = defaults.UI.LogLevel
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if len(c.Game.Moves) > 0 {
		if _, err := moves.Parse(c.Game.Moves); err != nil {
			return fmt.Errorf("game.moves: %w", err)
		}
	}

	if err := fairness.ValidateVerifyURL(c.Game.VerifyURL); err != nil {
		return fmt.Errorf("game.verify_url: %w", err)
	}

	switch c.UI.Interface {
	case InterfaceLine, InterfaceTUI:
	default:
		return fmt.Errorf("invalid interface: %s", c.UI.Interface)
	}

	if _, err := log.ParseLevel(c.UI.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s", c.UI.LogLevel)
	}

	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.UI.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return level
}
