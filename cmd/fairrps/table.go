package main

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"

	"github.com/lox/fairrps/internal/display"
	"github.com/lox/fairrps/internal/moves"
	"github.com/lox/fairrps/internal/rules"
)

// TableCmd prints who beats whom without playing.
type TableCmd struct {
	Moves   []string `arg:"" name:"move" help:"Odd number (>= 3) of distinct move names, in cycle order"`
	NoColor bool     `kong:"help='Disable colored output'"`
}

func (c *TableCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *TableCmd) run(out io.Writer) error {
	set, err := moves.Parse(c.Moves)
	if err != nil {
		return err
	}

	renderer := display.NewRenderer(out, !c.NoColor && !termenv.EnvNoColor())
	_, err = fmt.Fprintln(out, renderer.Table(rules.NewResolver(set).Matrix()))
	return err
}
