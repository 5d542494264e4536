package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" default:"withargs" help:"Play one provably fair round (default). Use 'fairrps play -- MOVE...' when a move is named like a command or starts with '-'"`
	Table   TableCmd         `cmd:"" help:"Print the outcome table for a move list"`
	Verify  VerifyCmd        `cmd:"" help:"Check a revealed key and move against a published HMAC"`
	Audit   AuditCmd         `cmd:"" help:"Run many commitments and check reveals and move distribution"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("fairrps"),
		kong.Description("Provably fair N-way Rock Paper Scissors"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
