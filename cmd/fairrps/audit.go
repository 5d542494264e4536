package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/lox/fairrps/cmd/fairrps/shared"
	"github.com/lox/fairrps/internal/audit"
	"github.com/lox/fairrps/internal/fileutil"
	"github.com/lox/fairrps/internal/moves"
	"github.com/lox/fairrps/internal/randutil"
)

// AuditCmd runs the fairness engine many times and reports the distribution.
type AuditCmd struct {
	Moves   []string `arg:"" name:"move" help:"Odd number (>= 3) of distinct move names"`
	Rounds  int      `kong:"default='10000',help='Number of commitments to make'"`
	Workers int      `kong:"default='0',help='Concurrent workers (0 = number of CPUs)'"`
	Seed    *int64   `kong:"help='Deterministic seed; audits the engine logic, not the system entropy source'"`
	Report  string   `kong:"type='path',help='Also write a JSON report to this file'"`
	Debug   bool     `kong:"help='Enable debug logging'"`
}

func (c *AuditCmd) Run() error {
	return c.run(context.Background(), os.Stdout)
}

func (c *AuditCmd) run(ctx context.Context, out io.Writer) error {
	set, err := moves.Parse(c.Moves)
	if err != nil {
		return err
	}

	logger, closeLog, err := shared.SetupLogger(shared.LogOptions{Debug: c.Debug})
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	ctx, stop := shared.SetupSignalHandler(ctx, logger)
	defer stop()

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	opts := audit.Options{
		Moves:   set,
		Rounds:  c.Rounds,
		Workers: workers,
		Logger:  logger,
	}
	if c.Seed != nil {
		seed := *c.Seed
		logger.Info("Using deterministic seed", "seed", seed)
		opts.Entropy = func(worker int) io.Reader {
			return randutil.NewReader(seed + int64(worker))
		}
	}

	report, err := audit.Run(ctx, opts)
	if err != nil {
		return err
	}
	if c.Report != "" {
		if err := fileutil.WriteJSONAtomic(c.Report, report.Summary(), 0o644); err != nil {
			return err
		}
		logger.Info("Wrote audit report", "path", c.Report)
	}

	fmt.Fprintf(out, "Rounds: %d (all %d reveals verified)\n", report.Rounds, report.Verified)
	fmt.Fprintf(out, "Expected frequency: %.4f\n", report.Expected())
	for i, name := range report.Moves {
		fmt.Fprintf(out, "  %-16s %8d  %.4f\n", name, report.Counts[i], report.Frequency(i))
	}
	fmt.Fprintf(out, "Max deviation: %.4f\n", report.MaxDeviation())
	_, err = fmt.Fprintf(out, "Chi-square (%d dof): %.3f\n", len(report.Counts)-1, report.ChiSquare())
	return err
}
