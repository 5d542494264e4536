// Package audit checks the fairness engine by running many commitments,
// verifying every reveal and measuring how evenly moves are concealed.
package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/fairrps/internal/fairness"
	"github.com/lox/fairrps/internal/moves"
)

// ErrVerification is returned when a reveal does not match its tag.
var ErrVerification = errors.New("commitment failed verification")

// Options configure an audit run.
type Options struct {
	Moves   moves.MoveSet
	Rounds  int
	Workers int
	// Entropy returns the entropy source for a worker. Nil means crypto/rand
	// for every worker.
	Entropy func(worker int) io.Reader
	Logger  *log.Logger
}

// Report summarises an audit.
type Report struct {
	Moves    []string
	Counts   []int
	Rounds   int
	Verified int
}

// Expected returns the ideal frequency of each move.
func (r Report) Expected() float64 {
	return 1 / float64(len(r.Counts))
}

// Frequency returns the observed frequency of move i.
func (r Report) Frequency(i int) float64 {
	if r.Rounds == 0 {
		return 0
	}
	return float64(r.Counts[i]) / float64(r.Rounds)
}

// MaxDeviation is the largest absolute gap between an observed and the
// expected frequency.
func (r Report) MaxDeviation() float64 {
	var worst float64
	for i := range r.Counts {
		worst = math.Max(worst, math.Abs(r.Frequency(i)-r.Expected()))
	}
	return worst
}

// ChiSquare is Pearson's statistic against the uniform distribution, with
// len(Counts)-1 degrees of freedom.
func (r Report) ChiSquare() float64 {
	if r.Rounds == 0 {
		return 0
	}
	expected := float64(r.Rounds) * r.Expected()
	var sum float64
	for _, c := range r.Counts {
		d := float64(c) - expected
		sum += d * d / expected
	}
	return sum
}

// Summary is the serialisable form of a report.
type Summary struct {
	Moves        []string `json:"moves"`
	Counts       []int    `json:"counts"`
	Rounds       int      `json:"rounds"`
	Verified     int      `json:"verified"`
	Expected     float64  `json:"expected_frequency"`
	MaxDeviation float64  `json:"max_deviation"`
	ChiSquare    float64  `json:"chi_square"`
}

// Summary flattens the report with its derived statistics.
func (r Report) Summary() Summary {
	return Summary{
		Moves:        r.Moves,
		Counts:       r.Counts,
		Rounds:       r.Rounds,
		Verified:     r.Verified,
		Expected:     r.Expected(),
		MaxDeviation: r.MaxDeviation(),
		ChiSquare:    r.ChiSquare(),
	}
}

type workerResult struct {
	counts   []int
	verified int
}

// Run executes the audit. Each worker owns its engine so no state is shared
// between rounds.
func Run(ctx context.Context, opts Options) (Report, error) {
	if opts.Moves.Len() == 0 {
		return Report{}, fairness.ErrEmptyMoveSet
	}
	if opts.Rounds <= 0 {
		return Report{}, fmt.Errorf("rounds must be positive, got %d", opts.Rounds)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > opts.Rounds {
		workers = opts.Rounds
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.WithPrefix("audit")

	perWorker := opts.Rounds / workers
	remainder := opts.Rounds % workers

	g, ctx := errgroup.WithContext(ctx)
	results := make(chan workerResult, workers)

	for w := 0; w < workers; w++ {
		rounds := perWorker
		if w < remainder {
			rounds++
		}

		var entropy io.Reader
		if opts.Entropy != nil {
			entropy = opts.Entropy(w)
		}
		engine := fairness.NewEngine(entropy)

		g.Go(func() error {
			res, err := runWorker(ctx, engine, opts.Moves, rounds)
			if err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			results <- res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	close(results)

	report := Report{
		Moves:  opts.Moves.Names(),
		Counts: make([]int, opts.Moves.Len()),
		Rounds: opts.Rounds,
	}
	for res := range results {
		for i, c := range res.counts {
			report.Counts[i] += c
		}
		report.Verified += res.verified
	}

	logger.Info("Audit complete",
		"rounds", report.Rounds,
		"workers", workers,
		"chi_square", report.ChiSquare(),
		"max_deviation", report.MaxDeviation())
	return report, nil
}

func runWorker(ctx context.Context, engine *fairness.Engine, set moves.MoveSet, rounds int) (workerResult, error) {
	res := workerResult{counts: make([]int, set.Len())}
	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		c, err := engine.Commit(set)
		if err != nil {
			return res, err
		}
		tag := c.Tag()
		reveal := c.Reveal()
		if !reveal.Verify(tag) {
			return res, fmt.Errorf("%w: round %s", ErrVerification, reveal.RoundID)
		}
		idx, ok := set.Index(reveal.Move)
		if !ok || idx != c.ConcealedIndex() {
			return res, fmt.Errorf("%w: round %s revealed unknown move %q", ErrVerification, reveal.RoundID, reveal.Move)
		}

		res.counts[idx]++
		res.verified++
	}
	return res, nil
}
