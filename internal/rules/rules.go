// Package rules resolves rounds on an odd-length cycle of moves. Each move
// beats the half of the cycle that follows it and loses to the half that
// precedes it, so the classic game is listed as "Rock Scissors Paper".
package rules

import (
	"errors"
	"fmt"

	"github.com/lox/fairrps/internal/moves"
)

// ErrUnknownMove is returned when a move name is not in the move set.
var ErrUnknownMove = errors.New("unknown move")

// Outcome is the result of a pairing from the first move's perspective.
type Outcome int

const (
	Draw Outcome = iota
	Win
	Lose
)

func (o Outcome) String() string {
	switch o {
	case Draw:
		return "Draw"
	case Win:
		return "Win"
	case Lose:
		return "Lose"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Invert returns the outcome from the other side of the pairing.
func (o Outcome) Invert() Outcome {
	switch o {
	case Win:
		return Lose
	case Lose:
		return Win
	default:
		return o
	}
}

// Resolver decides pairings for one move set.
type Resolver struct {
	moves moves.MoveSet
}

// NewResolver creates a resolver over set.
func NewResolver(set moves.MoveSet) *Resolver {
	return &Resolver{moves: set}
}

// Moves returns the move set the resolver was built with.
func (r *Resolver) Moves() moves.MoveSet {
	return r.moves
}

// ResolveIndex resolves move i against move j. Indices must be in range.
func (r *Resolver) ResolveIndex(i, j int) Outcome {
	if i == j {
		return Draw
	}
	n := r.moves.Len()
	// distance from i forward to j
	d := ((j-i)%n + n) % n
	if d <= r.moves.Half() {
		return Win
	}
	return Lose
}

// Resolve resolves moveA against moveB by name.
func (r *Resolver) Resolve(moveA, moveB string) (Outcome, error) {
	i, ok := r.moves.Index(moveA)
	if !ok {
		return Draw, fmt.Errorf("%w: %q", ErrUnknownMove, moveA)
	}
	j, ok := r.moves.Index(moveB)
	if !ok {
		return Draw, fmt.Errorf("%w: %q", ErrUnknownMove, moveB)
	}
	return r.ResolveIndex(i, j), nil
}

// RoundOutcome is a resolved round from the human's perspective.
type RoundOutcome struct {
	Human    string
	Computer string
	Outcome  Outcome
}

// Round resolves the human's move against the computer's.
func (r *Resolver) Round(human, computer string) (RoundOutcome, error) {
	outcome, err := r.Resolve(human, computer)
	if err != nil {
		return RoundOutcome{}, err
	}
	return RoundOutcome{Human: human, Computer: computer, Outcome: outcome}, nil
}

// OutcomeMatrix holds every pairing. Cells[i][j] is move i against move j
// from move i's perspective.
type OutcomeMatrix struct {
	Moves []string
	Cells [][]Outcome
}

// At returns the outcome of row move i against column move j.
func (m OutcomeMatrix) At(i, j int) Outcome {
	return m.Cells[i][j]
}

// Size returns the number of rows (and columns).
func (m OutcomeMatrix) Size() int {
	return len(m.Moves)
}

// Matrix builds a fresh outcome matrix.
func (r *Resolver) Matrix() OutcomeMatrix {
	n := r.moves.Len()
	cells := make([][]Outcome, n)
	for i := range cells {
		cells[i] = make([]Outcome, n)
		for j := range cells[i] {
			cells[i][j] = r.ResolveIndex(i, j)
		}
	}
	return OutcomeMatrix{Moves: r.moves.Names(), Cells: cells}
}
