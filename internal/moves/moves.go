// Package moves defines the ordered move list a round is played with.
package moves

import (
	"fmt"
	"strings"
)

// MinMoves is the smallest playable move list.
const MinMoves = 3

// Example is shown alongside usage errors.
const Example = "fairrps Rock Paper Scissors"

// UsageError reports a move list that cannot be played.
type UsageError struct {
	Reason string
	Moves  []string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("incorrect input: %s. You must provide an odd number of non-repeating moves (>= %d). Example: %s",
		e.Reason, MinMoves, Example)
}

// MoveSet is an ordered list of distinct move names. The order defines
// adjacency on the cycle and never changes once parsed.
type MoveSet struct {
	names []string
	index map[string]int
}

// Parse validates names and builds a MoveSet. Names are compared by exact
// string equality, so "rock" and "Rock" are different moves.
func Parse(names []string) (MoveSet, error) {
	if len(names) < MinMoves {
		return MoveSet{}, &UsageError{
			Reason: fmt.Sprintf("got %d moves, need at least %d", len(names), MinMoves),
			Moves:  names,
		}
	}
	if len(names)%2 == 0 {
		return MoveSet{}, &UsageError{
			Reason: fmt.Sprintf("got %d moves, the count must be odd", len(names)),
			Moves:  names,
		}
	}

	index := make(map[string]int, len(names))
	for i, name := range names {
		if prev, ok := index[name]; ok {
			return MoveSet{}, &UsageError{
				Reason: fmt.Sprintf("move %q is repeated at positions %d and %d", name, prev+1, i+1),
				Moves:  names,
			}
		}
		index[name] = i
	}

	return MoveSet{
		names: append([]string(nil), names...),
		index: index,
	}, nil
}

// MustParse is Parse for fixed move lists known to be valid.
func MustParse(names ...string) MoveSet {
	set, err := Parse(names)
	if err != nil {
		panic(err)
	}
	return set
}

// Len returns the number of moves.
func (s MoveSet) Len() int { return len(s.names) }

// Half returns how many moves each move beats.
func (s MoveSet) Half() int { return len(s.names) / 2 }

// Name returns the move at index i.
func (s MoveSet) Name(i int) string { return s.names[i] }

// Names returns a copy of the move names in order.
func (s MoveSet) Names() []string {
	return append([]string(nil), s.names...)
}

// Index looks up a move by exact name.
func (s MoveSet) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Contains reports whether name is one of the moves.
func (s MoveSet) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

func (s MoveSet) String() string {
	return strings.Join(s.names, ", ")
}
