// Package game runs one round: commit, prompt until the human picks a move or
// exits, then resolve and reveal.
package game

import (
	"strconv"
	"strings"

	"github.com/lox/fairrps/internal/moves"
)

// State is where a round is in its interaction loop.
type State int

const (
	AwaitingInput State = iota
	ShowingHelp
	Resolved
	Exited
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting-input"
	case ShowingHelp:
		return "showing-help"
	case Resolved:
		return "resolved"
	case Exited:
		return "exited"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further input is accepted.
func (s State) Terminal() bool {
	return s == Resolved || s == Exited
}

// Menu selectors other than move numbers.
const (
	ExitInput = "0"
	HelpInput = "help"
)

// NoMove marks a selection that did not pick a move.
const NoMove = -1

// Selection is what a single input meant.
type Selection struct {
	Input   string
	Move    int
	Invalid bool
}

// Transition is the single transition function of the interaction loop. It
// maps the current state and one line of input to the next state.
func Transition(state State, input string, set moves.MoveSet) (State, Selection) {
	input = strings.TrimSpace(input)
	sel := Selection{Input: input, Move: NoMove}

	if state.Terminal() {
		return state, sel
	}

	switch input {
	case ExitInput:
		return Exited, sel
	case HelpInput:
		return ShowingHelp, sel
	}

	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > set.Len() {
		sel.Invalid = true
		return AwaitingInput, sel
	}

	sel.Move = n - 1
	return Resolved, sel
}
