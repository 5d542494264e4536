package game

import (
	"errors"
	"fmt"

	"github.com/lox/fairrps/internal/fairness"
	"github.com/lox/fairrps/internal/moves"
	"github.com/lox/fairrps/internal/rules"
)

// ErrRoundOver is returned when input arrives after the round has ended.
var ErrRoundOver = errors.New("round is over")

// EventKind tells the front end what to show after an input.
type EventKind int

const (
	EventInvalid EventKind = iota
	EventHelp
	EventResolved
	EventExited
)

// Event is the outcome of handling one input.
type Event struct {
	Kind   EventKind
	Input  string
	Matrix rules.OutcomeMatrix
	Result Result
}

// Result is everything disclosed when a round resolves.
type Result struct {
	rules.RoundOutcome
	Reveal    fairness.Reveal
	Tag       string
	VerifyURL string
}

// Round holds the state of one commit-reveal round.
type Round struct {
	moves      moves.MoveSet
	resolver   *rules.Resolver
	commitment *fairness.Commitment
	verifyURL  string
	state      State
}

// RoundOption configures a Round.
type RoundOption func(*Round)

// WithVerifyURL sets the URL template used for the verification hint.
func WithVerifyURL(template string) RoundOption {
	return func(r *Round) { r.verifyURL = template }
}

// NewRound commits to a concealed move. The returned round is ready to
// publish its tag.
func NewRound(set moves.MoveSet, engine *fairness.Engine, opts ...RoundOption) (*Round, error) {
	r := &Round{
		moves:     set,
		resolver:  rules.NewResolver(set),
		verifyURL: fairness.DefaultVerifyURL,
		state:     AwaitingInput,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := fairness.ValidateVerifyURL(r.verifyURL); err != nil {
		return nil, err
	}

	commitment, err := engine.Commit(set)
	if err != nil {
		return nil, fmt.Errorf("commit to move: %w", err)
	}
	r.commitment = commitment
	return r, nil
}

// Moves returns the round's move set.
func (r *Round) Moves() moves.MoveSet { return r.moves }

// Tag returns the published commitment.
func (r *Round) Tag() string { return r.commitment.Tag() }

// ID returns the round identifier.
func (r *Round) ID() string { return r.commitment.RoundID() }

// State returns the current state.
func (r *Round) State() State { return r.state }

// Matrix returns the outcome table, rows from the computer's perspective.
func (r *Round) Matrix() rules.OutcomeMatrix { return r.resolver.Matrix() }

// Revealed reports whether the commitment has been disclosed.
func (r *Round) Revealed() bool { return r.commitment.Revealed() }

// Abandon ends the round without revealing the commitment.
func (r *Round) Abandon() {
	if !r.state.Terminal() {
		r.state = Exited
	}
}

// Handle applies one line of input.
func (r *Round) Handle(input string) (Event, error) {
	if r.state.Terminal() {
		return Event{}, ErrRoundOver
	}

	next, sel := Transition(r.state, input, r.moves)
	r.state = next
	ev := Event{Input: sel.Input}

	switch next {
	case Exited:
		ev.Kind = EventExited
	case ShowingHelp:
		ev.Kind = EventHelp
		ev.Matrix = r.resolver.Matrix()
	case Resolved:
		result, err := r.resolve(sel.Move)
		if err != nil {
			return Event{}, err
		}
		ev.Kind = EventResolved
		ev.Result = result
	default:
		ev.Kind = EventInvalid
	}
	return ev, nil
}

func (r *Round) resolve(human int) (Result, error) {
	computer := r.commitment.ConcealedIndex()
	reveal := r.commitment.Reveal()

	link, err := fairness.VerificationURL(r.verifyURL, reveal)
	if err != nil {
		return Result{}, err
	}

	return Result{
		RoundOutcome: rules.RoundOutcome{
			Human:    r.moves.Name(human),
			Computer: r.moves.Name(computer),
			Outcome:  r.resolver.ResolveIndex(human, computer),
		},
		Reveal:    reveal,
		Tag:       r.commitment.Tag(),
		VerifyURL: link,
	}, nil
}
