package game

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/fairrps/internal/moves"
	"github.com/lox/fairrps/internal/rules"
)

// View formats what a line-oriented session prints.
type View interface {
	Commitment(tag string) string
	Menu(set moves.MoveSet) string
	Prompt() string
	Help(m rules.OutcomeMatrix) string
	Invalid(input string) string
	Result(r Result) string
}

// Session plays a round over a plain input stream, one line per choice.
type Session struct {
	round  *Round
	view   View
	out    io.Writer
	clock  quartz.Clock
	logger *log.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClock sets the clock used to measure decision time.
func WithClock(clock quartz.Clock) SessionOption {
	return func(s *Session) { s.clock = clock }
}

// WithLogger sets the session logger.
func WithLogger(logger *log.Logger) SessionOption {
	return func(s *Session) { s.logger = logger.WithPrefix("session") }
}

// NewSession creates a session writing to out.
func NewSession(round *Round, view View, out io.Writer, opts ...SessionOption) *Session {
	s := &Session{
		round:  round,
		view:   view,
		out:    out,
		clock:  quartz.NewReal(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type line struct {
	text string
	err  error
}

// Run publishes the commitment and prompts until the round resolves or is
// exited. End of input and context cancellation abandon the round without a
// reveal; neither is an error. On cancellation in is closed if it is an
// io.Closer so the pending read returns.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	logger := s.logger.With("round", s.round.ID())

	if err := s.write(s.view.Commitment(s.round.Tag())); err != nil {
		return err
	}
	published := s.clock.Now()
	logger.Info("Published commitment", "hmac", s.round.Tag(), "moves", s.round.Moves().Len())

	lines := make(chan line)
	done := make(chan struct{})
	defer close(done)
	go scanLines(in, lines, done)

	for !s.round.State().Terminal() {
		if err := s.write(s.view.Menu(s.round.Moves()) + s.view.Prompt()); err != nil {
			return err
		}

		var input string
		select {
		case <-ctx.Done():
			if c, ok := in.(io.Closer); ok {
				_ = c.Close()
			}
			s.round.Abandon()
			logger.Info("Round abandoned", "reason", ctx.Err())
			return nil
		case l, ok := <-lines:
			if !ok {
				s.round.Abandon()
				logger.Info("Round abandoned", "reason", "end of input")
				return nil
			}
			if l.err != nil {
				return fmt.Errorf("read input: %w", l.err)
			}
			input = l.text
		}

		ev, err := s.round.Handle(input)
		if err != nil {
			return err
		}

		switch ev.Kind {
		case EventInvalid:
			logger.Debug("Invalid selection", "input", ev.Input)
			err = s.write(s.view.Invalid(ev.Input))
		case EventHelp:
			err = s.write(s.view.Help(ev.Matrix))
		case EventExited:
			logger.Info("Round abandoned", "reason", "exit selected")
		case EventResolved:
			logger.Info("Round resolved",
				"human", ev.Result.Human,
				"computer", ev.Result.Computer,
				"outcome", ev.Result.Outcome,
				"decision_time", s.clock.Now().Sub(published))
			err = s.write(s.view.Result(ev.Result))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) write(text string) error {
	if _, err := io.WriteString(s.out, text); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// scanLines feeds lines from in until EOF or until done is closed, then
// closes out. A read error is sent before closing. A reader that is not an
// io.Closer keeps this goroutine blocked in Scan until the process exits.
func scanLines(in io.Reader, out chan<- line, done <-chan struct{}) {
	defer close(out)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case out <- line{text: scanner.Text()}:
		case <-done:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		select {
		case out <- line{err: err}:
		case <-done:
		}
	}
}
