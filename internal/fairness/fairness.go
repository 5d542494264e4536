// Package fairness commits to the computer's move before the human chooses and
// reveals the key afterwards so anyone can check the commitment.
//
// The published tag is HMAC-SHA256 keyed with the hex encoded secret key over
// the move name. Using the hex string (not the raw bytes) as the HMAC key lets
// the tag be reproduced with ordinary online HMAC tools.
package fairness

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/fairrps/internal/moves"
	"github.com/lox/fairrps/internal/roundid"
)

// KeySize is the secret key length in bytes (256 bits).
const KeySize = 32

// ErrEntropy is returned when the entropy source fails. It is fatal: there is
// no fallback source.
var ErrEntropy = errors.New("secure entropy source unavailable")

// ErrEmptyMoveSet is returned when committing to an empty move set.
var ErrEmptyMoveSet = errors.New("cannot commit to an empty move set")

// Engine produces commitments from an injected entropy source.
type Engine struct {
	entropy io.Reader
	clock   quartz.Clock
	ids     *roundid.Generator
	logger  *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used to timestamp commitments.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithLogger sets the engine logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger.WithPrefix("fairness") }
}

// NewEngine creates an engine reading randomness from entropy. A nil entropy
// source means crypto/rand.
func NewEngine(entropy io.Reader, opts ...Option) *Engine {
	if entropy == nil {
		entropy = rand.Reader
	}
	e := &Engine{
		entropy: entropy,
		clock:   quartz.NewReal(),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.ids = roundid.NewGenerator(entropy, e.clock)
	return e
}

// Commitment binds the engine to a concealed move. Only Tag may be shown
// before the round is resolved. Its fields are fixed once committed; Reveal
// only records that the reveal happened.
type Commitment struct {
	roundID   string
	key       string
	index     int
	move      string
	tag       string
	createdAt time.Time
	revealed  bool
}

// Reveal is the withheld part of a commitment, disclosed once the round ends.
type Reveal struct {
	RoundID string
	Key     string
	Move    string
}

// Commit picks a uniformly random move from set and commits to it.
func (e *Engine) Commit(set moves.MoveSet) (*Commitment, error) {
	if set.Len() == 0 {
		return nil, ErrEmptyMoveSet
	}

	raw := make([]byte, KeySize)
	if _, err := io.ReadFull(e.entropy, raw); err != nil {
		return nil, fmt.Errorf("%w: read key: %w", ErrEntropy, err)
	}
	key := hex.EncodeToString(raw)

	index, err := uniformIndex(e.entropy, set.Len())
	if err != nil {
		return nil, fmt.Errorf("%w: draw move: %w", ErrEntropy, err)
	}

	id, err := e.ids.Generate()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEntropy, err)
	}

	c := &Commitment{
		roundID:   id,
		key:       key,
		index:     index,
		move:      set.Name(index),
		tag:       Sign(key, set.Name(index)),
		createdAt: e.clock.Now(),
	}
	e.logger.Debug("Committed to move", "round", c.roundID, "hmac", c.tag)
	return c, nil
}

// uniformIndex draws from [0, n) without modulo bias by rejecting values at
// or above the largest multiple of n.
func uniformIndex(r io.Reader, n int) (int, error) {
	bound := uint64(n)
	limit := math.MaxUint64 - math.MaxUint64%bound
	var buf [8]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		if v := binary.BigEndian.Uint64(buf[:]); v < limit {
			return int(v % bound), nil
		}
	}
}

// RoundID identifies the round in logs.
func (c *Commitment) RoundID() string { return c.roundID }

// Tag returns the hex encoded HMAC that is published before the human moves.
func (c *Commitment) Tag() string { return c.tag }

// CreatedAt is when the commitment was made.
func (c *Commitment) CreatedAt() time.Time { return c.createdAt }

// Revealed reports whether Reveal has been called.
func (c *Commitment) Revealed() bool { return c.revealed }

// Reveal discloses the key and concealed move. Calling it again returns the
// same values.
func (c *Commitment) Reveal() Reveal {
	c.revealed = true
	return Reveal{RoundID: c.roundID, Key: c.key, Move: c.move}
}

// ConcealedIndex returns the position of the concealed move. The host uses it
// to resolve the round; it must not be displayed before the reveal.
func (c *Commitment) ConcealedIndex() int { return c.index }

// Verify reports whether tag is the HMAC of the revealed move under the
// revealed key.
func (r Reveal) Verify(tag string) bool {
	return Verify(r.Key, r.Move, tag)
}

// Sign computes the hex encoded HMAC-SHA256 of move keyed with key.
func Sign(key, move string) string {
	mac := hmac.New(sha256.New, []byte(key))
	_, _ = mac.Write([]byte(move))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the HMAC and compares it with tag in constant time. Tag
// comparison is case-insensitive hex.
func Verify(key, move, tag string) bool {
	want, err := hex.DecodeString(tag)
	if err != nil {
		return false
	}
	got, _ := hex.DecodeString(Sign(key, move))
	return hmac.Equal(got, want)
}
