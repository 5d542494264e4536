package fairness

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/fairrps/internal/moves"
	"github.com/lox/fairrps/internal/randutil"
	"github.com/lox/fairrps/internal/roundid"
)

var rpsls = moves.MustParse("Rock", "Paper", "Scissors", "Lizard", "Spock")

func TestSignKnownAnswer(t *testing.T) {
	// Widely published HMAC-SHA256 test vector.
	got := Sign("key", "The quick brown fox jumps over the lazy dog")
	assert.Equal(t, "f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8", got)
}

func TestCommitShape(t *testing.T) {
	engine := NewEngine(randutil.NewReader(1))

	c, err := engine.Commit(rpsls)
	require.NoError(t, err)

	r := c.Reveal()
	assert.Len(t, r.Key, 2*KeySize)
	assert.Len(t, c.Tag(), 2*32)
	assert.True(t, rpsls.Contains(r.Move))
	assert.Equal(t, rpsls.Name(c.ConcealedIndex()), r.Move)
	assert.NoError(t, roundid.Validate(c.RoundID()))
	assert.Equal(t, c.RoundID(), r.RoundID)
}

func TestCommitRevealRoundTrip(t *testing.T) {
	seen := make(map[string]bool)

	for seed := int64(0); seed < 200; seed++ {
		c, err := NewEngine(randutil.NewReader(seed)).Commit(rpsls)
		require.NoError(t, err)

		tag := c.Tag()
		r := c.Reveal()
		require.True(t, r.Verify(tag), "seed %d", seed)
		require.Equal(t, Sign(r.Key, r.Move), tag)
		seen[r.Move] = true
	}

	assert.Len(t, seen, rpsls.Len(), "every move should be concealed at least once")
}

func TestVerifyRejectsTampering(t *testing.T) {
	c, err := NewEngine(randutil.NewReader(5)).Commit(rpsls)
	require.NoError(t, err)
	r := c.Reveal()
	tag := c.Tag()

	for _, move := range rpsls.Names() {
		if move == r.Move {
			continue
		}
		assert.False(t, Verify(r.Key, move, tag), "claimed move %s must not verify", move)
	}

	otherKey := Reveal{Key: "00" + r.Key[2:], Move: r.Move}
	if otherKey.Key != r.Key {
		assert.False(t, otherKey.Verify(tag))
	}

	assert.False(t, Verify(r.Key, r.Move, "not-hex"))
	assert.False(t, Verify(r.Key, r.Move, tag[:10]))
	assert.True(t, Verify(r.Key, r.Move, bytesUpper(tag)), "hex case should not matter")
}

func bytesUpper(s string) string {
	return string(bytes.ToUpper([]byte(s)))
}

func TestRevealIsIdempotent(t *testing.T) {
	c, err := NewEngine(randutil.NewReader(9)).Commit(rpsls)
	require.NoError(t, err)

	assert.False(t, c.Revealed())
	first := c.Reveal()
	second := c.Reveal()
	assert.True(t, c.Revealed())
	assert.Equal(t, first, second)
}

func TestCommitDeterministicWithSameSource(t *testing.T) {
	clock := quartz.NewMock(t)
	a, err := NewEngine(randutil.NewReader(77), WithClock(clock)).Commit(rpsls)
	require.NoError(t, err)
	b, err := NewEngine(randutil.NewReader(77), WithClock(clock)).Commit(rpsls)
	require.NoError(t, err)

	assert.Equal(t, a.Tag(), b.Tag())
	assert.Equal(t, a.Reveal(), b.Reveal())
}

func TestCommitUsesClock(t *testing.T) {
	clock := quartz.NewMock(t)
	at := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	clock.Set(at)

	c, err := NewEngine(randutil.NewReader(3), WithClock(clock)).Commit(rpsls)
	require.NoError(t, err)
	assert.True(t, at.Equal(c.CreatedAt()))
}

func TestCommitUniformity(t *testing.T) {
	const rounds = 20000
	engine := NewEngine(randutil.NewReader(2024))
	counts := make([]int, rpsls.Len())

	for i := 0; i < rounds; i++ {
		c, err := engine.Commit(rpsls)
		require.NoError(t, err)
		counts[c.ConcealedIndex()]++
	}

	expected := 1.0 / float64(rpsls.Len())
	for i, count := range counts {
		freq := float64(count) / rounds
		assert.InDelta(t, expected, freq, 0.02, "move %s frequency %f", rpsls.Name(i), freq)
	}
}

func TestCommitEntropyFailure(t *testing.T) {
	boom := errors.New("getrandom: no entropy")

	t.Run("reader error", func(t *testing.T) {
		c, err := NewEngine(randutil.FailingReader{Err: boom}).Commit(rpsls)
		require.Error(t, err)
		assert.Nil(t, c)
		assert.ErrorIs(t, err, ErrEntropy)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("short read", func(t *testing.T) {
		c, err := NewEngine(bytes.NewReader(make([]byte, KeySize+3))).Commit(rpsls)
		require.Error(t, err)
		assert.Nil(t, c)
		assert.ErrorIs(t, err, ErrEntropy)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})
}

func TestCommitEmptyMoveSet(t *testing.T) {
	_, err := NewEngine(nil).Commit(moves.MoveSet{})
	assert.ErrorIs(t, err, ErrEmptyMoveSet)
}

func TestUniformIndexRejectsBiasedValues(t *testing.T) {
	// The first draw is MaxUint64, which lies above the largest multiple of 3
	// and must be rejected; the second draw (5) maps to 5 % 3.
	var buf bytes.Buffer
	buf.Write([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	buf.Write([]byte{0, 0, 0, 0, 0, 0, 0, 5})

	i, err := uniformIndex(&buf, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, i)
	assert.Zero(t, buf.Len())
}
