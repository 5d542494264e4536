package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/fairrps/internal/fairness"
	"github.com/lox/fairrps/internal/game"
	"github.com/lox/fairrps/internal/moves"
	"github.com/lox/fairrps/internal/randutil"
	"github.com/lox/fairrps/internal/rules"
)

var rps = moves.MustParse("Rock", "Paper", "Scissors")

func newRound(t *testing.T, seed int64, opts ...game.RoundOption) *game.Round {
	t.Helper()
	round, err := game.NewRound(rps, fairness.NewEngine(randutil.NewReader(seed)), opts...)
	require.NoError(t, err)
	return round
}

func TestRoundResolves(t *testing.T) {
	round := newRound(t, 1)
	tag := round.Tag()

	ev, err := round.Handle("help")
	require.NoError(t, err)
	assert.Equal(t, game.EventHelp, ev.Kind)
	assert.Equal(t, rps.Names(), ev.Matrix.Moves)
	assert.False(t, round.Revealed())

	ev, err = round.Handle("nope")
	require.NoError(t, err)
	assert.Equal(t, game.EventInvalid, ev.Kind)
	assert.Equal(t, game.AwaitingInput, round.State())

	ev, err = round.Handle("2")
	require.NoError(t, err)
	require.Equal(t, game.EventResolved, ev.Kind)
	assert.Equal(t, game.Resolved, round.State())
	assert.True(t, round.Revealed())

	res := ev.Result
	assert.Equal(t, "Paper", res.Human)
	assert.Equal(t, tag, res.Tag)
	assert.Equal(t, res.Computer, res.Reveal.Move)
	assert.True(t, res.Reveal.Verify(tag))

	want, err := rules.NewResolver(rps).Resolve(res.Human, res.Computer)
	require.NoError(t, err)
	assert.Equal(t, want, res.Outcome)

	wantURL, err := fairness.VerificationURL(fairness.DefaultVerifyURL, res.Reveal)
	require.NoError(t, err)
	assert.Equal(t, wantURL, res.VerifyURL)

	_, err = round.Handle("1")
	assert.ErrorIs(t, err, game.ErrRoundOver)
}

func TestRoundExitDoesNotReveal(t *testing.T) {
	round := newRound(t, 2)

	ev, err := round.Handle("0")
	require.NoError(t, err)
	assert.Equal(t, game.EventExited, ev.Kind)
	assert.Equal(t, game.Exited, round.State())
	assert.False(t, round.Revealed())
}

func TestRoundAbandon(t *testing.T) {
	round := newRound(t, 3)
	round.Abandon()
	assert.Equal(t, game.Exited, round.State())
	assert.False(t, round.Revealed())

	_, err := round.Handle("1")
	assert.ErrorIs(t, err, game.ErrRoundOver)
}

func TestRoundCustomVerifyURL(t *testing.T) {
	round := newRound(t, 4, game.WithVerifyURL("https://verify.test/?move={move}&key={key}"))

	ev, err := round.Handle("1")
	require.NoError(t, err)
	assert.Contains(t, ev.Result.VerifyURL, "https://verify.test/?move="+ev.Result.Computer)
	assert.Contains(t, ev.Result.VerifyURL, "key="+ev.Result.Reveal.Key)
}

func TestNewRoundRejectsBadVerifyURL(t *testing.T) {
	_, err := game.NewRound(rps, fairness.NewEngine(randutil.NewReader(5)), game.WithVerifyURL("https://verify.test/"))
	assert.Error(t, err)
}

func TestNewRoundEntropyFailure(t *testing.T) {
	_, err := game.NewRound(rps, fairness.NewEngine(randutil.FailingReader{Err: assert.AnError}))
	require.Error(t, err)
	assert.ErrorIs(t, err, fairness.ErrEntropy)
}
