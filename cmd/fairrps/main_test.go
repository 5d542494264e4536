package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/fairrps/internal/audit"
	"github.com/lox/fairrps/internal/fairness"
	"github.com/lox/fairrps/internal/moves"
)

func quietPlay(moves ...string) *PlayCmd {
	return &PlayCmd{
		Moves:   moves,
		NoColor: true,
		LogFile: filepath.Join(os.TempDir(), "fairrps-test.log"),
	}
}

func TestPlayRejectsBadMoveLists(t *testing.T) {
	tests := []struct {
		name  string
		moves []string
	}{
		{name: "too few", moves: []string{"Rock", "Paper"}},
		{name: "even", moves: []string{"Rock", "Paper", "Scissors", "Lizard"}},
		{name: "duplicate", moves: []string{"Rock", "Rock", "Scissors"}},
		{name: "none", moves: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := quietPlay(tt.moves...).run(context.Background(), strings.NewReader("1\n"), &out)
			require.Error(t, err)

			var usage *moves.UsageError
			assert.True(t, errors.As(err, &usage))
			assert.Empty(t, out.String(), "no commitment may be printed")
		})
	}
}

var (
	hmacLine = regexp.MustCompile(`(?m)^HMAC: ([0-9a-f]{64})$`)
	keyLine  = regexp.MustCompile(`(?m)^Key: ([0-9a-f]{64})$`)
	pcLine   = regexp.MustCompile(`(?m)^Computer move: (\S+)$`)
)

func TestPlayRoundIsVerifiable(t *testing.T) {
	var out bytes.Buffer
	cmd := quietPlay("Rock", "Paper", "Scissors")
	require.NoError(t, cmd.run(context.Background(), strings.NewReader("help\n2\n"), &out))

	text := out.String()
	tag := hmacLine.FindStringSubmatch(text)
	key := keyLine.FindStringSubmatch(text)
	pc := pcLine.FindStringSubmatch(text)
	require.Len(t, tag, 2, text)
	require.Len(t, key, 2, text)
	require.Len(t, pc, 2, text)

	assert.True(t, fairness.Verify(key[1], pc[1], tag[1]))
	assert.Contains(t, text, "Your move: Paper")
	assert.Less(t, strings.Index(text, "HMAC:"), strings.Index(text, "Available moves:"))

	var verifyOut bytes.Buffer
	verify := &VerifyCmd{Key: key[1], Move: pc[1], HMAC: tag[1]}
	require.NoError(t, verify.run(&verifyOut))
	assert.Contains(t, verifyOut.String(), "OK")
}

func TestPlayImmediateExit(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, quietPlay("Rock", "Paper", "Scissors").run(context.Background(), strings.NewReader("0\n"), &out))

	text := out.String()
	assert.Regexp(t, hmacLine, text)
	assert.NotContains(t, text, "Key:")
	assert.NotContains(t, text, "Result:")
}

func TestPlayUsesConfigMoves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fairrps.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
game {
  moves      = ["Fire", "Water", "Grass"]
  verify_url = "https://verify.test/?m={move}&k={key}"
}
`), 0o600))

	cmd := quietPlay()
	cmd.Config = path

	var out bytes.Buffer
	require.NoError(t, cmd.run(context.Background(), strings.NewReader("3\n"), &out))
	assert.Contains(t, out.String(), "1 - Fire")
	assert.Contains(t, out.String(), "Your move: Grass")
	assert.Contains(t, out.String(), "https://verify.test/?m=")
}

func TestPlayRejectsBadVerifyURL(t *testing.T) {
	cmd := quietPlay("Rock", "Paper", "Scissors")
	cmd.VerifyURL = "https://verify.test/"

	var out bytes.Buffer
	err := cmd.run(context.Background(), strings.NewReader("1\n"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Empty(t, out.String())
}

func TestVerifyMismatch(t *testing.T) {
	key := strings.Repeat("ab", 32)
	tag := fairness.Sign(key, "Rock")

	var out bytes.Buffer
	err := (&VerifyCmd{Key: key, Move: "Paper", HMAC: tag}).run(&out)
	assert.ErrorIs(t, err, ErrMismatch)
	assert.Empty(t, out.String())
}

func TestTableCommand(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, (&TableCmd{Moves: []string{"Rock", "Paper", "Scissors"}, NoColor: true}).run(&out))
	assert.Contains(t, out.String(), `v PC \ User >`)
	assert.Equal(t, 3, strings.Count(out.String(), "Draw"))

	err := (&TableCmd{Moves: []string{"Rock", "Rock", "Paper"}}).run(&out)
	var usage *moves.UsageError
	assert.True(t, errors.As(err, &usage))
}

func TestAuditCommand(t *testing.T) {
	seed := int64(11)
	reportPath := filepath.Join(t.TempDir(), "audit.json")
	var out bytes.Buffer
	cmd := &AuditCmd{Moves: []string{"Rock", "Paper", "Scissors"}, Rounds: 600, Workers: 2, Seed: &seed, Report: reportPath}
	require.NoError(t, cmd.run(context.Background(), &out))

	assert.Contains(t, out.String(), "Rounds: 600 (all 600 reveals verified)")
	assert.Contains(t, out.String(), "Chi-square (2 dof)")

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var summary audit.Summary
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, 600, summary.Verified)
	assert.Equal(t, []string{"Rock", "Paper", "Scissors"}, summary.Moves)
}

func TestCLIParsesDefaultCommand(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("fairrps"), kong.Vars{"version": "test"})
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"Rock", "Paper", "Scissors"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ctx.Command(), "play"), ctx.Command())
	assert.Equal(t, []string{"Rock", "Paper", "Scissors"}, cli.Play.Moves)

	ctx, err = parser.Parse([]string{"verify", "--key", "k", "--move", "Rock", "--hmac", "h"})
	require.NoError(t, err)
	assert.Equal(t, "verify", ctx.Command())
}

func TestCLIPlayAcceptsMovesAfterSeparator(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("fairrps"), kong.Vars{"version": "test"})
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"play", "--", "table", "-x", "audit"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ctx.Command(), "play"), ctx.Command())
	assert.Equal(t, []string{"table", "-x", "audit"}, cli.Play.Moves)
}
