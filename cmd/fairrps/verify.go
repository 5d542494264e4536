package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lox/fairrps/internal/fairness"
)

// ErrMismatch is returned when the revealed values do not reproduce the HMAC.
var ErrMismatch = errors.New("HMAC does not match the revealed key and move")

// VerifyCmd checks a finished round.
type VerifyCmd struct {
	Key  string `kong:"required,help='Revealed key (hex)'"`
	Move string `kong:"required,help='Revealed computer move'"`
	HMAC string `kong:"name='hmac',required,help='HMAC published before the round'"`
}

func (c *VerifyCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *VerifyCmd) run(out io.Writer) error {
	if !fairness.Verify(c.Key, c.Move, c.HMAC) {
		return fmt.Errorf("%w: expected %s", ErrMismatch, fairness.Sign(c.Key, c.Move))
	}
	_, err := fmt.Fprintf(out, "OK: HMAC matches move %q\n", c.Move)
	return err
}
