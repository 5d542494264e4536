// Package roundid generates sortable identifiers for rounds, used to tie a
// published commitment to its later reveal in logs.
package roundid

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/coder/quartz"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded round ID.
const Length = 26

// Generator produces round IDs from an entropy source and a clock.
type Generator struct {
	entropy io.Reader
	clock   quartz.Clock
}

// NewGenerator creates a generator. A nil entropy source means crypto/rand and
// a nil clock means the real clock.
func NewGenerator(entropy io.Reader, clock quartz.Clock) *Generator {
	if entropy == nil {
		entropy = rand.Reader
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{entropy: entropy, clock: clock}
}

// Generate creates a UUIDv7 encoded as a 26-character base32 string.
func (g *Generator) Generate() (string, error) {
	var uuid [16]byte

	// 48-bit millisecond timestamp, then version, variant and random bits.
	now := g.clock.Now().UnixMilli()
	uuid[0] = byte(now >> 40)
	uuid[1] = byte(now >> 32)
	uuid[2] = byte(now >> 24)
	uuid[3] = byte(now >> 16)
	uuid[4] = byte(now >> 8)
	uuid[5] = byte(now)

	if _, err := io.ReadFull(g.entropy, uuid[6:]); err != nil {
		return "", fmt.Errorf("read round id entropy: %w", err)
	}

	uuid[6] = (uuid[6] & 0x0f) | 0x70
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return encodeBase32(uuid), nil
}

// encodeBase32 encodes 128 bits as 26 characters, 5 bits at a time. The final
// character carries the last 3 bits padded with zeros.
func encodeBase32(data [16]byte) string {
	result := make([]byte, Length)

	for i := 0; i < Length; i++ {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var value uint8
		if byteIndex < 16 {
			if bitIndex <= 3 {
				value = (data[byteIndex] >> (3 - bitIndex)) & 0x1f
			} else {
				value = (data[byteIndex] << (bitIndex - 3)) & 0x1f
				if byteIndex+1 < 16 {
					value |= data[byteIndex+1] >> (11 - bitIndex)
				}
			}
		}

		result[i] = alphabet[value]
	}

	return string(result)
}

// Validate checks that id is a well-formed round ID.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("round ID must be exactly %d characters, got %d", Length, len(id))
	}
	for i := 0; i < len(id); i++ {
		if indexOf(id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}

func indexOf(c byte) int {
	for i := 0; i < len(alphabet); i++ {
		if alphabet[i] == c {
			return i
		}
	}
	return -1
}
