// Package randutil provides reproducible entropy for tests and seeded audits.
// The interactive game never uses it.
package randutil

import (
	"encoding/binary"
	"io"
	rand "math/rand/v2"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// NewReader returns a deterministic byte stream derived from seed. Two readers
// built from the same seed produce the same bytes.
func NewReader(seed int64) io.Reader {
	var key [32]byte
	u := uint64(seed)
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(key[i*8:], mix(u+uint64(i)*goldenRatio64))
	}
	return rand.NewChaCha8(key)
}

// FailingReader is an entropy source that always returns Err.
type FailingReader struct {
	Err error
}

func (f FailingReader) Read([]byte) (int, error) {
	return 0, f.Err
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
