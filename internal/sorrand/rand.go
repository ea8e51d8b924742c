// Package sorrand provides deterministic pseudo-random byte generators used
// by this module's test suites to build reproducible fixtures. Because it
// is driven by AES rather than math/rand, the exact byte sequence it
// produces is stable across Go versions, which matters for fixtures that
// get checked against fixed compressed-size expectations.
package sorrand

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
)

// Rand is a deterministic byte stream keyed by an integer seed.
type Rand struct {
	cipher.Block
	blk [aes.BlockSize]byte
}

// New returns a Rand seeded deterministically from seed.
func New(seed int) *Rand {
	var key [aes.BlockSize]byte
	binary.LittleEndian.PutUint64(key[:], uint64(seed))
	r, _ := aes.NewCipher(key[:])
	return &Rand{Block: r}
}

// Int returns the next pseudo-random non-negative int in the stream.
func (r *Rand) Int() (x int) {
	r.Encrypt(r.blk[:], r.blk[:])
	x |= int(r.blk[0]) << 0
	x |= int(r.blk[1]) << 8
	x |= int(r.blk[2]) << 16
	x |= int(r.blk[3]) << 24
	x |= int(r.blk[4]) << 32
	x |= int(r.blk[5]) << 40
	x |= int(r.blk[6]) << 48
	x |= int(r.blk[7]&0x3f) << 56
	return x
}

// Intn returns a pseudo-random int in [0, n).
func (r *Rand) Intn(n int) int {
	return r.Int() % n
}

// Float32 returns a pseudo-random value in [0.0, 1.0).
func (r *Rand) Float32() float32 {
	return float32(r.Intn(1<<24)) / float32(1<<24)
}

// Bytes returns n pseudo-random bytes.
func (r *Rand) Bytes(n int) []byte {
	b := make([]byte, n)
	bb := b
	for len(bb) > 0 {
		r.Encrypt(r.blk[:], r.blk[:])
		cnt := copy(bb, r.blk[:])
		bb = bb[cnt:]
	}
	return b
}
