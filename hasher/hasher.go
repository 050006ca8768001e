// Package hasher exposes the keyed, variable-length BLAKE2b digest used for
// commitment and nonce derivation by the layers above this module.
package hasher

import (
	"errors"

	"golang.org/x/crypto/blake2b"
)

const (
	// MinSize and MaxSize bound the digest length in bytes.
	MinSize = 1
	MaxSize = blake2b.Size

	// MaxKeySize is the longest key BLAKE2b accepts.
	MaxKeySize = 64
)

var (
	// ErrInvalidSize is returned for digest lengths outside [MinSize, MaxSize].
	ErrInvalidSize = errors.New("hasher: invalid digest size")

	// ErrInvalidKey is returned for keys longer than MaxKeySize.
	ErrInvalidKey = errors.New("hasher: invalid key size")
)

// Compute writes the BLAKE2b digest of input, keyed with key (which may be
// empty), into out. The digest length is len(out).
func Compute(out, input, key []byte) error {
	if len(out) < MinSize || len(out) > MaxSize {
		return ErrInvalidSize
	}
	if len(key) > MaxKeySize {
		return ErrInvalidKey
	}
	h, err := blake2b.New(len(out), key)
	if err != nil {
		return ErrInvalidSize
	}
	h.Write(input)
	h.Sum(out[:0])
	return nil
}

// Sum256 returns the 32-byte BLAKE2b digest of input keyed with key.
func Sum256(input, key []byte) (sum [32]byte, err error) {
	err = Compute(sum[:], input, key)
	return
}
