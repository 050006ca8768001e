//go:build !linux

package secmem

import (
	"crypto/rand"
	"io"
)

// fill uses the OS generator behind crypto/rand: CNG on Windows,
// getentropy or SecRandomCopyBytes on the BSDs and Darwin.
func fill(b []byte) error {
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return ErrEntropy
	}
	return nil
}
