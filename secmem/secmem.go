package secmem

import (
	"crypto/subtle"
	"errors"
	"runtime"
)

// ErrEntropy is returned when the platform random source could not fill a
// buffer.
var ErrEntropy = errors.New("secmem: entropy source failed")

// Memory is the platform capability the cryptographic code depends on.
type Memory interface {
	// RandomFill fills b from a cryptographically secure source.
	RandomFill(b []byte) error

	// Zero overwrites b with zeros.
	Zero(b []byte)
}

// Platform is the Memory implementation for the build target.
var Platform Memory = platformMemory{}

type platformMemory struct{}

func (platformMemory) RandomFill(b []byte) error {
	return fill(b)
}

func (platformMemory) Zero(b []byte) {
	Zero(b)
}

// Zero overwrites b with zeros in a constant-time friendly way.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
	runtime.KeepAlive(b)
}
