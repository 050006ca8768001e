//go:build linux

package secmem

import (
	"errors"

	"golang.org/x/sys/unix"
)

// fill reads from getrandom(2), retrying on short reads and EINTR.
func fill(b []byte) error {
	for len(b) > 0 {
		n, err := unix.Getrandom(b, 0)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil || n <= 0 {
			return ErrEntropy
		}
		b = b[n:]
	}
	return nil
}
