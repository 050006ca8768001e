package mw_test

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"testing"

	"github.com/ltcsuite/mwzkp/mw"
	"github.com/ltcsuite/mwzkp/secmem"
	"github.com/stretchr/testify/require"
)

var (
	testCtxOnce sync.Once
	testCtx     *mw.Context
	testCtxErr  error
)

// testContext returns a Context shared by the tests of this package.
func testContext(t *testing.T) *mw.Context {
	t.Helper()
	testCtxOnce.Do(func() {
		testCtx, testCtxErr = mw.NewContext(nil)
	})
	require.NoError(t, testCtxErr)
	return testCtx
}

// failingMemory is a Memory whose entropy source always fails.
type failingMemory struct{}

func (failingMemory) RandomFill([]byte) error {
	return errors.New("no entropy")
}

func (failingMemory) Zero(b []byte) {
	secmem.Zero(b)
}

// fixedMemory fills every entropy request with the same byte, or fails
// once fail is set.
type fixedMemory struct {
	fill byte
	fail bool
}

func (m *fixedMemory) RandomFill(b []byte) error {
	if m.fail {
		return errors.New("no entropy")
	}
	for i := range b {
		b[i] = m.fill
	}
	return nil
}

func (m *fixedMemory) Zero(b []byte) {
	secmem.Zero(b)
}

func hexArray(t *testing.T, s string, out []byte) {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	require.Len(t, b, len(out))
	copy(out, b)
}

func randomKey(t *testing.T) mw.PrivateKey {
	t.Helper()
	var k mw.PrivateKey
	for {
		_, err := rand.Read(k[:])
		require.NoError(t, err)
		if mw.IsValidPrivateKey(&k) {
			return k
		}
	}
}

func randomNonce(t *testing.T) mw.Nonce {
	t.Helper()
	var n mw.Nonce
	_, err := rand.Read(n[:])
	require.NoError(t, err)
	return n
}

func repeated(b byte) (k mw.PrivateKey) {
	for i := range k {
		k[i] = b
	}
	return
}
