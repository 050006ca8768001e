package keychain_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/ltcsuite/mwzkp/keychain"
	"github.com/ltcsuite/mwzkp/mw"
	"github.com/stretchr/testify/require"
)

func testSeed(b byte) []byte {
	return bytes.Repeat([]byte{b}, keychain.SeedSize)
}

func testContext(t *testing.T) *mw.Context {
	t.Helper()
	ctx := mw.Default()
	require.True(t, ctx.Ready())
	return ctx
}

func TestNewMaster(t *testing.T) {
	ctx := testContext(t)

	_, err := keychain.NewMaster(ctx, make([]byte, 16))
	require.ErrorIs(t, err, keychain.ErrInvalidSeed)

	a, err := keychain.NewMaster(ctx, testSeed(0x01))
	require.NoError(t, err)
	b, err := keychain.NewMaster(ctx, testSeed(0x01))
	require.NoError(t, err)
	require.Equal(t, a.PrivateKey(), b.PrivateKey())
	require.Equal(t, a.ChainCode(), b.ChainCode())
	require.Zero(t, a.Depth())

	c, err := keychain.NewMaster(ctx, testSeed(0x02))
	require.NoError(t, err)
	require.NotEqual(t, a.PrivateKey(), c.PrivateKey())

	key := a.PrivateKey()
	require.True(t, mw.IsValidPrivateKey(&key))
}

func TestDerive(t *testing.T) {
	ctx := testContext(t)
	root, err := keychain.NewMaster(ctx, testSeed(0x01))
	require.NoError(t, err)

	normal, err := root.Child(0)
	require.NoError(t, err)
	hardened, err := root.Child(keychain.HardenedKeyStart)
	require.NoError(t, err)
	require.NotEqual(t, normal.PrivateKey(), hardened.PrivateKey())
	require.NotEqual(t, normal.ChainCode(), hardened.ChainCode())
	require.Equal(t, uint8(1), normal.Depth())

	grandchild, err := normal.Child(7)
	require.NoError(t, err)
	derived, err := root.Derive(0, 7)
	require.NoError(t, err)
	require.Equal(t, grandchild.PrivateKey(), derived.PrivateKey())
	require.Equal(t, uint8(2), derived.Depth())

	// Deriving the empty path returns a copy of the key itself.
	self, err := root.Derive()
	require.NoError(t, err)
	require.Equal(t, root.PrivateKey(), self.PrivateKey())
	self.Zero()
	require.NotEqual(t, mw.PrivateKey{}, root.PrivateKey())

	// Deriving does not disturb the parent.
	again, err := root.Child(0)
	require.NoError(t, err)
	require.Equal(t, normal.PrivateKey(), again.PrivateKey())

	pk, err := derived.PublicKey()
	require.NoError(t, err)
	require.True(t, pk.IsValid())
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		path []uint32
		err  bool
	}{
		{in: "m", path: nil},
		{in: "", path: nil},
		{in: "m/0", path: []uint32{0}},
		{in: "m/0'/1/2h", path: []uint32{keychain.HardenedKeyStart, 1,
			keychain.HardenedKeyStart + 2}},
		{in: "0/1", path: []uint32{0, 1}},
		{in: "m/2147483647", path: []uint32{2147483647}},
		{in: "m/2147483648", err: true},
		{in: "m/-1", err: true},
		{in: "m/x", err: true},
		{in: "m//1", err: true},
	}
	for _, test := range tests {
		path, err := keychain.ParsePath(test.in)
		if test.err {
			require.ErrorIs(t, err, keychain.ErrInvalidPath, test.in)
			continue
		}
		require.NoError(t, err, test.in)
		require.Equal(t, test.path, path, test.in)
	}
}

func TestProofMessage(t *testing.T) {
	path := []uint32{0, keychain.HardenedKeyStart + 5, 3}
	msg, err := keychain.ProofMessage(path)
	require.NoError(t, err)
	require.Equal(t, byte(keychain.RegularSwitchType), msg[2])
	require.Equal(t, byte(len(path)), msg[3])

	switchType, got, err := keychain.ParseProofMessage(&msg)
	require.NoError(t, err)
	require.Equal(t, byte(keychain.RegularSwitchType), switchType)
	require.Equal(t, path, got)

	_, err = keychain.ProofMessage(make([]uint32, keychain.MaxMessagePath+1))
	require.ErrorIs(t, err, keychain.ErrInvalidPath)

	msg[0] = 1
	_, _, err = keychain.ParseProofMessage(&msg)
	require.ErrorIs(t, err, keychain.ErrInvalidPath)
}

func TestKeychainOutput(t *testing.T) {
	ctx := testContext(t)
	kc, err := keychain.New(ctx, testSeed(0x03))
	require.NoError(t, err)

	path := []uint32{0, 1}
	const value = 1500000000

	commit, err := kc.Commitment(path, value)
	require.NoError(t, err)
	blind, err := kc.BlindingFactor(path, value)
	require.NoError(t, err)
	direct, err := ctx.Commit(&blind, value)
	require.NoError(t, err)
	require.Equal(t, commit, direct)

	proof, err := kc.Bulletproof(path, value)
	require.NoError(t, err)
	require.NoError(t, ctx.VerifyRangeProof(&commit, &proof))

	out, err := kc.Rewind(&commit, &proof)
	require.NoError(t, err)
	require.Equal(t, uint64(value), out.Value)
	require.Equal(t, path, out.Path)
	require.Equal(t, blind, out.Blind)

	// Another wallet neither recognizes the output nor learns its value.
	other, err := keychain.New(ctx, testSeed(0x04))
	require.NoError(t, err)
	_, err = other.Rewind(&commit, &proof)
	require.ErrorIs(t, err, mw.ErrInvalidProof)

	// Nonces are bound to the commitment.
	a, err := kc.RewindNonce(&commit)
	require.NoError(t, err)
	b, err := kc.PrivateNonce(&commit)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

// TestKeychainKnownAnswer checks the master key, range proof nonces and
// proof message against the derivation of the original PHP wallet.
func TestKeychainKnownAnswer(t *testing.T) {
	ctx := testContext(t)

	seed := make([]byte, keychain.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	kc, err := keychain.New(ctx, seed)
	require.NoError(t, err)
	defer kc.Zero()

	pk, err := kc.Root().PublicKey()
	require.NoError(t, err)
	require.Equal(t, "0251220219bb38c36216646350de587190cd9064c0f666e089e1"+
		"5df5b407aeb422", hex.EncodeToString(pk[:]))

	var commit mw.Commitment
	b, err := hex.DecodeString("0836f3918844a6cb911412f69119c9f3e72943a7d8" +
		"6e8ce958afd798a451f780ae")
	require.NoError(t, err)
	copy(commit[:], b)

	privateNonce, err := kc.PrivateNonce(&commit)
	require.NoError(t, err)
	require.Equal(t, "8ef6f16ae5530ac0b27ef360e86bc43dd2e2dd9513e200511a50"+
		"c74cc33fed0f", hex.EncodeToString(privateNonce[:]))

	rewindNonce, err := kc.RewindNonce(&commit)
	require.NoError(t, err)
	require.Equal(t, "4dd8e9f0b4c17e5926a7f8d288fbf951016b8d09a533031c341f"+
		"d5636770aa74", hex.EncodeToString(rewindNonce[:]))

	msg, err := keychain.ProofMessage([]uint32{1, 2, 0, 0})
	require.NoError(t, err)
	require.Equal(t, "0000010400000001000000020000000000000000",
		hex.EncodeToString(msg[:]))
}
