package mw_test

import (
	"testing"

	"github.com/ltcsuite/ltcd/chaincfg/chainhash"
	"github.com/ltcsuite/mwzkp/mw"
	"github.com/stretchr/testify/require"
)

func TestNewContext(t *testing.T) {
	ctx := testContext(t)
	require.True(t, ctx.Ready())
	require.Equal(t, mw.DefaultGenerators, ctx.Generators().Len())
}

func TestDefaultContext(t *testing.T) {
	require.True(t, mw.InitializingSucceeded())
	require.Same(t, mw.Default(), mw.Default())
}

func TestNewContextEntropyFailure(t *testing.T) {
	ctx, err := mw.NewContext(&mw.Config{Memory: failingMemory{}})
	require.ErrorIs(t, err, mw.ErrEntropy)
	require.NotNil(t, ctx)
	require.False(t, ctx.Ready())

	// Key validation needs no context and keeps working.
	key := repeated(0x01)
	require.True(t, mw.IsValidPrivateKey(&key))

	var (
		blind  mw.BlindingFactor
		nonce  mw.Nonce
		pk     mw.PublicKey
		commit mw.Commitment
		proof  mw.Bulletproof
		sig    mw.Signature
		msg    chainhash.Hash
	)
	copy(blind[:], key[:])
	copy(nonce[:], key[:])

	_, err = ctx.PublicKey(&key)
	require.ErrorIs(t, err, mw.ErrNotReady)
	require.ErrorIs(t, ctx.AddPrivateKeys(&key, &key), mw.ErrNotReady)
	_, err = ctx.CombinePublicKeys([]mw.PublicKey{pk})
	require.ErrorIs(t, err, mw.ErrNotReady)
	_, err = ctx.BlindSwitch(&blind, 1)
	require.ErrorIs(t, err, mw.ErrNotReady)
	_, err = ctx.Commit(&blind, 1)
	require.ErrorIs(t, err, mw.ErrNotReady)
	_, err = ctx.PublicKeyToCommitment(&pk)
	require.ErrorIs(t, err, mw.ErrNotReady)
	_, err = ctx.ProveRange(&blind, 1, &nonce, &nonce, nil)
	require.ErrorIs(t, err, mw.ErrNotReady)
	require.ErrorIs(t, ctx.VerifyRangeProof(&commit, &proof), mw.ErrNotReady)
	_, err = ctx.RewindRangeProof(&commit, &proof, &nonce, nil)
	require.ErrorIs(t, err, mw.ErrNotReady)
	_, err = ctx.PrivateNonce()
	require.ErrorIs(t, err, mw.ErrNotReady)
	_, err = ctx.PartialSingleSignerSignature(&key, &msg, &nonce, &pk, &pk)
	require.ErrorIs(t, err, mw.ErrNotReady)
	require.ErrorIs(t, ctx.VerifySignature(&sig, &msg, &pk), mw.ErrNotReady)

	// Key material passed in is never modified by a failed call.
	require.Equal(t, repeated(0x01), key)
}

func TestNewContextInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  mw.Config
	}{
		{"too few generators", mw.Config{Generators: 64}},
		{"generators not a power of two", mw.Config{Generators: 200}},
		{"negative scratch size", mw.Config{ScratchSize: -1}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctx, err := mw.NewContext(&test.cfg)
			require.ErrorIs(t, err, mw.ErrNotReady)
			require.False(t, ctx.Ready())
		})
	}
}

func TestGeneratorTable(t *testing.T) {
	gens, err := mw.NewGeneratorTable(128)
	require.NoError(t, err)
	require.Equal(t, 128, gens.Len())

	// The table is deterministic and a prefix of the default table.
	full := testContext(t).Generators()
	for i := 0; i < 8; i++ {
		require.True(t, gens.G(i).X.Equals(&full.G(i).X))
		require.True(t, gens.G(i).Y.Equals(&full.G(i).Y))
	}

	// Right generators come from the second half of the derivation.
	require.False(t, gens.H(0).X.Equals(&full.H(0).X))
}
