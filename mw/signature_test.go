package mw_test

import (
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/ltcsuite/ltcd/chaincfg/chainhash"
	"github.com/ltcsuite/mwzkp/mw"
	"github.com/stretchr/testify/require"
)

func randomMessage(t *testing.T) (msg chainhash.Hash) {
	t.Helper()
	_, err := rand.Read(msg[:])
	require.NoError(t, err)
	return
}

// signer is one party of an aggregate signature.
type signer struct {
	key      mw.PrivateKey
	nonce    mw.Nonce
	pubKey   mw.PublicKey
	pubNonce mw.PublicKey
}

func newSigner(t *testing.T, ctx *mw.Context) *signer {
	t.Helper()
	s := &signer{key: randomKey(t)}
	var err error
	s.nonce, err = ctx.PrivateNonce()
	require.NoError(t, err)
	s.pubKey, err = ctx.PublicKey(&s.key)
	require.NoError(t, err)
	s.pubNonce, err = ctx.PublicKey((*mw.PrivateKey)(&s.nonce))
	require.NoError(t, err)
	return s
}

func TestPrivateNonce(t *testing.T) {
	ctx := testContext(t)
	seen := make(map[mw.Nonce]struct{})
	for i := 0; i < 32; i++ {
		nonce, err := ctx.PrivateNonce()
		require.NoError(t, err)
		require.True(t, mw.IsValidPrivateKey((*mw.PrivateKey)(&nonce)))
		_, dup := seen[nonce]
		require.False(t, dup)
		seen[nonce] = struct{}{}

		// The public nonce always has a quadratic residue y coordinate,
		// which the commitment encoding exposes as the 0x08 prefix.
		pub, err := ctx.PublicKey((*mw.PrivateKey)(&nonce))
		require.NoError(t, err)
		commit, err := ctx.PublicKeyToCommitment(&pub)
		require.NoError(t, err)
		require.Equal(t, byte(0x08), commit[0])
	}

	failing, _ := mw.NewContext(&mw.Config{Memory: failingMemory{}})
	nonce, err := failing.PrivateNonce()
	require.ErrorIs(t, err, mw.ErrNotReady)
	require.Equal(t, mw.Nonce{}, nonce)
}

func TestSingleSignerSignature(t *testing.T) {
	ctx := testContext(t)
	for i := 0; i < 8; i++ {
		s := newSigner(t, ctx)
		msg := randomMessage(t)

		sig, err := ctx.PartialSingleSignerSignature(&s.key, &msg,
			&s.nonce, &s.pubKey, &s.pubNonce)
		require.NoError(t, err)
		require.NoError(t, ctx.VerifyPartialSignature(&sig, &msg,
			&s.pubKey, &s.pubKey, &s.pubNonce))

		// A lone signer's partial signature is already complete.
		require.NoError(t, ctx.VerifySignature(&sig, &msg, &s.pubKey))

		other := randomMessage(t)
		require.ErrorIs(t, ctx.VerifySignature(&sig, &other, &s.pubKey),
			mw.ErrInvalidSignature)
	}
}

func TestAggregateSignature(t *testing.T) {
	ctx := testContext(t)
	for i := 0; i < 8; i++ {
		alice, bob := newSigner(t, ctx), newSigner(t, ctx)
		msg := randomMessage(t)

		pubKey, err := ctx.CombinePublicKeys([]mw.PublicKey{alice.pubKey,
			bob.pubKey})
		require.NoError(t, err)
		pubNonce, err := ctx.CombinePublicKeys([]mw.PublicKey{
			alice.pubNonce, bob.pubNonce})
		require.NoError(t, err)

		var partials []mw.Signature
		for _, s := range []*signer{alice, bob} {
			sig, err := ctx.PartialSingleSignerSignature(&s.key, &msg,
				&s.nonce, &pubKey, &pubNonce)
			require.NoError(t, err)
			require.NoError(t, ctx.VerifyPartialSignature(&sig, &msg,
				&s.pubKey, &pubKey, &pubNonce))
			partials = append(partials, sig)
		}

		// Shares do not verify for the other party.
		require.ErrorIs(t, ctx.VerifyPartialSignature(&partials[0], &msg,
			&bob.pubKey, &pubKey, &pubNonce), mw.ErrInvalidSignature)

		sig, err := ctx.AddSignatures(partials, &pubNonce)
		require.NoError(t, err)
		require.NoError(t, ctx.VerifySignature(&sig, &msg, &pubKey))
		require.Error(t, ctx.VerifySignature(&sig, &msg, &alice.pubKey))

		tampered := sig
		tampered[40] ^= 0x01
		require.Error(t, ctx.VerifySignature(&tampered, &msg, &pubKey))
	}
}

func TestPartialSignatureInvalidInput(t *testing.T) {
	ctx := testContext(t)
	s := newSigner(t, ctx)
	msg := randomMessage(t)

	var bad mw.PublicKey
	sig, err := ctx.PartialSingleSignerSignature(&s.key, &msg, &s.nonce,
		&bad, &s.pubNonce)
	require.ErrorIs(t, err, mw.ErrInvalidPublicKey)
	require.Equal(t, mw.Signature{}, sig)

	_, err = ctx.PartialSingleSignerSignature(&s.key, &msg, &s.nonce,
		&s.pubKey, &bad)
	require.ErrorIs(t, err, mw.ErrInvalidPublicKey)

	var zeroNonce mw.Nonce
	_, err = ctx.PartialSingleSignerSignature(&s.key, &msg, &zeroNonce,
		&s.pubKey, &s.pubNonce)
	require.ErrorIs(t, err, mw.ErrInvalidNonce)

	var zeroKey mw.PrivateKey
	_, err = ctx.PartialSingleSignerSignature(&zeroKey, &msg, &s.nonce,
		&s.pubKey, &s.pubNonce)
	require.ErrorIs(t, err, mw.ErrInvalidPrivateKey)

	_, err = ctx.AddSignatures(nil, &s.pubNonce)
	require.ErrorIs(t, err, mw.ErrInvalidSignature)
}

// TestPrivateNonceKnownAnswer checks the nonce derived from a fixed seed
// against libsecp256k1-zkp's aggsig_export_secnonce_single.
func TestPrivateNonceKnownAnswer(t *testing.T) {
	ctx, err := mw.NewContext(&mw.Config{Memory: &fixedMemory{fill: 0x05}})
	require.NoError(t, err)

	nonce, err := ctx.PrivateNonce()
	require.NoError(t, err)
	require.Equal(t, "25d10ace1bb0fa13e94a14cfc1d45d5d989fe93e33cfff24f2bb"+
		"659e2538691f", hex.EncodeToString(nonce[:]))

	again, err := ctx.PrivateNonce()
	require.NoError(t, err)
	require.Equal(t, nonce, again)
}

// TestPartialSignatureKnownAnswer checks a partial signature, including its
// byte reversed halves, against libsecp256k1-zkp's aggsig_sign_single.
func TestPartialSignatureKnownAnswer(t *testing.T) {
	ctx := testContext(t)

	key := repeated(0x11)
	var nonce mw.Nonce
	hexArray(t, "25d10ace1bb0fa13e94a14cfc1d45d5d989fe93e33cfff24f2bb659e"+
		"2538691f", nonce[:])
	msg := chainhash.Hash(repeated(0x42))

	pubKey, err := ctx.PublicKey(&key)
	require.NoError(t, err)
	require.Equal(t, "034f355bdcb7cc0af728ef3cceb9615d90684bb5b2ca5f859ab0"+
		"f0b704075871aa", hex.EncodeToString(pubKey[:]))
	pubNonce, err := ctx.PublicKey((*mw.PrivateKey)(&nonce))
	require.NoError(t, err)
	require.Equal(t, "02b34e5b64831947c6784711c2f9c7ab6d5e27eb8be0dc645a92"+
		"39edfe28ee6504", hex.EncodeToString(pubNonce[:]))

	sig, err := ctx.PartialSingleSignerSignature(&key, &msg, &nonce,
		&pubKey, &pubNonce)
	require.NoError(t, err)
	require.Equal(t, "0465ee28feed39925a64dce08beb275e6dabc7f9c2114778c647"+
		"1983645b4eb3a30a5a5bc911ae443d691d18a86239e30fd4c6cbef1bf588bf86"+
		"4c2ebacce833", hex.EncodeToString(sig[:]))
	require.NoError(t, ctx.VerifySignature(&sig, &msg, &pubKey))
}

func TestPartialSignatureEntropyFailure(t *testing.T) {
	mem := &fixedMemory{fill: 0x05}
	ctx, err := mw.NewContext(&mw.Config{Memory: mem})
	require.NoError(t, err)
	s := newSigner(t, ctx)
	msg := randomMessage(t)

	mem.fail = true
	sig, err := ctx.PartialSingleSignerSignature(&s.key, &msg, &s.nonce,
		&s.pubKey, &s.pubNonce)
	require.ErrorIs(t, err, mw.ErrEntropy)
	require.Equal(t, mw.Signature{}, sig)
}

// TestPartialSignatureUnrelatedKey shows that a share made for an aggregate
// key the signer is not part of still passes the signer's own check, and
// only the aggregate verification rejects it.
func TestPartialSignatureUnrelatedKey(t *testing.T) {
	ctx := testContext(t)
	s, stranger := newSigner(t, ctx), newSigner(t, ctx)
	msg := randomMessage(t)

	sig, err := ctx.PartialSingleSignerSignature(&s.key, &msg, &s.nonce,
		&stranger.pubKey, &s.pubNonce)
	require.NoError(t, err)
	require.NoError(t, ctx.VerifyPartialSignature(&sig, &msg, &s.pubKey,
		&stranger.pubKey, &s.pubNonce))

	full, err := ctx.AddSignatures([]mw.Signature{sig}, &s.pubNonce)
	require.NoError(t, err)
	require.ErrorIs(t, ctx.VerifySignature(&full, &msg, &stranger.pubKey),
		mw.ErrInvalidSignature)
	require.ErrorIs(t, ctx.VerifySignature(&full, &msg, &s.pubKey),
		mw.ErrInvalidSignature)
}
