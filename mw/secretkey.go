package mw

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ltcsuite/mwzkp/secmem"
)

// PrivateKey is a secp256k1 secret scalar in big-endian form. Callers own
// private keys and should wipe them with Zero when done.
type PrivateKey [32]byte

// Nonce is a 32-byte secret used either as a signing nonce or as one of the
// rewind/private nonces of a range proof.
type Nonce [32]byte

// Zero wipes the key.
func (k *PrivateKey) Zero() {
	secmem.Zero(k[:])
}

// Zero wipes the nonce.
func (n *Nonce) Zero() {
	secmem.Zero(n[:])
}

// IsValidPrivateKey reports whether k is a nonzero scalar below the group
// order. It does not need a Context.
func IsValidPrivateKey(k *PrivateKey) bool {
	var s secp256k1.ModNScalar
	defer s.Zero()
	return loadScalar(&s, (*[32]byte)(k))
}

// PublicKey returns the compressed encoding of k*G.
func (c *Context) PublicKey(k *PrivateKey) (pk PublicKey, err error) {
	if err := c.check(); err != nil {
		return pk, err
	}

	var s secp256k1.ModNScalar
	var p secp256k1.JacobianPoint
	g := secmem.NewGuard(c.mem)
	defer func() { g.Release(err) }()
	g.TrackFunc(s.Zero, p.X.Zero, p.Y.Zero, p.Z.Zero)
	g.TrackOutput(pk[:])

	if !loadScalar(&s, (*[32]byte)(k)) {
		return pk, makeError(ErrInvalidPrivateKey, "private key is zero "+
			"or not below the group order")
	}
	c.baseMult(&s, &p)
	return serializePublicKey(&p)
}

// AddPrivateKeys sets k to k+tweak mod n. The tweak must be below the group
// order and the sum must be a valid private key. k is left unchanged on
// failure.
func (c *Context) AddPrivateKeys(k, tweak *PrivateKey) (err error) {
	if err := c.check(); err != nil {
		return err
	}

	var a, b secp256k1.ModNScalar
	g := secmem.NewGuard(c.mem)
	defer func() { g.Release(err) }()
	g.TrackFunc(a.Zero, b.Zero)

	if !loadScalar(&a, (*[32]byte)(k)) {
		return makeError(ErrInvalidPrivateKey, "private key is zero or "+
			"not below the group order")
	}
	if b.SetBytes((*[32]byte)(tweak)) != 0 {
		return makeError(ErrInvalidPrivateKey, "tweak is not below the "+
			"group order")
	}
	a.Add(&b)
	if a.IsZero() {
		return makeError(ErrInvalidPrivateKey, "tweaked private key is zero")
	}
	a.PutBytes((*[32]byte)(k))
	return nil
}
