package mw

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ltcsuite/mwzkp/secmem"
	"github.com/minio/sha256-simd"
)

// BlindingFactor is the secret scalar hiding the value of a commitment.
type BlindingFactor [32]byte

// Zero wipes the blinding factor.
func (b *BlindingFactor) Zero() {
	secmem.Zero(b[:])
}

// BlindSwitch derives the switch commitment blinding factor of blind for
// value:
//
//	blind' = SHA256(ser(blind*G + value*H) || ser(blind*J)) + blind
//
// Committing with blind' binds the commitment to blind*J, so the value can
// not be recovered from blind' alone. The result must be a valid private key.
func (c *Context) BlindSwitch(blind *BlindingFactor, value uint64) (
	bf BlindingFactor, err error) {

	if err := c.check(); err != nil {
		return bf, err
	}

	var r, e secp256k1.ModNScalar
	var bJ secp256k1.JacobianPoint
	var sum [32]byte
	g := secmem.NewGuard(c.mem)
	defer func() { g.Release(err) }()
	g.Track(sum[:])
	g.TrackFunc(r.Zero, e.Zero, bJ.X.Zero, bJ.Y.Zero, bJ.Z.Zero)
	g.TrackOutput(bf[:])

	if r.SetBytes((*[32]byte)(blind)) != 0 || r.IsZero() {
		return bf, makeError(ErrInvalidPrivateKey, "blind is zero or not "+
			"below the group order")
	}

	commit, err := c.commit(&r, value)
	if err != nil {
		return bf, err
	}
	secp256k1.ScalarMultNonConst(&r, &generatorJ, &bJ)
	switchKey, err := serializePublicKey(&bJ)
	if err != nil {
		return bf, makeError(ErrInvalidPrivateKey, "blind*J is infinity")
	}

	h := sha256.New()
	h.Write(commit[:])
	h.Write(switchKey[:])
	h.Sum(sum[:0])

	if e.SetBytes(&sum) != 0 {
		return bf, makeError(ErrInvalidPrivateKey, "switch hash is not "+
			"below the group order")
	}
	e.Add(&r)
	if e.IsZero() {
		return bf, makeError(ErrInvalidPrivateKey, "switch blinding "+
			"factor is zero")
	}
	e.PutBytes((*[32]byte)(&bf))

	if !IsValidPrivateKey((*PrivateKey)(&bf)) {
		return bf, makeError(ErrInvalidPrivateKey, "switch blinding "+
			"factor is not a valid private key")
	}
	return bf, nil
}

// BlindingFactor is BlindSwitch with the value given as a decimal string.
func (c *Context) BlindingFactor(blind *BlindingFactor, amount string) (
	BlindingFactor, error) {

	value, err := ParseAmount(amount)
	if err != nil {
		return BlindingFactor{}, err
	}
	return c.BlindSwitch(blind, value)
}
