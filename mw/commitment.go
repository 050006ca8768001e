package mw

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ltcsuite/mwzkp/secmem"
)

// Commitment is a serialized Pedersen commitment blind*G + value*H. The
// first byte is 0x08 when the y coordinate is a quadratic residue and 0x09
// otherwise, followed by the x coordinate.
type Commitment [33]byte

const (
	commitmentTagQuad    = 0x08
	commitmentTagNonQuad = 0x09
)

// commit computes blind*G + value*H. A zero blind is allowed as long as the
// result is not the point at infinity.
func (c *Context) commit(blind *secp256k1.ModNScalar, value uint64) (
	Commitment, error) {

	var bG, vH secp256k1.JacobianPoint
	var v secp256k1.ModNScalar
	c.baseMult(blind, &bG)
	secp256k1.ScalarMultNonConst(valueScalar(&v, value), &generatorH, &vH)
	sum := addPoints(&bG, &vH)
	bG = secp256k1.JacobianPoint{}
	return serializeCommitment(&sum)
}

func serializeCommitment(p *secp256k1.JacobianPoint) (commit Commitment, err error) {
	if isInfinity(p) {
		return commit, makeError(ErrInvalidCommitment, "commitment is the "+
			"point at infinity")
	}
	q := *p
	q.ToAffine()
	commit[0] = commitmentTagQuad
	if !hasQuadY(&q) {
		commit[0] = commitmentTagNonQuad
	}
	q.X.PutBytesUnchecked(commit[1:])
	return commit, nil
}

// point parses the commitment into p.
func (commit *Commitment) point(p *secp256k1.JacobianPoint) error {
	if commit[0] != commitmentTagQuad && commit[0] != commitmentTagNonQuad {
		return makeError(ErrInvalidCommitment, "commitment has an invalid "+
			"prefix")
	}
	if !liftX(p, (*[32]byte)(commit[1:]), commit[0] == commitmentTagNonQuad) {
		return makeError(ErrInvalidCommitment, "commitment is not on the "+
			"curve")
	}
	return nil
}

// PublicKey returns the commitment reinterpreted as a compressed public key,
// the inverse of Context.PublicKeyToCommitment.
func (commit *Commitment) PublicKey() (PublicKey, error) {
	var p secp256k1.JacobianPoint
	if err := commit.point(&p); err != nil {
		return PublicKey{}, err
	}
	return serializePublicKey(&p)
}

// Commit returns the commitment to value under blind. The blind must be
// below the group order.
func (c *Context) Commit(blind *BlindingFactor, value uint64) (
	commit Commitment, err error) {

	if err := c.check(); err != nil {
		return commit, err
	}

	var r secp256k1.ModNScalar
	g := secmem.NewGuard(c.mem)
	defer func() { g.Release(err) }()
	g.TrackFunc(r.Zero)
	g.TrackOutput(commit[:])

	if r.SetBytes((*[32]byte)(blind)) != 0 {
		return commit, makeError(ErrInvalidPrivateKey, "blinding factor is "+
			"not below the group order")
	}
	return c.commit(&r, value)
}

// Commitment is Commit with the value given as a decimal string.
func (c *Context) Commitment(blind *BlindingFactor, amount string) (
	Commitment, error) {

	value, err := ParseAmount(amount)
	if err != nil {
		return Commitment{}, err
	}
	return c.Commit(blind, value)
}

// PublicKeyToCommitment reinterprets a public key as a commitment, for
// commitments that travel disguised as public keys such as kernel excesses.
func (c *Context) PublicKeyToCommitment(pk *PublicKey) (commit Commitment,
	err error) {

	if err := c.check(); err != nil {
		return commit, err
	}
	var p secp256k1.JacobianPoint
	if err := pk.point(&p); err != nil {
		return commit, err
	}
	return serializeCommitment(&p)
}
