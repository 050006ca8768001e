package mw

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ltcsuite/ltcd/chaincfg/chainhash"
	"github.com/ltcsuite/mwzkp/secmem"
	"github.com/minio/sha256-simd"
)

// Signature is a compact aggregate signature: the x coordinate of the nonce
// point followed by the scalar s. Both halves are stored byte reversed, the
// way libsecp256k1-zkp serializes aggsig signatures.
type Signature [64]byte

func newSignature(rx *[32]byte, s *secp256k1.ModNScalar) (sig Signature) {
	sb := s.Bytes()
	for i := 0; i < 32; i++ {
		sig[i] = rx[31-i]
		sig[32+i] = sb[31-i]
	}
	return
}

// parts returns the nonce x coordinate and s of the signature.
func (sig *Signature) parts(rx *[32]byte, s *secp256k1.ModNScalar) error {
	var sb [32]byte
	for i := 0; i < 32; i++ {
		rx[i] = sig[31-i]
		sb[i] = sig[63-i]
	}
	if s.SetBytes(&sb) != 0 {
		return makeError(ErrInvalidSignature, "signature scalar is not "+
			"below the group order")
	}
	return nil
}

// sigHash sets e to SHA256(rx || pubKey || msg).
func sigHash(e *secp256k1.ModNScalar, rx *[32]byte, pubKey *PublicKey,
	msg *chainhash.Hash) error {

	var sum [32]byte
	h := sha256.New()
	h.Write(rx[:])
	h.Write(pubKey[:])
	h.Write(msg[:])
	h.Sum(sum[:0])
	if e.SetBytes(&sum) != 0 {
		return makeError(ErrInvalidSignature, "signature hash is not "+
			"below the group order")
	}
	return nil
}

// checkSignature reports whether s*G - e*P has x coordinate rx. Full
// signatures also need a quadratic residue y coordinate; partial ones are
// checked up to sign.
func checkSignature(rx *[32]byte, s, e *secp256k1.ModNScalar,
	P *secp256k1.JacobianPoint, partial bool) bool {

	var sG secp256k1.JacobianPoint
	var negE secp256k1.ModNScalar
	secp256k1.ScalarBaseMultNonConst(s, &sG)
	negE.NegateVal(e)
	eP := mulPoint(&negE, P)
	R := addPoints(&sG, &eP)
	if isInfinity(&R) {
		return false
	}
	R.ToAffine()
	if !partial && !hasQuadY(&R) {
		return false
	}
	return *R.X.Bytes() == *rx
}

// PartialSingleSignerSignature creates this signer's share of an aggregate
// signature over msg. pubKey is the aggregate public key and pubNonce the
// aggregate public nonce, both committed to by the challenge. The share is
// checked against the signer's own public key before it is returned.
func (c *Context) PartialSingleSignerSignature(key *PrivateKey,
	msg *chainhash.Hash, nonce *Nonce, pubKey, pubNonce *PublicKey) (
	sig Signature, err error) {

	if err := c.check(); err != nil {
		return sig, err
	}
	var P, Rtot secp256k1.JacobianPoint
	if err := pubKey.point(&P); err != nil {
		return sig, err
	}
	if err := pubNonce.point(&Rtot); err != nil {
		return sig, err
	}

	var seed [32]byte
	var sk, k, e, s secp256k1.ModNScalar
	var R, ownP secp256k1.JacobianPoint
	g := secmem.NewGuard(c.mem)
	defer func() { g.Release(err) }()
	g.Track(seed[:])
	g.TrackFunc(sk.Zero, k.Zero, s.Zero, R.X.Zero, R.Y.Zero, R.Z.Zero)
	g.TrackOutput(sig[:])

	// The signing seed only feeds nonce generation, which the supplied
	// nonce replaces, but an entropy failure still aborts the signature.
	if err := c.mem.RandomFill(seed[:]); err != nil {
		return sig, makeError(ErrEntropy, "unable to seed signature: "+
			err.Error())
	}

	if !loadScalar(&sk, (*[32]byte)(key)) {
		return sig, makeError(ErrInvalidPrivateKey, "private key is zero "+
			"or not below the group order")
	}
	if !loadScalar(&k, (*[32]byte)(nonce)) {
		return sig, makeError(ErrInvalidNonce, "nonce is zero or not "+
			"below the group order")
	}

	c.baseMult(&k, &R)
	R.ToAffine()
	if !hasQuadY(&Rtot) {
		k.Negate()
	}

	rx := R.X.Bytes()
	if err := sigHash(&e, Rtot.X.Bytes(), pubKey, msg); err != nil {
		return sig, err
	}
	s.Mul2(&e, &sk).Add(&k)

	c.baseMult(&sk, &ownP)
	if !checkSignature(rx, &s, &e, &ownP, true) {
		log.Warnf("Discarding partial signature that failed to verify")
		return sig, makeError(ErrSelfVerify, "partial signature failed "+
			"verification")
	}
	return newSignature(rx, &s), nil
}

// VerifyPartialSignature checks the share sig of the signer with public key
// signerKey, created for the aggregate public key pubKey and aggregate
// public nonce pubNonce.
func (c *Context) VerifyPartialSignature(sig *Signature, msg *chainhash.Hash,
	signerKey, pubKey, pubNonce *PublicKey) error {

	if err := c.check(); err != nil {
		return err
	}
	var P, Rtot secp256k1.JacobianPoint
	if err := signerKey.point(&P); err != nil {
		return err
	}
	if err := pubNonce.point(&Rtot); err != nil {
		return err
	}
	if !pubKey.IsValid() {
		return makeError(ErrInvalidPublicKey, "malformed aggregate "+
			"public key")
	}

	var rx [32]byte
	var s, e secp256k1.ModNScalar
	if err := sig.parts(&rx, &s); err != nil {
		return err
	}
	Rtot.ToAffine()
	if err := sigHash(&e, Rtot.X.Bytes(), pubKey, msg); err != nil {
		return err
	}
	if !checkSignature(&rx, &s, &e, &P, true) {
		return makeError(ErrInvalidSignature, "partial signature does "+
			"not verify")
	}
	return nil
}

// AddSignatures sums partial signatures into the aggregate signature for
// the aggregate public nonce pubNonce.
func (c *Context) AddSignatures(sigs []Signature, pubNonce *PublicKey) (
	Signature, error) {

	if err := c.check(); err != nil {
		return Signature{}, err
	}
	if len(sigs) == 0 {
		return Signature{}, makeError(ErrInvalidSignature, "no "+
			"signatures to add")
	}
	var Rtot secp256k1.JacobianPoint
	if err := pubNonce.point(&Rtot); err != nil {
		return Signature{}, err
	}
	Rtot.ToAffine()

	var rx [32]byte
	var s, sum secp256k1.ModNScalar
	for i := range sigs {
		if err := sigs[i].parts(&rx, &s); err != nil {
			return Signature{}, makeError(ErrInvalidSignature,
				fmt.Sprintf("signature %d: %v", i, err))
		}
		sum.Add(&s)
	}
	return newSignature(Rtot.X.Bytes(), &sum), nil
}

// VerifySignature checks a complete aggregate signature over msg for the
// aggregate public key pubKey.
func (c *Context) VerifySignature(sig *Signature, msg *chainhash.Hash,
	pubKey *PublicKey) error {

	if err := c.check(); err != nil {
		return err
	}
	var P secp256k1.JacobianPoint
	if err := pubKey.point(&P); err != nil {
		return err
	}

	var rx [32]byte
	var s, e secp256k1.ModNScalar
	if err := sig.parts(&rx, &s); err != nil {
		return err
	}
	if err := sigHash(&e, &rx, pubKey, msg); err != nil {
		return err
	}
	if !checkSignature(&rx, &s, &e, &P, false) {
		return makeError(ErrInvalidSignature, "signature does not verify")
	}
	return nil
}
