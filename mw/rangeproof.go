package mw

import (
	"encoding/binary"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ltcsuite/mwzkp/secmem"
)

const (
	// rangeProofBits is the bit length of the proven range [0, 2^64).
	rangeProofBits = 64

	// innerProductRounds is log2(rangeProofBits) - 1; the argument stops
	// when two scalars remain on each side.
	innerProductRounds = 5

	// BulletproofSize is the serialized size of a single 64-bit range
	// proof.
	BulletproofSize = 675

	// ProofMessageSize is the size of the message embedded in a proof.
	ProofMessageSize = 20
)

// Layout of a serialized proof.
const (
	proofTauxOffset   = 0
	proofMuOffset     = 32
	proofPointsOffset = 64
	proofDotOffset    = 193
	proofABOffset     = 225
	proofLROffset     = 353
)

// Bulletproof is a single 64-bit range proof:
//
//	-taux | -mu | flags(A,S,T1,T2) | x(A,S,T1,T2) | <l,r> | a0 a1 b0 b1 |
//	flags(L,R) | x(L0,R0,...,L4,R4)
type Bulletproof [BulletproofSize]byte

// ProofMessage is opaque data embedded in a range proof. It can be
// recovered by whoever holds the rewind nonce.
type ProofMessage [ProofMessageSize]byte

// lrGenerator yields the coefficients of the l and r vector polynomials of
// a single 64-bit proof evaluated at a point:
//
//	l_i = bit_i - z + sL_i*x
//	r_i = y^i*(bit_i - 1 + z + sR_i*x) + z^2*2^i
//
// The blinding vectors sL, sR are re-expanded from the rewind nonce on
// every pass so they never need to be held in memory.
type lrGenerator struct {
	nonce *[32]byte
	value uint64
	count int

	y, z, yn, z22n secp256k1.ModNScalar
}

func newLRGenerator(nonce *[32]byte, value uint64, y, z *secp256k1.ModNScalar) *lrGenerator {
	g := &lrGenerator{nonce: nonce, value: value, y: *y, z: *z}
	g.yn.SetInt(1)
	g.z22n.SquareVal(z)
	return g
}

// next writes the next l_i and r_i evaluated at x.
func (g *lrGenerator) next(l, r, x *secp256k1.ModNScalar) {
	var sl, sr, negz secp256k1.ModNScalar
	bit := uint32(g.value>>g.count) & 1

	scalarChaCha20(&sl, &sr, g.nonce, uint64(g.count)+2)
	sl.Mul(x)
	sr.Mul(x)

	negz.NegateVal(&g.z)
	l.SetInt(bit).Add(&negz).Add(&sl)

	r.SetInt(1 - bit).Negate().Add(&g.z).Add(&sr).Mul(&g.yn).Add(&g.z22n)

	g.count++
	g.yn.Mul(&g.y)
	g.z22n.Add(&g.z22n)

	sl.Zero()
	sr.Zero()
}

func (g *lrGenerator) zero() {
	g.value = 0
	g.y.Zero()
	g.z.Zero()
	g.yn.Zero()
	g.z22n.Zero()
}

// innerProduct sets sum to <l(at), r(at)>.
func innerProduct(sum *secp256k1.ModNScalar, nonce *[32]byte, value uint64,
	y, z, at *secp256k1.ModNScalar) {

	var l, r secp256k1.ModNScalar
	g := newLRGenerator(nonce, value, y, z)
	sum.Zero()
	for i := 0; i < rangeProofBits; i++ {
		g.next(&l, &r, at)
		sum.Add(l.Mul(&r))
	}
	l.Zero()
	r.Zero()
	g.zero()
}

// ProveRange creates a proof that the commitment to value under blind
// hides an amount in [0, 2^64). The value and message are folded into the
// proof so that they can be recovered with the rewind nonce, and the
// private nonce keeps the blinding factor from being recovered by anyone
// else. Any failure returns an all-zero proof.
func (c *Context) ProveRange(blind *BlindingFactor, value uint64, rewindNonce,
	privateNonce *Nonce, message *ProofMessage) (proof Bulletproof, err error) {

	if err := c.check(); err != nil {
		return proof, err
	}
	if rewindNonce == nil || privateNonce == nil {
		return proof, makeError(ErrInvalidNonce, "range proof needs both "+
			"a rewind and a private nonce")
	}

	scratch := c.scratch.get()
	defer c.scratch.put(scratch)

	var gamma, alpha, rho, tau1, tau2, vals secp256k1.ModNScalar
	var taux, mu secp256k1.ModNScalar
	var valBytes [32]byte
	g := secmem.NewGuard(c.mem)
	defer func() { g.Release(err) }()
	g.Track(valBytes[:])
	g.TrackFunc(gamma.Zero, alpha.Zero, rho.Zero, tau1.Zero, tau2.Zero,
		vals.Zero, taux.Zero, mu.Zero)
	g.TrackOutput(proof[:])

	if gamma.SetBytes((*[32]byte)(blind)) != 0 {
		return proof, makeError(ErrInvalidPrivateKey, "blinding factor "+
			"is not below the group order")
	}

	scalars, err := scratch.allocScalars(2 * rangeProofBits)
	if err != nil {
		return proof, err
	}
	points, err := scratch.allocPoints(2 * rangeProofBits)
	if err != nil {
		return proof, err
	}

	var v secp256k1.ModNScalar
	var commitPt, tmp secp256k1.JacobianPoint
	c.baseMult(&gamma, &commitPt)
	tmp = mulPoint(valueScalar(&v, value), &generatorH)
	commitPt = addPoints(&commitPt, &tmp)
	if isInfinity(&commitPt) {
		return proof, makeError(ErrInvalidCommitment, "commitment is the "+
			"point at infinity")
	}
	commitPt.ToAffine()

	var t transcript
	t.update(&commitPt, &generatorH)

	if message != nil {
		copy(valBytes[4:24], message[:])
	}
	binary.BigEndian.PutUint64(valBytes[24:], value)
	vals.SetBytes(&valBytes)

	rewind := (*[32]byte)(rewindNonce)
	scalarChaCha20(&alpha, &rho, rewind, 0)
	scalarChaCha20(&tau1, &tau2, (*[32]byte)(privateNonce), 1)
	alpha.Add(vals.Negate())

	// A commits to the bits of the value, S to the blinding vectors.
	gens := c.gens
	var pts [4]secp256k1.JacobianPoint
	c.baseMult(&alpha, &pts[0])
	c.baseMult(&rho, &pts[1])
	for i := 0; i < rangeProofBits; i++ {
		if value>>i&1 == 1 {
			pts[0] = addPoints(&pts[0], gens.G(i))
		} else {
			tmp = negatePoint(gens.H(i))
			pts[0] = addPoints(&pts[0], &tmp)
		}

		var sl, sr secp256k1.ModNScalar
		scalarChaCha20(&sl, &sr, rewind, uint64(i)+2)
		tmp = mulPoint(&sl, gens.G(i))
		pts[1] = addPoints(&pts[1], &tmp)
		tmp = mulPoint(&sr, gens.H(i))
		pts[1] = addPoints(&pts[1], &tmp)
		sl.Zero()
		sr.Zero()
	}
	if isInfinity(&pts[0]) || isInfinity(&pts[1]) {
		return proof, makeError(ErrProofFailed, "degenerate A or S")
	}
	pts[0].ToAffine()
	pts[1].ToAffine()

	var y, z, zsq, x, xsq secp256k1.ModNScalar
	t.update(&pts[0], &pts[1])
	if !t.challenge(&y) {
		return proof, makeError(ErrProofFailed, "degenerate challenge y")
	}
	t.update(&pts[0], &pts[1])
	if !t.challenge(&z) {
		return proof, makeError(ErrProofFailed, "degenerate challenge z")
	}
	zsq.SquareVal(&z)

	// t(X) = t0 + t1*X + t2*X^2 is recovered from its values at 0, 1 and
	// -1.
	var t0, t1, t2, zero, one, negOne, half secp256k1.ModNScalar
	one.SetInt(1)
	negOne.NegateVal(&one)
	innerProduct(&t0, rewind, value, &y, &z, &zero)
	innerProduct(&t1, rewind, value, &y, &z, &one)
	innerProduct(&t2, rewind, value, &y, &z, &negOne)
	half.SetInt(2).InverseNonConst()
	t2.Negate()
	t1.Add(&t2).Mul(&half)
	t2.Add(&t0).Negate().Add(&t1)

	var tauG secp256k1.JacobianPoint
	pts[2] = mulPoint(&t1, &generatorH)
	c.baseMult(&tau1, &tauG)
	pts[2] = addPoints(&pts[2], &tauG)
	pts[3] = mulPoint(&t2, &generatorH)
	c.baseMult(&tau2, &tauG)
	pts[3] = addPoints(&pts[3], &tauG)
	tauG = secp256k1.JacobianPoint{}
	if isInfinity(&pts[2]) || isInfinity(&pts[3]) {
		return proof, makeError(ErrProofFailed, "degenerate T1 or T2")
	}
	pts[2].ToAffine()
	pts[3].ToAffine()

	t.update(&pts[2], &pts[3])
	if !t.challenge(&x) {
		return proof, makeError(ErrProofFailed, "degenerate challenge x")
	}
	xsq.SquareVal(&x)

	// taux = tau1*x + tau2*x^2 + z^2*gamma and mu = alpha + rho*x, both
	// stored negated.
	taux.Mul2(&tau1, &x)
	taux.Add(tau2.Mul(&xsq))
	taux.Add(gamma.Mul(&zsq))
	mu.Mul2(&rho, &x).Add(&alpha)
	taux.Negate()
	mu.Negate()

	taux.PutBytesUnchecked(proof[proofTauxOffset:])
	mu.PutBytesUnchecked(proof[proofMuOffset:])
	serializePoints(proof[proofPointsOffset:proofDotOffset], pts[:])
	t.mix(proof[:proofPointsOffset])

	a, b := scalars[:rangeProofBits], scalars[rangeProofBits:]
	gs, hs := points[:rangeProofBits], points[rangeProofBits:]
	lr := newLRGenerator(rewind, value, &y, &z)
	defer lr.zero()
	var yinv, yinvn secp256k1.ModNScalar
	yinv.InverseValNonConst(&y)
	yinvn.SetInt(1)
	for i := 0; i < rangeProofBits; i++ {
		lr.next(&a[i], &b[i], &x)
		gs[i] = *gens.G(i)
		hs[i] = mulPoint(&yinvn, gens.H(i))
		hs[i].ToAffine()
		yinvn.Mul(&yinv)
	}

	if err := innerProductProve(proof[proofDotOffset:], &t, a, b, gs, hs); err != nil {
		return proof, err
	}

	log.Tracef("Created range proof for %d bits", rangeProofBits)
	return proof, nil
}

// Bulletproof is ProveRange with the value given as a decimal string.
func (c *Context) Bulletproof(blind *BlindingFactor, amount string,
	rewindNonce, privateNonce *Nonce, message *ProofMessage) (
	Bulletproof, error) {

	value, err := ParseAmount(amount)
	if err != nil {
		return Bulletproof{}, err
	}
	return c.ProveRange(blind, value, rewindNonce, privateNonce, message)
}

// innerProductProve writes the inner product argument that
//
//	P = <a,gs> + <b,hs> + <a,b>*u
//
// for u = ux*G with ux drawn from the transcript after <a,b>. Each round
// splits the vectors into even and odd entries, commits to the cross terms
//
//	L = <a_e,gs_o> + <b_o,hs_e> + <a_e,b_o>*u
//	R = <a_o,gs_e> + <b_e,hs_o> + <a_o,b_e>*u
//
// and folds with the round challenge until two entries remain. a, b, gs
// and hs are overwritten.
func innerProductProve(out []byte, t *transcript, a, b []secp256k1.ModNScalar,
	gs, hs []secp256k1.JacobianPoint) error {

	var dot, cl, cr, s1, s2, ux, xr, xinv secp256k1.ModNScalar
	defer func() {
		dot.Zero()
		cl.Zero()
		cr.Zero()
		s1.Zero()
		s2.Zero()
	}()

	for i := range a {
		s1.Mul2(&a[i], &b[i])
		dot.Add(&s1)
	}
	dot.PutBytesUnchecked(out[0:32])
	t.mix(out[0:32])
	if !t.challenge(&ux) {
		return makeError(ErrProofFailed, "degenerate inner product "+
			"challenge")
	}
	var u secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&ux, &u)
	u.ToAffine()

	var lr [2 * innerProductRounds]secp256k1.JacobianPoint
	for round, n := 0, len(a); n > 2; round, n = round+1, n/2 {
		var pl, pr, tmp secp256k1.JacobianPoint
		cl.Zero()
		cr.Zero()
		for j := 0; j < n/2; j++ {
			e, o := 2*j, 2*j+1
			tmp = mulPoint(&a[e], &gs[o])
			pl = addPoints(&pl, &tmp)
			tmp = mulPoint(&b[o], &hs[e])
			pl = addPoints(&pl, &tmp)
			tmp = mulPoint(&a[o], &gs[e])
			pr = addPoints(&pr, &tmp)
			tmp = mulPoint(&b[e], &hs[o])
			pr = addPoints(&pr, &tmp)
			cl.Add(s1.Mul2(&a[e], &b[o]))
			cr.Add(s1.Mul2(&a[o], &b[e]))
		}
		tmp = mulPoint(&cl, &u)
		pl = addPoints(&pl, &tmp)
		tmp = mulPoint(&cr, &u)
		pr = addPoints(&pr, &tmp)
		if isInfinity(&pl) || isInfinity(&pr) {
			return makeError(ErrProofFailed, "degenerate inner product "+
				"round")
		}
		pl.ToAffine()
		pr.ToAffine()
		lr[2*round], lr[2*round+1] = pl, pr

		t.update(&pl, &pr)
		if !t.challenge(&xr) {
			return makeError(ErrProofFailed, "degenerate inner product "+
				"challenge")
		}
		xinv.InverseValNonConst(&xr)

		for j := 0; j < n/2; j++ {
			e, o := 2*j, 2*j+1
			s1.Mul2(&a[e], &xr)
			s2.Mul2(&a[o], &xinv)
			a[j].Add2(&s1, &s2)
			s1.Mul2(&b[e], &xinv)
			s2.Mul2(&b[o], &xr)
			b[j].Add2(&s1, &s2)

			g1, g2 := mulPoint(&xinv, &gs[e]), mulPoint(&xr, &gs[o])
			gs[j] = addPoints(&g1, &g2)
			gs[j].ToAffine()
			h1, h2 := mulPoint(&xr, &hs[e]), mulPoint(&xinv, &hs[o])
			hs[j] = addPoints(&h1, &h2)
			hs[j].ToAffine()
		}
	}

	a[0].PutBytesUnchecked(out[32:])
	a[1].PutBytesUnchecked(out[64:])
	b[0].PutBytesUnchecked(out[96:])
	b[1].PutBytesUnchecked(out[128:])
	serializePoints(out[160:], lr[:])
	return nil
}
