package mw

import (
	"encoding/binary"
	"math"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ltcsuite/mwzkp/secmem"
)

// RewoundProof is what the holder of the rewind nonce learns from a proof.
type RewoundProof struct {
	Value   uint64
	Message ProofMessage

	// Blind is only recovered when the private nonce is supplied.
	Blind BlindingFactor
}

// rangeProofState is a proof transcript replayed up to the inner product
// argument.
type rangeProofState struct {
	t       transcript
	pts     [4]secp256k1.JacobianPoint
	negTaux secp256k1.ModNScalar
	negMu   secp256k1.ModNScalar
	y, z, x secp256k1.ModNScalar
}

func replayRangeProof(commitPt *secp256k1.JacobianPoint, proof *Bulletproof) (
	*rangeProofState, error) {

	s := &rangeProofState{}
	if !loadScalar(&s.negTaux, (*[32]byte)(proof[proofTauxOffset:])) ||
		!loadScalar(&s.negMu, (*[32]byte)(proof[proofMuOffset:])) {

		return nil, makeError(ErrInvalidProof, "proof scalar out of range")
	}
	if !parsePoints(s.pts[:], proof[proofPointsOffset:proofDotOffset]) {
		return nil, makeError(ErrInvalidProof, "proof point not on the "+
			"curve")
	}

	s.t.update(commitPt, &generatorH)
	s.t.update(&s.pts[0], &s.pts[1])
	if !s.t.challenge(&s.y) {
		return nil, makeError(ErrInvalidProof, "degenerate challenge y")
	}
	s.t.update(&s.pts[0], &s.pts[1])
	if !s.t.challenge(&s.z) {
		return nil, makeError(ErrInvalidProof, "degenerate challenge z")
	}
	s.t.update(&s.pts[2], &s.pts[3])
	if !s.t.challenge(&s.x) {
		return nil, makeError(ErrInvalidProof, "degenerate challenge x")
	}
	s.t.mix(proof[:proofPointsOffset])
	return s, nil
}

// VerifyRangeProof checks that proof shows the amount hidden by commit is
// in [0, 2^64).
func (c *Context) VerifyRangeProof(commit *Commitment, proof *Bulletproof) error {
	if err := c.check(); err != nil {
		return err
	}
	var commitPt secp256k1.JacobianPoint
	if err := commit.point(&commitPt); err != nil {
		return err
	}

	scratch := c.scratch.get()
	defer c.scratch.put(scratch)
	_, err := c.verifyRangeProof(scratch, &commitPt, proof)
	return err
}

func (c *Context) verifyRangeProof(scratch *ScratchSpace,
	commitPt *secp256k1.JacobianPoint, proof *Bulletproof) (
	*rangeProofState, error) {

	s, err := replayRangeProof(commitPt, proof)
	if err != nil {
		return nil, err
	}
	var dot secp256k1.ModNScalar
	if dot.SetBytes((*[32]byte)(proof[proofDotOffset:])) != 0 {
		return nil, makeError(ErrInvalidProof, "inner product out of "+
			"range")
	}

	var zsq, zcube, xsq, sumY, yn, delta, tmp secp256k1.ModNScalar
	zsq.SquareVal(&s.z)
	zcube.Mul2(&zsq, &s.z)
	xsq.SquareVal(&s.x)
	yn.SetInt(1)
	for i := 0; i < rangeProofBits; i++ {
		sumY.Add(&yn)
		yn.Mul(&s.y)
	}

	// delta = (z - z^2)*sum(y^i) - z^3*sum(2^i)
	delta.NegateVal(&zsq).Add(&s.z).Mul(&sumY)
	delta.Add(valueScalar(&tmp, math.MaxUint64).Mul(&zcube).Negate())

	// (dot - delta)*H + taux*G == z^2*C + x*T1 + x^2*T2
	var lhs, rhs, p secp256k1.JacobianPoint
	tmp.NegateVal(&delta).Add(&dot)
	lhs = mulPoint(&tmp, &generatorH)
	tmp.NegateVal(&s.negTaux)
	secp256k1.ScalarBaseMultNonConst(&tmp, &p)
	lhs = addPoints(&lhs, &p)
	rhs = mulPoint(&zsq, commitPt)
	p = mulPoint(&s.x, &s.pts[2])
	rhs = addPoints(&rhs, &p)
	p = mulPoint(&xsq, &s.pts[3])
	rhs = addPoints(&rhs, &p)
	if !pointsEqual(&lhs, &rhs) {
		return nil, makeError(ErrInvalidProof, "polynomial commitment "+
			"mismatch")
	}

	points, err := scratch.allocPoints(2 * rangeProofBits)
	if err != nil {
		return nil, err
	}
	gs, hs := points[:rangeProofBits], points[rangeProofBits:]

	// P = A + x*S - mu*G + sum(-z*G_i + (z + z^2*2^i*y^-i)*H_i)
	var negz, yinv, yinvn, z22n, hc secp256k1.ModNScalar
	P := s.pts[0]
	p = mulPoint(&s.x, &s.pts[1])
	P = addPoints(&P, &p)
	secp256k1.ScalarBaseMultNonConst(&s.negMu, &p)
	P = addPoints(&P, &p)
	negz.NegateVal(&s.z)
	yinv.InverseValNonConst(&s.y)
	yinvn.SetInt(1)
	z22n.Set(&zsq)
	for i := 0; i < rangeProofBits; i++ {
		gs[i] = *c.gens.G(i)
		hs[i] = mulPoint(&yinvn, c.gens.H(i))
		hs[i].ToAffine()

		p = mulPoint(&negz, &gs[i])
		P = addPoints(&P, &p)
		hc.Mul2(&z22n, &yinvn).Add(&s.z)
		p = mulPoint(&hc, c.gens.H(i))
		P = addPoints(&P, &p)

		yinvn.Mul(&yinv)
		z22n.Add(&z22n)
	}

	if err := innerProductVerify(&s.t, &P, &dot, proof[proofDotOffset:], gs,
		hs); err != nil {

		return nil, err
	}
	return s, nil
}

// innerProductVerify checks the argument written by innerProductProve for
// the commitment P to the claimed inner product dot. gs and hs are
// overwritten.
func innerProductVerify(t *transcript, P *secp256k1.JacobianPoint,
	dot *secp256k1.ModNScalar, in []byte, gs, hs []secp256k1.JacobianPoint) error {

	var ux, xr, xinv, xsq, xinvsq secp256k1.ModNScalar
	t.mix(in[0:32])
	if !t.challenge(&ux) {
		return makeError(ErrInvalidProof, "degenerate inner product "+
			"challenge")
	}
	var u, p secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&ux, &u)
	u.ToAffine()
	p = mulPoint(dot, &u)
	acc := addPoints(P, &p)

	var ab [4]secp256k1.ModNScalar
	for i := range ab {
		if ab[i].SetBytes((*[32]byte)(in[32+32*i:])) != 0 {
			return makeError(ErrInvalidProof, "inner product scalar out "+
				"of range")
		}
	}
	var lr [2 * innerProductRounds]secp256k1.JacobianPoint
	if !parsePoints(lr[:], in[160:]) {
		return makeError(ErrInvalidProof, "inner product point not on "+
			"the curve")
	}

	for round, n := 0, len(gs); n > 2; round, n = round+1, n/2 {
		pl, pr := &lr[2*round], &lr[2*round+1]
		t.update(pl, pr)
		if !t.challenge(&xr) {
			return makeError(ErrInvalidProof, "degenerate inner product "+
				"challenge")
		}
		xinv.InverseValNonConst(&xr)
		xsq.SquareVal(&xr)
		xinvsq.SquareVal(&xinv)

		p = mulPoint(&xsq, pl)
		acc = addPoints(&acc, &p)
		p = mulPoint(&xinvsq, pr)
		acc = addPoints(&acc, &p)

		for j := 0; j < n/2; j++ {
			e, o := 2*j, 2*j+1
			g1, g2 := mulPoint(&xinv, &gs[e]), mulPoint(&xr, &gs[o])
			gs[j] = addPoints(&g1, &g2)
			gs[j].ToAffine()
			h1, h2 := mulPoint(&xr, &hs[e]), mulPoint(&xinv, &hs[o])
			hs[j] = addPoints(&h1, &h2)
			hs[j].ToAffine()
		}
	}

	// a0*G0 + a1*G1 + b0*H0 + b1*H1 + (a0*b0 + a1*b1)*u
	var c0, c1 secp256k1.ModNScalar
	expected := mulPoint(&ab[0], &gs[0])
	p = mulPoint(&ab[1], &gs[1])
	expected = addPoints(&expected, &p)
	p = mulPoint(&ab[2], &hs[0])
	expected = addPoints(&expected, &p)
	p = mulPoint(&ab[3], &hs[1])
	expected = addPoints(&expected, &p)
	c0.Mul2(&ab[0], &ab[2])
	c1.Mul2(&ab[1], &ab[3])
	p = mulPoint(c0.Add(&c1), &u)
	expected = addPoints(&expected, &p)

	if !pointsEqual(&acc, &expected) {
		return makeError(ErrInvalidProof, "inner product argument "+
			"mismatch")
	}
	return nil
}

// RewindRangeProof verifies proof against commit and recovers the value and
// message folded in with rewindNonce. When privateNonce is not nil the
// blinding factor is recovered as well and the commitment recomputed from
// it must match.
func (c *Context) RewindRangeProof(commit *Commitment, proof *Bulletproof,
	rewindNonce, privateNonce *Nonce) (rw *RewoundProof, err error) {

	if err := c.check(); err != nil {
		return nil, err
	}
	if rewindNonce == nil {
		return nil, makeError(ErrInvalidNonce, "missing rewind nonce")
	}
	var commitPt secp256k1.JacobianPoint
	if err := commit.point(&commitPt); err != nil {
		return nil, err
	}

	scratch := c.scratch.get()
	defer c.scratch.put(scratch)
	s, err := c.verifyRangeProof(scratch, &commitPt, proof)
	if err != nil {
		return nil, err
	}

	var alpha, rho, vals, tau1, tau2, gamma, zsq secp256k1.ModNScalar
	var valBytes [32]byte
	rw = &RewoundProof{}
	g := secmem.NewGuard(c.mem)
	defer func() {
		g.Release(err)
		if err != nil {
			rw = nil
		}
	}()
	g.Track(valBytes[:])
	g.TrackFunc(alpha.Zero, rho.Zero, vals.Zero, tau1.Zero, tau2.Zero,
		gamma.Zero)
	g.TrackOutput(rw.Blind[:], rw.Message[:])

	scalarChaCha20(&alpha, &rho, (*[32]byte)(rewindNonce), 0)
	vals.Mul2(&rho, &s.x).Add(&alpha).Add(&s.negMu)
	vals.PutBytes(&valBytes)
	if valBytes[0]|valBytes[1]|valBytes[2]|valBytes[3] != 0 {
		return nil, makeError(ErrInvalidProof, "rewind nonce does not "+
			"match the proof")
	}
	rw.Value = binary.BigEndian.Uint64(valBytes[24:])
	copy(rw.Message[:], valBytes[4:24])
	if privateNonce == nil {
		return rw, nil
	}

	// gamma = -(-taux + tau1*x + tau2*x^2) / z^2
	scalarChaCha20(&tau1, &tau2, (*[32]byte)(privateNonce), 1)
	tau1.Mul(&s.x)
	tau2.Mul(&s.x).Mul(&s.x)
	gamma.Add2(&s.negTaux, &tau1).Add(&tau2).Negate()
	gamma.Mul(zsq.SquareVal(&s.z).InverseNonConst())
	gamma.PutBytes((*[32]byte)(&rw.Blind))

	recommit, err := c.commit(&gamma, rw.Value)
	if err != nil || recommit != *commit {
		return nil, makeError(ErrInvalidProof, "private nonce does not "+
			"match the proof")
	}
	return rw, nil
}
