package mw

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// generatorH is the value generator of Pedersen commitments: the point whose
// x coordinate is the SHA-256 of the uncompressed encoding of G.
var generatorH = func() (H secp256k1.JacobianPoint) {
	H.X.SetByteSlice(mustHex("50929b74c1a04954b78b4b6035e97a5e078a5a0f28ec96d547bfee9ace803ac0"))
	H.Y.SetByteSlice(mustHex("31d3c6863973926e049e637cb1b5f40a36dac28af1766968c30c2313f3a38904"))
	H.Z.SetInt(1)
	return
}()

// generatorJ is the switch commitment generator: the point whose x
// coordinate is the double SHA-256 of the uncompressed encoding of G.
var generatorJ = func() (J secp256k1.JacobianPoint) {
	J.X.SetByteSlice(mustHex("b860f56795fc03f3c21685383d1b5a2f2954f49b7e398b8d2a0193933621155f"))
	J.Y.SetByteSlice(mustHex("a43f09d32caa8f53423f427403a56a3165a5a69a74cf56fc5901a2dca6c5c43a"))
	J.Z.SetInt(1)
	return
}()

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// loadScalar sets s from b and reports whether b was a valid nonzero scalar
// below the group order.
func loadScalar(s *secp256k1.ModNScalar, b *[32]byte) bool {
	overflow := s.SetBytes(b)
	return overflow == 0 && !s.IsZero()
}

// valueScalar sets s to v.
func valueScalar(s *secp256k1.ModNScalar, v uint64) *secp256k1.ModNScalar {
	var b [32]byte
	binary.BigEndian.PutUint64(b[24:], v)
	s.SetBytes(&b)
	return s
}

func isInfinity(p *secp256k1.JacobianPoint) bool {
	x, y, z := p.X, p.Y, p.Z
	x.Normalize()
	y.Normalize()
	z.Normalize()
	return (x.IsZero() && y.IsZero()) || z.IsZero()
}

// addPoints returns a+b.
func addPoints(a, b *secp256k1.JacobianPoint) secp256k1.JacobianPoint {
	var r secp256k1.JacobianPoint
	secp256k1.AddNonConst(a, b, &r)
	return r
}

// mulPoint returns k*p.
func mulPoint(k *secp256k1.ModNScalar, p *secp256k1.JacobianPoint) secp256k1.JacobianPoint {
	var r secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(k, p, &r)
	return r
}

// negatePoint returns -p.
func negatePoint(p *secp256k1.JacobianPoint) secp256k1.JacobianPoint {
	r := *p
	r.Y.Normalize()
	r.Y.Negate(1).Normalize()
	return r
}

// hasQuadY reports whether the y coordinate of the affine point p is a
// quadratic residue. libsecp256k1-zkp encodes the sign of commitments,
// aggsig nonces and proof points this way instead of by parity.
func hasQuadY(p *secp256k1.JacobianPoint) bool {
	var root secp256k1.FieldVal
	return root.SquareRootVal(&p.Y)
}

// liftX sets p to the point with x coordinate x whose y coordinate is a
// quadratic residue, or its negation when negate is set. It reports false
// when x is not on the curve.
func liftX(p *secp256k1.JacobianPoint, x *[32]byte, negate bool) bool {
	var rhs secp256k1.FieldVal
	if p.X.SetBytes(x) != 0 {
		return false
	}
	rhs.SquareVal(&p.X).Mul(&p.X).AddInt(7).Normalize()
	if !p.Y.SquareRootVal(&rhs) {
		return false
	}
	p.Y.Normalize()
	if negate {
		p.Y.Negate(1).Normalize()
	}
	p.Z.SetInt(1)
	return true
}

// pointsEqual reports whether a and b are the same point.
func pointsEqual(a, b *secp256k1.JacobianPoint) bool {
	nb := negatePoint(b)
	d := addPoints(a, &nb)
	return isInfinity(&d)
}
