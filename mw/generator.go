package mw

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/minio/sha256-simd"
)

// GeneratorTable holds the NUMS generators of the Bulletproof inner product
// argument. The first half are the G_i generators, the second half the H_i
// generators. It is immutable once built.
type GeneratorTable struct {
	gens []secp256k1.JacobianPoint
}

// NewGeneratorTable derives n generators exactly as libsecp256k1-zkp does:
// an RFC6979 HMAC-DRBG keyed with the affine coordinates of G produces one
// 32-byte key per generator, and each key is mapped to the curve twice with
// the Shallue-van de Woestijne encoding and the two points added.
func NewGeneratorTable(n int) (*GeneratorTable, error) {
	if n < 2*rangeProofBits || n&(n-1) != 0 {
		return nil, makeError(ErrNotReady, fmt.Sprintf("generator table "+
			"size %d is not a power of two of at least %d", n,
			2*rangeProofBits))
	}

	var G secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(new(secp256k1.ModNScalar).SetInt(1), &G)
	G.ToAffine()

	t := &GeneratorTable{gens: make([]secp256k1.JacobianPoint, n)}
	for i := range t.gens {
		key := secp256k1.NonceRFC6979(G.X.Bytes()[:], G.Y.Bytes()[:],
			nil, nil, uint32(i))
		t.gens[i] = generatorFromKey(key.Bytes())
	}
	return t, nil
}

// Len returns the number of generators in the table.
func (t *GeneratorTable) Len() int {
	return len(t.gens)
}

// G returns the i-th left generator.
func (t *GeneratorTable) G(i int) *secp256k1.JacobianPoint {
	return &t.gens[i]
}

// H returns the i-th right generator.
func (t *GeneratorTable) H(i int) *secp256k1.JacobianPoint {
	return &t.gens[len(t.gens)/2+i]
}

// generatorFromKey is secp256k1_generator_generate.
func generatorFromKey(key [32]byte) secp256k1.JacobianPoint {
	var t secp256k1.FieldVal
	h := sha256.New()
	h.Write([]byte("1st generation: "))
	h.Write(key[:])
	t.SetByteSlice(h.Sum(nil))
	accum := shallueVanDeWoestijne(&t)

	h.Reset()
	h.Write([]byte("2nd generation: "))
	h.Write(key[:])
	t.SetByteSlice(h.Sum(nil))
	add := shallueVanDeWoestijne(&t)

	var sum secp256k1.JacobianPoint
	secp256k1.AddNonConst(&accum, &add, &sum)
	sum.ToAffine()
	return sum
}

// Constants of the Shallue-van de Woestijne map for y^2 = x^3 + 7:
// c = sqrt(-3) and d = (c-1)/2.
var svdwC, svdwD = func() (c, d secp256k1.FieldVal) {
	c.SetByteSlice(mustHex("0a2d2ba93507f1df233770c2a797962cc61f6d15da14ecd47d8d27ae1cd5f852"))
	d.SetByteSlice(mustHex("851695d49a83f8ef919bb86153cbcb16630fb68aed0a766a3ec693d68e6afa40"))
	return
}()

// shallueVanDeWoestijne maps a field element to a curve point. The
// magnitude of every intermediate is noted since FieldVal arithmetic
// requires it.
func shallueVanDeWoestijne(t *secp256k1.FieldVal) (ge secp256k1.JacobianPoint) {
	var b, bPlus1, wn, wd, x1n, x2n, x3n, x3d, jInv, tmp,
		x1, x2, x3, alphaIn, betaIn, gammaIn, y1, y2, y3 secp256k1.FieldVal

	b.SetInt(7)
	bPlus1.SetInt(8)

	wn.Mul2(&svdwC, t)    // mag 1
	wd.SquareVal(t)       // mag 1
	wd.Add(&bPlus1)       // mag 2
	tmp.Mul2(t, &wn)      // mag 1
	tmp.Negate(1)         // mag 2
	x1n.Mul2(&svdwD, &wd) // mag 1
	x1n.Add(&tmp)         // mag 3
	x2n = x1n             // mag 3
	x2n.Add(&wd)          // mag 5
	x2n.Negate(5)         // mag 6
	x3d.Mul2(&svdwC, t)   // mag 1
	x3d.Square()          // mag 1
	x3n.SquareVal(&wd)    // mag 1
	x3n.Add(&x3d)         // mag 2
	jInv.Mul2(&x3d, &wd)  // mag 1
	jInv.Inverse()        // mag 1
	x1.Mul2(&x1n, &x3d)   // mag 1
	x1.Mul(&jInv)         // mag 1
	x2.Mul2(&x2n, &x3d)   // mag 1
	x2.Mul(&jInv)         // mag 1
	x3.Mul2(&x3n, &wd)    // mag 1
	x3.Mul(&jInv)         // mag 1

	alphaIn.SquareVal(&x1) // mag 1
	alphaIn.Mul(&x1)       // mag 1
	alphaIn.Add(&b)        // mag 2
	betaIn.SquareVal(&x2)  // mag 1
	betaIn.Mul(&x2)        // mag 1
	betaIn.Add(&b)         // mag 2
	gammaIn.SquareVal(&x3) // mag 1
	gammaIn.Mul(&x3)       // mag 1
	gammaIn.Add(&b)        // mag 2

	alphaQuad := y1.SquareRootVal(&alphaIn)
	betaQuad := y2.SquareRootVal(&betaIn)
	y3.SquareRootVal(&gammaIn)

	switch {
	case alphaQuad:
	case betaQuad:
		x1, y1 = x2, y2
	default:
		x1, y1 = x3, y3
	}

	ge.X = x1
	ge.Y = y1
	ge.Z.SetInt(1)

	tmp.NegateVal(&ge.Y, 1)
	if t.IsOdd() {
		ge.Y = tmp
	}
	ge.X.Normalize()
	ge.Y.Normalize()
	return
}
