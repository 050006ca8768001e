package mw

import (
	"crypto/hmac"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ltcsuite/mwzkp/secmem"
	"github.com/minio/sha256-simd"
)

// hmacDRBG is the HMAC-SHA256 generator of RFC6979 section 3.2 as
// libsecp256k1 instantiates it for aggsig nonces: keyed once from a seed,
// then producing 32-byte blocks.
type hmacDRBG struct {
	k, v  [32]byte
	retry bool
}

func hmacSum(key []byte, data ...[]byte) (out [32]byte) {
	m := hmac.New(sha256.New, key)
	for _, d := range data {
		m.Write(d)
	}
	m.Sum(out[:0])
	return
}

func newHMACDRBG(seed []byte) *hmacDRBG {
	d := &hmacDRBG{}
	for i := range d.v {
		d.v[i] = 0x01
	}
	d.k = hmacSum(d.k[:], d.v[:], []byte{0x00}, seed)
	d.v = hmacSum(d.k[:], d.v[:])
	d.k = hmacSum(d.k[:], d.v[:], []byte{0x01}, seed)
	d.v = hmacSum(d.k[:], d.v[:])
	return d
}

func (d *hmacDRBG) generate(out *[32]byte) {
	if d.retry {
		d.k = hmacSum(d.k[:], d.v[:], []byte{0x00})
		d.v = hmacSum(d.k[:], d.v[:])
	}
	d.v = hmacSum(d.k[:], d.v[:])
	*out = d.v
	d.retry = true
}

func (d *hmacDRBG) zero() {
	secmem.Zero(d.k[:])
	secmem.Zero(d.v[:])
}

// PrivateNonce creates a secret signing nonce from fresh entropy. The nonce
// is negated when needed so that its public point has a quadratic residue
// y coordinate.
func (c *Context) PrivateNonce() (nonce Nonce, err error) {
	if err := c.check(); err != nil {
		return nonce, err
	}

	var seed, buf [32]byte
	var k secp256k1.ModNScalar
	var R secp256k1.JacobianPoint
	g := secmem.NewGuard(c.mem)
	defer func() { g.Release(err) }()
	g.Track(seed[:], buf[:])
	g.TrackFunc(k.Zero, R.X.Zero, R.Y.Zero, R.Z.Zero)
	g.TrackOutput(nonce[:])

	if err := c.mem.RandomFill(seed[:]); err != nil {
		return nonce, makeError(ErrEntropy, "unable to seed nonce: "+
			err.Error())
	}

	drbg := newHMACDRBG(seed[:])
	g.TrackFunc(drbg.zero)
	for {
		drbg.generate(&buf)
		if loadScalar(&k, &buf) {
			break
		}
	}

	c.baseMult(&k, &R)
	R.ToAffine()
	if !hasQuadY(&R) {
		k.Negate()
	}
	k.PutBytes((*[32]byte)(&nonce))
	return nonce, nil
}
