package mw

import (
	"encoding/binary"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ltcsuite/mwzkp/secmem"
	"github.com/minio/sha256-simd"
	"golang.org/x/crypto/chacha20"
)

// transcript is the running Fiat-Shamir hash of a range proof. Every
// challenge is read from its current state.
type transcript [32]byte

// mix sets the transcript to SHA256(transcript || data...).
func (t *transcript) mix(data ...[]byte) {
	h := sha256.New()
	h.Write(t[:])
	for _, d := range data {
		h.Write(d)
	}
	h.Sum(t[:0])
}

// update mixes in a pair of affine points: a byte holding the non-residue
// flags of their y coordinates (first point in bit 1) then both x
// coordinates.
func (t *transcript) update(l, r *secp256k1.JacobianPoint) {
	var parity byte
	if !hasQuadY(l) {
		parity |= 2
	}
	if !hasQuadY(r) {
		parity |= 1
	}
	lx, rx := l.X.Bytes(), r.X.Bytes()
	t.mix([]byte{parity}, lx[:], rx[:])
}

// challenge sets s from the transcript and reports whether it is a usable
// challenge, that is nonzero and below the group order.
func (t *transcript) challenge(s *secp256k1.ModNScalar) bool {
	return loadScalar(s, (*[32]byte)(t))
}

// serializePoints writes a bit vector of non-residue flags followed by the
// x coordinates of the affine points pts.
func serializePoints(out []byte, pts []secp256k1.JacobianPoint) {
	flagsLen := (len(pts) + 7) / 8
	clear(out[:flagsLen])
	for i := range pts {
		pts[i].X.PutBytesUnchecked(out[flagsLen+32*i:])
		if !hasQuadY(&pts[i]) {
			out[i/8] |= 1 << (i % 8)
		}
	}
}

// parsePoints is the inverse of serializePoints. It reports false when any
// x coordinate is not on the curve.
func parsePoints(pts []secp256k1.JacobianPoint, in []byte) bool {
	flagsLen := (len(pts) + 7) / 8
	for i := range pts {
		x := (*[32]byte)(in[flagsLen+32*i:])
		if !liftX(&pts[i], x, in[i/8]&(1<<(i%8)) != 0) {
			return false
		}
	}
	return true
}

// scalarChaCha20 expands seed into the pair of scalars with index idx. The
// ChaCha20 block for (seed, idx) is read as two big-endian scalars; when
// either overflows the group order the block is regenerated with the next
// overflow counter in the last nonce word.
func scalarChaCha20(r1, r2 *secp256k1.ModNScalar, seed *[32]byte, idx uint64) {
	var nonce [chacha20.NonceSize]byte
	var block [64]byte
	defer secmem.Zero(block[:])

	binary.LittleEndian.PutUint32(nonce[0:4], uint32(idx>>32))
	for overCount := uint32(0); ; overCount++ {
		binary.LittleEndian.PutUint32(nonce[8:12], overCount)
		cipher, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
		if err != nil {
			// Only reachable with a wrong key or nonce size.
			panic(err)
		}
		cipher.SetCounter(uint32(idx))
		clear(block[:])
		cipher.XORKeyStream(block[:], block[:])

		over1 := r1.SetBytes((*[32]byte)(block[:32]))
		over2 := r2.SetBytes((*[32]byte)(block[32:]))
		if over1|over2 == 0 {
			return
		}
	}
}
