package mw

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// PublicKey is a compressed secp256k1 point.
type PublicKey [33]byte

// point parses the key into p.
func (pk *PublicKey) point(p *secp256k1.JacobianPoint) error {
	key, err := secp256k1.ParsePubKey(pk[:])
	if err != nil {
		return makeError(ErrInvalidPublicKey, "malformed public key: "+
			err.Error())
	}
	key.AsJacobian(p)
	return nil
}

// IsValid reports whether pk parses as a point on the curve.
func (pk *PublicKey) IsValid() bool {
	var p secp256k1.JacobianPoint
	return pk.point(&p) == nil
}

func serializePublicKey(p *secp256k1.JacobianPoint) (pk PublicKey, err error) {
	if isInfinity(p) {
		return pk, makeError(ErrInvalidPublicKey, "point at infinity")
	}
	q := *p
	q.ToAffine()
	copy(pk[:], secp256k1.NewPublicKey(&q.X, &q.Y).SerializeCompressed())
	return pk, nil
}

// CombinePublicKeys returns the sum of keys. Keys are parsed in order and
// the first one that fails to parse fails the whole call. The sum must not
// be the point at infinity.
func (c *Context) CombinePublicKeys(keys []PublicKey) (PublicKey, error) {
	if err := c.check(); err != nil {
		return PublicKey{}, err
	}
	if len(keys) == 0 {
		return PublicKey{}, makeError(ErrInvalidPublicKey, "no public keys "+
			"to combine")
	}

	var sum secp256k1.JacobianPoint
	for i := range keys {
		var p secp256k1.JacobianPoint
		if err := keys[i].point(&p); err != nil {
			log.Debugf("Public key %d of %d rejected", i, len(keys))
			return PublicKey{}, makeError(ErrInvalidPublicKey,
				fmt.Sprintf("public key %d: %v", i, err))
		}
		sum = addPoints(&sum, &p)
	}
	return serializePublicKey(&sum)
}
