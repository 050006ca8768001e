package keychain

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ltcsuite/mwzkp/mw"
	"github.com/ltcsuite/mwzkp/secmem"
)

const (
	// SeedSize is the size of a wallet seed.
	SeedSize = 32

	// HardenedKeyStart is the index of the first hardened child key.
	HardenedKeyStart = 0x80000000
)

// masterKeySeed is the HMAC key used to derive the master extended key from
// a seed.
var masterKeySeed = []byte("IamVoldemort")

var (
	// ErrInvalidSeed is returned when a seed is not SeedSize bytes long.
	ErrInvalidSeed = errors.New("keychain: invalid seed length")

	// ErrUnusableSeed is returned when a seed derives an invalid master
	// key. The caller should pick another seed.
	ErrUnusableSeed = errors.New("keychain: unusable seed")

	// ErrInvalidChild is returned when a child index derives an invalid
	// key. The caller should skip to the next index.
	ErrInvalidChild = errors.New("keychain: the extended key at this " +
		"index is invalid")

	// ErrInvalidPath is returned for a malformed derivation path.
	ErrInvalidPath = errors.New("keychain: invalid derivation path")
)

// ExtendedKey is a private key together with the chain code used to derive
// its children.
type ExtendedKey struct {
	ctx       *mw.Context
	key       mw.PrivateKey
	chainCode [32]byte
	depth     uint8
}

// NewMaster derives the master extended key of seed:
//
//	I = HMAC-SHA512(Key = "IamVoldemort", Data = seed)
//
// with the private key in the left half of I and the chain code in the
// right half.
func NewMaster(ctx *mw.Context, seed []byte) (*ExtendedKey, error) {
	if len(seed) != SeedSize {
		return nil, ErrInvalidSeed
	}

	var sum [sha512.Size]byte
	defer secmem.Zero(sum[:])
	mac := hmac.New(sha512.New, masterKeySeed)
	mac.Write(seed)
	mac.Sum(sum[:0])

	k := &ExtendedKey{ctx: ctx}
	copy(k.key[:], sum[:32])
	copy(k.chainCode[:], sum[32:])
	if !mw.IsValidPrivateKey(&k.key) {
		k.Zero()
		return nil, ErrUnusableSeed
	}
	return k, nil
}

// Child derives the child key at index i. Indexes at or above
// HardenedKeyStart derive hardened children from the private key, the
// others derive from the public key:
//
//	I = HMAC-SHA512(Key = chainCode, Data = 0x00 || k || i)  hardened
//	I = HMAC-SHA512(Key = chainCode, Data = K || i)          normal
//
// The child private key is k + I[:32] and its chain code I[32:].
func (k *ExtendedKey) Child(i uint32) (*ExtendedKey, error) {
	var data [1 + 32 + 4]byte
	var sum [sha512.Size]byte
	defer secmem.Zero(data[:])
	defer secmem.Zero(sum[:])

	if i >= HardenedKeyStart {
		copy(data[1:], k.key[:])
	} else {
		pk, err := k.ctx.PublicKey(&k.key)
		if err != nil {
			return nil, err
		}
		copy(data[:], pk[:])
	}
	binary.BigEndian.PutUint32(data[33:], i)

	mac := hmac.New(sha512.New, k.chainCode[:])
	mac.Write(data[:])
	mac.Sum(sum[:0])

	child := &ExtendedKey{ctx: k.ctx, depth: k.depth + 1}
	copy(child.key[:], sum[:32])
	copy(child.chainCode[:], sum[32:])
	if !mw.IsValidPrivateKey(&child.key) {
		child.Zero()
		return nil, ErrInvalidChild
	}
	if err := k.ctx.AddPrivateKeys(&child.key, &k.key); err != nil {
		child.Zero()
		log.Debugf("Child %d rejected: %v", i, err)
		return nil, ErrInvalidChild
	}
	return child, nil
}

// Derive walks path from k, returning the last key.
func (k *ExtendedKey) Derive(path ...uint32) (*ExtendedKey, error) {
	cur := k
	for _, i := range path {
		next, err := cur.Child(i)
		if cur != k {
			cur.Zero()
		}
		if err != nil {
			return nil, err
		}
		cur = next
	}
	if cur == k {
		c := *k
		return &c, nil
	}
	return cur, nil
}

// PrivateKey returns a copy of the private key.
func (k *ExtendedKey) PrivateKey() mw.PrivateKey {
	return k.key
}

// PublicKey returns the public key of the private key.
func (k *ExtendedKey) PublicKey() (mw.PublicKey, error) {
	return k.ctx.PublicKey(&k.key)
}

// ChainCode returns a copy of the chain code.
func (k *ExtendedKey) ChainCode() [32]byte {
	return k.chainCode
}

// Depth returns the number of derivations from the master key.
func (k *ExtendedKey) Depth() uint8 {
	return k.depth
}

// Zero wipes the key and chain code.
func (k *ExtendedKey) Zero() {
	k.key.Zero()
	secmem.Zero(k.chainCode[:])
}

// ParsePath parses a derivation path such as "m/0'/1/2". A trailing ' or h
// marks a hardened index. The leading "m" is optional.
func ParsePath(s string) ([]uint32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "m"), "/")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "/")
	path := make([]uint32, 0, len(parts))
	for _, part := range parts {
		hardened := strings.HasSuffix(part, "'") ||
			strings.HasSuffix(part, "h")
		if hardened {
			part = part[:len(part)-1]
		}
		i, err := strconv.ParseUint(part, 10, 31)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, part)
		}
		if hardened {
			i += HardenedKeyStart
		}
		path = append(path, uint32(i))
	}
	return path, nil
}
