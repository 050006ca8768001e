package keychain

import (
	"encoding/binary"
	"fmt"

	"github.com/ltcsuite/mwzkp/hasher"
	"github.com/ltcsuite/mwzkp/mw"
	"github.com/ltcsuite/mwzkp/secmem"
)

const (
	// RegularSwitchType marks outputs whose blinding factor went through
	// the switch commitment derivation.
	RegularSwitchType = 1

	// MaxMessagePath is the longest path that fits in a proof message.
	MaxMessagePath = (mw.ProofMessageSize - 4) / 4
)

// Keychain derives the per-output secrets of a wallet from its master key:
// blinding factors and commitments from child keys, and the range proof
// nonces from the master key and the commitment.
type Keychain struct {
	ctx  *mw.Context
	root *ExtendedKey
}

// New returns a Keychain for the master key derived from seed.
func New(ctx *mw.Context, seed []byte) (*Keychain, error) {
	root, err := NewMaster(ctx, seed)
	if err != nil {
		return nil, err
	}
	return &Keychain{ctx: ctx, root: root}, nil
}

// Root returns the master extended key.
func (kc *Keychain) Root() *ExtendedKey {
	return kc.root
}

// Zero wipes the master key.
func (kc *Keychain) Zero() {
	kc.root.Zero()
}

// BlindingFactor returns the switch commitment blinding factor of the
// output at path holding value.
func (kc *Keychain) BlindingFactor(path []uint32, value uint64) (
	mw.BlindingFactor, error) {

	child, err := kc.root.Derive(path...)
	if err != nil {
		return mw.BlindingFactor{}, err
	}
	defer child.Zero()
	return kc.ctx.BlindSwitch((*mw.BlindingFactor)(&child.key), value)
}

// Commitment returns the commitment of the output at path holding value.
func (kc *Keychain) Commitment(path []uint32, value uint64) (
	commit mw.Commitment, err error) {

	blind, err := kc.BlindingFactor(path, value)
	if err != nil {
		return commit, err
	}
	defer blind.Zero()
	return kc.ctx.Commit(&blind, value)
}

// nonce computes BLAKE2b(BLAKE2b(secret), key = commit) and checks the
// result is usable as a scalar.
func nonce(secret []byte, commit *mw.Commitment) (n mw.Nonce, err error) {
	var h [32]byte
	g := secmem.NewGuard(nil)
	defer func() { g.Release(err) }()
	g.Track(h[:])
	g.TrackOutput(n[:])

	if err := hasher.Compute(h[:], secret, nil); err != nil {
		return n, err
	}
	if err := hasher.Compute(n[:], h[:], commit[:]); err != nil {
		return n, err
	}
	if !mw.IsValidPrivateKey((*mw.PrivateKey)(&n)) {
		return n, fmt.Errorf("%w: nonce for commitment %x", ErrInvalidChild,
			commit[:])
	}
	return n, nil
}

// PrivateNonce returns the range proof private nonce of commit. It is
// derived from the master private key, so only the wallet can recover the
// blinding factor of its proofs.
func (kc *Keychain) PrivateNonce(commit *mw.Commitment) (mw.Nonce, error) {
	return nonce(kc.root.key[:], commit)
}

// RewindNonce returns the range proof rewind nonce of commit. It is derived
// from the master public key, so it can be handed to a view-only party that
// needs to recognize outputs and their values.
func (kc *Keychain) RewindNonce(commit *mw.Commitment) (mw.Nonce, error) {
	pk, err := kc.root.PublicKey()
	if err != nil {
		return mw.Nonce{}, err
	}
	return nonce(pk[:], commit)
}

// ProofMessage encodes the switch type and derivation path of an output:
//
//	0x00 0x00 | switch type | len(path) | path[0] ... (big-endian uint32)
//
// zero padded to the message size.
func ProofMessage(path []uint32) (msg mw.ProofMessage, err error) {
	if len(path) > MaxMessagePath {
		return msg, fmt.Errorf("%w: %d components do not fit in a proof "+
			"message", ErrInvalidPath, len(path))
	}
	msg[2] = RegularSwitchType
	msg[3] = byte(len(path))
	for i, p := range path {
		binary.BigEndian.PutUint32(msg[4+4*i:], p)
	}
	return msg, nil
}

// ParseProofMessage is the inverse of ProofMessage.
func ParseProofMessage(msg *mw.ProofMessage) (switchType byte, path []uint32,
	err error) {

	depth := int(msg[3])
	if msg[0] != 0 || msg[1] != 0 || depth > MaxMessagePath {
		return 0, nil, fmt.Errorf("%w: malformed proof message",
			ErrInvalidPath)
	}
	path = make([]uint32, depth)
	for i := range path {
		path[i] = binary.BigEndian.Uint32(msg[4+4*i:])
	}
	return msg[2], path, nil
}

// Bulletproof creates the range proof of the output at path holding value,
// with the nonces and message a wallet restoring from seed expects.
func (kc *Keychain) Bulletproof(path []uint32, value uint64) (
	proof mw.Bulletproof, err error) {

	msg, err := ProofMessage(path)
	if err != nil {
		return proof, err
	}
	blind, err := kc.BlindingFactor(path, value)
	if err != nil {
		return proof, err
	}
	defer blind.Zero()

	commit, err := kc.ctx.Commit(&blind, value)
	if err != nil {
		return proof, err
	}
	privateNonce, err := kc.PrivateNonce(&commit)
	if err != nil {
		return proof, err
	}
	defer privateNonce.Zero()
	rewindNonce, err := kc.RewindNonce(&commit)
	if err != nil {
		return proof, err
	}

	return kc.ctx.ProveRange(&blind, value, &rewindNonce, &privateNonce,
		&msg)
}

// Output is an output recognized by a Keychain.
type Output struct {
	Value uint64
	Path  []uint32
	Blind mw.BlindingFactor
}

// Rewind recognizes an output of this keychain from its commitment and
// range proof, recovering its value, derivation path and blinding factor.
func (kc *Keychain) Rewind(commit *mw.Commitment, proof *mw.Bulletproof) (
	*Output, error) {

	rewindNonce, err := kc.RewindNonce(commit)
	if err != nil {
		return nil, err
	}
	privateNonce, err := kc.PrivateNonce(commit)
	if err != nil {
		return nil, err
	}
	defer privateNonce.Zero()

	rw, err := kc.ctx.RewindRangeProof(commit, proof, &rewindNonce,
		&privateNonce)
	if err != nil {
		return nil, err
	}
	_, path, err := ParseProofMessage(&rw.Message)
	if err != nil {
		rw.Blind.Zero()
		return nil, err
	}
	return &Output{Value: rw.Value, Path: path, Blind: rw.Blind}, nil
}
