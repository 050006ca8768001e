/*
Package mw implements the secp256k1 primitives a Mimblewimble wallet needs to
build transactions: private and public key operations, switch-commitment
blinding factors, Pedersen commitments, 64-bit Bulletproof range proofs and
single-signer partial aggregate signatures.

All operations hang off a Context. A Context owns a randomized base-point
multiplier, the 256-entry Bulletproof generator table and a pool of scratch
spaces, and is immutable once built, so one Context can be shared by any number
of goroutines:

	ctx, err := mw.NewContext(nil)
	if err != nil {
		// entropy or generator setup failed, nothing can be used
	}
	blind, err := ctx.BlindingFactor(&key, "1500000000")
	commit, err := ctx.Commitment(&blind, "1500000000")

Default returns a lazily built process-wide Context for callers that do not
want to manage one, and InitializingSucceeded reports whether it is usable.

Amounts are accepted both as uint64 and as strict decimal strings; a string
that is not a base 10 number in [0, 2^64) fails before any curve arithmetic.

Every failing operation returns the zero value for its output and an error
wrapping one of the ErrorKind constants, so callers can use errors.Is. Secret
intermediates are wiped on all paths.
*/
package mw
