package mw

// ErrorKind identifies a kind of error. It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrNotReady indicates the Context failed to initialize and no
	// cryptographic operation may run.
	ErrNotReady = ErrorKind("ErrNotReady")

	// ErrEntropy indicates the platform random source failed.
	ErrEntropy = ErrorKind("ErrEntropy")

	// ErrInvalidAmount indicates an amount string that is not a base 10
	// unsigned 64-bit integer.
	ErrInvalidAmount = ErrorKind("ErrInvalidAmount")

	// ErrInvalidPrivateKey indicates a scalar that is zero, not below the
	// group order, or that produced an invalid result.
	ErrInvalidPrivateKey = ErrorKind("ErrInvalidPrivateKey")

	// ErrInvalidPublicKey indicates a public key that failed to parse or a
	// point sum at infinity.
	ErrInvalidPublicKey = ErrorKind("ErrInvalidPublicKey")

	// ErrInvalidCommitment indicates a commitment that failed to parse or
	// to be created.
	ErrInvalidCommitment = ErrorKind("ErrInvalidCommitment")

	// ErrInvalidNonce indicates a nonce that is not a valid scalar.
	ErrInvalidNonce = ErrorKind("ErrInvalidNonce")

	// ErrScratchExhausted indicates a proof needs more working memory than
	// the scratch space budget.
	ErrScratchExhausted = ErrorKind("ErrScratchExhausted")

	// ErrProofFailed indicates the prover hit a degenerate challenge or
	// produced an output of the wrong length.
	ErrProofFailed = ErrorKind("ErrProofFailed")

	// ErrInvalidProof indicates a range proof that does not verify or cannot
	// be rewound.
	ErrInvalidProof = ErrorKind("ErrInvalidProof")

	// ErrInvalidSignature indicates a signature that does not verify.
	ErrInvalidSignature = ErrorKind("ErrInvalidSignature")

	// ErrSelfVerify indicates a freshly produced signature failed its own
	// verification and was discarded.
	ErrSelfVerify = ErrorKind("ErrSelfVerify")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to a cryptographic operation. It has
// full support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
