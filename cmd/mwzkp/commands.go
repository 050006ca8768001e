package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/ltcsuite/ltcd/chaincfg/chainhash"
	"github.com/ltcsuite/mwzkp/hasher"
	"github.com/ltcsuite/mwzkp/keychain"
	"github.com/ltcsuite/mwzkp/mw"
	"github.com/ltcsuite/mwzkp/secmem"
)

// app is the state shared by every command once the global options have
// been applied.
var app = struct {
	ctx *mw.Context
	out io.Writer
}{out: os.Stdout}

type command struct {
	name  string
	short string
	long  string
	data  flags.Commander
}

func newCommands() []command {
	return []command{
		{"pubkey", "Print the public key of a private key",
			"Print the compressed public key of --key.", &pubKeyCmd{}},
		{"addkeys", "Add two private keys",
			"Print --key + --tweak modulo the group order.", &addKeysCmd{}},
		{"combine", "Add public keys",
			"Print the sum of the public keys given as arguments.",
			&combineCmd{}},
		{"blind", "Derive a switch commitment blinding factor",
			"Print the blinding factor that binds --key to a switch " +
				"commitment for --amount.", &blindCmd{}},
		{"commit", "Commit to an amount",
			"Print the Pedersen commitment to --amount under --blind.",
			&commitCmd{}},
		{"tocommit", "Convert a public key to a commitment",
			"Print --pubkey re-encoded as a commitment.", &toCommitCmd{}},
		{"bulletproof", "Create a range proof",
			"Print a 64-bit range proof of --amount committed with --blind.",
			&bulletproofCmd{}},
		{"verify", "Verify a range proof",
			"Check --proof against --commit.", &verifyCmd{}},
		{"rewind", "Rewind a range proof",
			"Recover the amount, message and, with --privatenonce, the " +
				"blinding factor of a range proof.", &rewindCmd{}},
		{"nonce", "Create a private signing nonce",
			"Print a fresh private nonce.", &nonceCmd{}},
		{"sign", "Create a partial signature",
			"Print this signer's share of an aggregate signature of --msg.",
			&signCmd{}},
		{"addsigs", "Add partial signatures",
			"Print the aggregate signature of the partial signatures given " +
				"as arguments.", &addSigsCmd{}},
		{"verifysig", "Verify an aggregate signature",
			"Check --sig over --msg for --pubkey.", &verifySigCmd{}},
		{"hash", "Compute a BLAKE2b digest",
			"Print the BLAKE2b digest of --data, optionally keyed.",
			&hashCmd{}},
		{"derive", "Derive a child private key",
			"Print the private key, chain code and public key at --path " +
				"below the master key of --seed.", &deriveCmd{}},
	}
}

// decodeHex decodes s into out, which it must fill exactly.
func decodeHex(name, s string, out []byte) error {
	b, err := hex.DecodeString(s)
	defer secmem.Zero(b)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if len(b) != len(out) {
		return fmt.Errorf("invalid %s: want %d bytes, got %d", name,
			len(out), len(b))
	}
	copy(out, b)
	return nil
}

func printHex(b []byte) {
	fmt.Fprintln(app.out, hex.EncodeToString(b))
}

type pubKeyCmd struct {
	Key string `long:"key" required:"true" description:"Private key (hex)"`
}

func (c *pubKeyCmd) Execute(_ []string) error {
	var key mw.PrivateKey
	defer key.Zero()
	if err := decodeHex("key", c.Key, key[:]); err != nil {
		return err
	}
	pk, err := app.ctx.PublicKey(&key)
	if err != nil {
		return err
	}
	printHex(pk[:])
	return nil
}

type addKeysCmd struct {
	Key   string `long:"key" required:"true" description:"Private key (hex)"`
	Tweak string `long:"tweak" required:"true" description:"Private key to add (hex)"`
}

func (c *addKeysCmd) Execute(_ []string) error {
	var key, tweak mw.PrivateKey
	defer key.Zero()
	defer tweak.Zero()
	if err := decodeHex("key", c.Key, key[:]); err != nil {
		return err
	}
	if err := decodeHex("tweak", c.Tweak, tweak[:]); err != nil {
		return err
	}
	if err := app.ctx.AddPrivateKeys(&key, &tweak); err != nil {
		return err
	}
	printHex(key[:])
	return nil
}

type combineCmd struct {
	Args struct {
		PubKeys []string `positional-arg-name:"pubkey" required:"1"`
	} `positional-args:"yes" required:"yes"`
}

func (c *combineCmd) Execute(_ []string) error {
	keys := make([]mw.PublicKey, len(c.Args.PubKeys))
	for i, s := range c.Args.PubKeys {
		if err := decodeHex("public key", s, keys[i][:]); err != nil {
			return err
		}
	}
	sum, err := app.ctx.CombinePublicKeys(keys)
	if err != nil {
		return err
	}
	printHex(sum[:])
	return nil
}

type blindCmd struct {
	Key    string `long:"key" required:"true" description:"Blinding key (hex)"`
	Amount string `long:"amount" required:"true" description:"Amount in base units"`
}

func (c *blindCmd) Execute(_ []string) error {
	var key mw.BlindingFactor
	defer key.Zero()
	if err := decodeHex("key", c.Key, key[:]); err != nil {
		return err
	}
	blind, err := app.ctx.BlindingFactor(&key, c.Amount)
	if err != nil {
		return err
	}
	defer blind.Zero()
	printHex(blind[:])
	return nil
}

type commitCmd struct {
	Blind  string `long:"blind" required:"true" description:"Blinding factor (hex)"`
	Amount string `long:"amount" required:"true" description:"Amount in base units"`
}

func (c *commitCmd) Execute(_ []string) error {
	var blind mw.BlindingFactor
	defer blind.Zero()
	if err := decodeHex("blind", c.Blind, blind[:]); err != nil {
		return err
	}
	commit, err := app.ctx.Commitment(&blind, c.Amount)
	if err != nil {
		return err
	}
	printHex(commit[:])
	return nil
}

type toCommitCmd struct {
	PubKey string `long:"pubkey" required:"true" description:"Public key (hex)"`
}

func (c *toCommitCmd) Execute(_ []string) error {
	var pk mw.PublicKey
	if err := decodeHex("public key", c.PubKey, pk[:]); err != nil {
		return err
	}
	commit, err := app.ctx.PublicKeyToCommitment(&pk)
	if err != nil {
		return err
	}
	printHex(commit[:])
	return nil
}

type bulletproofCmd struct {
	Blind        string `long:"blind" required:"true" description:"Blinding factor (hex)"`
	Amount       string `long:"amount" required:"true" description:"Amount in base units"`
	RewindNonce  string `long:"rewindnonce" required:"true" description:"Nonce that can rewind the proof (hex)"`
	PrivateNonce string `long:"privatenonce" required:"true" description:"Nonce protecting the blinding factor (hex)"`
	Message      string `long:"message" description:"20 byte message to embed (hex)"`
}

func (c *bulletproofCmd) Execute(_ []string) error {
	var blind mw.BlindingFactor
	var rewindNonce, privateNonce mw.Nonce
	var msg mw.ProofMessage
	defer blind.Zero()
	defer privateNonce.Zero()
	if err := decodeHex("blind", c.Blind, blind[:]); err != nil {
		return err
	}
	if err := decodeHex("rewind nonce", c.RewindNonce, rewindNonce[:]); err != nil {
		return err
	}
	if err := decodeHex("private nonce", c.PrivateNonce, privateNonce[:]); err != nil {
		return err
	}
	if c.Message != "" {
		if err := decodeHex("message", c.Message, msg[:]); err != nil {
			return err
		}
	}
	proof, err := app.ctx.Bulletproof(&blind, c.Amount, &rewindNonce,
		&privateNonce, &msg)
	if err != nil {
		return err
	}
	printHex(proof[:])
	return nil
}

type verifyCmd struct {
	Commit string `long:"commit" required:"true" description:"Commitment (hex)"`
	Proof  string `long:"proof" required:"true" description:"Range proof (hex)"`
}

func (c *verifyCmd) Execute(_ []string) error {
	var commit mw.Commitment
	var proof mw.Bulletproof
	if err := decodeHex("commitment", c.Commit, commit[:]); err != nil {
		return err
	}
	if err := decodeHex("proof", c.Proof, proof[:]); err != nil {
		return err
	}
	if err := app.ctx.VerifyRangeProof(&commit, &proof); err != nil {
		return err
	}
	fmt.Fprintln(app.out, "valid")
	return nil
}

type rewindCmd struct {
	Commit       string `long:"commit" required:"true" description:"Commitment (hex)"`
	Proof        string `long:"proof" required:"true" description:"Range proof (hex)"`
	RewindNonce  string `long:"rewindnonce" required:"true" description:"Rewind nonce (hex)"`
	PrivateNonce string `long:"privatenonce" description:"Private nonce, to recover the blinding factor (hex)"`
}

func (c *rewindCmd) Execute(_ []string) error {
	var commit mw.Commitment
	var proof mw.Bulletproof
	var rewindNonce, privateNonce mw.Nonce
	defer privateNonce.Zero()
	if err := decodeHex("commitment", c.Commit, commit[:]); err != nil {
		return err
	}
	if err := decodeHex("proof", c.Proof, proof[:]); err != nil {
		return err
	}
	if err := decodeHex("rewind nonce", c.RewindNonce, rewindNonce[:]); err != nil {
		return err
	}
	var private *mw.Nonce
	if c.PrivateNonce != "" {
		if err := decodeHex("private nonce", c.PrivateNonce, privateNonce[:]); err != nil {
			return err
		}
		private = &privateNonce
	}

	rw, err := app.ctx.RewindRangeProof(&commit, &proof, &rewindNonce,
		private)
	if err != nil {
		return err
	}
	defer rw.Blind.Zero()
	fmt.Fprintf(app.out, "amount:  %d\n", rw.Value)
	fmt.Fprintf(app.out, "message: %x\n", rw.Message[:])
	if private != nil {
		fmt.Fprintf(app.out, "blind:   %x\n", rw.Blind[:])
	}
	return nil
}

type nonceCmd struct{}

func (c *nonceCmd) Execute(_ []string) error {
	nonce, err := app.ctx.PrivateNonce()
	if err != nil {
		return err
	}
	defer nonce.Zero()
	printHex(nonce[:])
	return nil
}

type signCmd struct {
	Key      string `long:"key" required:"true" description:"Private key (hex)"`
	Msg      string `long:"msg" required:"true" description:"32 byte message (hex)"`
	Nonce    string `long:"nonce" required:"true" description:"Private nonce (hex)"`
	PubKey   string `long:"pubkey" required:"true" description:"Aggregate public key (hex)"`
	PubNonce string `long:"pubnonce" required:"true" description:"Aggregate public nonce (hex)"`
}

func (c *signCmd) Execute(_ []string) error {
	var key mw.PrivateKey
	var nonce mw.Nonce
	var msg chainhash.Hash
	var pubKey, pubNonce mw.PublicKey
	defer key.Zero()
	defer nonce.Zero()
	if err := decodeHex("key", c.Key, key[:]); err != nil {
		return err
	}
	if err := decodeHex("message", c.Msg, msg[:]); err != nil {
		return err
	}
	if err := decodeHex("nonce", c.Nonce, nonce[:]); err != nil {
		return err
	}
	if err := decodeHex("public key", c.PubKey, pubKey[:]); err != nil {
		return err
	}
	if err := decodeHex("public nonce", c.PubNonce, pubNonce[:]); err != nil {
		return err
	}
	sig, err := app.ctx.PartialSingleSignerSignature(&key, &msg, &nonce,
		&pubKey, &pubNonce)
	if err != nil {
		return err
	}
	printHex(sig[:])
	return nil
}

type addSigsCmd struct {
	PubNonce string `long:"pubnonce" required:"true" description:"Aggregate public nonce (hex)"`
	Args     struct {
		Sigs []string `positional-arg-name:"signature" required:"1"`
	} `positional-args:"yes" required:"yes"`
}

func (c *addSigsCmd) Execute(_ []string) error {
	var pubNonce mw.PublicKey
	if err := decodeHex("public nonce", c.PubNonce, pubNonce[:]); err != nil {
		return err
	}
	sigs := make([]mw.Signature, len(c.Args.Sigs))
	for i, s := range c.Args.Sigs {
		if err := decodeHex("signature", s, sigs[i][:]); err != nil {
			return err
		}
	}
	sig, err := app.ctx.AddSignatures(sigs, &pubNonce)
	if err != nil {
		return err
	}
	printHex(sig[:])
	return nil
}

type verifySigCmd struct {
	Sig    string `long:"sig" required:"true" description:"Aggregate signature (hex)"`
	Msg    string `long:"msg" required:"true" description:"32 byte message (hex)"`
	PubKey string `long:"pubkey" required:"true" description:"Aggregate public key (hex)"`
}

func (c *verifySigCmd) Execute(_ []string) error {
	var sig mw.Signature
	var msg chainhash.Hash
	var pubKey mw.PublicKey
	if err := decodeHex("signature", c.Sig, sig[:]); err != nil {
		return err
	}
	if err := decodeHex("message", c.Msg, msg[:]); err != nil {
		return err
	}
	if err := decodeHex("public key", c.PubKey, pubKey[:]); err != nil {
		return err
	}
	if err := app.ctx.VerifySignature(&sig, &msg, &pubKey); err != nil {
		return err
	}
	fmt.Fprintln(app.out, "valid")
	return nil
}

type hashCmd struct {
	Data string `long:"data" description:"Input (hex)"`
	Key  string `long:"key" description:"Key of at most 64 bytes (hex)"`
	Size int    `long:"size" default:"32" description:"Digest size in bytes, 1 to 64"`
}

func (c *hashCmd) Execute(_ []string) error {
	data, err := hex.DecodeString(c.Data)
	if err != nil {
		return fmt.Errorf("invalid data: %w", err)
	}
	key, err := hex.DecodeString(c.Key)
	if err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}
	defer secmem.Zero(key)
	if c.Size < hasher.MinSize || c.Size > hasher.MaxSize {
		return hasher.ErrInvalidSize
	}
	out := make([]byte, c.Size)
	if err := hasher.Compute(out, data, key); err != nil {
		return err
	}
	printHex(out)
	return nil
}

type deriveCmd struct {
	Seed string `long:"seed" required:"true" description:"32 byte wallet seed (hex)"`
	Path string `long:"path" default:"m" description:"Derivation path, e.g. m/0'/1"`
}

func (c *deriveCmd) Execute(_ []string) error {
	seed := make([]byte, keychain.SeedSize)
	defer secmem.Zero(seed)
	if err := decodeHex("seed", c.Seed, seed); err != nil {
		return err
	}
	path, err := keychain.ParsePath(c.Path)
	if err != nil {
		return err
	}
	root, err := keychain.NewMaster(app.ctx, seed)
	if err != nil {
		return err
	}
	defer root.Zero()
	child, err := root.Derive(path...)
	if err != nil {
		return err
	}
	defer child.Zero()

	key, chainCode := child.PrivateKey(), child.ChainCode()
	defer key.Zero()
	pk, err := child.PublicKey()
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out, "private key: %x\n", key[:])
	fmt.Fprintf(app.out, "chain code:  %x\n", chainCode[:])
	fmt.Fprintf(app.out, "public key:  %x\n", pk[:])
	return nil
}
