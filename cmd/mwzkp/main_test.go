package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// execute runs the command line args with file logging disabled and returns
// what the command printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app.out = &buf
	err := run(append([]string{"--nofilelogging", "-d", "warn"}, args...))
	return buf.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	require.NoError(t, err)
	return strings.TrimSpace(out)
}

func TestParseAndSetDebugLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"info", true},
		{"trace", true},
		{"MW=debug,KCHN=trace", true},
		{"MAIN=error", true},
		{"loud", false},
		{"MW", false},
		{"MW=debug,KCHN", false},
		{"WIRE=debug", false},
		{"MW=loud", false},
	}
	defer setLogLevels("warn")

	for _, test := range tests {
		err := parseAndSetDebugLevels(test.level)
		if test.valid {
			require.NoError(t, err, test.level)
		} else {
			require.Error(t, err, test.level)
		}
	}
}

func TestApplyInvalidConfig(t *testing.T) {
	cfg := newConfig()
	cfg.NoFileLog = true
	cfg.ScratchSize = -1
	_, err := cfg.apply()
	require.Error(t, err)

	cfg = newConfig()
	cfg.NoFileLog = true
	cfg.DebugLevel = "MW=loud"
	_, err = cfg.apply()
	require.Error(t, err)

	cfg = newConfig()
	cfg.NoFileLog = true
	cfg.DebugLevel = "warn"
	mwCfg, err := cfg.apply()
	require.NoError(t, err)
	require.Equal(t, cfg.ScratchSize, mwCfg.ScratchSize)
}

func TestPublicKeyCommand(t *testing.T) {
	out := mustExecute(t, "pubkey", "--key",
		strings.Repeat("00", 31)+"01")
	require.Equal(t, "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28"+
		"d959f2815b16f81798", out)

	_, err := execute(t, "pubkey", "--key", "zz")
	require.Error(t, err)
	_, err = execute(t, "pubkey", "--key", "0001")
	require.Error(t, err)
	_, err = execute(t, "pubkey", "--key", strings.Repeat("00", 32))
	require.Error(t, err)
	_, err = execute(t, "pubkey")
	require.Error(t, err)
}

func TestKeyArithmeticCommands(t *testing.T) {
	one := strings.Repeat("00", 31) + "01"
	two := strings.Repeat("00", 31) + "02"

	sum := mustExecute(t, "addkeys", "--key", one, "--tweak", one)
	require.Equal(t, two, sum)

	pubOne := mustExecute(t, "pubkey", "--key", one)
	pubTwo := mustExecute(t, "pubkey", "--key", two)
	combined := mustExecute(t, "combine", pubOne, pubOne)
	require.Equal(t, pubTwo, combined)

	_, err := execute(t, "combine")
	require.Error(t, err)
}

func TestCommitmentCommands(t *testing.T) {
	blind := strings.Repeat("11", 32)

	commit := mustExecute(t, "commit", "--blind", blind, "--amount", "5")
	require.Len(t, commit, 66)
	require.Contains(t, []string{"08", "09"}, commit[:2])

	_, err := execute(t, "commit", "--blind", blind, "--amount", "-5")
	require.Error(t, err)

	switched := mustExecute(t, "blind", "--key", blind, "--amount", "5")
	require.Len(t, switched, 64)
	require.NotEqual(t, blind, switched)

	pub := mustExecute(t, "pubkey", "--key", blind)
	converted := mustExecute(t, "tocommit", "--pubkey", pub)
	zero := mustExecute(t, "commit", "--blind", blind, "--amount", "0")
	require.Equal(t, zero, converted)
}

func TestRangeProofCommands(t *testing.T) {
	blind := strings.Repeat("11", 32)
	rewindNonce := strings.Repeat("22", 32)
	privateNonce := strings.Repeat("33", 32)
	message := strings.Repeat("ab", 20)

	commit := mustExecute(t, "commit", "--blind", blind, "--amount", "1000")
	proof := mustExecute(t, "bulletproof", "--blind", blind, "--amount",
		"1000", "--rewindnonce", rewindNonce, "--privatenonce",
		privateNonce, "--message", message)
	require.Len(t, proof, 2*675)

	out := mustExecute(t, "verify", "--commit", commit, "--proof", proof)
	require.Equal(t, "valid", out)

	other := mustExecute(t, "commit", "--blind", blind, "--amount", "1001")
	_, err := execute(t, "verify", "--commit", other, "--proof", proof)
	require.Error(t, err)

	out = mustExecute(t, "rewind", "--commit", commit, "--proof", proof,
		"--rewindnonce", rewindNonce)
	require.Contains(t, out, "amount:  1000")
	require.Contains(t, out, "message: "+message)
	require.NotContains(t, out, "blind:")

	out = mustExecute(t, "rewind", "--commit", commit, "--proof", proof,
		"--rewindnonce", rewindNonce, "--privatenonce", privateNonce)
	require.Contains(t, out, "blind:   "+blind)

	_, err = execute(t, "rewind", "--commit", commit, "--proof", proof,
		"--rewindnonce", privateNonce)
	require.Error(t, err)
}

func TestSignatureCommands(t *testing.T) {
	key := strings.Repeat("42", 32)
	msg := strings.Repeat("ab", 32)

	nonce := mustExecute(t, "nonce")
	require.Len(t, nonce, 64)

	pubKey := mustExecute(t, "pubkey", "--key", key)
	pubNonce := mustExecute(t, "pubkey", "--key", nonce)

	partial := mustExecute(t, "sign", "--key", key, "--msg", msg,
		"--nonce", nonce, "--pubkey", pubKey, "--pubnonce", pubNonce)
	require.Len(t, partial, 128)

	sig := mustExecute(t, "addsigs", "--pubnonce", pubNonce, partial)
	out := mustExecute(t, "verifysig", "--sig", sig, "--msg", msg,
		"--pubkey", pubKey)
	require.Equal(t, "valid", out)

	_, err := execute(t, "verifysig", "--sig", sig, "--msg",
		strings.Repeat("cd", 32), "--pubkey", pubKey)
	require.Error(t, err)
}

func TestHashCommand(t *testing.T) {
	out := mustExecute(t, "hash")
	require.Equal(t, "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787"+
		"faab45cdf12fe3a8", out)

	out = mustExecute(t, "hash", "--data", "616263", "--size", "64")
	require.Len(t, out, 128)

	_, err := execute(t, "hash", "--size", "65")
	require.Error(t, err)
	_, err = execute(t, "hash", "--key", strings.Repeat("00", 65))
	require.Error(t, err)
}

func TestDeriveCommand(t *testing.T) {
	seed := strings.Repeat("5a", 32)

	master := mustExecute(t, "derive", "--seed", seed)
	again := mustExecute(t, "derive", "--seed", seed, "--path", "m")
	require.Equal(t, master, again)
	require.Len(t, strings.Split(master, "\n"), 3)

	hardened := mustExecute(t, "derive", "--seed", seed, "--path", "m/0'")
	normal := mustExecute(t, "derive", "--seed", seed, "--path", "m/0")
	require.NotEqual(t, hardened, normal)
	require.NotEqual(t, master, normal)

	_, err := execute(t, "derive", "--seed", seed, "--path", "x/0")
	require.Error(t, err)
	_, err = execute(t, "derive", "--seed", "00")
	require.Error(t, err)
}

func TestUnknownCommand(t *testing.T) {
	_, err := execute(t, "bogus")
	require.Error(t, err)
}
