package mw

import (
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ltcsuite/mwzkp/secmem"
)

const (
	// DefaultScratchSize is the working memory budget of one scratch space.
	DefaultScratchSize = 30 * 1024

	// DefaultGenerators is the size of the Bulletproof generator table.
	DefaultGenerators = 256

	// seedSize is the size of the context randomization seed.
	seedSize = 32
)

// Config holds the tunables of a Context. The zero value selects the
// defaults.
type Config struct {
	// ScratchSize is the budget in bytes of every scratch space.
	ScratchSize int

	// Generators is the number of Bulletproof generators to derive. It
	// must be a power of two of at least twice the proof bit length.
	Generators int

	// Memory provides entropy and wiping. Nil selects secmem.Platform.
	Memory secmem.Memory
}

// Context is the shared state behind every operation of this package. It is
// immutable after NewContext returns and safe for concurrent use.
type Context struct {
	mem secmem.Memory

	// blind and unblind randomize base point multiplication: k*G is
	// computed as (k+blind)*G + unblind where unblind = -blind*G.
	blind   secp256k1.ModNScalar
	unblind secp256k1.JacobianPoint

	gens    *GeneratorTable
	scratch *scratchPool

	ready bool
}

// NewContext creates a Context. It draws a seed from the configured entropy
// source to randomize the context, derives the generator table and probes a
// scratch space. A non-nil error means the Context must not be used; the
// returned Context is still non-nil and reports Ready false.
func NewContext(cfg *Config) (*Context, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	c := &Context{mem: cfg.Memory}
	if c.mem == nil {
		c.mem = secmem.Platform
	}
	scratchSize := cfg.ScratchSize
	if scratchSize == 0 {
		scratchSize = DefaultScratchSize
	}
	numGens := cfg.Generators
	if numGens == 0 {
		numGens = DefaultGenerators
	}

	if err := c.randomize(); err != nil {
		log.Errorf("Context randomization failed: %v", err)
		return c, err
	}

	gens, err := NewGeneratorTable(numGens)
	if err != nil {
		log.Errorf("Generator table creation failed: %v", err)
		return c, err
	}
	c.gens = gens

	c.scratch = newScratchPool(scratchSize)
	if err := c.scratch.probe(); err != nil {
		log.Errorf("Scratch space creation failed: %v", err)
		return c, err
	}

	c.ready = true
	log.Debugf("Context ready: %d generators, %d byte scratch spaces",
		numGens, scratchSize)
	return c, nil
}

// randomize blinds base point multiplication with a fresh secret. The seed
// is wiped whatever the outcome.
func (c *Context) randomize() (err error) {
	var seed [seedSize]byte
	g := secmem.NewGuard(c.mem)
	defer func() { g.Release(err) }()
	g.Track(seed[:])

	if err := c.mem.RandomFill(seed[:]); err != nil {
		return makeError(ErrEntropy, "unable to seed context: "+err.Error())
	}

	// A seed at or above the group order is reduced; zero leaves the
	// multiplier unblinded, which libsecp256k1 also accepts.
	c.blind.SetBytes(&seed)

	var bg secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&c.blind, &bg)
	bg.ToAffine()
	bg.Y.Negate(1).Normalize()
	c.unblind = bg
	return nil
}

// Ready reports whether the context, its generator table and a scratch
// space were all created. No other operation may be used when it is false.
func (c *Context) Ready() bool {
	return c != nil && c.ready
}

// Generators returns the Bulletproof generator table.
func (c *Context) Generators() *GeneratorTable {
	return c.gens
}

func (c *Context) check() error {
	if !c.Ready() {
		return makeError(ErrNotReady, "context failed to initialize")
	}
	return nil
}

// baseMult sets result to k*G through the randomized multiplier.
func (c *Context) baseMult(k *secp256k1.ModNScalar, result *secp256k1.JacobianPoint) {
	var kb secp256k1.ModNScalar
	var kbG secp256k1.JacobianPoint
	kb.Add2(k, &c.blind)
	secp256k1.ScalarBaseMultNonConst(&kb, &kbG)
	secp256k1.AddNonConst(&kbG, &c.unblind, result)
	kb.Zero()
}

var (
	defaultOnce sync.Once
	defaultCtx  *Context
)

// Default returns the process-wide Context, creating it on first use. It is
// never nil; check Ready (or InitializingSucceeded) before using it.
func Default() *Context {
	defaultOnce.Do(func() {
		defaultCtx, _ = NewContext(nil)
	})
	return defaultCtx
}

// InitializingSucceeded reports whether the process-wide Context is usable.
func InitializingSucceeded() bool {
	return Default().Ready()
}
