package mw

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

var (
	scalarSize = int(unsafe.Sizeof(secp256k1.ModNScalar{}))
	pointSize  = int(unsafe.Sizeof(secp256k1.JacobianPoint{}))
)

// ScratchSpace is the working memory of a single proof. It is handed out by
// the Context for the duration of one call and never shared between
// goroutines. Allocations are carved out of preallocated vectors and bounded
// by the configured byte budget.
type ScratchSpace struct {
	size int
	used int

	scalars    []secp256k1.ModNScalar
	points     []secp256k1.JacobianPoint
	nextScalar int
	nextPoint  int
}

func newScratchSpace(size int) *ScratchSpace {
	return &ScratchSpace{
		size:    size,
		scalars: make([]secp256k1.ModNScalar, size/scalarSize),
		points:  make([]secp256k1.JacobianPoint, size/pointSize),
	}
}

// Size returns the byte budget of the scratch space.
func (s *ScratchSpace) Size() int {
	return s.size
}

func (s *ScratchSpace) exhausted(want int) error {
	return makeError(ErrScratchExhausted, fmt.Sprintf("scratch space "+
		"needs %d more bytes, %d of %d in use", want, s.used, s.size))
}

// allocScalars returns n zeroed scalars from the budget.
func (s *ScratchSpace) allocScalars(n int) ([]secp256k1.ModNScalar, error) {
	want := n * scalarSize
	if s.used+want > s.size || s.nextScalar+n > len(s.scalars) {
		return nil, s.exhausted(want)
	}
	v := s.scalars[s.nextScalar : s.nextScalar+n : s.nextScalar+n]
	s.nextScalar += n
	s.used += want
	return v, nil
}

// allocPoints returns n points from the budget.
func (s *ScratchSpace) allocPoints(n int) ([]secp256k1.JacobianPoint, error) {
	want := n * pointSize
	if s.used+want > s.size || s.nextPoint+n > len(s.points) {
		return nil, s.exhausted(want)
	}
	v := s.points[s.nextPoint : s.nextPoint+n : s.nextPoint+n]
	s.nextPoint += n
	s.used += want
	return v, nil
}

// reset wipes everything handed out since the last reset.
func (s *ScratchSpace) reset() {
	for i := 0; i < s.nextScalar; i++ {
		s.scalars[i].Zero()
	}
	for i := 0; i < s.nextPoint; i++ {
		s.points[i] = secp256k1.JacobianPoint{}
	}
	s.nextScalar, s.nextPoint, s.used = 0, 0, 0
}

// scratchPool hands every in-flight proof its own ScratchSpace.
type scratchPool struct {
	size int
	pool sync.Pool
}

func newScratchPool(size int) *scratchPool {
	p := &scratchPool{size: size}
	p.pool.New = func() any {
		return newScratchSpace(size)
	}
	return p
}

// probe checks a scratch space can be created with the configured budget.
func (p *scratchPool) probe() error {
	if p.size <= 0 {
		return makeError(ErrNotReady, fmt.Sprintf("invalid scratch "+
			"space size %d", p.size))
	}
	p.put(p.get())
	return nil
}

func (p *scratchPool) get() *ScratchSpace {
	return p.pool.Get().(*ScratchSpace)
}

func (p *scratchPool) put(s *ScratchSpace) {
	s.reset()
	p.pool.Put(s)
}
