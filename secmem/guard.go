package secmem

// Guard owns the secret buffers of a single operation. Buffers added with
// Track are always wiped by Release; buffers added with TrackOutput are only
// wiped when the operation failed, so a successful result survives.
//
// The usual pattern is
//
//	var g secmem.Guard
//	defer func() { g.Release(err) }()
//
// with a named error result.
type Guard struct {
	mem     Memory
	always  [][]byte
	outputs [][]byte
	funcs   []func()
}

// NewGuard returns a Guard that wipes through mem. The zero Guard uses
// Platform.
func NewGuard(mem Memory) *Guard {
	return &Guard{mem: mem}
}

// Track registers buffers that hold secrets for the duration of the
// operation only.
func (g *Guard) Track(bufs ...[]byte) {
	g.always = append(g.always, bufs...)
}

// TrackOutput registers output buffers that must not leak partial results
// when the operation fails.
func (g *Guard) TrackOutput(bufs ...[]byte) {
	g.outputs = append(g.outputs, bufs...)
}

// TrackFunc registers a cleanup that runs on every Release, typically a
// scalar's Zero method.
func (g *Guard) TrackFunc(fns ...func()) {
	g.funcs = append(g.funcs, fns...)
}

// Release wipes everything tracked. Outputs are wiped only when err is
// non-nil. A Guard can be reused after Release.
func (g *Guard) Release(err error) {
	mem := g.mem
	if mem == nil {
		mem = Platform
	}
	for _, b := range g.always {
		mem.Zero(b)
	}
	if err != nil {
		for _, b := range g.outputs {
			mem.Zero(b)
		}
	}
	for i := len(g.funcs) - 1; i >= 0; i-- {
		g.funcs[i]()
	}
	g.always, g.outputs, g.funcs = nil, nil, nil
}
