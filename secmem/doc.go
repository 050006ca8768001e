// Package secmem provides the secure memory primitives used by the rest of
// the module: constant-time zeroing of secret buffers, platform entropy and a
// Guard type that wipes tracked buffers on every exit path of an operation.
package secmem
