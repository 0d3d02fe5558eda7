package artifact

import "hash/fnv"

// Checksum accumulates an FNV-1a digest over the byte records of one
// edges, nodes or geometry stream. A build records each stream's digest in
// the Manifest, and a later facade load recomputes it while decoding and
// compares it with the recorded value. A Checksum is constructed per
// stream rather than held as package state; spec.md §9 rules out global
// singleton state.
type Checksum struct {
	h hash64
}

type hash64 interface {
	Write(p []byte) (int, error)
	Sum64() uint64
}

// NewChecksum returns a fresh, empty accumulator.
func NewChecksum() *Checksum {
	return &Checksum{h: fnv.New64a()}
}

// Write folds b into the digest.
func (c *Checksum) Write(b []byte) { c.h.Write(b) }

// Sum64 returns the accumulated digest.
func (c *Checksum) Sum64() uint64 { return c.h.Sum64() }
