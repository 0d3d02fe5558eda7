package nodegraph

import "errors"

// Sentinel errors for nodegraph operations.
var (
	// ErrSelfLoop indicates an edge whose source equals its target.
	ErrSelfLoop = errors.New("nodegraph: self-loop edges are not permitted")

	// ErrZeroWeight indicates a non-positive edge weight.
	ErrZeroWeight = errors.New("nodegraph: edge weight must be >= 1")

	// ErrNoDirection indicates an edge with neither forward nor backward
	// traversal allowed.
	ErrNoDirection = errors.New("nodegraph: edge must allow at least one direction")

	// ErrNodeOutOfRange indicates a node id outside [0, NodeCount).
	ErrNodeOutOfRange = errors.New("nodegraph: node id out of range")

	// ErrEdgeOverflow indicates the internal edge array would exceed the
	// EdgeID address space.
	ErrEdgeOverflow = errors.New("nodegraph: edge id space exhausted")
)

// NodeID indexes a node-based node (a road junction).
type NodeID uint32

// EdgeID indexes a slot in the backing edge array. A slot may be live or a
// tombstone; use Graph.IsDummy to test.
type EdgeID uint32

// InvalidNode is the sentinel NodeID used to mark a tombstoned edge slot's
// target, per spec.md §4.1.
const InvalidNode NodeID = 1<<32 - 1

// InvalidEdge is returned by Graph.FindEdge on a miss.
const InvalidEdge EdgeID = 1<<32 - 1

// Direction is a bitset of forward/backward traversability.
type Direction uint8

const (
	DirForward  Direction = 1 << 0
	DirBackward Direction = 1 << 1
	DirBoth               = DirForward | DirBackward
)

// Flags carries the per-edge boolean attributes of spec.md §3.
type Flags uint8

const (
	FlagRoundabout Flags = 1 << iota
	FlagAccessRestricted
	FlagIgnoreForSnapping
	FlagContraflow
	FlagIsSplit
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// EdgeData is the payload carried by every NodeBasedEdge (spec.md §3). It is
// stored once per directed traversal: an undirected road with both
// directions open occupies two edge slots, one per direction, both
// pointing at independent EdgeData so compression and restriction rewrites
// can diverge per direction.
type EdgeData struct {
	Weight     uint32 // traversal weight, >= 1
	Direction  Direction
	NameID     uint32
	RoadClass  int16
	Flags      Flags
	Reversed   bool // true if this slot represents the backward traversal of a bidirectional input edge
}

// InputEdge is the raw record used to Build a Graph: an undirected or
// one-way road segment between two nodes.
type InputEdge struct {
	Source, Target NodeID
	Data           EdgeData
}

func (e InputEdge) validate() error {
	if e.Source == e.Target {
		return ErrSelfLoop
	}
	if e.Data.Weight == 0 {
		return ErrZeroWeight
	}
	if e.Data.Direction == 0 {
		return ErrNoDirection
	}
	return nil
}
