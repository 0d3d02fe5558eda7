package artifact

import "errors"

// Sentinel errors for artifact codec operations. Per spec.md §7 these are
// all InputCorruption: fatal, carrying the offending record where possible.
var (
	// ErrBadMagic indicates a stream whose magic tag does not match the
	// expected schema identifier.
	ErrBadMagic = errors.New("artifact: bad magic tag")

	// ErrUnsupportedVersion indicates a stream whose version tag this
	// codec does not know how to decode.
	ErrUnsupportedVersion = errors.New("artifact: unsupported schema version")

	// ErrNodeOutOfRange indicates an edge, barrier, traffic-light, or
	// restriction record referencing a node id outside [0, n).
	ErrNodeOutOfRange = errors.New("artifact: node id out of range")

	// ErrNonPositiveWeight indicates a length or weight field <= 0,
	// violating spec.md §6's input invariant.
	ErrNonPositiveWeight = errors.New("artifact: length/weight must be > 0")

	// ErrPayloadTooLarge indicates a bucket or record count exceeding
	// what the fixed-size length prefix can address.
	ErrPayloadTooLarge = errors.New("artifact: payload exceeds maximum size")
)

// Direction mirrors nodegraph.Direction's wire encoding for the input edge
// stream (spec.md §6): 0=bidirectional, 1=forward-only, 2=backward-only.
type Direction uint8

const (
	DirBoth     Direction = 0
	DirForward  Direction = 1
	DirBackward Direction = 2
)

// NodeRecord is one record of the input stream's node section:
// (external_id: u64, lat: i32, lon: i32) in 1e-6-degree fixed point.
type NodeRecord struct {
	ExternalID uint64
	Lat, Lon   int32
}

// EdgeRecord is one record of the input stream's edge section.
type EdgeRecord struct {
	Source, Target uint32
	Length         int32
	Direction      Direction
	Weight         uint32
	Type           int16
	NameID         uint32
	Flags          uint8
}

// RestrictionRecord is one record of the input stream's restriction
// section.
type RestrictionRecord struct {
	From, Via, To uint32
	IsOnly        bool
}

// InputGraph is the fully decoded input stream (spec.md §6): a
// node-based graph plus the out-of-band barrier, traffic-light, and
// restriction lists a build consumes alongside it.
type InputGraph struct {
	Nodes         []NodeRecord
	Edges         []EdgeRecord
	Barriers      []uint32
	TrafficLights []uint32
	Restrictions  []RestrictionRecord
}
