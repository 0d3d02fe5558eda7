package spatial

import (
	"errors"
	"log/slog"
	"math"

	"github.com/katalvlaran/routekernel/coordinate"
)

// ErrEmptyIndex is returned by build-time validation when Build is given no
// segments at all; querying an empty index is not an error (spec.md §7
// EmptyResult), only building one from zero input is refused so a caller
// cannot mistake it for a successful-but-trivial artifact.
var ErrEmptyIndex = errors.New("spatial: no segments to index")

// ErrChecksumMismatch is returned by Load when the leaf file and RAM-index
// file were not produced by the same build (spec.md §6 "Persistence
// contract").
var ErrChecksumMismatch = errors.New("spatial: leaf file and ram-index file checksum mismatch")

// InvalidNode mirrors edgebased.InvalidNode: the sentinel marking "no
// reverse direction" on a Segment. Kept as its own constant (rather than
// importing edgebased) so spatial has no dependency on the edge-based
// graph package, matching the scc/edgebased decoupling.
const InvalidNode uint32 = 1<<32 - 1

// InvalidWeight mirrors edgebased.InvalidWeight.
const InvalidWeight uint32 = 1<<32 - 1

// Segment is one EdgeBasedNodeSegment record (spec.md §4.6): the straight
// span between an edge-based node's two endpoints, carrying both travel
// directions. One Segment per edgebased.Node — the same "one record per
// surviving forward edge, doubled id space for direction" simplification
// documented for C5 is reused here rather than exploding each node's
// internal geometry into sub-segments, since turn-eligible snapping only
// ever needs the endpoints of a traversal, not its interior shape.
type Segment struct {
	ID uint32

	Start, End coordinate.Coordinate

	ForwardNode, ReverseNode     uint32 // edge-based NodeID values; ReverseNode == InvalidNode if none
	ForwardWeight, ReverseWeight uint32 // ReverseWeight == InvalidWeight if ReverseNode == InvalidNode

	IsStartpoint bool
}

// Box is an axis-aligned bounding rectangle in web-mercator meters.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

func boxOf(p coordinate.Point) Box {
	return Box{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
}

func (b Box) union(o Box) Box {
	return Box{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

func (b Box) expand(p coordinate.Point) Box {
	return b.union(boxOf(p))
}

// Intersects reports whether b and o overlap, including touching edges.
func (b Box) Intersects(o Box) bool {
	return b.MinX <= o.MaxX && b.MaxX >= o.MinX && b.MinY <= o.MaxY && b.MaxY >= o.MinY
}

// distanceSq returns the squared distance from p to the nearest point of
// b (0 if p is inside b).
func (b Box) distanceSq(p coordinate.Point) float64 {
	dx := 0.0
	if p.X < b.MinX {
		dx = b.MinX - p.X
	} else if p.X > b.MaxX {
		dx = p.X - b.MaxX
	}
	dy := 0.0
	if p.Y < b.MinY {
		dy = b.MinY - p.Y
	} else if p.Y > b.MaxY {
		dy = p.Y - b.MaxY
	}
	return dx*dx + dy*dy
}

// PhantomNode is a segment match enriched for routing: the perpendicular
// foot of the query point on the segment, the fraction along it, and the
// per-direction edge-based node ids with prorated weights (spec.md §6,
// §4.6 "Query"). A direction is InvalidNode/InvalidWeight when the
// segment has no such direction, or when a bearing filter excluded it.
type PhantomNode struct {
	SegmentID uint32

	Snapped       coordinate.Coordinate
	FractionAlong float64 // 0 at Start, 1 at End

	ForwardNode, ReverseNode     uint32
	ForwardWeight, ReverseWeight uint32

	DistanceMeters float64
}

// kind discriminates a branch record's children.
type kind uint8

const (
	kindBranch kind = iota
	kindLeaf
)

// branchNode is one entry of the RAM-index file: a bounding box plus a
// contiguous run of children, all of the same kind (spec.md §6
// `ramIndex`).
type branchNode struct {
	Box        Box
	FirstChild uint32
	ChildCount uint16
	Kind       kind
}

// leaf is one entry of the leaf file: up to L segments (spec.md §6
// `fileIndex`).
type leaf struct {
	Box     Box
	Entries []Segment
}

// Option configures Index construction, following the teacher's
// functional-options idiom.
type Option func(*options)

type options struct {
	fanout       int
	leafCapacity int
	logger       *slog.Logger
}

// WithFanout sets F, the branch fanout (default 16).
func WithFanout(f int) Option {
	return func(o *options) {
		if f > 1 {
			o.fanout = f
		}
	}
}

// WithLeafCapacity sets L, the number of segments per leaf (default 64).
func WithLeafCapacity(l int) Option {
	return func(o *options) {
		if l > 0 {
			o.leafCapacity = l
		}
	}
}

// WithLogger attaches a structured logger for build-progress diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts ...Option) *options {
	o := &options{fanout: 16, leafCapacity: 64, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// QueryOption configures a single Nearest/NearestInRange call.
type QueryOption func(*queryOptions)

type queryOptions struct {
	bearing      float64
	bearingRange float64
	hasBearing   bool
}

// WithBearing restricts results to segments whose travel direction falls
// within bearing±bearingRange degrees (spec.md §4.6 "Query — bearing
// filter"). Forward and reverse directions are evaluated independently.
func WithBearing(bearingDegrees, rangeDegrees float64) QueryOption {
	return func(o *queryOptions) {
		o.bearing = bearingDegrees
		o.bearingRange = rangeDegrees
		o.hasBearing = true
	}
}

func newQueryOptions(opts ...QueryOption) *queryOptions {
	o := &queryOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
