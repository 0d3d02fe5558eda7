package edgebased

import (
	"errors"

	"github.com/katalvlaran/routekernel/coordinate"
	"github.com/katalvlaran/routekernel/nodegraph"
)

// ErrInvalidWeight indicates a resolved edge-based weight of zero, which
// spec.md §4.5 classifies as a fatal data error (unlike restriction/barrier/
// U-turn rejections, which are counted, never fatal).
var ErrInvalidWeight = errors.New("edgebased: edge weight must be >= 1")

// NodeID indexes a directed traversal of a physical segment in the
// edge-based graph: for a Node at slice index i, ForwardID() == 2i is the
// forward-direction traversal and ReverseID() == 2i+1 is the reverse
// traversal (valid only when the Node has a reverse direction).
type NodeID uint32

// InvalidNode marks a Node field with no corresponding value (e.g. a
// one-way segment's reverse side).
const InvalidNode NodeID = 1<<32 - 1

// InvalidWeight marks a Node.ReverseWeight when the segment has no reverse
// direction, per spec.md §4.5 step 2 ("prevents them being considered as
// starting candidates in the reverse search").
const InvalidWeight uint32 = 1<<32 - 1

// Node is the EdgeBasedNode record (spec.md §4.5 step 2): one per surviving
// forward node-based edge.
type Node struct {
	Index int // this Node's position in Result.Nodes

	ForwardEdge nodegraph.EdgeID // the node-based forward edge this Node represents
	ReverseEdge nodegraph.EdgeID // nodegraph.InvalidEdge if this segment has no reverse direction

	U, V nodegraph.NodeID // original endpoints: ForwardEdge travels U -> V

	PackedGeometryID uint32 // shared geometry id from geometry.Container.ZipEdges, or a synthetic per-node id if zipping was not possible
	GeometryLength   int    // number of points recorded under PackedGeometryID

	ForwardWeight uint32
	ReverseWeight uint32 // InvalidWeight if ReverseEdge == nodegraph.InvalidEdge

	IsStartpoint bool // eligible as a snapping candidate (spec.md §4.5 step 2, §4.6 nearest-K)
}

// ForwardID returns this Node's edge-based id when traveled U -> V.
func (n Node) ForwardID() NodeID { return NodeID(n.Index * 2) }

// ReverseID returns this Node's edge-based id when traveled V -> U. Only
// meaningful when ReverseEdge != nodegraph.InvalidEdge.
func (n Node) ReverseID() NodeID { return NodeID(n.Index*2 + 1) }

// Edge is the EdgeBasedEdge record (spec.md §4.5 step 3h): a permitted turn
// from one directed segment traversal into another, weighted by the
// incoming segment's own weight plus any turn/signal/U-turn penalties.
type Edge struct {
	From, To NodeID
	Weight   uint32
}

// EdgeKey identifies one (from, via) incoming-edge pair for classification
// lookups (spec.md §4.5 step 4).
type EdgeKey struct {
	From, Via nodegraph.NodeID
}

// Classification is the per-incoming-edge BearingClass/EntryClass id pair
// (spec.md §4.5 step 4), deduplicated through BearingClassTable and
// EntryClassTable.
type Classification struct {
	BearingClassID uint32
	EntryClassID   uint32
}

// Stats accumulates the non-fatal rejection counters spec.md §4.5 requires
// ("accumulated into counters and reported, never fatal").
type Stats struct {
	NodeCount          int
	EdgeCount          int
	RestrictedTurns    int
	OnlyTurnMismatches int
	UTurnsRejected     int
	BarrierBlocked     int
}

// Result is the full output of Factory.Build.
type Result struct {
	Nodes           []Node
	Edges           []Edge
	Bearings        *BearingClassTable
	Entries         *EntryClassTable
	Classifications map[EdgeKey]Classification
	Stats           Stats
}

// TurnPenaltyFunc computes a turn penalty from the deviation from straight,
// in degrees (0 = straight through, 180 = full U-turn), per spec.md §9
// Open Question #2.
type TurnPenaltyFunc func(deviationDegrees float64) uint32

// TurnPenaltyContext carries lane/class metadata a richer penalty function
// may consult; the plain TurnPenaltyFunc remains the default (spec.md §9).
type TurnPenaltyContext struct {
	FromClass, ToClass int16
	FromLanes, ToLanes uint16
}

// TurnPenaltyFuncCtx is the context-aware variant of TurnPenaltyFunc.
type TurnPenaltyFuncCtx func(deviationDegrees float64, ctx TurnPenaltyContext) uint32

// CoordinateLookup resolves a node-based node to its geographic position,
// supplied by the caller (the node-based graph itself carries no
// coordinates — spec.md §3 scopes that to the artifact layer).
type CoordinateLookup func(nodegraph.NodeID) coordinate.Coordinate
